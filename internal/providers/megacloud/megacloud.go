// Package megacloud implements the UpCloud and VidCloud embeds. Both are
// MegaCloud players: the embed page carries a client key that unlocks the
// getSources endpoint listing the HLS playlists. Encrypted listings are
// decrypted with the published MegaCloud key.
package megacloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
)

const (
	UpCloudID    = "upcloud"
	UpCloudRank  = 400
	VidCloudID   = "vidcloud"
	VidCloudRank = 401

	// referer is the site the players expect to be framed by.
	referer = "https://flixhq.to/"

	keysURL = "https://raw.githubusercontent.com/yogesh-hacker/MegacloudKeys/refs/heads/main/keys.json"
)

var embedPrefixPattern = regexp.MustCompile(`^embed-\d+$`)

// player caches the MegaCloud key once fetched.
type player struct {
	mu      sync.Mutex
	megaKey string
}

// UpCloud returns the UpCloud embed.
func UpCloud() *provider.Embed {
	p := &player{}
	return &provider.Embed{ID: UpCloudID, Name: "UpCloud", Rank: UpCloudRank, Scrape: p.scrape}
}

// VidCloud returns the VidCloud embed.
func VidCloud() *provider.Embed {
	p := &player{}
	return &provider.Embed{ID: VidCloudID, Name: "VidCloud", Rank: VidCloudRank, Scrape: p.scrape}
}

// sourcesResponse is the getSources payload. Sources is a JSON array when
// plaintext and a string when encrypted.
type sourcesResponse struct {
	Sources   json.RawMessage `json:"sources"`
	Encrypted bool            `json:"encrypted"`
}

type source struct {
	File  string `json:"file"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

func (p *player) scrape(ctx context.Context, ec *provider.EmbedContext) (*provider.EmbedOutput, error) {
	if err := fetch.ValidateURL(ec.URL); err != nil {
		return nil, fmt.Errorf("invalid embed URL: %w", err)
	}
	domain, prefix, sourceID, err := parseEmbedURL(ec.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing embed URL: %w", err)
	}

	page, err := fetch.Text(ctx, ec.ProxiedFetcher, fetch.Request{
		URL: fmt.Sprintf("https://%s/%s/v3/e-1/%s?z=", domain, prefix, url.PathEscape(sourceID)),
		Headers: map[string]string{
			"Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Referer": referer,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching embed page: %w", err)
	}
	ec.Progress(30)

	clientKey, err := extractClientKey(page)
	if err != nil {
		return nil, fmt.Errorf("extracting client key: %w", err)
	}

	var resp sourcesResponse
	err = fetch.JSON(ctx, ec.ProxiedFetcher, fetch.Request{
		URL:   fmt.Sprintf("https://%s/%s/v3/e-1/getSources", domain, prefix),
		Query: map[string]string{"id": sourceID, "_k": clientKey},
		Headers: map[string]string{
			"Referer":          ec.URL,
			"X-Requested-With": "XMLHttpRequest",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetching sources: %w", err)
	}
	ec.Progress(70)

	listing := resp.Sources
	if resp.Encrypted {
		plain, err := p.decrypt(ctx, ec, resp.Sources, clientKey)
		if err != nil {
			return nil, err
		}
		listing = json.RawMessage(plain)
	}

	var sources []source
	if err := json.Unmarshal(listing, &sources); err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}
	stream, ok := pickStream(sources)
	if !ok {
		return nil, provider.NotFound("no sources found")
	}

	return &provider.EmbedOutput{Stream: stream}, nil
}

func (p *player) decrypt(ctx context.Context, ec *provider.EmbedContext, raw json.RawMessage, clientKey string) (string, error) {
	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("parsing encrypted sources: %w", err)
	}
	megaKey, err := p.key(ctx, ec)
	if err != nil {
		return "", fmt.Errorf("fetching megacloud key: %w", err)
	}
	plain, err := decryptSources(payload, clientKey, megaKey)
	if err != nil {
		return "", fmt.Errorf("decrypting sources: %w", err)
	}
	return plain, nil
}

// key returns the MegaCloud key, fetching it on first use. Failed
// fetches are not cached.
func (p *player) key(ctx context.Context, ec *provider.EmbedContext) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.megaKey != "" {
		return p.megaKey, nil
	}

	var keys map[string]string
	if err := fetch.JSON(ctx, ec.Fetcher, fetch.Request{URL: keysURL}, &keys); err != nil {
		return "", err
	}
	if keys["mega"] == "" {
		return "", errors.New("mega key not found in keys response")
	}
	p.megaKey = keys["mega"]
	return p.megaKey, nil
}

// pickStream prefers an HLS source. Otherwise the first file becomes a
// single-quality file stream.
func pickStream(sources []source) (media.Stream, bool) {
	sources = lo.Filter(sources, func(s source, _ int) bool { return s.File != "" })
	if len(sources) == 0 {
		return media.Stream{}, false
	}
	if hls, ok := lo.Find(sources, func(s source) bool {
		return s.Type == "hls" || strings.Contains(s.File, ".m3u8")
	}); ok {
		return media.NewHLSStream(hls.File, features.CORSAllowed), true
	}

	quality, _ := media.ParseQuality(sources[0].Label)
	return media.NewFileStream(map[media.Quality]media.File{
		quality: {Type: "mp4", URL: sources[0].File},
	}, features.CORSAllowed), true
}

// parseEmbedURL extracts domain, embed prefix, and source ID from an embed URL.
// Example: https://streameeeeee.site/embed-1/v3/e-1/AbCdEf?z= -> ("streameeeeee.site", "embed-1", "AbCdEf")
func parseEmbedURL(embedURL string) (domain, embedPrefix, sourceID string, err error) {
	u, err := url.Parse(embedURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing URL: %w", err)
	}
	domain = u.Host

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	embedPrefix = parts[0]
	if !embedPrefixPattern.MatchString(embedPrefix) {
		embedPrefix = "embed-2"
	}

	sourceID = parts[len(parts)-1]
	if sourceID == "" || domain == "" || len(parts) < 2 {
		return "", "", "", fmt.Errorf("could not extract source ID from %q", embedURL)
	}

	return domain, embedPrefix, sourceID, nil
}
