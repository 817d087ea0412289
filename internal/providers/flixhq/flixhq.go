// Package flixhq implements the FlixHQ source. It finds a title on the
// site and hands its UpCloud and Vidcloud servers to the matching embeds.
package flixhq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
)

const (
	ID          = "flixhq"
	Rank        = 100
	DefaultBase = "flixhq.to"

	// maxSearchPages limits how many pages of search results to fetch.
	maxSearchPages = 3
)

// serverEmbeds maps a lowercased server name to the embed that resolves it.
var serverEmbeds = map[string]string{
	"upcloud":  "upcloud",
	"vidcloud": "vidcloud",
}

type flixHQ struct {
	baseURL string
}

// New returns the FlixHQ source for the given host, e.g. "flixhq.to".
func New(base string) *provider.Source {
	base = strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://")
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBase
	}
	f := &flixHQ{baseURL: "https://" + base}

	return &provider.Source{
		ID:          ID,
		Name:        "FlixHQ",
		Rank:        Rank,
		Flags:       []features.Flag{features.CORSAllowed},
		ScrapeMovie: f.scrapeMovie,
		ScrapeShow:  f.scrapeShow,
	}
}

func (f *flixHQ) scrapeMovie(ctx context.Context, sc *provider.ScrapeContext) (*provider.SourceOutput, error) {
	match, err := f.find(ctx, sc)
	if err != nil {
		return nil, err
	}
	sc.Progress(30)

	numID := extractNumericID(match.ID)
	if err := fetch.ValidateNumericID(numID); err != nil {
		return nil, fmt.Errorf("content %q: %w", match.ID, err)
	}
	servers, err := f.servers(ctx, sc.ProxiedFetcher, fetch.BuildURL("/ajax/movie/episodes", numID))
	if err != nil {
		return nil, err
	}
	sc.Progress(60)

	return f.embeds(ctx, sc, servers)
}

func (f *flixHQ) scrapeShow(ctx context.Context, sc *provider.ScrapeContext) (*provider.SourceOutput, error) {
	match, err := f.find(ctx, sc)
	if err != nil {
		return nil, err
	}
	sc.Progress(20)

	numID := extractNumericID(match.ID)
	if err := fetch.ValidateNumericID(numID); err != nil {
		return nil, fmt.Errorf("content %q: %w", match.ID, err)
	}

	doc, err := f.document(ctx, sc.ProxiedFetcher, fetch.BuildURL("/ajax/v2/tv/seasons", numID))
	if err != nil {
		return nil, fmt.Errorf("getting seasons: %w", err)
	}
	want := sc.Media.Season.Number
	s, ok := lo.Find(parseSeasons(doc), func(s season) bool { return s.Number == want })
	if !ok {
		return nil, provider.NotFound("season %d not found", want)
	}
	if err := fetch.ValidateID(s.ID); err != nil {
		return nil, fmt.Errorf("invalid season ID: %w", err)
	}
	sc.Progress(40)

	doc, err = f.document(ctx, sc.ProxiedFetcher, fetch.BuildURL("/ajax/v2/season/episodes", s.ID))
	if err != nil {
		return nil, fmt.Errorf("getting episodes: %w", err)
	}
	wantEp := sc.Media.Episode.Number
	ep, ok := lo.Find(parseEpisodes(doc), func(e episode) bool { return e.Number == wantEp })
	if !ok {
		return nil, provider.NotFound("episode %d of season %d not found", wantEp, want)
	}
	if err := fetch.ValidateID(ep.ID); err != nil {
		return nil, fmt.Errorf("invalid episode ID: %w", err)
	}

	servers, err := f.servers(ctx, sc.ProxiedFetcher, fetch.BuildURL("/ajax/v2/episode/servers", ep.ID))
	if err != nil {
		return nil, err
	}
	sc.Progress(60)

	return f.embeds(ctx, sc, servers)
}

// find searches for the query title and picks the result whose type,
// title and (when known) year match.
func (f *flixHQ) find(ctx context.Context, sc *provider.ScrapeContext) (searchResult, error) {
	q := sc.Media
	if strings.TrimSpace(q.Title) == "" {
		return searchResult{}, provider.NotFound("empty title")
	}

	searchPath := "/search/" + fetch.EncodeQuery(q.Title)
	want := normalizeTitle(q.Title)
	matches := func(r searchResult) bool {
		if r.Type != q.Type || normalizeTitle(r.Title) != want {
			return false
		}
		return q.ReleaseYear == 0 || r.Year == 0 || r.Year == q.ReleaseYear
	}

	for page := 1; page <= maxSearchPages; page++ {
		req := fetch.Request{BaseURL: f.baseURL, URL: searchPath}
		if page > 1 {
			req.Query = map[string]string{"page": fmt.Sprint(page)}
		}
		doc, err := fetch.Document(ctx, sc.ProxiedFetcher, req)
		if err != nil {
			if page == 1 {
				return searchResult{}, fmt.Errorf("searching for %q: %w", q.Title, err)
			}
			break // keep what the first pages gave us
		}

		if r, ok := lo.Find(parseSearchResults(doc), matches); ok {
			if err := fetch.ValidateID(r.ID); err != nil {
				return searchResult{}, fmt.Errorf("invalid content ID: %w", err)
			}
			return r, nil
		}
		if page >= parseLastPage(doc) {
			break
		}
	}

	return searchResult{}, provider.NotFound("no results for %q", q.DisplayTitle())
}

func (f *flixHQ) servers(ctx context.Context, fetcher fetch.Fetcher, path string) ([]server, error) {
	doc, err := f.document(ctx, fetcher, path)
	if err != nil {
		return nil, fmt.Errorf("getting servers: %w", err)
	}
	return parseServers(doc), nil
}

// embeds resolves the embed link of every server an embed can handle.
// A server whose link cannot be fetched is skipped.
func (f *flixHQ) embeds(ctx context.Context, sc *provider.ScrapeContext, servers []server) (*provider.SourceOutput, error) {
	var (
		refs    []provider.EmbedRef
		lastErr error
	)

	for _, srv := range servers {
		embedID, ok := serverEmbeds[strings.ToLower(srv.Name)]
		if !ok {
			continue
		}
		link, err := f.embedURL(ctx, sc.ProxiedFetcher, srv.ID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = err
			continue
		}
		refs = append(refs, provider.EmbedRef{EmbedID: embedID, URL: link})
	}

	if len(refs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, provider.NotFound("no supported servers")
	}
	sc.Progress(90)
	return &provider.SourceOutput{Embeds: refs}, nil
}

// embedURL returns the embed URL for a given server. The endpoint answers
// {"type":"iframe","link":"https://...","sources":[],"tracks":[],"title":""}.
func (f *flixHQ) embedURL(ctx context.Context, fetcher fetch.Fetcher, serverID string) (string, error) {
	if err := fetch.ValidateID(serverID); err != nil {
		return "", fmt.Errorf("invalid server ID: %w", err)
	}

	var result struct {
		Link string `json:"link"`
	}
	req := fetch.Request{BaseURL: f.baseURL, URL: fetch.BuildURL("/ajax/episode/sources", serverID)}
	if err := fetch.JSON(ctx, fetcher, req, &result); err != nil {
		return "", fmt.Errorf("getting embed URL: %w", err)
	}
	if result.Link == "" {
		return "", fmt.Errorf("no embed URL found for server %s", serverID)
	}
	return result.Link, nil
}

func (f *flixHQ) document(ctx context.Context, fetcher fetch.Fetcher, path string) (*goquery.Document, error) {
	return fetch.Document(ctx, fetcher, fetch.Request{
		BaseURL: f.baseURL,
		URL:     path,
		Headers: map[string]string{"X-Requested-With": "XMLHttpRequest"},
	})
}
