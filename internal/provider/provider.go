// Package provider defines the contracts content providers implement and
// builds the provider list available for a run.
package provider

import (
	"context"

	"github.com/samber/mo"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

// ScrapeContext is handed to a source scrape.
type ScrapeContext struct {
	Fetcher        fetch.Fetcher
	ProxiedFetcher fetch.Fetcher
	// Progress reports completion of the current attempt in percent.
	Progress func(percentage int)
	Media    media.Query
}

// EmbedContext is handed to an embed scrape.
type EmbedContext struct {
	Fetcher        fetch.Fetcher
	ProxiedFetcher fetch.Fetcher
	Progress       func(percentage int)
	URL            string
}

// EmbedRef points at an embed provider that should resolve URL.
type EmbedRef struct {
	EmbedID string `json:"embedId"`
	URL     string `json:"url"`
}

// SourceOutput is what a source found: a direct stream, or embed
// references to try instead.
type SourceOutput struct {
	Stream mo.Option[media.Stream] `json:"stream"`
	Embeds []EmbedRef              `json:"embeds"`
}

// EmbedOutput is what an embed resolved to.
type EmbedOutput struct {
	Stream media.Stream `json:"stream"`
}

// ScrapeFunc scrapes a source for the query in sc.Media.
type ScrapeFunc func(ctx context.Context, sc *ScrapeContext) (*SourceOutput, error)

// EmbedFunc resolves sc.URL into a stream.
type EmbedFunc func(ctx context.Context, sc *EmbedContext) (*EmbedOutput, error)

// Capability is the set of media types a source can scrape.
type Capability int

const (
	NoCapability Capability = iota
	MovieCapable
	ShowCapable
	Both
)

func (c Capability) String() string {
	switch c {
	case MovieCapable:
		return "movie"
	case ShowCapable:
		return "show"
	case Both:
		return "movie+show"
	default:
		return "none"
	}
}

func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Source finds streams or embed links for a title. A nil ScrapeMovie or
// ScrapeShow means the source does not handle that media type.
type Source struct {
	ID       string
	Name     string
	Rank     int
	Disabled bool
	Flags    []features.Flag

	ScrapeMovie ScrapeFunc
	ScrapeShow  ScrapeFunc
}

// Capability reports which media types the source handles.
func (s *Source) Capability() Capability {
	switch {
	case s.ScrapeMovie != nil && s.ScrapeShow != nil:
		return Both
	case s.ScrapeMovie != nil:
		return MovieCapable
	case s.ScrapeShow != nil:
		return ShowCapable
	default:
		return NoCapability
	}
}

// ScraperFor returns the scrape operation for t, or nil.
func (s *Source) ScraperFor(t media.Type) ScrapeFunc {
	switch t {
	case media.Movie:
		return s.ScrapeMovie
	case media.Show:
		return s.ScrapeShow
	default:
		return nil
	}
}

// Embed resolves a single embed URL into a stream.
type Embed struct {
	ID       string
	Name     string
	Rank     int
	Disabled bool

	Scrape EmbedFunc
}
