// Package scraper bundles the provider registry, fetchers and enabled
// features into one handle that runs resolutions.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/BeamlakAschalew/movie-providers/internal/events"
	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
	"github.com/BeamlakAschalew/movie-providers/internal/providers"
	"github.com/BeamlakAschalew/movie-providers/internal/runner"
)

// ErrNoFetcher is returned by New when Options.Fetcher is nil.
var ErrNoFetcher = errors.New("a fetcher is required")

// Options configures Controls.
type Options struct {
	Fetcher fetch.Fetcher
	// ProxiedFetcher is used for requests that need a proxy. Defaults to
	// Fetcher.
	ProxiedFetcher fetch.Fetcher
	Features       features.Set

	// Sources and Embeds replace the built-in providers when non-nil.
	Sources    []*provider.Source
	Embeds     []*provider.Embed
	FlixHQBase string

	// Logger, when set, receives every run event.
	Logger logrus.FieldLogger
}

// Kind tells sources and embeds apart in Metadata.
type Kind string

const (
	KindSource Kind = "source"
	KindEmbed  Kind = "embed"
)

// Metadata describes a registered provider.
type Metadata struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Rank       int                 `json:"rank"`
	Kind       Kind                `json:"type"`
	Flags      []features.Flag     `json:"flags,omitempty"`
	Capability provider.Capability `json:"mediaTypes,omitempty"`
}

// Controls runs resolutions against one registry.
type Controls struct {
	list     *provider.List
	fetcher  fetch.Fetcher
	proxied  fetch.Fetcher
	features features.Set
	log      logrus.FieldLogger
}

// New validates the providers and returns Controls ready to run.
func New(opts Options) (*Controls, error) {
	if opts.Fetcher == nil {
		return nil, ErrNoFetcher
	}
	proxied := opts.ProxiedFetcher
	if proxied == nil {
		proxied = opts.Fetcher
	}

	sources, embeds := opts.Sources, opts.Embeds
	if sources == nil {
		sources = providers.Sources(opts.FlixHQBase)
	}
	if embeds == nil {
		embeds = providers.Embeds()
	}

	list, err := provider.Build(sources, embeds, opts.Features)
	if err != nil {
		return nil, fmt.Errorf("building provider list: %w", err)
	}

	return &Controls{
		list:     list,
		fetcher:  opts.Fetcher,
		proxied:  proxied,
		features: opts.Features,
		log:      opts.Logger,
	}, nil
}

// RunOptions configures RunAll.
type RunOptions struct {
	Media       media.Query
	SourceOrder []string
	EmbedOrder  []string
	Events      events.Sink
}

// RunAll walks every source and embed and returns the first accepted
// stream, or nil when none was found.
func (c *Controls) RunAll(ctx context.Context, opts RunOptions) (*runner.Output, error) {
	return runner.Run(ctx, c.list, runner.Options{
		Fetcher:        c.fetcher,
		ProxiedFetcher: c.proxied,
		Features:       c.features,
		SourceOrder:    opts.SourceOrder,
		EmbedOrder:     opts.EmbedOrder,
		Events:         c.sink(opts.Events),
		Media:          opts.Media,
	})
}

// RunSource runs a single source.
func (c *Controls) RunSource(ctx context.Context, id string, q media.Query, sink events.Sink) (*provider.SourceOutput, error) {
	return runner.RunSource(ctx, c.list, runner.SourceRunOptions{
		ID:             id,
		Fetcher:        c.fetcher,
		ProxiedFetcher: c.proxied,
		Features:       c.features,
		Events:         c.sink(sink),
		Media:          q,
	})
}

// RunEmbed resolves url with a single embed.
func (c *Controls) RunEmbed(ctx context.Context, id, url string, sink events.Sink) (*provider.EmbedOutput, error) {
	return runner.RunEmbed(ctx, c.list, runner.EmbedRunOptions{
		ID:             id,
		URL:            url,
		Fetcher:        c.fetcher,
		ProxiedFetcher: c.proxied,
		Features:       c.features,
		Events:         c.sink(sink),
	})
}

// Sources lists the admitted sources in registry order.
func (c *Controls) Sources() []Metadata {
	return lo.Map(c.list.Sources, func(s *provider.Source, _ int) Metadata { return sourceMetadata(s) })
}

// Embeds lists the registered embeds in registry order.
func (c *Controls) Embeds() []Metadata {
	return lo.Map(c.list.Embeds, func(e *provider.Embed, _ int) Metadata { return embedMetadata(e) })
}

// Metadata looks a provider up by id, sources first.
func (c *Controls) Metadata(id string) (Metadata, bool) {
	if s, ok := c.list.Source(id); ok {
		return sourceMetadata(s), true
	}
	if e, ok := c.list.Embed(id); ok {
		return embedMetadata(e), true
	}
	return Metadata{}, false
}

func (c *Controls) sink(s events.Sink) events.Sink {
	if c.log == nil {
		return s
	}
	if s == nil {
		return events.NewLogSink(c.log)
	}
	return events.Multi(events.NewLogSink(c.log), s)
}

func sourceMetadata(s *provider.Source) Metadata {
	return Metadata{
		ID:         s.ID,
		Name:       s.Name,
		Rank:       s.Rank,
		Kind:       KindSource,
		Flags:      s.Flags,
		Capability: s.Capability(),
	}
}

func embedMetadata(e *provider.Embed) Metadata {
	return Metadata{ID: e.ID, Name: e.Name, Rank: e.Rank, Kind: KindEmbed}
}
