package runner

import (
	"context"
	"fmt"

	"github.com/BeamlakAschalew/movie-providers/internal/events"
	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
)

// SourceRunOptions configures a single source run.
type SourceRunOptions struct {
	ID             string
	Fetcher        fetch.Fetcher
	ProxiedFetcher fetch.Fetcher
	Features       features.Set
	Events         events.Sink
	Media          media.Query
}

// EmbedRunOptions configures a single embed run.
type EmbedRunOptions struct {
	ID             string
	URL            string
	Fetcher        fetch.Fetcher
	ProxiedFetcher fetch.Fetcher
	Features       features.Set
	Events         events.Sink
}

// RunSource runs one source and returns its raw output. Unlike Run, every
// miss or failure is returned as an error: a rejected stream or an output
// with neither stream nor embeds is a provider.ErrNotFound.
func RunSource(ctx context.Context, list *provider.List, opts SourceRunOptions) (*provider.SourceOutput, error) {
	s, ok := list.Source(opts.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, opts.ID)
	}
	scrape := s.ScraperFor(opts.Media.Type)
	if scrape == nil {
		return nil, fmt.Errorf("%w: %q cannot scrape %s", ErrUnsupportedMedia, s.ID, opts.Media.Type)
	}

	sink := sinkOrNop(opts.Events)
	output, err := scrape(ctx, &provider.ScrapeContext{
		Fetcher:        opts.Fetcher,
		ProxiedFetcher: opts.ProxiedFetcher,
		Progress:       progressFor(sink, s.ID),
		Media:          opts.Media,
	})
	if err != nil {
		return nil, err
	}
	if output == nil {
		return nil, fmt.Errorf("%w: source %q, media type %s", ErrMissingOutput, s.ID, opts.Media.Type)
	}

	if stream, ok := output.Stream.Get(); ok {
		if res := check(stream, opts.Features); !res.accepted() {
			return nil, res.asError()
		}
	} else if len(output.Embeds) == 0 {
		return nil, provider.NotFound("no streams found")
	}

	return output, nil
}

// RunEmbed resolves one URL with one embed. A rejected stream is a
// provider.ErrNotFound.
func RunEmbed(ctx context.Context, list *provider.List, opts EmbedRunOptions) (*provider.EmbedOutput, error) {
	e, ok := list.Embed(opts.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEmbed, opts.ID)
	}

	sink := sinkOrNop(opts.Events)
	output, err := e.Scrape(ctx, &provider.EmbedContext{
		Fetcher:        opts.Fetcher,
		ProxiedFetcher: opts.ProxiedFetcher,
		Progress:       progressFor(sink, e.ID),
		URL:            opts.URL,
	})
	if err != nil {
		return nil, err
	}
	if output == nil {
		return nil, provider.NotFound("embed returned no output")
	}

	if res := check(output.Stream, opts.Features); !res.accepted() {
		return nil, res.asError()
	}
	return output, nil
}
