// Package runner resolves a single playable stream by walking sources in
// priority order and, when a source only yields embed links, the embeds
// behind those links.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/events"
	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
)

var (
	// ErrMissingOutput means a source returned neither output nor error.
	// It aborts the whole run.
	ErrMissingOutput = errors.New("source returned no output")
	// ErrUnknownEmbed means a source pointed at an embed id that is not
	// registered. It aborts the whole run.
	ErrUnknownEmbed = errors.New("unknown embed")
	// ErrUnknownSource means an individual run named an unregistered source.
	ErrUnknownSource = errors.New("unknown source")
	// ErrUnsupportedMedia means the source has no scraper for the media type.
	ErrUnsupportedMedia = errors.New("source does not support this media type")
)

// Options configures a run.
type Options struct {
	Fetcher        fetch.Fetcher
	ProxiedFetcher fetch.Fetcher
	Features       features.Set
	// SourceOrder and EmbedOrder list ids to try first, in that order.
	SourceOrder []string
	EmbedOrder  []string
	Events      events.Sink
	Media       media.Query
}

// Output is the accepted stream and where it came from. EmbedID is empty
// when the source produced the stream directly.
type Output struct {
	SourceID string       `json:"sourceId"`
	EmbedID  string       `json:"embedId,omitempty"`
	Stream   media.Stream `json:"stream"`
}

// EmbedCandidate is one embed link returned by a source attempt.
type EmbedCandidate struct {
	SourceID string
	Index    int
	EmbedID  string
	URL      string
}

// AttemptID is the event id of the candidate: "{sourceId}-{index}".
func (c EmbedCandidate) AttemptID() string {
	return fmt.Sprintf("%s-%d", c.SourceID, c.Index)
}

// Run tries every source in order and returns the first accepted stream.
// It returns nil, nil when nothing was found; provider misses and failures
// are reported through events, never returned. Only structural faults
// (ErrMissingOutput, ErrUnknownEmbed) abort the run with an error.
func Run(ctx context.Context, list *provider.List, opts Options) (*Output, error) {
	sink := sinkOrNop(opts.Events)

	sources := lo.Filter(Reorder(opts.SourceOrder, list.Sources, sourceID), func(s *provider.Source, _ int) bool {
		return s.ScraperFor(opts.Media.Type) != nil
	})
	embeds := Reorder(opts.EmbedOrder, list.Embeds, embedID)
	embedIDs := lo.Map(embeds, func(e *provider.Embed, _ int) string { return e.ID })

	sink.Init(events.InitEvent{SourceIDs: lo.Map(sources, func(s *provider.Source, _ int) string { return s.ID })})

	for _, s := range sources {
		sink.Start(s.ID)

		scrape := s.ScraperFor(opts.Media.Type)
		output, err := scrape(ctx, &provider.ScrapeContext{
			Fetcher:        opts.Fetcher,
			ProxiedFetcher: opts.ProxiedFetcher,
			Progress:       progressFor(sink, s.ID),
			Media:          opts.Media,
		})
		if err != nil {
			report(sink, s.ID, faulted(err))
			continue
		}
		if output == nil {
			return nil, fmt.Errorf("%w: source %q, media type %s", ErrMissingOutput, s.ID, opts.Media.Type)
		}

		if stream, ok := output.Stream.Get(); ok {
			res := check(stream, opts.Features)
			if res.accepted() {
				return &Output{SourceID: s.ID, Stream: stream}, nil
			}
			report(sink, s.ID, res)
			continue
		}

		candidates := make([]EmbedCandidate, len(output.Embeds))
		for i, ref := range output.Embeds {
			candidates[i] = EmbedCandidate{SourceID: s.ID, Index: i, EmbedID: ref.EmbedID, URL: ref.URL}
		}
		if len(candidates) > 0 {
			sink.DiscoverEmbeds(events.DiscoverEmbedsEvent{
				SourceID: s.ID,
				Embeds: lo.Map(candidates, func(c EmbedCandidate, _ int) events.DiscoveredEmbed {
					return events.DiscoveredEmbed{ID: c.AttemptID(), EmbedScraperID: c.EmbedID}
				}),
			})
		}
		SortCandidates(candidates, embedIDs)

		for _, c := range candidates {
			e, ok := lo.Find(embeds, func(e *provider.Embed) bool { return e.ID == c.EmbedID })
			if !ok {
				return nil, fmt.Errorf("%w %q returned by source %q", ErrUnknownEmbed, c.EmbedID, s.ID)
			}

			id := c.AttemptID()
			sink.Start(id)

			embedOutput, err := e.Scrape(ctx, &provider.EmbedContext{
				Fetcher:        opts.Fetcher,
				ProxiedFetcher: opts.ProxiedFetcher,
				Progress:       progressFor(sink, id),
				URL:            c.URL,
			})
			if err != nil {
				report(sink, id, faulted(err))
				continue
			}
			if embedOutput == nil {
				report(sink, id, rejected("embed returned no output"))
				continue
			}

			res := check(embedOutput.Stream, opts.Features)
			if res.accepted() {
				return &Output{SourceID: s.ID, EmbedID: e.ID, Stream: embedOutput.Stream}, nil
			}
			report(sink, id, res)
		}

		// Every attempted id gets one terminal update, including a source
		// whose embeds all came up empty.
		reason := "no streams found"
		if len(candidates) > 0 {
			reason = "no embed returned a usable stream"
		}
		report(sink, s.ID, rejected(reason))
	}

	return nil, nil
}

// Reorder puts items whose id appears in order first, in that order,
// followed by the rest in their original relative order.
func Reorder[T any](order []string, items []T, id func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := lo.IndexOf(order, id(out[i])), lo.IndexOf(order, id(out[j]))
		switch {
		case a >= 0 && b >= 0:
			return a < b
		case a >= 0:
			return true
		default:
			return false
		}
	})
	return out
}

// SortCandidates orders candidates by their embed's position in embedIDs.
// An id missing from embedIDs gets position -1 and so sorts before every
// registered embed.
func SortCandidates(candidates []EmbedCandidate, embedIDs []string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return lo.IndexOf(embedIDs, candidates[i].EmbedID) < lo.IndexOf(embedIDs, candidates[j].EmbedID)
	})
}

func sourceID(s *provider.Source) string { return s.ID }

func embedID(e *provider.Embed) string { return e.ID }

func sinkOrNop(s events.Sink) events.Sink {
	if s == nil {
		return events.Nop
	}
	return s
}

// progressFor binds progress reports to one attempt id, so a provider that
// keeps reporting after the run has moved on is still attributed to itself.
func progressFor(sink events.Sink, id string) func(int) {
	return func(percentage int) {
		sink.Update(events.UpdateEvent{ID: id, Percentage: percentage, Status: events.Pending})
	}
}
