package provider

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
)

// List is the set of providers admitted for a run, in registration order.
type List struct {
	Sources []*Source
	Embeds  []*Embed
}

// Build drops disabled providers, rejects duplicate ids (across sources and
// embeds) and duplicate ranks (per kind), and keeps only sources whose
// flags are allowed by the enabled features. Embeds are never filtered here:
// their streams are checked when they are produced.
func Build(sources []*Source, embeds []*Embed, enabled features.Set) (*List, error) {
	sources = lo.Filter(sources, func(s *Source, _ int) bool { return s != nil && !s.Disabled })
	embeds = lo.Filter(embeds, func(e *Embed, _ int) bool { return e != nil && !e.Disabled })

	ids := append(
		lo.Map(sources, func(s *Source, _ int) string { return s.ID }),
		lo.Map(embeds, func(e *Embed, _ int) string { return e.ID })...,
	)
	if dup := lo.FindDuplicates(ids); len(dup) > 0 {
		return nil, fmt.Errorf("%w in sources/embeds: %q", ErrDuplicateID, dup[0])
	}

	sourceRanks := lo.Map(sources, func(s *Source, _ int) int { return s.Rank })
	if dup := lo.FindDuplicates(sourceRanks); len(dup) > 0 {
		return nil, fmt.Errorf("%w in sources: %d", ErrDuplicateRank, dup[0])
	}

	embedRanks := lo.Map(embeds, func(e *Embed, _ int) int { return e.Rank })
	if dup := lo.FindDuplicates(embedRanks); len(dup) > 0 {
		return nil, fmt.Errorf("%w in embeds: %d", ErrDuplicateRank, dup[0])
	}

	return &List{
		Sources: lo.Filter(sources, func(s *Source, _ int) bool { return features.Allowed(enabled, s.Flags) }),
		Embeds:  embeds,
	}, nil
}

// Source looks up a source by id.
func (l *List) Source(id string) (*Source, bool) {
	return lo.Find(l.Sources, func(s *Source) bool { return s.ID == id })
}

// Embed looks up an embed by id.
func (l *List) Embed(id string) (*Embed, bool) {
	return lo.Find(l.Embeds, func(e *Embed) bool { return e.ID == id })
}
