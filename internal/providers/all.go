// Package providers is the registration table of the built-in sources and
// embeds.
package providers

import (
	"sort"

	"github.com/BeamlakAschalew/movie-providers/internal/provider"
	"github.com/BeamlakAschalew/movie-providers/internal/providers/flixhq"
	"github.com/BeamlakAschalew/movie-providers/internal/providers/megacloud"
)

// Sources returns the built-in sources, highest rank first. flixhqBase
// overrides the FlixHQ host; empty keeps the default.
func Sources(flixhqBase string) []*provider.Source {
	sources := []*provider.Source{
		flixhq.New(flixhqBase),
	}
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Rank > sources[j].Rank })
	return sources
}

// Embeds returns the built-in embeds, highest rank first.
func Embeds() []*provider.Embed {
	embeds := []*provider.Embed{
		megacloud.UpCloud(),
		megacloud.VidCloud(),
	}
	sort.SliceStable(embeds, func(i, j int) bool { return embeds[i].Rank > embeds[j].Rank })
	return embeds
}

// All returns every built-in source and embed.
func All(flixhqBase string) ([]*provider.Source, []*provider.Embed) {
	return Sources(flixhqBase), Embeds()
}
