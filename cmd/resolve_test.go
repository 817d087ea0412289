package cmd

import (
	"testing"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

func TestMediaQuery(t *testing.T) {
	flagYear, flagTMDB, flagIMDb, flagSeason, flagEpisode = 2022, "95396", "tt11280740", 2, 5
	t.Cleanup(func() { flagYear, flagTMDB, flagIMDb, flagSeason, flagEpisode = 0, "", "", 1, 1 })

	q, err := mediaQuery(media.Show, []string{"Severance"})
	if err != nil {
		t.Fatalf("mediaQuery() error: %v", err)
	}
	if q.DisplayTitle() != "Severance (2022) S02E05" {
		t.Errorf("DisplayTitle() = %q", q.DisplayTitle())
	}
	if q.IMDbID != "tt11280740" || q.TMDBID != "95396" {
		t.Errorf("ids = %q/%q", q.IMDbID, q.TMDBID)
	}

	q, err = mediaQuery(media.Movie, []string{"Blade", "Runner"})
	if err != nil {
		t.Fatalf("mediaQuery() error: %v", err)
	}
	if q.Title != "Blade Runner" || q.Type != media.Movie {
		t.Errorf("movie query = %+v", q)
	}

	if _, err := mediaQuery(media.Movie, []string{" "}); err == nil {
		t.Error("blank title should fail")
	}

	flagSeason = 0
	if _, err := mediaQuery(media.Show, []string{"Severance"}); err == nil {
		t.Error("season 0 should fail")
	}
}
