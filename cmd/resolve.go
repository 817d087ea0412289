package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/player"
	"github.com/BeamlakAschalew/movie-providers/internal/scraper"
)

var (
	flagYear    int
	flagTMDB    string
	flagIMDb    string
	flagSeason  int
	flagEpisode int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find the first playable stream across all providers",
}

var resolveMovieCmd = &cobra.Command{
	Use:   "movie <title>",
	Short: "Resolve a movie",
	Args:  cobra.MinimumNArgs(1),
	RunE:  resolveRun(media.Movie),
}

var resolveShowCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Resolve an episode of a show",
	Args:  cobra.MinimumNArgs(1),
	RunE:  resolveRun(media.Show),
}

func init() {
	for _, c := range []*cobra.Command{resolveMovieCmd, resolveShowCmd} {
		addMediaFlags(c)
		resolveCmd.AddCommand(c)
	}
}

// addMediaFlags registers the flags that describe the requested title.
func addMediaFlags(c *cobra.Command) {
	c.Flags().IntVarP(&flagYear, "year", "y", 0, "Release year")
	c.Flags().StringVar(&flagTMDB, "tmdb", "", "TMDB id")
	c.Flags().StringVar(&flagIMDb, "imdb", "", "IMDb id")
	c.Flags().IntVarP(&flagSeason, "season", "s", 1, "Season number (shows)")
	c.Flags().IntVarP(&flagEpisode, "episode", "e", 1, "Episode number (shows)")
}

// mediaQuery builds the query from positional args and the media flags.
func mediaQuery(t media.Type, args []string) (media.Query, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return media.Query{}, fmt.Errorf("a title is required")
	}

	var q media.Query
	switch t {
	case media.Show:
		if flagSeason < 1 || flagEpisode < 1 {
			return media.Query{}, fmt.Errorf("season and episode must be positive, got S%dE%d", flagSeason, flagEpisode)
		}
		q = media.ShowQuery(title, flagYear, flagTMDB, flagSeason, flagEpisode)
	default:
		q = media.MovieQuery(title, flagYear, flagTMDB)
	}
	q.IMDbID = flagIMDb
	return q, nil
}

func resolveRun(t media.Type) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		q, err := mediaQuery(t, args)
		if err != nil {
			return err
		}

		controls, err := newControls()
		if err != nil {
			return err
		}

		debugf("resolving %s", q.DisplayTitle())
		out, err := controls.RunAll(cmd.Context(), scraper.RunOptions{
			Media:       q,
			SourceOrder: cfg.SourceOrder,
			EmbedOrder:  cfg.EmbedOrder,
		})
		if err != nil {
			return fmt.Errorf("resolving %s: %w", q.DisplayTitle(), err)
		}
		if out == nil {
			return fmt.Errorf("no playable stream found for %s", q.DisplayTitle())
		}
		debugf("resolved by source=%s embed=%s", out.SourceID, out.EmbedID)

		if flagJSON {
			return printJSON(out)
		}
		return play(cmd, out.Stream, q.DisplayTitle())
	}
}

// play hands the stream to the configured player.
func play(cmd *cobra.Command, stream media.Stream, title string) error {
	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("%s not found in PATH (use --json to print the stream instead)", p.Name())
	}
	debugf("playing with %s", p.Name())
	return p.Play(cmd.Context(), stream, title)
}
