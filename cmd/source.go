package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BeamlakAschalew/movie-providers/internal/media"
)

var flagType string

var sourceCmd = &cobra.Command{
	Use:   "source <id> <title>",
	Short: "Run a single source and print what it found",
	Args:  cobra.MinimumNArgs(2),
	RunE:  sourceRun,
}

func init() {
	sourceCmd.Flags().StringVar(&flagType, "type", "movie", "Media type: movie | show")
	addMediaFlags(sourceCmd)
}

func sourceRun(cmd *cobra.Command, args []string) error {
	t, err := media.ParseType(flagType)
	if err != nil {
		return err
	}
	q, err := mediaQuery(t, args[1:])
	if err != nil {
		return err
	}

	controls, err := newControls()
	if err != nil {
		return err
	}

	out, err := controls.RunSource(cmd.Context(), args[0], q, nil)
	if err != nil {
		return fmt.Errorf("source %s: %w", args[0], err)
	}

	stream, ok := out.Stream.Get()
	if flagJSON || !ok {
		return printJSON(out)
	}
	return play(cmd, stream, q.DisplayTitle())
}
