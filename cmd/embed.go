package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <id> <url>",
	Short: "Resolve an embed URL with a single embed",
	Args:  cobra.ExactArgs(2),
	RunE:  embedRun,
}

func embedRun(cmd *cobra.Command, args []string) error {
	controls, err := newControls()
	if err != nil {
		return err
	}

	out, err := controls.RunEmbed(cmd.Context(), args[0], args[1], nil)
	if err != nil {
		return fmt.Errorf("embed %s: %w", args[0], err)
	}

	if flagJSON {
		return printJSON(out)
	}
	return play(cmd, out.Stream, args[1])
}
