package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/scraper"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the sources and embeds enabled for the current target",
	Args:  cobra.NoArgs,
	RunE:  providersRun,
}

func providersRun(cmd *cobra.Command, args []string) error {
	controls, err := newControls()
	if err != nil {
		return err
	}

	sources, embeds := controls.Sources(), controls.Embeds()
	if flagJSON {
		return printJSON(map[string][]scraper.Metadata{"sources": sources, "embeds": embeds})
	}

	fmt.Println("Sources:")
	for _, m := range sources {
		fmt.Printf("  %-12s %-10s rank %-5d %-10s %s\n", m.ID, m.Name, m.Rank, m.Capability, formatFlags(m.Flags))
	}
	fmt.Println("Embeds:")
	for _, m := range embeds {
		fmt.Printf("  %-12s %-10s rank %d\n", m.ID, m.Name, m.Rank)
	}
	return nil
}

func formatFlags(flags []features.Flag) string {
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(flags, func(f features.Flag, _ int) string { return string(f) }), ",")
}
