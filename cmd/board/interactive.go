package main

import (
	"strconv"

	"github.com/bbernstein/fgcboard/internal/tui"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Asks for a station in a form and shows its board",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}

		defaults := tui.FormValues{
			Station: cfg.DefaultStation,
			Line:    cfg.DefaultLine,
		}
		if cfg.DefaultCount > 0 {
			defaults.Count = strconv.Itoa(cfg.DefaultCount)
		}

		return tui.RunDeparturesTUI(cmd.Context(), a.Boards, defaults, footer(a.Clock))
	},
}
