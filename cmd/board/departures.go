package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/render"
	"github.com/spf13/cobra"
)

var departuresCmd = &cobra.Command{
	Use:   "departures [station]",
	Short: "Lists the next departures from a station",
	Args:  cobra.MaximumNArgs(1),
	RunE:  departures,
}

var (
	count   int
	atTime  string
	line    string
	refresh bool
	format  string
)

func init() {
	departuresCmd.Flags().IntVarP(&count, "count", "n", 0, "Number of trains to show (default 8)")
	departuresCmd.Flags().StringVarP(&atTime, "time", "t", "", "Reference time HH:MM (default now)")
	departuresCmd.Flags().StringVarP(&line, "line", "l", "", "Restrict to one line, e.g. S1")
	departuresCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Ignore today's cache and fetch again")
	departuresCmd.Flags().StringVarP(&format, "format", "f", "styled", "Output format: styled, table or json")
}

func newRenderer(format string, w io.Writer, footerText string) (board.Renderer, error) {
	switch format {
	case "styled", "":
		return render.NewStyled(w, render.WithFooter(footerText)), nil
	case "table":
		return render.NewTable(w), nil
	case "json":
		return render.NewJSON(w), nil
	}
	return nil, fmt.Errorf("unknown format '%s'", format)
}

func departures(cmd *cobra.Command, args []string) error {
	station := cfg.DefaultStation
	if len(args) == 1 {
		station = args[0]
	}
	if station == "" {
		return fmt.Errorf("station code is required, e.g. 'board departures PR'")
	}

	n := count
	if n == 0 {
		n = cfg.DefaultCount
	}
	l := line
	if l == "" {
		l = cfg.DefaultLine
	}

	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}

	r, err := newRenderer(format, os.Stdout, footer(a.Clock))
	if err != nil {
		return err
	}

	_, err = board.Display(cmd.Context(), a.Boards, r, board.Query{
		StationCode: station,
		Count:       n,
		Time:        atTime,
		Line:        l,
		Refresh:     refresh,
	})
	return err
}
