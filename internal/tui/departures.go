package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/render"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunDeparturesTUI asks for a station and shows its board until the user
// declines another lookup.
func RunDeparturesTUI(ctx context.Context, boards *board.Service, defaults FormValues, footer string) error {
	values := defaults
	styled := render.NewStyled(os.Stdout, render.WithFooter(footer))

	for {
		values.Refresh = false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Station code").
					Placeholder("PR").
					Validate(validateStation).
					Value(&values.Station),
				huh.NewInput().
					Title("How many trains?").
					Placeholder(strconv.Itoa(board.DefaultCount)).
					Validate(validateCount).
					Value(&values.Count),
				huh.NewInput().
					Title("From time (HH:MM)").
					Placeholder("now").
					Validate(validateTime).
					Value(&values.Time),
				huh.NewInput().
					Title("Line").
					Placeholder("any").
					Value(&values.Line),
				huh.NewConfirm().
					Title("Ignore today's cache?").
					Value(&values.Refresh),
			),
		).WithTheme(Theme())

		if err := form.Run(); err != nil {
			return err
		}

		q, err := values.Query()
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}

		var b *models.Board
		var showErr error
		cached := !q.Refresh && boards.IsCached(ctx, q.StationCode)

		_ = spinner.New().
			Title(loadingTitle(cached, q.StationCode)).
			Action(func() {
				b, showErr = boards.Show(ctx, q)
			}).
			Run()

		if showErr != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Could not load departures: %v", showErr)))
		} else if !b.Superseded {
			if err := styled.Render(b); err != nil {
				return err
			}
		}

		again := true
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Look up another station?").
				Value(&again),
		)).WithTheme(Theme()).Run(); err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}
