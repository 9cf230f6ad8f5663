package tui

import (
	"errors"
	"fmt"

	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/charmbracelet/huh"
)

var ErrNoMatches = errors.New("no station matches")

// stationOptions lists search results as select options keyed by name
func stationOptions(stations []models.CameraStation) []huh.Option[string] {
	opts := make([]huh.Option[string], len(stations))
	for i, st := range stations {
		opts[i] = huh.NewOption(st.Name, st.Name)
	}
	return opts
}

// PickCameraStation searches the catalog by name and lets the user pick
// one of the matches.
func PickCameraStation(catalog *camera.Catalog) (models.CameraStation, error) {
	var term string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Search station").
			Placeholder("Sarrià").
			Value(&term),
	)).WithTheme(Theme()).Run(); err != nil {
		return models.CameraStation{}, err
	}

	matches := catalog.Search(term)
	if len(matches) == 0 {
		return models.CameraStation{}, fmt.Errorf("%w %q", ErrNoMatches, term)
	}

	name := matches[0].Name
	if len(matches) > 1 {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which one?").
				Options(stationOptions(matches)...).
				Value(&name),
		)).WithTheme(Theme()).Run(); err != nil {
			return models.CameraStation{}, err
		}
	}

	st, ok := catalog.Lookup(name)
	if !ok {
		return models.CameraStation{}, fmt.Errorf("%w %q", ErrNoMatches, name)
	}
	fmt.Println(accentStyle.Render("📷 " + st.Name))
	return st, nil
}
