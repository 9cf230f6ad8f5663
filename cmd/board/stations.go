package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Searches the stations that have a platform camera",
}

var stationsSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Lists stations whose name contains the term (all when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := camera.LoadCatalogFile(cfg.StationsFile, cfg.CameraURL)
		if err != nil {
			return err
		}

		stations := catalog.All()
		if len(args) == 1 {
			stations = catalog.Search(args[0])
		}
		if len(stations) == 0 {
			fmt.Println("No stations found")
			return nil
		}

		tbl := table.New("Station", "Code", "Camera").WithWriter(os.Stdout)
		for _, st := range stations {
			tbl.AddRow(st.Name, strings.ToUpper(st.Code), st.ImageURL)
		}
		tbl.Print()
		return nil
	},
}

var stationsURLCmd = &cobra.Command{
	Use:   "url <name or code>",
	Short: "Prints a fresh camera image URL for a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := camera.LoadCatalogFile(cfg.StationsFile, cfg.CameraURL)
		if err != nil {
			return err
		}

		st, ok := catalog.Lookup(args[0])
		if !ok {
			st, ok = catalog.ByCode(args[0])
		}
		if !ok {
			return fmt.Errorf("unknown station '%s'", args[0])
		}

		fmt.Println(camera.ImageURL(st, time.Now()))
		return nil
	},
}

func init() {
	stationsCmd.AddCommand(stationsSearchCmd)
	stationsCmd.AddCommand(stationsURLCmd)
}
