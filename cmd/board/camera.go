package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/tui"
	"github.com/bbernstein/fgcboard/pkg/http/client"
	"github.com/spf13/cobra"
)

var cameraCmd = &cobra.Command{
	Use:   "camera [station]",
	Short: "Saves a station's platform camera image every few seconds",
	Long: `Downloads the platform screen image of a station on a fixed interval and
keeps the latest frame in the output directory. Without a station name an
interactive search is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: watchCamera,
}

var (
	cameraOut      string
	cameraInterval time.Duration
)

func init() {
	cameraCmd.Flags().StringVarP(&cameraOut, "out", "o", "camera", "Directory for downloaded frames")
	cameraCmd.Flags().DurationVarP(&cameraInterval, "interval", "i", 0, "Refresh interval (default from config, 10s)")
}

func watchCamera(cmd *cobra.Command, args []string) error {
	catalog, err := camera.LoadCatalogFile(cfg.StationsFile, cfg.CameraURL)
	if err != nil {
		return err
	}

	var st models.CameraStation
	if len(args) == 1 {
		var ok bool
		if st, ok = catalog.Lookup(args[0]); !ok {
			if st, ok = catalog.ByCode(args[0]); !ok {
				return fmt.Errorf("unknown station '%s'", args[0])
			}
		}
	} else {
		if st, err = tui.PickCameraStation(catalog); err != nil {
			return err
		}
	}

	sink, err := camera.NewFileSink(cameraOut)
	if err != nil {
		return err
	}

	interval := cameraInterval
	if interval <= 0 {
		interval = cfg.CameraInterval
	}

	httpClient := client.New(client.Options{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: 1,
	})
	refresher := camera.NewRefresher(httpClient, sink, interval, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Saving %s to %s every %s, Ctrl+C to stop\n", st.Name, cameraOut, interval)
	refresher.Select(ctx, st)
	refresher.Run(ctx)
	return nil
}
