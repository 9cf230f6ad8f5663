package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bbernstein/fgcboard/internal/app"
	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "board",
	Short:        "FGC departure board",
	Long:         "Shows upcoming FGC train departures for a station, caching each station's timetable for the day.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return application.Close()
		}
		return nil
	},
}

var (
	configPath   string
	storeBackend string
	logLevel     string

	cfg         *config.Config
	cacheCfg    *config.CacheConfig
	application *app.App
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "board.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&storeBackend, "store", "s", "", "Cache store: memory, sqlite, postgres, dynamodb or s3")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(departuresCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(cameraCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig layers env, the YAML file and flags, in that order
func loadConfig() error {
	file, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	opts := append([]config.Option{config.WithEnvironment("local")}, file.Options()...)
	if os.Getenv("ENV") != "" {
		opts[0] = config.WithEnvironment(os.Getenv("ENV"))
	}
	if logLevel != "" {
		opts = append(opts, config.WithLogLevel(logLevel))
	}

	cfg = config.LoadFromEnv(opts...)
	cfg.InitializeLogging()

	cacheCfg = config.GetCacheConfig()
	file.Apply(cacheCfg)
	if storeBackend != "" {
		cacheCfg.Backend = strings.ToLower(storeBackend)
	}
	return nil
}

// openApp wires the services on first use. Unless sweep is false, stale
// cache entries are removed right away.
func openApp(ctx context.Context, sweep bool) (*app.App, error) {
	if application != nil {
		return application, nil
	}

	a, err := app.New(ctx, cfg, cacheCfg)
	if err != nil {
		return nil, err
	}
	if sweep {
		a.CleanOldCache(ctx)
	}

	log.Debug().Str("store", cacheCfg.Backend).Msg("Board ready")
	application = a
	return a, nil
}

func footer(clock timeutil.Clock) string {
	return fmt.Sprintf("© %d · Dades: FGC Dades Obertes", timeutil.CurrentYear(clock))
}
