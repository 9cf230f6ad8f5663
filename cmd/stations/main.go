package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/fgcboard/internal/api"
	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/bbernstein/fgcboard/internal/handler"
	"github.com/rs/zerolog/log"
)

var (
	stationsHandler *handler.StationsHandler
	setupErr        error
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")

		// The station list needs no store
		catalog, err := camera.LoadCatalogFile(cfg.StationsFile, cfg.CameraURL)
		if err != nil {
			setupErr = err
			log.Error().Err(err).Msg("Error loading camera stations")
			return
		}
		log.Debug().Int("stations", catalog.Len()).Msg("Camera stations loaded")

		stationsHandler = handler.NewStationsHandler(catalog, nil)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if setupErr != nil {
		return api.Error("Service unavailable", http.StatusInternalServerError)
	}

	log.Info().Msg("Handling Lambda request")

	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambda.Start(handleRequest)
}
