package main

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/fgcboard/internal/api"
	"github.com/bbernstein/fgcboard/internal/app"
	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/bbernstein/fgcboard/internal/handler"
	"github.com/rs/zerolog/log"
)

var (
	departuresHandler *handler.DeparturesHandler
	setupErr          error
	setupOnce         sync.Once
)

func setup(ctx context.Context) {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")

		cacheCfg := config.GetCacheConfig()
		if os.Getenv("STORE_BACKEND") == "" {
			cacheCfg.Backend = config.BackendDynamoDB
		}

		a, err := app.New(ctx, cfg, cacheCfg)
		if err != nil {
			setupErr = err
			log.Error().Err(err).Msg("Error initializing departures function")
			return
		}

		// Once per cold start
		a.CleanOldCache(ctx)

		departuresHandler = handler.NewDeparturesHandler(a.Boards)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	setup(ctx)
	if setupErr != nil {
		return api.Error("Service unavailable", http.StatusInternalServerError)
	}

	log.Info().
		Str("station", request.QueryStringParameters["station"]).
		Msg("Handling Lambda request")

	return departuresHandler.HandleRequest(ctx, request)
}

func main() {
	lambda.Start(handleRequest)
}
