package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/fgcboard/internal/api"
	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/rs/zerolog/log"
)

// BoardService builds departure boards
type BoardService interface {
	Show(ctx context.Context, q board.Query) (*models.Board, error)
}

type DeparturesHandler struct {
	boards BoardService
}

func NewDeparturesHandler(boards BoardService) *DeparturesHandler {
	return &DeparturesHandler{
		boards: boards,
	}
}

func (h *DeparturesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	q, err := api.ParseDepartureQuery(request.QueryStringParameters)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	b, err := h.boards.Show(ctx, q)
	switch {
	case errors.Is(err, board.ErrMissingStation):
		return api.Error("Station code is required", http.StatusBadRequest)
	case errors.Is(err, timeutil.ErrInvalidTime):
		return api.Error("Invalid time, expected HH:MM", http.StatusBadRequest)
	case err != nil:
		log.Error().Err(err).Str("station", q.StationCode).Msg("Error building board")
		return api.Error("Error fetching departures", http.StatusInternalServerError)
	}

	return api.Success(api.NewDeparturesResponse(b))
}
