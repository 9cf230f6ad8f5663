package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/fgcboard/internal/api"
	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
)

// StationCatalog is the camera station list
type StationCatalog interface {
	All() []models.CameraStation
	Search(term string) []models.CameraStation
	Lookup(name string) (models.CameraStation, bool)
	ByCode(code string) (models.CameraStation, bool)
}

type StationsHandler struct {
	catalog StationCatalog
	clock   timeutil.Clock
}

func NewStationsHandler(catalog StationCatalog, clock timeutil.Clock) *StationsHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &StationsHandler{
		catalog: catalog,
		clock:   clock,
	}
}

// HandleRequest answers ?name= and ?code= with the single station and a
// fresh image URL, ?q= with a name search, and anything else with the
// whole list.
func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if name, ok := params["name"]; ok {
		st, found := h.catalog.Lookup(name)
		if !found {
			return api.Error("Station not found", http.StatusNotFound)
		}
		return h.single(st)
	}

	if code, ok := params["code"]; ok {
		st, found := h.catalog.ByCode(code)
		if !found {
			return api.Error("Station not found", http.StatusNotFound)
		}
		return h.single(st)
	}

	if term, ok := params["q"]; ok {
		return api.Success(api.NewStationsResponse(h.catalog.Search(term)))
	}

	return api.Success(api.NewStationsResponse(h.catalog.All()))
}

func (h *StationsHandler) single(st models.CameraStation) (events.APIGatewayProxyResponse, error) {
	st.ImageURL = camera.ImageURL(st, h.clock.Now())
	return api.Success(api.NewStationsResponse([]models.CameraStation{st}))
}
