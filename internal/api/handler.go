package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/models"
)

// MaxCount bounds the count parameter
const MaxCount = 100

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type DeparturesResponse struct {
	APIResponse
	*models.Board
}

type StationsResponse struct {
	APIResponse
	Stations []models.CameraStation `json:"stations"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewDeparturesResponse(b *models.Board) *DeparturesResponse {
	return &DeparturesResponse{
		APIResponse: APIResponse{ResponseType: "departures"},
		Board:       b,
	}
}

func NewStationsResponse(stations []models.CameraStation) *StationsResponse {
	if stations == nil {
		stations = []models.CameraStation{}
	}
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

var jsonHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders,
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       string(body),
	}, nil
}

type InvalidParameterError struct {
	Name  string
	Value string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("Invalid %s: %q", e.Name, e.Value)
}

// ParseDepartureQuery reads station, count, time, line and refresh from
// query parameters. Validation of the station and time is left to the
// board service.
func ParseDepartureQuery(params map[string]string) (board.Query, error) {
	q := board.Query{
		StationCode: params["station"],
		Time:        params["time"],
		Line:        params["line"],
	}

	if countStr, ok := params["count"]; ok && countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 1 || count > MaxCount {
			return board.Query{}, InvalidParameterError{Name: "count", Value: countStr}
		}
		q.Count = count
	}

	if refreshStr, ok := params["refresh"]; ok && refreshStr != "" {
		refresh, err := strconv.ParseBool(strings.ToLower(refreshStr))
		if err != nil {
			return board.Query{}, InvalidParameterError{Name: "refresh", Value: refreshStr}
		}
		q.Refresh = refresh
	}

	return q, nil
}
