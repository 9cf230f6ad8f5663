package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/fgcboard/internal/api"
	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func TestStationsHandler_HandleRequest(t *testing.T) {
	catalog, err := camera.DefaultCatalog("https://geotren.fgc.cat/isic")
	require.NoError(t, err)

	h := NewStationsHandler(catalog, fixedClock{now: time.UnixMilli(1710000000000)})

	tests := []struct {
		name           string
		params         map[string]string
		expectedStatus int
		expectedNames  []string
		expectedURL    string
	}{
		{
			name:           "lookup by name",
			params:         map[string]string{"name": "Provença"},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{"Provença"},
			expectedURL:    "https://geotren.fgc.cat/isic/pr?_=1710000000000",
		},
		{
			name:           "lookup by code",
			params:         map[string]string{"code": "MO"},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{"Monistrol"},
			expectedURL:    "https://geotren.fgc.cat/isic/mo?_=1710000000000",
		},
		{
			name:           "unknown name",
			params:         map[string]string{"name": "Atlantis"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown code",
			params:         map[string]string{"code": "zz"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "search",
			params:         map[string]string{"q": "sant c"},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{"Sant Cugat Centre"},
		},
		{
			name:           "empty search",
			params:         map[string]string{"q": ""},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{QueryStringParameters: tt.params})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, resp.Body, "Station not found")
				return
			}

			var body api.StationsResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))

			names := []string{}
			for _, st := range body.Stations {
				names = append(names, st.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
			if tt.expectedURL != "" {
				assert.Equal(t, tt.expectedURL, body.Stations[0].ImageURL)
			}
		})
	}
}

func TestStationsHandlerListsAll(t *testing.T) {
	catalog, err := camera.DefaultCatalog("https://geotren.fgc.cat/isic")
	require.NoError(t, err)

	resp, err := NewStationsHandler(catalog, nil).HandleRequest(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)

	var body api.StationsResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Len(t, body.Stations, catalog.Len())
	assert.Equal(t, "https://geotren.fgc.cat/isic/al", body.Stations[0].ImageURL)
}
