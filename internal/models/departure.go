package models

import "strings"

// Departure is one row of the FGC "viajes-de-hoy" dataset. Only the fields
// the board reads are decoded.
type Departure struct {
	DepartureTime  string `json:"departure_time" dynamodbav:"departureTime"`
	RouteShortName string `json:"route_short_name" dynamodbav:"routeShortName"`
	TripHeadsign   string `json:"trip_headsign" dynamodbav:"tripHeadsign"`
	ParentStation  string `json:"parent_station" dynamodbav:"parentStation"`
}

// HasLine reports whether the departure belongs to line, ignoring case.
// An empty line matches everything.
func (d Departure) HasLine(line string) bool {
	if line == "" {
		return true
	}
	return strings.EqualFold(d.RouteShortName, line)
}
