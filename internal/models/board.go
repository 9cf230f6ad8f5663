package models

type BoardStatus string

const (
	BoardStatusOK BoardStatus = "OK"
	// BoardStatusNoData means the station returned no records at all
	BoardStatusNoData BoardStatus = "NO_DATA"
	// BoardStatusNoUpcoming means there are records but none after the reference time
	BoardStatusNoUpcoming BoardStatus = "NO_UPCOMING"
)

// BoardEntry is a display-ready departure
type BoardEntry struct {
	Line           string `json:"line"`
	Destination    string `json:"destination"`
	Time           string `json:"time"`
	ServiceMinutes int    `json:"serviceMinutes"`
}

type Board struct {
	StationCode   string       `json:"stationCode"`
	ReferenceTime string       `json:"referenceTime"`
	Line          string       `json:"line,omitempty"`
	Count         int          `json:"count"`
	Status        BoardStatus  `json:"status"`
	FromCache     bool         `json:"fromCache"`
	Entries       []BoardEntry `json:"departures"`
	TotalRecords  int          `json:"totalRecords"`

	// Token identifies the request that produced the board. Superseded is
	// set when a newer request for the same station started before this
	// one finished.
	Token      string `json:"-"`
	Superseded bool   `json:"-"`
}

func (b *Board) IsEmpty() bool {
	return len(b.Entries) == 0
}
