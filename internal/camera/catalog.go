package camera

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultStation is shown before anything is selected
const DefaultStation = "pc"

//go:embed stations.csv
var defaultStations []byte

type stationCSV struct {
	Name string `csv:"name"`
	Code string `csv:"code"`
}

// Catalog is the station list of the camera widget, sorted by name
type Catalog struct {
	stations []models.CameraStation
}

// LoadCatalog reads a name,code CSV. Image URLs are baseURL/code.
func LoadCatalog(r io.Reader, baseURL string) (*Catalog, error) {
	var rows []*stationCSV
	if err := gocsv.UnmarshalCSV(gocsv.LazyCSVReader(bom.NewReader(r)), &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling stations csv: %w", err)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	seen := map[string]bool{}
	stations := make([]models.CameraStation, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		code := strings.ToLower(strings.TrimSpace(row.Code))
		if name == "" || code == "" {
			return nil, fmt.Errorf("station row with empty name or code: %q,%q", row.Name, row.Code)
		}
		if seen[name] {
			return nil, fmt.Errorf("repeated station name '%s'", name)
		}
		seen[name] = true

		stations = append(stations, models.CameraStation{
			Name:     name,
			Code:     code,
			ImageURL: baseURL + "/" + code,
		})
	}

	coll := collate.New(language.Catalan, collate.IgnoreCase)
	sort.SliceStable(stations, func(i, j int) bool {
		return coll.CompareString(stations[i].Name, stations[j].Name) < 0
	})

	return &Catalog{stations: stations}, nil
}

// DefaultCatalog is the built-in station list
func DefaultCatalog(baseURL string) (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultStations), baseURL)
}

// LoadCatalogFile reads the station list from path, or the built-in list
// when path is empty.
func LoadCatalogFile(path, baseURL string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(baseURL)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stations file: %w", err)
	}
	defer f.Close()

	return LoadCatalog(f, baseURL)
}

func (c *Catalog) All() []models.CameraStation {
	out := make([]models.CameraStation, len(c.stations))
	copy(out, c.stations)
	return out
}

func (c *Catalog) Len() int {
	return len(c.stations)
}

// Search returns stations whose name contains term, ignoring case, in
// catalog order. An empty term matches nothing.
func (c *Catalog) Search(term string) []models.CameraStation {
	if term == "" {
		return nil
	}

	// Casers carry state, one per call
	fold := cases.Fold()
	needle := fold.String(term)
	var matches []models.CameraStation
	for _, st := range c.stations {
		if strings.Contains(fold.String(st.Name), needle) {
			matches = append(matches, st)
		}
	}
	return matches
}

// Lookup finds a station by its exact display name
func (c *Catalog) Lookup(name string) (models.CameraStation, bool) {
	for _, st := range c.stations {
		if st.Name == name {
			return st, true
		}
	}
	return models.CameraStation{}, false
}

// ByCode finds a station by camera code, ignoring case
func (c *Catalog) ByCode(code string) (models.CameraStation, bool) {
	for _, st := range c.stations {
		if strings.EqualFold(st.Code, code) {
			return st, true
		}
	}
	return models.CameraStation{}, false
}

// ImageURL is the station's camera URL with a cache-busting timestamp
func ImageURL(st models.CameraStation, now time.Time) string {
	u, err := url.Parse(st.ImageURL)
	if err != nil {
		return st.ImageURL + "?_=" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	q := u.Query()
	q.Set("_", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
