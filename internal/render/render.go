package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/rodaine/table"
)

const (
	MsgNoData     = "No trains found for this station"
	MsgNoUpcoming = "No trains after this time"
	MsgFromCache  = "⚡ From cache (updated today)"
)

// EmptyMessage is the text shown for a board without entries
func EmptyMessage(b *models.Board) string {
	if b.Status == models.BoardStatusNoData {
		return MsgNoData
	}
	return MsgNoUpcoming
}

func title(b *models.Board) string {
	t := fmt.Sprintf("Station: %s  %s", b.StationCode, b.ReferenceTime)
	if b.Line != "" {
		t += "  line " + b.Line
	}
	return t
}

// Table prints boards as plain aligned columns
type Table struct {
	w io.Writer
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) Render(b *models.Board) error {
	if _, err := fmt.Fprintln(t.w, title(b)); err != nil {
		return err
	}
	if b.FromCache {
		fmt.Fprintln(t.w, MsgFromCache)
	}
	if b.IsEmpty() {
		_, err := fmt.Fprintln(t.w, EmptyMessage(b))
		return err
	}

	tbl := table.New("Line", "Destination", "Time").WithWriter(t.w)
	for _, e := range b.Entries {
		tbl.AddRow(e.Line, e.Destination, e.Time)
	}
	tbl.Print()
	return nil
}

func (t *Table) Clear() error {
	return nil
}

// JSON writes each board as one indented JSON document
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Render(b *models.Board) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func (j *JSON) Clear() error {
	return nil
}
