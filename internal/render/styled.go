package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	cacheStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	destStyle    = lipgloss.NewStyle().Width(28)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	defaultBadge = lipgloss.Color("86")
)

// lineColors approximates the FGC network map colours
var lineColors = map[string]lipgloss.Color{
	"L6":  lipgloss.Color("#7C7CC4"),
	"L7":  lipgloss.Color("#B0622A"),
	"L12": lipgloss.Color("#B7A3D3"),
	"S1":  lipgloss.Color("#F26F21"),
	"S2":  lipgloss.Color("#8DC63F"),
	"R5":  lipgloss.Color("#00A5C8"),
	"R50": lipgloss.Color("#00A5C8"),
	"R6":  lipgloss.Color("#9A9CA0"),
	"R60": lipgloss.Color("#9A9CA0"),
	"S3":  lipgloss.Color("#00A7E1"),
	"S4":  lipgloss.Color("#A59D26"),
	"S8":  lipgloss.Color("#00B7E1"),
	"S9":  lipgloss.Color("#EE3D96"),
	"L8":  lipgloss.Color("#E6007E"),
}

func lineBadge(line string) string {
	color, ok := lineColors[strings.ToUpper(line)]
	if !ok {
		color = defaultBadge
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(color).
		Bold(true).
		Width(5).
		Align(lipgloss.Center).
		Render(line)
}

// Styled draws a coloured board for terminals
type Styled struct {
	w           io.Writer
	clearScreen bool
	footer      string
}

type StyledOption func(*Styled)

// WithClearScreen makes Clear wipe the terminal
func WithClearScreen() StyledOption {
	return func(s *Styled) {
		s.clearScreen = true
	}
}

func WithFooter(footer string) StyledOption {
	return func(s *Styled) {
		s.footer = footer
	}
}

func NewStyled(w io.Writer, opts ...StyledOption) *Styled {
	s := &Styled{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Styled) Render(b *models.Board) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("🚆 " + title(b)))
	sb.WriteString("\n")
	if b.FromCache {
		sb.WriteString(cacheStyle.Render(MsgFromCache))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if b.IsEmpty() {
		sb.WriteString(emptyStyle.Render(EmptyMessage(b)))
		sb.WriteString("\n")
	}
	for _, e := range b.Entries {
		fmt.Fprintf(&sb, "%s  %s %s\n", lineBadge(e.Line), destStyle.Render(e.Destination), timeStyle.Render(e.Time))
	}

	if s.footer != "" {
		sb.WriteString("\n")
		sb.WriteString(footerStyle.Render(s.footer))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(s.w, sb.String())
	return err
}

func (s *Styled) Clear() error {
	if !s.clearScreen {
		return nil
	}
	_, err := io.WriteString(s.w, clearScreen)
	return err
}
