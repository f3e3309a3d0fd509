package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"basislab/internal/render"
)

var (
	colAxis   = lipgloss.Color("#808080")
	colLine   = lipgloss.Color("#4db6ac")
	colShift  = lipgloss.Color("#FFC107")
	colBasis  = lipgloss.Color("#2196F3")
	colVector = lipgloss.Color("#e53935")
	colMuted  = lipgloss.Color("#6c7a89")
	colOK     = lipgloss.Color("#8BC34A")
)

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Verdict lipgloss.Style
	Panel   lipgloss.Style

	layers map[render.Layer]lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Width(10),
		Focused: lipgloss.NewStyle().
			Width(10).
			Foreground(colOK).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colVector),
		Muted: lipgloss.NewStyle().
			Foreground(colMuted),
		Verdict: lipgloss.NewStyle().
			Foreground(colOK),
		Panel: lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colMuted),

		layers: map[render.Layer]lipgloss.Style{
			render.LayerAxis:      lipgloss.NewStyle().Foreground(colAxis),
			render.LayerBasisLine: lipgloss.NewStyle().Foreground(colLine),
			render.LayerShift:     lipgloss.NewStyle().Foreground(colShift),
			render.LayerBasis:     lipgloss.NewStyle().Foreground(colBasis).Bold(true),
			render.LayerVector:    lipgloss.NewStyle().Foreground(colVector).Bold(true),
			render.LayerLabel:     lipgloss.NewStyle().Bold(true),
		},
	}
}

// Canvas colours c run by run, one style per layer.
func (s Styles) Canvas(c *render.Canvas) string {
	rows := make([]string, c.H)
	for row := 0; row < c.H; row++ {
		var b, run strings.Builder
		cur := render.LayerEmpty
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := s.layers[cur]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := 0; col < c.W; col++ {
			cell := c.At(col, row)
			if cell.L != cur {
				flush()
				cur = cell.L
			}
			run.WriteRune(cell.R)
		}
		flush()
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}
