// Package tui is the interactive form behind `basis tui`.
package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"basislab/internal/basis"
	"basislab/internal/render"
)

const (
	PointX = iota
	PointY
	Basis1X
	Basis1Y
	Basis2X
	Basis2Y
	OriginX
	OriginY
	numFields
)

type fieldSpec struct {
	label string
	step  float64
	init  float64
}

var fields = [numFields]fieldSpec{
	{"Point X", 0.5, 3.0},
	{"Point Y", 0.5, 2.0},
	{"Axis 1 x", 0.1, 1.0},
	{"Axis 1 y", 0.1, 0.5},
	{"Axis 2 x", 0.1, -0.5},
	{"Axis 2 y", 0.1, 1.0},
	{"Origin X", 0.5, 1.0},
	{"Origin Y", 0.5, 1.0},
}

// Model holds the form state. Values keep the last parseable entry of each
// field; the engine is rebuilt only when the policy changes.
type Model struct {
	inputs [numFields]textinput.Model
	values [numFields]float64
	errs   [numFields]string
	focus  int

	cfg    basis.Config
	engine *basis.Engine
	plot   render.PlotOptions

	result basis.Result
	err    error

	styles Styles
}

func New(cfg basis.Config, plot render.PlotOptions) Model {
	m := Model{
		cfg:    cfg,
		engine: basis.New(cfg),
		plot:   plot,
		styles: DefaultStyles(),
	}
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 10
		ti.SetValue(format(f.init))
		m.inputs[i] = ti
		m.values[i] = f.init
	}
	m.inputs[0].Focus()
	m.evaluate()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Input() basis.Input {
	v := m.values
	return basis.Input{
		Point:  basis.V(v[PointX], v[PointY]),
		Basis1: basis.V(v[Basis1X], v[Basis1Y]),
		Basis2: basis.V(v[Basis2X], v[Basis2Y]),
		Origin: basis.V(v[OriginX], v[OriginY]),
	}
}

func (m Model) Result() basis.Result         { return m.result }
func (m Model) Err() error                   { return m.err }
func (m Model) Focused() int                 { return m.focus }
func (m Model) Policy() basis.RotationPolicy { return m.cfg.Policy }
func (m Model) FieldError(i int) string      { return m.errs[i] }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		// Cursor blink ticks belong to the focused input.
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "down", "enter":
		return m, m.move(1)
	case "shift+tab", "up":
		return m, m.move(-1)
	case "+", "=":
		m.step(1)
		return m, nil
	case "-":
		// A leading minus is typed, not stepped.
		if m.inputs[m.focus].Position() > 0 {
			m.step(-1)
			return m, nil
		}
	case "p":
		m.togglePolicy()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.parse(m.focus)
	m.evaluate()
	return m, cmd
}

func (m *Model) move(d int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + d + numFields) % numFields
	return m.inputs[m.focus].Focus()
}

func (m *Model) step(sign float64) {
	i := m.focus
	v := m.values[i] + sign*fields[i].step
	v = math.Round(v*1e9) / 1e9
	m.values[i] = v
	m.errs[i] = ""
	m.inputs[i].SetValue(format(v))
	m.inputs[i].CursorEnd()
	m.evaluate()
}

func (m *Model) togglePolicy() {
	if m.cfg.Policy == basis.PolicyOrthogonal {
		m.cfg.Policy = basis.PolicyCenteredOrthogonal
	} else {
		m.cfg.Policy = basis.PolicyOrthogonal
	}
	m.engine = basis.New(m.cfg)
	m.evaluate()
}

// parse keeps the previous value when the field does not hold a finite
// number.
func (m *Model) parse(i int) {
	s := strings.TrimSpace(m.inputs[i].Value())
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		m.errs[i] = fmt.Sprintf("not a number, using %s", format(m.values[i]))
		return
	}
	m.values[i] = v
	m.errs[i] = ""
}

func (m *Model) evaluate() {
	m.result, m.err = m.engine.Evaluate(m.Input())
}

func format(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

/*──────── view ───────*/

func (m Model) View() string {
	var form strings.Builder
	form.WriteString(m.styles.Title.Render("Change of basis"))
	form.WriteString("\n")
	for i := range m.inputs {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.Focused
		}
		form.WriteString(label.Render(fields[i].label))
		form.WriteString(m.inputs[i].View())
		if m.errs[i] != "" {
			form.WriteString(" " + m.styles.Error.Render(m.errs[i]))
		}
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(m.styles.Muted.Render("policy: " + m.cfg.Policy.String()))
	form.WriteString("\n\n")

	text := render.Text(m.result)
	if m.result.Degenerate {
		form.WriteString(m.styles.Error.Render(text))
	} else {
		form.WriteString(m.styles.Verdict.Render(text))
	}

	left := m.styles.Panel.Render(form.String())
	view := left
	if !m.result.Degenerate {
		view = lipgloss.JoinHorizontal(lipgloss.Top, left, m.styles.Panel.Render(m.styles.Canvas(render.Plot(m.Input(), m.plot))))
	}
	help := m.styles.Muted.Render("tab/shift+tab move · +/- step · p policy · q quit")
	return view + "\n" + help + "\n"
}

// Run starts the form on the terminal and blocks until it quits.
func Run(cfg basis.Config, plot render.PlotOptions) error {
	_, err := tea.NewProgram(New(cfg, plot), tea.WithAltScreen()).Run()
	return err
}
