package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basislab/internal/basis"
	"basislab/internal/render"
)

func newModel() Model { return New(basis.Config{}, render.DefaultPlotOptions()) }

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_DefaultsMatchScenario(t *testing.T) {
	m := newModel()
	require.NoError(t, m.Err())
	res := m.Result()
	assert.Equal(t, basis.ClassRotationWithShift, res.Class)
	require.NotNil(t, res.Coords)
	assert.InDelta(t, 2.0, res.Coords.X, 1e-9)
	assert.InDelta(t, 0.0, res.Coords.Y, 1e-9)
	assert.Contains(t, m.View(), "New Basis Coords:    [2.00, 0.00]")
}

func TestModel_FocusNavigationWraps(t *testing.T) {
	m := newModel()
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, PointY, m.Focused())

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, OriginY, m.Focused())

	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, PointX, m.Focused())
	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, OriginY, m.Focused())
}

func TestModel_StepUsesFieldIncrement(t *testing.T) {
	m := newModel()
	m = send(m, runes("+"))
	assert.Equal(t, 3.5, m.Input().Point.X)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("-"))
	assert.InDelta(t, 0.9, m.Input().Basis1.X, 1e-12)
	assert.Equal(t, "0.9", m.inputs[Basis1X].Value())
}

func TestModel_TypingReevaluates(t *testing.T) {
	m := newModel()
	// Point X "3" -> "3" + backspace + "5"
	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace}, runes("5"))
	assert.Equal(t, 5.0, m.Input().Point.X)
	require.NotNil(t, m.Result().Coords)
	assert.Equal(t, basis.V(4, 1), m.Result().Shifted)
}

func TestModel_InvalidInputKeepsLastValue(t *testing.T) {
	m := newModel()
	m = send(m, runes("x"))
	assert.Equal(t, "3x", m.inputs[PointX].Value())
	assert.Equal(t, 3.0, m.Input().Point.X)
	assert.NotEmpty(t, m.FieldError(PointX))
	assert.Contains(t, m.View(), "not a number")

	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, m.FieldError(PointX))
}

func TestModel_LeadingMinusIsTyped(t *testing.T) {
	m := newModel()
	m = send(m, tea.KeyMsg{Type: tea.KeyHome}, runes("-"))
	assert.Equal(t, "-3", m.inputs[PointX].Value())
	assert.Equal(t, -3.0, m.Input().Point.X)
}

func TestModel_PolicyToggle(t *testing.T) {
	m := newModel()
	require.NotNil(t, m.Result().Rotation)

	m = send(m, runes("p"))
	assert.Equal(t, basis.PolicyCenteredOrthogonal, m.Policy())
	assert.Equal(t, basis.ClassAffineShift, m.Result().Class)
	assert.Nil(t, m.Result().Rotation)
	assert.True(t, strings.Contains(m.View(), "affine shift"))

	m = send(m, runes("p"))
	assert.Equal(t, basis.PolicyOrthogonal, m.Policy())
	assert.NotNil(t, m.Result().Rotation)
}

func TestModel_DegenerateShowsError(t *testing.T) {
	m := newModel()
	m.inputs[Basis2X].SetValue("2")
	m.parse(Basis2X)
	m.evaluate()
	assert.ErrorIs(t, m.Err(), basis.ErrDegenerateBasis)
	assert.Contains(t, m.View(), "LINEAR DEPENDENCE")
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := newModel().Update(k)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "key %q should quit", k.String())
	}
}

func TestModel_BlinkReachesFocusedInput(t *testing.T) {
	m := newModel()
	next, cmd := m.Update(textinput.Blink())
	assert.NotNil(t, cmd, "focused cursor schedules its next blink")

	m = next.(Model)
	assert.Equal(t, PointX, m.Focused())
	assert.Equal(t, 3.0, m.Input().Point.X)
	assert.Equal(t, basis.ClassRotationWithShift, m.Result().Class)

	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, basis.ClassRotationWithShift, m.Result().Class)
}
