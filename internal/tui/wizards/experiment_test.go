package wizards

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MattPrit/nexgen/internal/config"
	"github.com/MattPrit/nexgen/internal/params"
	"github.com/MattPrit/nexgen/pkg/nexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExperiment() *config.Experiment {
	exp := &config.Experiment{
		Beam:       nexgen.Beam{Wavelength: 0.649},
		Attenuator: nexgen.Attenuator{Transmission: 0.1},
	}
	exp.Detector.BeamCenter = [2]float64{1590.7, 1643.7}
	exp.Detector.Distance = 289.3
	exp.Detector.ExposureTime = 0.01
	return exp
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

// TestBeamWizard_NoChangesNoOverrides tests that accepting the defaults
// yields an empty override set.
func TestBeamWizard_NoChangesNoOverrides(t *testing.T) {
	var m tea.Model = NewBeamWizard(testExperiment())
	m = send(t, m, "enter")

	result := m.(BeamWizard).Result()
	assert.False(t, result.Cancelled)
	assert.Empty(t, result.Overrides)
}

// TestBeamWizard_EditedFieldBecomesOverride tests that retyping the first
// field produces exactly one override.
func TestBeamWizard_EditedFieldBecomesOverride(t *testing.T) {
	var m tea.Model = NewBeamWizard(testExperiment())

	// Clear the wavelength field and type a new value.
	for range "0.649" {
		m = send(t, m, "backspace")
	}
	m = send(t, m, "0", ".", "7", "enter")

	result := m.(BeamWizard).Result()
	require.False(t, result.Cancelled)
	require.Len(t, result.Overrides, 1)
	assert.Equal(t, params.Override{Key: params.KeyWavelength, Value: 0.7}, result.Overrides[0])
}

// TestBeamWizard_RejectsNonNumeric tests that a garbage value blocks
// submission with a validation message instead of quitting.
func TestBeamWizard_RejectsNonNumeric(t *testing.T) {
	var m tea.Model = NewBeamWizard(testExperiment())
	m = send(t, m, "x", "enter")

	w := m.(BeamWizard)
	assert.NotEmpty(t, w.validationErr)
	assert.False(t, w.Result().Cancelled)
	assert.Contains(t, w.View(), "is not a number")
}

// TestBeamWizard_Cancel tests that esc abandons the wizard.
func TestBeamWizard_Cancel(t *testing.T) {
	var m tea.Model = NewBeamWizard(testExperiment())
	m = send(t, m, "esc")

	assert.True(t, m.(BeamWizard).Result().Cancelled)
}

// TestBeamWizard_TabCyclesFocus tests field navigation wrap-around.
func TestBeamWizard_TabCyclesFocus(t *testing.T) {
	w := NewBeamWizard(testExperiment())
	require.Equal(t, 0, w.focusIndex)

	var m tea.Model = w
	for i := 0; i < len(w.fields); i++ {
		m = send(t, m, "tab")
	}
	assert.Equal(t, 0, m.(BeamWizard).focusIndex)
}
