// Package wizards holds the interactive flows nexgen offers when a human
// is at the terminal.
package wizards

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MattPrit/nexgen/internal/config"
	"github.com/MattPrit/nexgen/internal/params"
)

// BeamResult holds the outcome of the beam parameter wizard.
type BeamResult struct {
	Cancelled bool
	// Overrides lists only the parameters the user changed from the
	// config-file baseline.
	Overrides []params.Override
}

type beamStep int

const (
	stepEditParams beamStep = iota
	stepBeamDone
)

type beamField struct {
	key      string
	label    string
	baseline float64
}

type beamStyles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
}

type beamKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultBeamStyles() beamStyles {
	return beamStyles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func defaultBeamKeys() beamKeys {
	return beamKeys{
		Next:   key.NewBinding(key.WithKeys("tab", "down")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc")),
	}
}

// BeamWizard lets the user adjust the per-collection beam parameters before
// assembly. Fields start at the config-file values; unchanged fields
// produce no override.
type BeamWizard struct {
	step          beamStep
	fields        []beamField
	inputs        []textinput.Model
	focusIndex    int
	validationErr string

	result BeamResult

	width  int
	height int
	styles beamStyles
	keys   beamKeys
}

// NewBeamWizard creates the wizard with baselines taken from exp.
func NewBeamWizard(exp *config.Experiment) BeamWizard {
	fields := []beamField{
		{params.KeyWavelength, "Wavelength (angstrom)", exp.Beam.Wavelength},
		{params.KeyBeamCenterX, "Beam center x (pixels)", exp.Detector.BeamCenter[0]},
		{params.KeyBeamCenterY, "Beam center y (pixels)", exp.Detector.BeamCenter[1]},
		{params.KeyDetectorDistance, "Detector distance (mm)", exp.Detector.Distance},
		{params.KeyExposureTime, "Exposure time (s)", exp.Detector.ExposureTime},
		{params.KeyTransmission, "Transmission (0-1)", exp.Attenuator.Transmission},
	}

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.SetValue(strconv.FormatFloat(f.baseline, 'g', -1, 64))
		in.CharLimit = 16
		in.Width = 16
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}

	return BeamWizard{
		step:   stepEditParams,
		fields: fields,
		inputs: inputs,
		width:  80,
		height: 24,
		styles: defaultBeamStyles(),
		keys:   defaultBeamKeys(),
	}
}

// Result returns the wizard outcome; valid once the program has finished.
func (w BeamWizard) Result() BeamResult {
	return w.result
}

// Init implements tea.Model.
func (w BeamWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w BeamWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, w.keys.Quit):
			w.result.Cancelled = true
			return w, tea.Quit

		case key.Matches(msg, w.keys.Next):
			w.focusIndex = (w.focusIndex + 1) % len(w.inputs)
			return w, w.refocus()

		case key.Matches(msg, w.keys.Prev):
			w.focusIndex = (w.focusIndex + len(w.inputs) - 1) % len(w.inputs)
			return w, w.refocus()

		case key.Matches(msg, w.keys.Submit):
			overrides, err := w.collect()
			if err != nil {
				w.validationErr = err.Error()
				return w, nil
			}
			w.validationErr = ""
			w.result = BeamResult{Overrides: overrides}
			w.step = stepBeamDone
			return w, tea.Quit
		}

		var cmd tea.Cmd
		w.inputs[w.focusIndex], cmd = w.inputs[w.focusIndex].Update(msg)
		return w, cmd

	default:
		var cmd tea.Cmd
		w.inputs[w.focusIndex], cmd = w.inputs[w.focusIndex].Update(msg)
		return w, cmd
	}
}

// collect parses every field and keeps only the values that moved off the
// baseline.
func (w *BeamWizard) collect() ([]params.Override, error) {
	var out []params.Override
	for i, f := range w.fields {
		raw := strings.TrimSpace(w.inputs[i].Value())
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", f.label, raw)
		}
		if value == f.baseline {
			continue
		}
		out = append(out, params.Override{Key: f.key, Value: value})
	}
	return out, nil
}

func (w *BeamWizard) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range w.inputs {
		if i == w.focusIndex {
			cmd = w.inputs[i].Focus()
		} else {
			w.inputs[i].Blur()
		}
	}
	return cmd
}

// View implements tea.Model.
func (w BeamWizard) View() string {
	if w.step == stepBeamDone {
		return ""
	}

	var b strings.Builder
	b.WriteString(w.styles.Title.Render("Beam parameters"))
	b.WriteString("\n")
	b.WriteString(w.styles.Subtitle.Render("Adjust per-collection values, enter to accept"))
	b.WriteString("\n\n")

	for i, f := range w.fields {
		label := w.styles.Label.Render(f.label)
		if i == w.focusIndex {
			label = w.styles.Focused.Render(f.label)
		}
		b.WriteString(fmt.Sprintf("  %-28s %s\n", label, w.inputs[i].View()))
	}

	if w.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(w.styles.Error.Render(w.validationErr))
	}

	b.WriteString("\n")
	b.WriteString(w.styles.Help.Render("tab: next field • enter: accept • esc: cancel"))
	return b.String()
}

// RunBeamWizard runs the wizard on the terminal and returns its result.
func RunBeamWizard(exp *config.Experiment) (BeamResult, error) {
	program := tea.NewProgram(NewBeamWizard(exp))
	model, err := program.Run()
	if err != nil {
		return BeamResult{Cancelled: true}, err
	}
	return model.(BeamWizard).Result(), nil
}
