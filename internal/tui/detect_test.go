package tui

import "testing"

// TestDetectMode_EnvOverrides tests the environment switches that force
// non-interactive mode regardless of the terminal.
func TestDetectMode_EnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"explicit override", "NEXGEN_NON_INTERACTIVE", "1"},
		{"ci convention", "CI", "true"},
		{"no color", "NO_COLOR", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if got := DetectMode(); got != ModeNonInteractive {
				t.Errorf("DetectMode() = %v, want ModeNonInteractive", got)
			}
			if IsInteractive() {
				t.Error("IsInteractive() = true, want false")
			}
		})
	}
}

// TestDetectMode_PipedInput tests that a non-terminal stdin forces
// non-interactive mode. Under go test stdin is never a terminal.
func TestDetectMode_PipedInput(t *testing.T) {
	if got := DetectMode(); got != ModeNonInteractive {
		t.Errorf("DetectMode() = %v, want ModeNonInteractive", got)
	}
}
