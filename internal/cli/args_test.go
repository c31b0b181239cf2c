package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOutputFilename(t *testing.T) {
	tests := []struct {
		in          string
		want        string
		substituted bool
	}{
		{"scan_0001.nxs", "scan_0001.nxs", false},
		{"scan_0001.h5", "scan_0001.h5", false},
		{"scan_0001.txt", "scan_0001.nxs", true},
		{"scan_0001", "scan_0001.nxs", true},
		{"dir.with.dots/scan.dat", "dir.with.dots/scan.nxs", true},
	}
	for _, tt := range tests {
		got, substituted := NormalizeOutputFilename(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.substituted, substituted, "input %q", tt.in)
	}
}

func TestOutputForData(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/x/run_000001.h5", "/x/run.nxs"},
		{"/x/run_meta.h5", "/x/run.nxs"},
		{"/x/run.h5", "/x/run.nxs"},
		{"run_12.h5", "run_12.nxs"}, // not a six-digit counter
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputForData(tt.in), "input %q", tt.in)
	}
}

func TestChecksLogPath(t *testing.T) {
	assert.Equal(t, "/x/scan_0001_checks.log", checksLogPath("/x/scan_0001.nxs"))
}
