// Package scan computes the scan positions an acquisition sweeps through.
//
// All arithmetic is performed in the declared physical unit of the axis
// (typically degrees); unit conversion is the caller's responsibility.
package scan

import (
	"fmt"
	"math"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// gridTolerance absorbs floating-point drift when deciding whether a
// position has reached the end of the range.
const gridTolerance = 1e-6

// Mode selects how the acquisition subdivides the scan.
type Mode string

const (
	// ModeImages is frame-series acquisition: one discrete detector frame
	// per scan position.
	ModeImages Mode = "images"
	// ModeEvents is time-binned acquisition: a continuous timestamped
	// stream subdivided into chunks.
	ModeEvents Mode = "events"
)

// Interval is the continuous scan representation for time-binned
// acquisition: one boundary pair, optionally split into contiguous chunks
// for storage across multiple files.
type Interval struct {
	Start  float64
	End    float64
	Chunks int // 0 means a single continuous interval

	// ChunkWidth is the implied width of each chunk, zero when Chunks is zero.
	ChunkWidth float64
}

// Spec is the computed scan description for one acquisition: the axis that
// moves, and either the ordered frame positions or the event interval.
type Spec struct {
	Mode      Mode
	ScanAxis  string
	Positions []float64 // images mode
	Interval  Interval  // events mode
}

// FrameCount returns the number of frames the spec describes, zero for
// events mode.
func (s Spec) FrameCount() int {
	return len(s.Positions)
}

// FindScanAxis returns the single axis whose increment is non-zero.
// Zero or multiple candidates mean the oscillation intent is ambiguous and
// fail with nexgen.ErrScanAxisNotFound; there is no automatic repair.
func FindScanAxis(axes []nexgen.Axis) (nexgen.Axis, error) {
	var found nexgen.Axis
	count := 0
	for _, ax := range axes {
		if ax.Increment != 0 {
			found = ax
			count++
		}
	}
	switch count {
	case 1:
		return found, nil
	case 0:
		return nexgen.Axis{}, fmt.Errorf("no axis has a non-zero increment: %w", nexgen.ErrScanAxisNotFound)
	default:
		return nexgen.Axis{}, fmt.Errorf("%d axes have a non-zero increment: %w", count, nexgen.ErrScanAxisNotFound)
	}
}

// FromIncrement produces the positions start, start+increment, ... strictly
// below end on the increment grid. An end value landing exactly on the grid
// is excluded: a 0..90 sweep at 1 degree yields 90 frame positions, the
// last at 89. Fails when the increment is zero or walks away from end;
// frame-count mode is the fallback for those collections.
func FromIncrement(start, end, increment float64) ([]float64, error) {
	if increment == 0 {
		return nil, fmt.Errorf("zero increment in frame-series mode: %w", nexgen.ErrDegenerateRange)
	}
	steps := (end - start) / increment
	if steps <= 0 {
		return nil, fmt.Errorf("increment %v does not advance from %v toward %v: %w",
			increment, start, end, nexgen.ErrDegenerateRange)
	}
	n := int(math.Ceil(steps - gridTolerance))
	positions := make([]float64, n)
	for i := range positions {
		positions[i] = start + float64(i)*increment
	}
	return positions, nil
}

// FromFrameCount produces count evenly spaced positions spanning
// [start, end] inclusive. This is the path taken when the true image count
// is known only from the extent of the external data files, or when the
// scan axis is stationary (zero increment with equal start and end).
func FromFrameCount(start, end float64, count int) ([]float64, error) {
	if count < 1 {
		return nil, fmt.Errorf("frame count %d: %w", count, nexgen.ErrDegenerateRange)
	}
	positions := make([]float64, count)
	if count == 1 {
		positions[0] = start
		return positions, nil
	}
	step := (end - start) / float64(count-1)
	for i := range positions {
		positions[i] = start + float64(i)*step
	}
	// Pin the endpoint, which the multiplication may have drifted off.
	positions[count-1] = end
	return positions, nil
}

// ForTimeBinned represents an event-mode scan as one continuous boundary
// interval, optionally subdivided into chunkCount contiguous sub-intervals
// for chunked storage across files. There are no per-frame positions.
func ForTimeBinned(start, end float64, chunkCount int) Interval {
	iv := Interval{Start: start, End: end}
	if chunkCount > 0 {
		iv.Chunks = chunkCount
		iv.ChunkWidth = (end - start) / float64(chunkCount)
	}
	return iv
}
