package scan

import (
	"testing"

	"github.com/MattPrit/nexgen/pkg/nexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromIncrement_ExcludesGridAlignedEnd tests that a 0 to 90 sweep at
// 1 degree produces 90 positions ending at 89, never emitting the end value.
func TestFromIncrement_ExcludesGridAlignedEnd(t *testing.T) {
	positions, err := FromIncrement(0, 90, 1)
	require.NoError(t, err)
	require.Len(t, positions, 90)
	assert.Equal(t, 0.0, positions[0])
	assert.Equal(t, 89.0, positions[89])
}

// TestFromIncrement_FractionalGrid tests a fine increment whose step count
// is not exactly representable in binary.
func TestFromIncrement_FractionalGrid(t *testing.T) {
	positions, err := FromIncrement(0, 1, 0.1)
	require.NoError(t, err)
	require.Len(t, positions, 10)
	assert.InDelta(t, 0.9, positions[9], 1e-12)
}

// TestFromIncrement_OffGridEnd tests that an end value between grid points
// rounds the count up so the whole span is covered.
func TestFromIncrement_OffGridEnd(t *testing.T) {
	positions, err := FromIncrement(0, 0.95, 0.1)
	require.NoError(t, err)
	require.Len(t, positions, 10)
	assert.InDelta(t, 0.9, positions[9], 1e-12)
}

// TestFromIncrement_NegativeSweep tests a descending scan.
func TestFromIncrement_NegativeSweep(t *testing.T) {
	positions, err := FromIncrement(90, 0, -1)
	require.NoError(t, err)
	require.Len(t, positions, 90)
	assert.Equal(t, 90.0, positions[0])
	assert.Equal(t, 1.0, positions[89])
}

// TestFromIncrement_ZeroIncrement tests the degenerate-range classification.
func TestFromIncrement_ZeroIncrement(t *testing.T) {
	_, err := FromIncrement(0, 90, 0)
	assert.ErrorIs(t, err, nexgen.ErrDegenerateRange)
}

// TestFromIncrement_WrongDirection tests an increment pointing away from
// the end boundary.
func TestFromIncrement_WrongDirection(t *testing.T) {
	_, err := FromIncrement(0, 90, -1)
	assert.ErrorIs(t, err, nexgen.ErrDegenerateRange)
}

// TestFromFrameCount_InclusiveEndpoints tests that 100 frames over 0 to 90
// include both boundaries.
func TestFromFrameCount_InclusiveEndpoints(t *testing.T) {
	positions, err := FromFrameCount(0, 90, 100)
	require.NoError(t, err)
	require.Len(t, positions, 100)
	assert.Equal(t, 0.0, positions[0])
	assert.Equal(t, 90.0, positions[99])
	assert.InDelta(t, 90.0/99.0, positions[1], 1e-12)
}

// TestFromFrameCount_SingleFrame tests a stationary one-frame collection.
func TestFromFrameCount_SingleFrame(t *testing.T) {
	positions, err := FromFrameCount(12.5, 12.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5}, positions)
}

// TestFromFrameCount_StationaryAxis tests many frames at a fixed position.
func TestFromFrameCount_StationaryAxis(t *testing.T) {
	positions, err := FromFrameCount(45, 45, 10)
	require.NoError(t, err)
	require.Len(t, positions, 10)
	for _, p := range positions {
		assert.Equal(t, 45.0, p)
	}
}

// TestFromFrameCount_NonPositiveCount tests rejection of empty scans.
func TestFromFrameCount_NonPositiveCount(t *testing.T) {
	_, err := FromFrameCount(0, 90, 0)
	assert.ErrorIs(t, err, nexgen.ErrDegenerateRange)
}

// TestFindScanAxis_SingleCandidate tests selection of the one moving axis.
func TestFindScanAxis_SingleCandidate(t *testing.T) {
	axes := []nexgen.Axis{
		{Name: "phi", Kind: nexgen.Rotation, Vector: [3]float64{-1, 0, 0}, DependsOn: "omega"},
		{Name: "omega", Kind: nexgen.Rotation, Vector: [3]float64{-1, 0, 0}, Start: 0, End: 90, Increment: 0.1, DependsOn: "."},
	}
	ax, err := FindScanAxis(axes)
	require.NoError(t, err)
	assert.Equal(t, "omega", ax.Name)
}

// TestFindScanAxis_NoCandidate tests that an all-stationary goniometer is
// rejected rather than defaulting to an arbitrary axis.
func TestFindScanAxis_NoCandidate(t *testing.T) {
	axes := []nexgen.Axis{
		{Name: "phi", Kind: nexgen.Rotation, Vector: [3]float64{-1, 0, 0}, DependsOn: "."},
	}
	_, err := FindScanAxis(axes)
	assert.ErrorIs(t, err, nexgen.ErrScanAxisNotFound)
}

// TestFindScanAxis_MultipleCandidates tests that two moving axes are
// ambiguous and never silently resolved.
func TestFindScanAxis_MultipleCandidates(t *testing.T) {
	axes := []nexgen.Axis{
		{Name: "phi", Kind: nexgen.Rotation, Vector: [3]float64{-1, 0, 0}, Increment: 0.1, DependsOn: "omega"},
		{Name: "omega", Kind: nexgen.Rotation, Vector: [3]float64{-1, 0, 0}, End: 90, Increment: 0.1, DependsOn: "."},
	}
	_, err := FindScanAxis(axes)
	assert.ErrorIs(t, err, nexgen.ErrScanAxisNotFound)
}

// TestForTimeBinned_Chunked tests chunk subdivision of an event interval.
func TestForTimeBinned_Chunked(t *testing.T) {
	iv := ForTimeBinned(0, 100, 4)
	assert.Equal(t, 0.0, iv.Start)
	assert.Equal(t, 100.0, iv.End)
	assert.Equal(t, 4, iv.Chunks)
	assert.Equal(t, 25.0, iv.ChunkWidth)
}

// TestForTimeBinned_Continuous tests the single-interval form.
func TestForTimeBinned_Continuous(t *testing.T) {
	iv := ForTimeBinned(0, 10, 0)
	assert.Equal(t, 0, iv.Chunks)
	assert.Equal(t, 0.0, iv.ChunkWidth)
}
