package transform

import (
	"testing"

	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/pkg/nexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detTransPath = "entry/instrument/detector/transformations"

func float64Ptr(v float64) *float64 { return &v }

func detectorExpectations() []Expected {
	return []Expected{
		{
			Paths:     []string{"two_theta/two_theta", "twotheta/twotheta"},
			Value:     float64Ptr(0),
			DependsOn: nexgen.RootSentinel,
		},
		{
			Paths:     []string{"detector_z/det_z"},
			Vector:    &[3]float64{0, 0, -1},
			DependsOn: nexgen.DetectorZDependsOnTarget,
		},
	}
}

// canonicalDetectorTree builds a backend whose detector chain already
// matches the instrument convention.
func canonicalDetectorTree(t *testing.T) *storage.MemoryBackend {
	t.Helper()
	b := storage.NewMemoryBackend()
	require.NoError(t, b.CreateDataset(detTransPath+"/two_theta/two_theta", []float64{0}, storage.Attributes{
		"units":      "deg",
		"depends_on": ".",
	}))
	require.NoError(t, b.CreateDataset(detTransPath+"/detector_z/det_z", []float64{289.3}, storage.Attributes{
		"units":      "mm",
		"vector":     [3]float64{0, 0, -1},
		"depends_on": nexgen.DetectorZDependsOnTarget,
	}))
	return b
}

// TestValidate_CanonicalTreeIsClean tests that a conforming chain produces
// no discrepancies.
func TestValidate_CanonicalTreeIsClean(t *testing.T) {
	b := canonicalDetectorTree(t)
	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

// TestValidate_ReportsDeviations tests one Discrepancy per deviating field.
func TestValidate_ReportsDeviations(t *testing.T) {
	b := canonicalDetectorTree(t)
	require.NoError(t, b.Delete(detTransPath+"/two_theta/two_theta"))
	require.NoError(t, b.CreateDataset(detTransPath+"/two_theta/two_theta", []float64{5.0}, storage.Attributes{
		"units":      "deg",
		"depends_on": "/entry/instrument/detector/transformations/detector_z",
	}))
	require.NoError(t, b.SetAttribute(detTransPath+"/detector_z/det_z", "vector", [3]float64{0, 0, 1}))

	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	require.Len(t, discrepancies, 3)

	fields := map[string]int{}
	for _, d := range discrepancies {
		fields[d.Field]++
	}
	assert.Equal(t, 1, fields[FieldValue])
	assert.Equal(t, 1, fields[FieldVector])
	assert.Equal(t, 1, fields[FieldDependsOn])
}

// TestRepair_PreservesSiblingAttributes tests that correcting a dataset
// value keeps its other attributes (the units must survive).
func TestRepair_PreservesSiblingAttributes(t *testing.T) {
	b := canonicalDetectorTree(t)
	require.NoError(t, b.Delete(detTransPath+"/two_theta/two_theta"))
	require.NoError(t, b.CreateDataset(detTransPath+"/two_theta/two_theta", []float64{5.0}, storage.Attributes{
		"units":      "deg",
		"depends_on": ".",
	}))

	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)

	applied, err := Repair(b, discrepancies)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	value, err := b.GetDataset(detTransPath + "/two_theta/two_theta")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, value)

	units, err := b.GetAttribute(detTransPath+"/two_theta/two_theta", "units")
	require.NoError(t, err)
	assert.Equal(t, "deg", units)
}

// TestRepair_Idempotent tests that a second validate-and-repair pass finds
// nothing left to do.
func TestRepair_Idempotent(t *testing.T) {
	b := canonicalDetectorTree(t)
	require.NoError(t, b.SetAttribute(detTransPath+"/detector_z/det_z", "vector", []float64{0, 1, 0}))
	require.NoError(t, b.SetAttribute(detTransPath+"/detector_z/det_z", "depends_on", "detector_z"))

	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	require.NotEmpty(t, discrepancies)

	_, err = Repair(b, discrepancies)
	require.NoError(t, err)

	again, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	assert.Empty(t, again)
}

// TestValidate_AliasFallback tests that the legacy dataset name is accepted
// when the canonical one is absent.
func TestValidate_AliasFallback(t *testing.T) {
	b := storage.NewMemoryBackend()
	require.NoError(t, b.CreateDataset(detTransPath+"/twotheta/twotheta", []float64{3.0}, storage.Attributes{
		"units":      "deg",
		"depends_on": ".",
	}))
	require.NoError(t, b.CreateDataset(detTransPath+"/detector_z/det_z", []float64{100}, storage.Attributes{
		"vector":     [3]float64{0, 0, -1},
		"depends_on": nexgen.DetectorZDependsOnTarget,
	}))

	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, detTransPath+"/twotheta/twotheta", discrepancies[0].Path)
	// Reported under the canonical name regardless of which alias matched.
	assert.Equal(t, "two_theta/two_theta", discrepancies[0].Axis)
}

// TestValidate_MissingAxisIsFatal tests that an axis absent under every
// candidate path escalates instead of being reported as a discrepancy.
func TestValidate_MissingAxisIsFatal(t *testing.T) {
	b := storage.NewMemoryBackend()
	require.NoError(t, b.CreateGroup(detTransPath, "NXtransformations"))

	_, err := Validate(b, detTransPath, detectorExpectations())
	assert.ErrorIs(t, err, nexgen.ErrMissingAxis)
}

// TestValidate_ByteStringDependsOn tests acceptance of byte-typed string
// attributes, which older files carry.
func TestValidate_ByteStringDependsOn(t *testing.T) {
	b := storage.NewMemoryBackend()
	require.NoError(t, b.CreateDataset(detTransPath+"/two_theta/two_theta", []float64{0}, storage.Attributes{
		"depends_on": []byte("."),
	}))
	require.NoError(t, b.CreateDataset(detTransPath+"/detector_z/det_z", []float64{100}, storage.Attributes{
		"vector":     []float64{0, 0, -1},
		"depends_on": []byte(nexgen.DetectorZDependsOnTarget),
	}))

	discrepancies, err := Validate(b, detTransPath, detectorExpectations())
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}
