package copier

import (
	"testing"

	"github.com/MattPrit/nexgen/internal/logging"
	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/pkg/nexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceTree builds a small but representative metadata tree: an entry with
// data links, a scan axis, an instrument group, and a sample.
func sourceTree(t *testing.T) *storage.MemoryBackend {
	t.Helper()
	b := storage.NewMemoryBackend()
	require.NoError(t, b.CreateGroup("entry", "NXentry"))
	require.NoError(t, b.CreateDataset("entry/definition", "NXmx", nil))

	require.NoError(t, b.CreateGroup("entry/data", "NXdata"))
	require.NoError(t, b.SetAttribute("entry/data", "signal", "data"))
	require.NoError(t, b.SetAttribute("entry/data", "axes", "omega"))
	require.NoError(t, b.LinkExternal("entry/data/data_000001", "/old/run_000001.h5", "entry/data/data"))
	require.NoError(t, b.CreateDataset("entry/data/omega", []float64{0, 0.1, 0.2}, storage.Attributes{
		"depends_on":          ".",
		"transformation_type": "rotation",
		"units":               "deg",
	}))

	require.NoError(t, b.CreateGroup("entry/instrument", "NXinstrument"))
	require.NoError(t, b.CreateDataset("entry/instrument/name", "I19-2", storage.Attributes{"short_name": "DLS I19-2"}))
	require.NoError(t, b.CreateGroup("entry/sample", "NXsample"))
	require.NoError(t, b.CreateDataset("entry/sample/depends_on", nexgen.SampleDependsOnTarget, nil))
	return b
}

// TestImages_SimpleCopy tests the verbatim tree copy, links included.
func TestImages_SimpleCopy(t *testing.T) {
	src := sourceTree(t)
	dst := storage.NewMemoryBackend()

	err := New(logging.NewNullLogger()).Images(src, dst, nil, true, nil)
	require.NoError(t, err)

	definition, err := dst.GetDataset("entry/definition")
	require.NoError(t, err)
	assert.Equal(t, "NXmx", definition)

	file, target, err := dst.ExternalTarget("entry/data/data_000001")
	require.NoError(t, err)
	assert.Equal(t, "/old/run_000001.h5", file)
	assert.Equal(t, "entry/data/data", target)

	name, err := dst.GetAttribute("entry/instrument/name", "short_name")
	require.NoError(t, err)
	assert.Equal(t, "DLS I19-2", name)
}

// TestImages_RebuildsDataGroup tests the selective copy: the old data group
// is dropped, the scan axis survives, and the new file is linked.
func TestImages_RebuildsDataGroup(t *testing.T) {
	src := sourceTree(t)
	dst := storage.NewMemoryBackend()

	err := New(logging.NewNullLogger()).Images(src, dst, []string{"/new/run_000001.h5"}, false, []string{"NXdata"})
	require.NoError(t, err)

	// Old links are gone, the new one is in place under the plain name.
	assert.False(t, dst.Exists("entry/data/data_000001"))
	file, target, err := dst.ExternalTarget("entry/data/data")
	require.NoError(t, err)
	assert.Equal(t, "/new/run_000001.h5", file)
	assert.Equal(t, "data", target)

	omega, err := dst.GetDataset("entry/data/omega")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.2}, omega)

	axes, err := dst.GetAttribute("entry/data", "axes")
	require.NoError(t, err)
	assert.Equal(t, "omega", axes)

	// The rest of the tree came over untouched.
	assert.True(t, dst.Exists("entry/sample/depends_on"))
	assert.True(t, dst.Exists("entry/instrument/name"))
}

// TestImages_SkipExtraClasses tests dropping a second class besides NXdata.
func TestImages_SkipExtraClasses(t *testing.T) {
	src := sourceTree(t)
	dst := storage.NewMemoryBackend()

	err := New(logging.NewNullLogger()).Images(src, dst, []string{"/new/run_000001.h5"}, false, []string{"NXdata", "NXinstrument"})
	require.NoError(t, err)

	assert.False(t, dst.Exists("entry/instrument"))
	assert.True(t, dst.Exists("entry/sample"))
}

// TestImages_MultipleDataFiles tests per-file links named after the stems.
func TestImages_MultipleDataFiles(t *testing.T) {
	src := sourceTree(t)
	dst := storage.NewMemoryBackend()

	files := []string{"/new/run_000001.h5", "/new/run_000002.h5"}
	err := New(logging.NewNullLogger()).Images(src, dst, files, false, []string{"NXdata"})
	require.NoError(t, err)

	file, _, err := dst.ExternalTarget("entry/data/run_000001")
	require.NoError(t, err)
	assert.Equal(t, "/new/run_000001.h5", file)
	_, _, err = dst.ExternalTarget("entry/data/run_000002")
	require.NoError(t, err)
}

// TestPseudoEvents tests the event-data copy: data group always rebuilt,
// multiple files linked at their roots.
func TestPseudoEvents(t *testing.T) {
	src := sourceTree(t)
	dst := storage.NewMemoryBackend()

	files := []string{"/new/events_000001.h5", "/new/events_000002.h5"}
	err := New(logging.NewNullLogger()).PseudoEvents(src, dst, files)
	require.NoError(t, err)

	_, target, err := dst.ExternalTarget("entry/data/events_000001")
	require.NoError(t, err)
	assert.Equal(t, "/", target)

	omega, err := dst.GetDataset("entry/data/omega")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.2}, omega)
}

// TestImages_NoScanAxisInSource tests the failure mode when the source data
// group carries no axis dataset.
func TestImages_NoScanAxisInSource(t *testing.T) {
	src := storage.NewMemoryBackend()
	require.NoError(t, src.CreateGroup("entry", "NXentry"))
	require.NoError(t, src.CreateGroup("entry/data", "NXdata"))

	dst := storage.NewMemoryBackend()
	err := New(logging.NewNullLogger()).Images(src, dst, []string{"/new/run.h5"}, false, []string{"NXdata"})
	assert.ErrorIs(t, err, nexgen.ErrMissingAxis)
}
