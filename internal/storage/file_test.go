package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// TestSaveLoad_RoundTrip tests that a saved tree reloads with equivalent
// structure and usable value shapes.
func TestSaveLoad_RoundTrip(t *testing.T) {
	src := NewMemoryBackend()
	if err := src.SetAttribute("", "default", "entry"); err != nil {
		t.Fatal(err)
	}
	if err := src.CreateGroup("entry", "NXentry"); err != nil {
		t.Fatal(err)
	}
	if err := src.CreateDataset("entry/definition", "NXmx", nil); err != nil {
		t.Fatal(err)
	}
	if err := src.CreateDataset("entry/sample/transformations/omega", []float64{0, 0.1, 0.2}, Attributes{
		"depends_on": ".",
		"vector":     [3]float64{-1, 0, 0},
		"units":      "deg",
	}); err != nil {
		t.Fatal(err)
	}
	if err := src.LinkExternal("entry/data/data_000001", "/data/run_000001.h5", "entry/data/data"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "tree.nxs")
	if err := Save(path, src); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	definition, err := loaded.GetDataset("entry/definition")
	if err != nil {
		t.Fatal(err)
	}
	if definition != "NXmx" {
		t.Errorf("definition = %v, want NXmx", definition)
	}

	positions, err := loaded.GetDataset("entry/sample/transformations/omega")
	if err != nil {
		t.Fatal(err)
	}
	got, ok := positions.([]float64)
	if !ok || len(got) != 3 || got[1] != 0.1 {
		t.Errorf("positions = %#v, want []float64{0, 0.1, 0.2}", positions)
	}

	vector, err := loaded.GetAttribute("entry/sample/transformations/omega", "vector")
	if err != nil {
		t.Fatal(err)
	}
	vec, ok := vector.([]float64)
	if !ok || len(vec) != 3 || vec[0] != -1 {
		t.Errorf("vector = %#v, want []float64{-1, 0, 0}", vector)
	}

	file, target, err := loaded.ExternalTarget("entry/data/data_000001")
	if err != nil {
		t.Fatal(err)
	}
	if file != "/data/run_000001.h5" || target != "entry/data/data" {
		t.Errorf("link target = %s %s", file, target)
	}

	rootDefault, err := loaded.GetAttribute("", "default")
	if err != nil {
		t.Fatal(err)
	}
	if rootDefault != "entry" {
		t.Errorf("root default = %v, want entry", rootDefault)
	}

	if loaded.Exists("entry/sample/transformations") != true {
		t.Error("implicit parent group missing after reload")
	}
}

// TestLoad_MissingFile tests classification of an absent file.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.nxs"))
	if !errors.Is(err, nexgen.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestSortedPaths tests lexical ordering of the node listing.
func TestSortedPaths(t *testing.T) {
	b := NewMemoryBackend()
	if err := b.CreateGroup("entry/b", ""); err != nil {
		t.Fatal(err)
	}
	if err := b.CreateGroup("entry/a", ""); err != nil {
		t.Fatal(err)
	}
	paths := SortedPaths(b)
	want := []string{"", "entry", "entry/a", "entry/b"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
