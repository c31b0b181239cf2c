package storage

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// The file form is a YAML snapshot of the tree, one document per file. The
// production HDF5 binding is an external collaborator; this format keeps
// the full tree inspectable and round-trippable for every operation the
// tool performs on its own.

type fileNode struct {
	Kind       string                 `yaml:"kind"`
	Value      interface{}            `yaml:"value,omitempty"`
	Attrs      map[string]interface{} `yaml:"attrs,omitempty"`
	TargetFile string                 `yaml:"target_file,omitempty"`
	TargetPath string                 `yaml:"target_path,omitempty"`
}

type fileDocument struct {
	Nodes map[string]fileNode `yaml:"nodes"`
}

const (
	kindGroupName   = "group"
	kindDatasetName = "dataset"
	kindLinkName    = "external_link"
)

// Save writes a snapshot of the tree to path, replacing any previous file.
func Save(path string, m *MemoryBackend) error {
	doc := fileDocument{Nodes: make(map[string]fileNode, len(m.nodes))}
	for p, n := range m.nodes {
		fn := fileNode{Attrs: n.attrs, Value: n.value}
		switch n.kind {
		case KindGroup:
			fn.Kind = kindGroupName
		case KindDataset:
			fn.Kind = kindDatasetName
		case KindExternalLink:
			fn.Kind = kindLinkName
			fn.TargetFile = n.targetFile
			fn.TargetPath = n.targetPath
		}
		if len(fn.Attrs) == 0 {
			fn.Attrs = nil
		}
		doc.Nodes[p] = fn
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save back into a MemoryBackend.
func Load(path string) (*MemoryBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, nexgen.ErrNotFound)
		}
		return nil, err
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", path, err)
	}

	m := NewMemoryBackend()
	for p, fn := range doc.Nodes {
		n := &node{attrs: Attributes{}}
		switch fn.Kind {
		case kindGroupName:
			n.kind = KindGroup
		case kindDatasetName:
			n.kind = KindDataset
			n.value = normalizeValue(fn.Value)
		case kindLinkName:
			n.kind = KindExternalLink
			n.targetFile = fn.TargetFile
			n.targetPath = fn.TargetPath
		default:
			return nil, fmt.Errorf("decode tree %s: node %q has unknown kind %q", path, p, fn.Kind)
		}
		for k, v := range fn.Attrs {
			n.attrs[k] = normalizeValue(v)
		}
		if class, ok := n.attrs["NX_class"].(string); ok {
			n.class = class
		}
		m.nodes[Clean(p)] = n
	}
	if _, ok := m.nodes[""]; !ok {
		m.nodes[""] = &node{kind: KindGroup, attrs: Attributes{}}
	}
	return m, nil
}

// normalizeValue undoes the type erasure of generic YAML decoding: numeric
// sequences come back as []float64 so datasets and vector attributes keep
// the shapes the rest of the code works with.
func normalizeValue(v interface{}) interface{} {
	seq, ok := v.([]interface{})
	if !ok {
		return v
	}
	floats := make([]float64, len(seq))
	for i, e := range seq {
		switch t := e.(type) {
		case float64:
			floats[i] = t
		case int:
			floats[i] = float64(t)
		case int64:
			floats[i] = float64(t)
		default:
			return v
		}
	}
	return floats
}

// SortedPaths returns every node path in the tree in lexical order; handy
// for diagnostics and tests.
func SortedPaths(m *MemoryBackend) []string {
	paths := make([]string, 0, len(m.nodes))
	for p := range m.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
