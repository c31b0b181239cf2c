package storage

import (
	"fmt"
	"sort"
	"strings"
)

// node is one object in the in-memory tree: a group, a dataset, or an
// external link.
type node struct {
	kind       EntryKind
	class      string // NX_class for groups
	value      interface{}
	attrs      Attributes
	targetFile string // external links only
	targetPath string
}

// MemoryBackend implements Backend over a map keyed by cleaned slash paths.
// It backs every package test and the demo writer's stub data files.
// Not safe for concurrent mutation; each assembly or check pass owns its
// backend exclusively.
type MemoryBackend struct {
	nodes map[string]*node
}

// NewMemoryBackend creates an empty in-memory file. The root exists from the
// start and can carry attributes.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes: map[string]*node{
			"": {kind: KindGroup, attrs: Attributes{}},
		},
	}
}

// ensureParents creates implicit plain groups above path, the way HDF5
// intermediate group creation does.
func (m *MemoryBackend) ensureParents(path string) {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		parent := strings.Join(segments[:i], "/")
		if _, ok := m.nodes[parent]; !ok {
			m.nodes[parent] = &node{kind: KindGroup, attrs: Attributes{}}
		}
	}
}

// CreateGroup implements Backend.CreateGroup.
func (m *MemoryBackend) CreateGroup(path, class string) error {
	path = Clean(path)
	if path == "" {
		return fmt.Errorf("cannot create group at file root")
	}
	if existing, ok := m.nodes[path]; ok {
		if existing.kind != KindGroup {
			return fmt.Errorf("object already exists at %s", path)
		}
		// Re-creating an implicit group attaches the class.
		existing.class = class
		if class != "" {
			existing.attrs["NX_class"] = class
		}
		return nil
	}
	m.ensureParents(path)
	attrs := Attributes{}
	if class != "" {
		attrs["NX_class"] = class
	}
	m.nodes[path] = &node{kind: KindGroup, class: class, attrs: attrs}
	return nil
}

// CreateDataset implements Backend.CreateDataset.
func (m *MemoryBackend) CreateDataset(path string, value interface{}, attrs Attributes) error {
	path = Clean(path)
	if path == "" {
		return fmt.Errorf("cannot create dataset at file root")
	}
	if _, ok := m.nodes[path]; ok {
		return fmt.Errorf("object already exists at %s", path)
	}
	m.ensureParents(path)
	copied := Attributes{}
	for k, v := range attrs {
		copied[k] = v
	}
	m.nodes[path] = &node{kind: KindDataset, value: value, attrs: copied}
	return nil
}

// SetAttribute implements Backend.SetAttribute.
func (m *MemoryBackend) SetAttribute(path, key string, value interface{}) error {
	n, ok := m.nodes[Clean(path)]
	if !ok {
		return notFound(path)
	}
	n.attrs[key] = value
	return nil
}

// GetDataset implements Backend.GetDataset.
func (m *MemoryBackend) GetDataset(path string) (interface{}, error) {
	n, ok := m.nodes[Clean(path)]
	if !ok || n.kind != KindDataset {
		return nil, notFound(path)
	}
	return n.value, nil
}

// GetAttribute implements Backend.GetAttribute.
func (m *MemoryBackend) GetAttribute(path, key string) (interface{}, error) {
	n, ok := m.nodes[Clean(path)]
	if !ok {
		return nil, notFound(path)
	}
	v, ok := n.attrs[key]
	if !ok {
		return nil, notFound(Join(path, "@"+key))
	}
	return v, nil
}

// Attributes implements Backend.Attributes.
func (m *MemoryBackend) Attributes(path string) (Attributes, error) {
	n, ok := m.nodes[Clean(path)]
	if !ok {
		return nil, notFound(path)
	}
	copied := Attributes{}
	for k, v := range n.attrs {
		copied[k] = v
	}
	return copied, nil
}

// Delete implements Backend.Delete. Deleting a group removes its subtree.
func (m *MemoryBackend) Delete(path string) error {
	path = Clean(path)
	if _, ok := m.nodes[path]; !ok {
		return notFound(path)
	}
	if path == "" {
		return fmt.Errorf("cannot delete file root")
	}
	delete(m.nodes, path)
	prefix := path + "/"
	for p := range m.nodes {
		if strings.HasPrefix(p, prefix) {
			delete(m.nodes, p)
		}
	}
	return nil
}

// Exists implements Backend.Exists.
func (m *MemoryBackend) Exists(path string) bool {
	_, ok := m.nodes[Clean(path)]
	return ok
}

// List implements Backend.List.
func (m *MemoryBackend) List(path string) ([]Entry, error) {
	path = Clean(path)
	n, ok := m.nodes[path]
	if !ok {
		return nil, notFound(path)
	}
	if n.kind != KindGroup {
		return nil, fmt.Errorf("not a group: %s", path)
	}

	prefix := ""
	if path != "" {
		prefix = path + "/"
	}
	var entries []Entry
	for p, child := range m.nodes {
		if p == path || !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, Entry{Name: rest, Kind: child.kind})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// LinkExternal implements Backend.LinkExternal.
func (m *MemoryBackend) LinkExternal(path, targetFile, targetPath string) error {
	path = Clean(path)
	if _, ok := m.nodes[path]; ok {
		return fmt.Errorf("object already exists at %s", path)
	}
	m.ensureParents(path)
	m.nodes[path] = &node{
		kind:       KindExternalLink,
		attrs:      Attributes{},
		targetFile: targetFile,
		targetPath: targetPath,
	}
	return nil
}

// ExternalTarget implements Backend.ExternalTarget.
func (m *MemoryBackend) ExternalTarget(path string) (string, string, error) {
	n, ok := m.nodes[Clean(path)]
	if !ok || n.kind != KindExternalLink {
		return "", "", notFound(path)
	}
	return n.targetFile, n.targetPath, nil
}
