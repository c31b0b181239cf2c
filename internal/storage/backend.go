// Package storage defines the hierarchical-file contract the tree assembler
// and consistency checker write through, plus an in-memory implementation.
//
// Paths are slash-separated names rooted at the file's single top-level
// entry (e.g. "entry/instrument/detector/transformations"). The empty path
// addresses the file root itself, which can carry attributes but no value.
//
// The core never manipulates file bytes directly; a concrete HDF5 binding
// satisfying Backend is an external collaborator.
package storage

import (
	"fmt"
	"strings"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// Attributes is the set of named attributes attached to a group or dataset.
type Attributes map[string]interface{}

// EntryKind classifies a child of a group.
type EntryKind int

const (
	// KindGroup is a named group carrying an NX_class attribute.
	KindGroup EntryKind = iota
	// KindDataset is a scalar or array dataset.
	KindDataset
	// KindExternalLink points into another file.
	KindExternalLink
)

// Entry describes one immediate child of a group.
type Entry struct {
	Name string
	Kind EntryKind
}

// Backend is the storage contract consumed by the core. Implementations are
// synchronous and perform no internal retry; any failure propagates
// immediately and the caller discards the partially written file.
type Backend interface {
	// CreateGroup creates a group at path with the given NX_class,
	// creating missing parent groups along the way.
	CreateGroup(path, class string) error

	// CreateDataset writes a dataset at path with the given value and
	// attributes, creating missing parent groups. Fails if path exists.
	CreateDataset(path string, value interface{}, attrs Attributes) error

	// SetAttribute sets one attribute on an existing group or dataset.
	SetAttribute(path, key string, value interface{}) error

	// GetDataset returns the value stored at path.
	// Fails with nexgen.ErrNotFound if absent.
	GetDataset(path string) (interface{}, error)

	// GetAttribute returns one attribute of the object at path.
	// Fails with nexgen.ErrNotFound if the object or the key is absent.
	GetAttribute(path, key string) (interface{}, error)

	// Attributes returns a copy of all attributes of the object at path.
	Attributes(path string) (Attributes, error)

	// Delete removes the object at path, and everything below it for
	// groups.
	Delete(path string) error

	// Exists reports whether an object is present at path.
	Exists(path string) bool

	// List returns the immediate children of the group at path, sorted by
	// name.
	List(path string) ([]Entry, error)

	// LinkExternal creates a link at path resolving to targetPath inside
	// targetFile.
	LinkExternal(path, targetFile, targetPath string) error

	// ExternalTarget returns the file and path an external link at path
	// resolves to.
	ExternalTarget(path string) (targetFile, targetPath string, err error)
}

// Clean normalizes a slash-separated path: leading/trailing slashes are
// stripped so that "/entry/sample" and "entry/sample" address the same
// object. The empty result addresses the file root.
func Clean(path string) string {
	return strings.Trim(path, "/")
}

// Join concatenates path segments with slashes, skipping empty segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = Clean(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// notFound wraps nexgen.ErrNotFound with the offending path.
func notFound(path string) error {
	return fmt.Errorf("%s: %w", path, nexgen.ErrNotFound)
}
