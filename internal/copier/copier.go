// Package copier transplants metadata from an existing tree into a fresh
// one, rebuilding the data group around a new set of raw data files.
//
// This serves collections re-processed after acquisition: the instrument
// description stays valid, only the data links and scan positions change.
package copier

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// Copier copies metadata trees between storage backends.
type Copier struct {
	log nexgen.Logger
}

// New creates a Copier logging through log.
func New(log nexgen.Logger) *Copier {
	return &Copier{log: log}
}

// Images copies a metadata tree for a frame-series dataset. With simple
// set, the tree is copied verbatim, links included. Otherwise groups whose
// NX_class appears in skipClasses are dropped and the data group is rebuilt
// around dataFiles, keeping only the scan axis information from the source.
func (c *Copier) Images(src, dst storage.Backend, dataFiles []string, simple bool, skipClasses []string) error {
	if simple {
		c.log.Verbose("copying the whole tree")
		return c.copyTree(src, dst, "", nil)
	}

	skip := make(map[string]bool, len(skipClasses))
	for _, class := range skipClasses {
		skip[class] = true
	}
	if !skip["NXdata"] {
		// The data group is rebuilt either way; never copy it twice.
		skip["NXdata"] = true
	}
	c.log.Info("classes not copied: %s", strings.Join(skipClasses, ", "))

	if err := c.copyTree(src, dst, "", skip); err != nil {
		return err
	}
	return c.rebuildData(src, dst, dataFiles, "data")
}

// PseudoEvents copies a metadata tree for event data converted to a
// frame-series representation. The data group is always rebuilt.
func (c *Copier) PseudoEvents(src, dst storage.Backend, dataFiles []string) error {
	if err := c.copyTree(src, dst, "", map[string]bool{"NXdata": true}); err != nil {
		return err
	}
	target := "data"
	if len(dataFiles) > 1 {
		target = "/"
	}
	return c.rebuildData(src, dst, dataFiles, target)
}

// copyTree mirrors the subtree at path from src into dst, dropping groups
// whose NX_class is in skip.
func (c *Copier) copyTree(src, dst storage.Backend, path string, skip map[string]bool) error {
	entries, err := src.List(path)
	if err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	for _, e := range entries {
		child := storage.Join(path, e.Name)
		switch e.Kind {
		case storage.KindGroup:
			attrs, err := src.Attributes(child)
			if err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
			class, _ := attrs["NX_class"].(string)
			if skip[class] {
				c.log.Verbose("skipping %s (%s)", child, class)
				continue
			}
			if err := dst.CreateGroup(child, class); err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
			for key, value := range attrs {
				if key == "NX_class" {
					continue
				}
				if err := dst.SetAttribute(child, key, value); err != nil {
					return fmt.Errorf("copy %s: %w", child, err)
				}
			}
			if err := c.copyTree(src, dst, child, skip); err != nil {
				return err
			}
		case storage.KindDataset:
			value, err := src.GetDataset(child)
			if err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
			attrs, err := src.Attributes(child)
			if err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
			if err := dst.CreateDataset(child, value, attrs); err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
		case storage.KindExternalLink:
			file, target, err := src.ExternalTarget(child)
			if err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
			if err := dst.LinkExternal(child, file, target); err != nil {
				return fmt.Errorf("copy %s: %w", child, err)
			}
		}
	}
	return nil
}

// rebuildData recreates entry/data in dst: the scan axis datasets carried
// over from src, plus external links to the new data files. A single file
// links as "data"; several link under their own stems.
func (c *Copier) rebuildData(src, dst storage.Backend, dataFiles []string, targetPath string) error {
	if err := dst.CreateGroup("entry/data", "NXdata"); err != nil {
		return fmt.Errorf("rebuild data: %w", err)
	}

	axis, err := c.copyScanAxes(src, dst)
	if err != nil {
		return err
	}
	if err := dst.SetAttribute("entry/data", "axes", axis); err != nil {
		return fmt.Errorf("rebuild data: %w", err)
	}
	if err := dst.SetAttribute("entry/data", "signal", "data"); err != nil {
		return fmt.Errorf("rebuild data: %w", err)
	}

	if len(dataFiles) == 1 {
		c.log.Verbose("linking entry/data/data to %s", dataFiles[0])
		if err := dst.LinkExternal("entry/data/data", dataFiles[0], targetPath); err != nil {
			return fmt.Errorf("rebuild data: %w", err)
		}
		return nil
	}
	for _, file := range dataFiles {
		name := stem(file)
		c.log.Verbose("linking entry/data/%s to %s", name, file)
		if err := dst.LinkExternal(storage.Join("entry/data", name), file, targetPath); err != nil {
			return fmt.Errorf("rebuild data: %w", err)
		}
	}
	return nil
}

// copyScanAxes carries over the datasets in the source data group that hold
// scan axis information, recognizable by their depends_on attribute, and
// returns the last axis name found.
func (c *Copier) copyScanAxes(src, dst storage.Backend) (string, error) {
	entries, err := src.List("entry/data")
	if err != nil {
		return "", fmt.Errorf("rebuild data: %w", err)
	}
	axis := ""
	for _, e := range entries {
		if e.Kind != storage.KindDataset {
			continue
		}
		child := storage.Join("entry/data", e.Name)
		attrs, err := src.Attributes(child)
		if err != nil {
			return "", fmt.Errorf("rebuild data: %w", err)
		}
		if _, ok := attrs["depends_on"]; !ok {
			continue
		}
		value, err := src.GetDataset(child)
		if err != nil {
			return "", fmt.Errorf("rebuild data: %w", err)
		}
		if err := dst.CreateDataset(child, value, attrs); err != nil {
			return "", fmt.Errorf("rebuild data: %w", err)
		}
		axis = e.Name
	}
	if axis == "" {
		return "", fmt.Errorf("no scan axis dataset in the source data group: %w", nexgen.ErrMissingAxis)
	}
	return axis, nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
