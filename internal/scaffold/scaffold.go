// Package scaffold writes starter experiment configs from embedded
// beamline templates.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

//go:embed templates
var templatesFS embed.FS

// Scaffolder writes template configs to disk.
type Scaffolder struct {
	log nexgen.Logger
}

// NewScaffolder creates a Scaffolder logging through log.
func NewScaffolder(log nexgen.Logger) *Scaffolder {
	return &Scaffolder{log: log}
}

// Write copies the named template to targetPath. Existing files are never
// overwritten.
func (s *Scaffolder) Write(templateName, targetPath string) error {
	content, err := Template(templateName)
	if err != nil {
		return err
	}

	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", targetPath)
	}
	if dir := filepath.Dir(targetPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create target directory: %w", err)
		}
	}

	s.log.Verbose("writing template %q to %s", templateName, targetPath)
	if err := os.WriteFile(targetPath, content, 0644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	s.log.Info("created %s from template %q", targetPath, templateName)
	return nil
}

// Template returns the raw content of the named template.
func Template(name string) ([]byte, error) {
	content, err := templatesFS.ReadFile("templates/" + name + ".yaml")
	if err != nil {
		available, _ := ListTemplates()
		return nil, fmt.Errorf("template %q not found (available: %s)", name, strings.Join(available, ", "))
	}
	return content, nil
}

// ListTemplates returns the available template names, without extension.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	var templates []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			templates = append(templates, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	return templates, nil
}

// Describe returns the leading comment block of the named template, the
// one-paragraph summary shown by the list command.
func Describe(name string) (string, error) {
	content, err := Template(name)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if !strings.HasPrefix(line, "#") {
			break
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	return strings.Join(lines, " "), nil
}
