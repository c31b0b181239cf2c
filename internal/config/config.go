package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// ErrConfigNotFound is returned when the experiment config file does not
// exist. Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Experiment is the YAML description of one data collection: the instrument
// geometry plus the beam conditions it ran under. Numeric beam parameters
// may be overridden later from the environment; the file is the baseline.
type Experiment struct {
	// Mode is "images" (frame series, the default when empty) or "events"
	// (time-binned stream).
	Mode string `yaml:"mode,omitempty"`

	Goniometer nexgen.Goniometer `yaml:"goniometer"`
	Detector   nexgen.Detector   `yaml:"detector"`
	Module     nexgen.Module     `yaml:"module"`
	Source     nexgen.Source     `yaml:"source"`
	Beam       nexgen.Beam       `yaml:"beam"`
	Attenuator nexgen.Attenuator `yaml:"attenuator"`
	TimeStamps nexgen.TimeStamps `yaml:"timestamps,omitempty"`

	// DataFiles lists the raw data files of the collection, in acquisition
	// order. Optional: the demo path generates its own file names.
	DataFiles []string `yaml:"data_files,omitempty"`
}

// Load reads and parses the experiment config at path.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: %v", nexgen.ErrInvalidConfig, err)
	}
	if exp.Mode == "" {
		exp.Mode = "images"
	}
	return &exp, nil
}

// Validate checks the config invariants that do not depend on the scan:
// recognized mode, a non-empty goniometer, a described detector, and a
// physical wavelength. Chain structure is verified separately at build time.
func (e *Experiment) Validate() error {
	if e.Mode != "images" && e.Mode != "events" {
		return fmt.Errorf("%w: unknown mode %q", nexgen.ErrInvalidConfig, e.Mode)
	}
	if len(e.Goniometer.Axes) == 0 {
		return fmt.Errorf("%w: goniometer declares no axes", nexgen.ErrInvalidConfig)
	}
	if len(e.Detector.Axes) == 0 {
		return fmt.Errorf("%w: detector declares no axes", nexgen.ErrInvalidConfig)
	}
	if e.Detector.Description == "" {
		return fmt.Errorf("%w: detector has no description", nexgen.ErrInvalidConfig)
	}
	if e.Beam.Wavelength <= 0 {
		return fmt.Errorf("%w: wavelength %v is not positive", nexgen.ErrInvalidConfig, e.Beam.Wavelength)
	}
	if e.Attenuator.Transmission < 0 || e.Attenuator.Transmission > 1 {
		return fmt.Errorf("%w: transmission %v outside [0, 1]", nexgen.ErrInvalidConfig, e.Attenuator.Transmission)
	}
	return nil
}
