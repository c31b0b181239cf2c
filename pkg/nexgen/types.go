package nexgen

import "fmt"

// AxisKind distinguishes the two degrees of freedom an axis can express.
type AxisKind string

const (
	// Rotation is an angular axis, positions in degrees.
	Rotation AxisKind = "rotation"
	// Translation is a linear axis, positions in millimetres.
	Translation AxisKind = "translation"
)

// Valid reports whether the kind is one of the two recognized values.
func (k AxisKind) Valid() bool {
	return k == Rotation || k == Translation
}

// Units returns the physical unit datasets of this kind carry.
func (k AxisKind) Units() string {
	if k == Translation {
		return "mm"
	}
	return "deg"
}

// Axis describes one physical transformation axis: its motion parameters and
// the axis its coordinate frame is defined relative to. DependsOn names
// another axis in the same chain, or RootSentinel for the base axis.
//
// Increment zero means the axis is not the scan axis for this collection.
type Axis struct {
	Name      string     `yaml:"name"`
	Kind      AxisKind   `yaml:"type"`
	Vector    [3]float64 `yaml:"vector"`
	Start     float64    `yaml:"start"`
	End       float64    `yaml:"end"`
	Increment float64    `yaml:"increment"`
	DependsOn string     `yaml:"depends_on"`
}

// Validate checks the axis-local invariants.
func (a Axis) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: axis with empty name", ErrInvalidConfig)
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: axis %q: unknown type %q", ErrInvalidConfig, a.Name, a.Kind)
	}
	if a.Vector == [3]float64{} {
		return fmt.Errorf("%w: axis %q: zero direction vector", ErrInvalidConfig, a.Name)
	}
	if a.DependsOn == "" {
		return fmt.Errorf("%w: axis %q: empty depends_on", ErrInvalidConfig, a.Name)
	}
	return nil
}

// Goniometer describes the sample motion system. Axes are declared in the
// instrument's canonical dependency order, leaf first.
type Goniometer struct {
	Axes []Axis `yaml:"axes"`
}

// Detector is a flat attribute bag describing the detector: geometry,
// sensor, and the detector's own transformation axes.
//
// Extra carries detector-specific metadata that has no dedicated field
// (e.g. Tristan LATRD "detector_tick", "timeslice_rollover"). Keys are
// written verbatim as string datasets under the detector group.
type Detector struct {
	Description     string     `yaml:"description"`
	ImageSize       [2]int     `yaml:"image_size"` // slow, fast
	PixelSize       [2]float64 `yaml:"pixel_size"` // mm
	BeamCenter      [2]float64 `yaml:"beam_center"`
	Distance        float64    `yaml:"distance"` // mm
	ExposureTime    float64    `yaml:"exposure_time"`
	SensorMaterial  string     `yaml:"sensor_material"`
	SensorThickness float64    `yaml:"sensor_thickness"` // mm
	Overload        int64      `yaml:"overload"`
	Underload       int64      `yaml:"underload"`
	Axes            []Axis     `yaml:"axes"`

	Extra map[string]string `yaml:"extra,omitempty"`
}

// Module describes the detector module: the directions data is laid out in
// and, optionally, a module offset convention.
type Module struct {
	FastAxis     [3]float64 `yaml:"fast_axis"`
	SlowAxis     [3]float64 `yaml:"slow_axis"`
	ModuleOffset bool       `yaml:"module_offset"`
}

// Source describes the facility.
type Source struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Type      string `yaml:"type"`
	Beamline  string `yaml:"beamline"`
	Probe     string `yaml:"probe,omitempty"`
}

// Beam describes the incident beam.
type Beam struct {
	Wavelength float64  `yaml:"wavelength"` // angstrom
	Flux       *float64 `yaml:"flux,omitempty"`
}

// Attenuator describes beam attenuation.
type Attenuator struct {
	Transmission float64 `yaml:"transmission"`
}

// TimeStamps holds optional ISO8601 collection start/end times.
// Either may be empty; absence is not an error.
type TimeStamps struct {
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

// DataFile identifies one raw data file contributing to a collection,
// together with the number of frames it holds. Frames is zero for event
// mode files.
type DataFile struct {
	Path   string
	Frames int
}
