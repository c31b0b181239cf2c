package transform

import (
	"fmt"
	"math"

	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// Fields a Discrepancy can refer to.
const (
	FieldValue     = "value"
	FieldVector    = "vector"
	FieldDependsOn = "depends_on"
)

const valueTolerance = 1e-9

// Expected holds the canonical reference for one axis dataset in an
// existing tree. Paths lists candidate locations relative to the chain's
// parent group, canonical name first, then at most one legacy alias; the
// first that exists wins, and if none do the axis is structurally missing.
type Expected struct {
	Paths     []string
	DependsOn string      // canonical depends_on attribute, "" to skip
	Vector    *[3]float64 // canonical direction vector, nil to skip
	Value     *float64    // canonical fixed dataset value, nil to skip
}

// Discrepancy records one stored field deviating from its canonical value.
type Discrepancy struct {
	Axis     string
	Field    string
	Path     string // absolute dataset path in the file
	Expected interface{}
	Observed interface{}
}

// String renders the discrepancy the way corrections are logged.
func (d Discrepancy) String() string {
	return fmt.Sprintf("%s.%s: expected %v, found %v", d.Axis, d.Field, d.Expected, d.Observed)
}

// Validate compares the axis datasets under parent against the canonical
// reference and returns one Discrepancy per deviating field. It is
// side-effect free. An axis present under none of its candidate paths fails
// with nexgen.ErrMissingAxis.
func Validate(view storage.Backend, parent string, expectations []Expected) ([]Discrepancy, error) {
	var out []Discrepancy
	for _, exp := range expectations {
		path, name, err := resolve(view, parent, exp)
		if err != nil {
			return nil, err
		}

		if exp.Value != nil {
			observed, err := view.GetDataset(path)
			if err != nil {
				return nil, fmt.Errorf("axis %s: %w", name, err)
			}
			if v, ok := asFloat(observed); !ok || math.Abs(v-*exp.Value) > valueTolerance {
				out = append(out, Discrepancy{
					Axis: name, Field: FieldValue, Path: path,
					Expected: *exp.Value, Observed: observed,
				})
			}
		}

		if exp.Vector != nil {
			observed, err := view.GetAttribute(path, FieldVector)
			if err != nil || !vectorEqual(observed, *exp.Vector) {
				out = append(out, Discrepancy{
					Axis: name, Field: FieldVector, Path: path,
					Expected: *exp.Vector, Observed: observed,
				})
			}
		}

		if exp.DependsOn != "" {
			observed, err := view.GetAttribute(path, FieldDependsOn)
			if err != nil || asString(observed) != exp.DependsOn {
				out = append(out, Discrepancy{
					Axis: name, Field: FieldDependsOn, Path: path,
					Expected: exp.DependsOn, Observed: observed,
				})
			}
		}
	}
	return out, nil
}

// Repair overwrites each discrepant field with its canonical value and
// returns the number of corrections applied. Correcting a dataset value
// preserves every attribute attached to it (units and the like survive).
// Repair is idempotent: a Validate pass after Repair reports nothing.
func Repair(b storage.Backend, discrepancies []Discrepancy) (int, error) {
	applied := 0
	for _, d := range discrepancies {
		switch d.Field {
		case FieldValue:
			attrs, err := b.Attributes(d.Path)
			if err != nil {
				return applied, fmt.Errorf("axis %s: %w", d.Axis, err)
			}
			if err := b.Delete(d.Path); err != nil {
				return applied, fmt.Errorf("axis %s: %w", d.Axis, err)
			}
			value := []float64{d.Expected.(float64)}
			if err := b.CreateDataset(d.Path, value, attrs); err != nil {
				return applied, fmt.Errorf("axis %s: %w", d.Axis, err)
			}
		case FieldVector:
			if err := b.SetAttribute(d.Path, FieldVector, d.Expected.([3]float64)); err != nil {
				return applied, fmt.Errorf("axis %s: %w", d.Axis, err)
			}
		case FieldDependsOn:
			if err := b.SetAttribute(d.Path, FieldDependsOn, d.Expected.(string)); err != nil {
				return applied, fmt.Errorf("axis %s: %w", d.Axis, err)
			}
		default:
			return applied, fmt.Errorf("unknown discrepancy field %q on axis %s", d.Field, d.Axis)
		}
		applied++
	}
	return applied, nil
}

// resolve tries the candidate paths in order and returns the first that
// exists, plus the axis's canonical display name.
func resolve(view storage.Backend, parent string, exp Expected) (path, name string, err error) {
	if len(exp.Paths) == 0 {
		return "", "", fmt.Errorf("expectation with no candidate paths")
	}
	name = storage.Clean(exp.Paths[0])
	for _, rel := range exp.Paths {
		candidate := storage.Join(parent, rel)
		if view.Exists(candidate) {
			return candidate, name, nil
		}
	}
	return "", "", fmt.Errorf("axis %s under %s: %w", name, parent, nexgen.ErrMissingAxis)
}

// asFloat coerces the scalar shapes a numeric dataset may come back as.
func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case []float64:
		if len(t) == 1 {
			return t[0], true
		}
	}
	return 0, false
}

// asString coerces string datasets and attributes, including byte form.
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}

// vectorEqual compares a stored vector attribute against the canonical
// direction, accepting both array and slice representations.
func vectorEqual(v interface{}, want [3]float64) bool {
	switch t := v.(type) {
	case [3]float64:
		return t == want
	case []float64:
		if len(t) != 3 {
			return false
		}
		return t[0] == want[0] && t[1] == want[1] && t[2] == want[2]
	}
	return false
}
