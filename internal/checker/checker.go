// Package checker inspects an existing metadata tree and repairs it against
// the instrument's canonical reference values.
//
// The check is a linear pass through fixed stages; each stage either
// completes (possibly after corrections) or aborts the whole run. Files
// checked twice come out identical: every repair converges.
package checker

import (
	"fmt"

	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/internal/transform"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

type state int

const (
	stateOpen state = iota
	stateDefinition
	stateDetectorChain
	stateSampleBase
	stateSampleChain
	stateDone
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateDefinition:
		return "definition"
	case stateDetectorChain:
		return "detector chain"
	case stateSampleBase:
		return "sample base"
	case stateSampleChain:
		return "sample chain"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Report summarizes one checker run.
type Report struct {
	// Corrections lists every deviation found, in the order encountered.
	// In dry-run mode these were reported but not written.
	Corrections []string
	DryRun      bool
}

// Clean reports whether the tree already matched the reference.
func (r *Report) Clean() bool {
	return len(r.Corrections) == 0
}

// Checker walks one tree through the check stages.
type Checker struct {
	log    nexgen.Logger
	dryRun bool
}

// New creates a Checker. With dryRun set, deviations are reported but the
// tree is left untouched.
func New(log nexgen.Logger, dryRun bool) *Checker {
	return &Checker{log: log, dryRun: dryRun}
}

// Run advances through the stages in order. A stage failure aborts the run;
// the tree may then hold some of the earlier corrections.
func (c *Checker) Run(b storage.Backend) (*Report, error) {
	report := &Report{DryRun: c.dryRun}

	for s := stateOpen; s != stateDone; s++ {
		var err error
		switch s {
		case stateOpen:
			if !b.Exists("entry") {
				err = fmt.Errorf("no entry group: %w", nexgen.ErrMissingAxis)
			}
		case stateDefinition:
			err = c.checkDefinition(b, report)
		case stateDetectorChain:
			err = c.checkDetectorChain(b, report)
		case stateSampleBase:
			err = c.checkSampleBase(b, report)
		case stateSampleChain:
			err = c.checkSampleChain(b, report)
		}
		if err != nil {
			return report, fmt.Errorf("stage %q: %w", s, err)
		}
		c.log.Verbose("stage %q complete", s)
	}

	if report.Clean() {
		c.log.Info("tree matches the reference, nothing to correct")
	} else {
		c.log.Info("%d deviations found", len(report.Corrections))
	}
	return report, nil
}

// checkDefinition pins entry/definition to the application definition. The
// dataset is rewritten even when it already matches, which also normalizes
// its storage type; only an actual mismatch counts as a correction.
func (c *Checker) checkDefinition(b storage.Backend, report *Report) error {
	const path = "entry/definition"

	observed, err := b.GetDataset(path)
	if err != nil {
		observed = "<absent>"
	}
	if s, ok := observed.(string); !ok || s != nexgen.Definition {
		c.record(report, fmt.Sprintf("definition: expected %q, found %v", nexgen.Definition, observed))
	}
	if c.dryRun {
		return nil
	}

	attrs := storage.Attributes{}
	if b.Exists(path) {
		if attrs, err = b.Attributes(path); err != nil {
			return err
		}
		if err := b.Delete(path); err != nil {
			return err
		}
	}
	return b.CreateDataset(path, nexgen.Definition, attrs)
}

// checkDetectorChain validates and repairs the detector transformation
// datasets under the first candidate group that exists.
func (c *Checker) checkDetectorChain(b storage.Backend, report *Report) error {
	parent := ""
	for _, candidate := range nexgen.DetectorTransformationCandidates {
		if b.Exists(candidate) {
			parent = candidate
			break
		}
	}
	if parent == "" {
		return fmt.Errorf("no detector transformations group under any candidate path: %w", nexgen.ErrMissingAxis)
	}
	c.log.Verbose("detector transformations found under %s", parent)

	return c.applyExpectations(b, report, parent, detectorExpectations())
}

// checkSampleBase ensures the sample's own depends_on dataset exists and
// points at the conventional target. Unlike axis datasets, this one is
// synthesized when absent.
func (c *Checker) checkSampleBase(b storage.Backend, report *Report) error {
	const path = "entry/sample/depends_on"

	if !b.Exists(path) {
		c.record(report, fmt.Sprintf("sample depends_on: absent, creating with %q", nexgen.SampleDependsOnTarget))
		if c.dryRun {
			return nil
		}
		return b.CreateDataset(path, nexgen.SampleDependsOnTarget, nil)
	}

	observed, err := b.GetDataset(path)
	if err != nil {
		return err
	}
	if asString(observed) == nexgen.SampleDependsOnTarget {
		return nil
	}
	c.record(report, fmt.Sprintf("sample depends_on: expected %q, found %v", nexgen.SampleDependsOnTarget, observed))
	if c.dryRun {
		return nil
	}
	attrs, err := b.Attributes(path)
	if err != nil {
		return err
	}
	if err := b.Delete(path); err != nil {
		return err
	}
	return b.CreateDataset(path, nexgen.SampleDependsOnTarget, attrs)
}

// checkSampleChain validates and repairs the goniometer axis depends_on
// attributes against the canonical ordering. A missing axis dataset is
// fatal; the checker corrects fields, it does not invent axes.
func (c *Checker) checkSampleChain(b storage.Backend, report *Report) error {
	return c.applyExpectations(b, report, nexgen.SampleTransformationsPath, sampleExpectations())
}

func (c *Checker) applyExpectations(b storage.Backend, report *Report, parent string, expectations []transform.Expected) error {
	discrepancies, err := transform.Validate(b, parent, expectations)
	if err != nil {
		return err
	}
	for _, d := range discrepancies {
		c.record(report, d.String())
	}
	if c.dryRun || len(discrepancies) == 0 {
		return nil
	}
	applied, err := transform.Repair(b, discrepancies)
	if err != nil {
		return err
	}
	c.log.Verbose("%d corrections applied under %s", applied, parent)
	return nil
}

func (c *Checker) record(report *Report, correction string) {
	if c.dryRun {
		c.log.Info("would correct: %s", correction)
	} else {
		c.log.Info("correcting: %s", correction)
	}
	report.Corrections = append(report.Corrections, correction)
}

// detectorExpectations is the canonical detector chain reference: the
// two-theta-equivalent axis pinned at zero depending on the root, and the
// detector translation pointing back at it along -z.
func detectorExpectations() []transform.Expected {
	zero := 0.0
	return []transform.Expected{
		{
			Paths:     []string{"two_theta/two_theta", "twotheta/twotheta"},
			Value:     &zero,
			DependsOn: nexgen.RootSentinel,
		},
		{
			Paths:     []string{"det_z/det_z", "detector_z/det_z"},
			Vector:    &[3]float64{0, 0, -1},
			DependsOn: nexgen.DetectorZDependsOnTarget,
		},
	}
}

// sampleExpectations derives each goniometer axis's depends_on attribute
// from the canonical order.
func sampleExpectations() []transform.Expected {
	out := make([]transform.Expected, len(nexgen.GoniometerOrder))
	for i, name := range nexgen.GoniometerOrder {
		target := nexgen.RootSentinel
		if i+1 < len(nexgen.GoniometerOrder) {
			target = "/" + storage.Join(nexgen.SampleTransformationsPath, nexgen.GoniometerOrder[i+1])
		}
		out[i] = transform.Expected{Paths: []string{name}, DependsOn: target}
	}
	return out
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}
