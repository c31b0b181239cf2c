package writer

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MattPrit/nexgen/internal/config"
	"github.com/MattPrit/nexgen/internal/scan"
	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/internal/transform"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// Assembler writes fresh metadata trees from an experiment config.
type Assembler struct {
	log nexgen.Logger
}

// New creates an Assembler logging through log.
func New(log nexgen.Logger) *Assembler {
	return &Assembler{log: log}
}

// plan is everything Assemble decides before touching storage.
type plan struct {
	gonio *transform.Graph
	det   *transform.Graph
	spec  scan.Spec

	sampleDependsOn   string
	detectorDependsOn string
}

// Assemble validates the experiment and writes the full tree to b in a
// fixed order: entry, data, instrument (beam, attenuator), detector and its
// module, source, sample. All structural validation happens before the
// first write, so a returned chain or scan error leaves b untouched.
// The returned spec reports the scan the tree describes.
func (a *Assembler) Assemble(b storage.Backend, exp *config.Experiment, files []nexgen.DataFile) (*scan.Spec, error) {
	p, err := a.plan(exp, files)
	if err != nil {
		return nil, err
	}

	a.log.Verbose("assembling %s tree: scan axis %s, %d frames, %d data files",
		nexgen.Definition, p.spec.ScanAxis, p.spec.FrameCount(), len(files))

	emitters := []func(storage.Backend, *config.Experiment, []nexgen.DataFile, *plan) error{
		a.emitEntry,
		a.emitData,
		a.emitInstrument,
		a.emitDetector,
		a.emitModule,
		a.emitSource,
		a.emitSample,
	}
	for _, emit := range emitters {
		if err := emit(b, exp, files, p); err != nil {
			return nil, err
		}
	}
	return &p.spec, nil
}

// plan verifies both axis chains and computes the scan without writing.
func (a *Assembler) plan(exp *config.Experiment, files []nexgen.DataFile) (*plan, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}

	gonio, err := transform.Build(exp.Goniometer.Axes, goniometerOrder(exp.Goniometer.Axes))
	if err != nil {
		return nil, fmt.Errorf("goniometer: %w", err)
	}
	det, err := transform.Build(exp.Detector.Axes, nil)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	spec, err := a.computeScan(exp, gonio, files)
	if err != nil {
		return nil, err
	}

	detLeaf := det.Chain()[0]
	p := &plan{
		gonio:             gonio,
		det:               det,
		spec:              spec,
		sampleDependsOn:   sampleDependsOn(gonio),
		detectorDependsOn: detectorAxisPath(detLeaf),
	}
	return p, nil
}

// computeScan reconciles the declared axis ranges with the frame count the
// data files actually hold. In frame-series mode the increment grid wins
// unless the files disagree, in which case the file count is authoritative
// and the disagreement is logged, never silently resolved.
func (a *Assembler) computeScan(exp *config.Experiment, gonio *transform.Graph, files []nexgen.DataFile) (scan.Spec, error) {
	axes := gonio.Axes()
	totalFrames := 0
	for _, f := range files {
		totalFrames += f.Frames
	}

	if exp.Mode == "events" {
		ax, err := eventScanAxis(axes)
		if err != nil {
			return scan.Spec{}, err
		}
		return scan.Spec{
			Mode:     scan.ModeEvents,
			ScanAxis: ax.Name,
			Interval: scan.ForTimeBinned(ax.Start, ax.End, len(files)),
		}, nil
	}

	ax, err := scan.FindScanAxis(axes)
	if err != nil {
		return scan.Spec{}, err
	}
	positions, err := scan.FromIncrement(ax.Start, ax.End, ax.Increment)
	if err != nil {
		return scan.Spec{}, fmt.Errorf("scan axis %s: %w", ax.Name, err)
	}
	if totalFrames > 0 && totalFrames != len(positions) {
		a.log.Info("scan axis %s: increment %v yields %d positions but data files hold %d frames; using the file count",
			ax.Name, ax.Increment, len(positions), totalFrames)
		positions, err = scan.FromFrameCount(ax.Start, ax.End, totalFrames)
		if err != nil {
			return scan.Spec{}, fmt.Errorf("scan axis %s: %w", ax.Name, err)
		}
	}
	return scan.Spec{Mode: scan.ModeImages, ScanAxis: ax.Name, Positions: positions}, nil
}

func (a *Assembler) emitEntry(b storage.Backend, exp *config.Experiment, _ []nexgen.DataFile, _ *plan) error {
	if err := b.SetAttribute("", "default", "entry"); err != nil {
		return fmt.Errorf("emit entry: %w", err)
	}
	if err := b.CreateGroup("entry", "NXentry"); err != nil {
		return fmt.Errorf("emit entry: %w", err)
	}
	if err := b.SetAttribute("entry", "default", "data"); err != nil {
		return fmt.Errorf("emit entry: %w", err)
	}
	if err := b.CreateDataset("entry/definition", nexgen.Definition, nil); err != nil {
		return fmt.Errorf("emit entry: %w", err)
	}
	if err := b.CreateDataset("entry/entry_identifier", uuid.New().String(), nil); err != nil {
		return fmt.Errorf("emit entry: %w", err)
	}
	if exp.TimeStamps.Start != "" {
		if err := b.CreateDataset("entry/start_time", exp.TimeStamps.Start, nil); err != nil {
			return fmt.Errorf("emit entry: %w", err)
		}
	}
	if exp.TimeStamps.End != "" {
		if err := b.CreateDataset("entry/end_time", exp.TimeStamps.End, nil); err != nil {
			return fmt.Errorf("emit entry: %w", err)
		}
	}
	return nil
}

func (a *Assembler) emitData(b storage.Backend, _ *config.Experiment, files []nexgen.DataFile, p *plan) error {
	if err := b.CreateGroup("entry/data", "NXdata"); err != nil {
		return fmt.Errorf("emit data: %w", err)
	}
	if err := b.SetAttribute("entry/data", "signal", "data"); err != nil {
		return fmt.Errorf("emit data: %w", err)
	}
	if err := b.SetAttribute("entry/data", "axes", p.spec.ScanAxis); err != nil {
		return fmt.Errorf("emit data: %w", err)
	}

	for i, f := range files {
		link := fmt.Sprintf("entry/data/data_%06d", i+1)
		if err := b.LinkExternal(link, f.Path, "entry/data/data"); err != nil {
			return fmt.Errorf("emit data: link %s: %w", link, err)
		}
	}

	// The scan axis positions appear both here and under the sample
	// transformations; file formats with hard links share the storage.
	ax, _ := p.gonio.Axis(p.spec.ScanAxis)
	attrs := axisAttributes(ax, transform.DependsOnPath(nexgen.SampleTransformationsPath, ax))
	if err := b.CreateDataset("entry/data/"+ax.Name, axisValue(ax, p.spec), attrs); err != nil {
		return fmt.Errorf("emit data: %w", err)
	}
	return nil
}

func (a *Assembler) emitInstrument(b storage.Backend, exp *config.Experiment, _ []nexgen.DataFile, _ *plan) error {
	if err := b.CreateGroup("entry/instrument", "NXinstrument"); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}
	nameAttrs := storage.Attributes{}
	if exp.Source.ShortName != "" {
		nameAttrs["short_name"] = exp.Source.ShortName + " " + exp.Source.Beamline
	}
	if err := b.CreateDataset("entry/instrument/name", exp.Source.Beamline, nameAttrs); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}

	if err := b.CreateGroup("entry/instrument/attenuator", "NXattenuator"); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}
	if err := b.CreateDataset("entry/instrument/attenuator/attenuator_transmission",
		exp.Attenuator.Transmission, nil); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}

	if err := b.CreateGroup("entry/instrument/beam", "NXbeam"); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}
	if err := b.CreateDataset("entry/instrument/beam/incident_wavelength",
		exp.Beam.Wavelength, storage.Attributes{"units": "angstrom"}); err != nil {
		return fmt.Errorf("emit instrument: %w", err)
	}
	if exp.Beam.Flux != nil {
		if err := b.CreateDataset("entry/instrument/beam/total_flux",
			*exp.Beam.Flux, storage.Attributes{"units": "Hz"}); err != nil {
			return fmt.Errorf("emit instrument: %w", err)
		}
	}
	return nil
}

func (a *Assembler) emitDetector(b storage.Backend, exp *config.Experiment, _ []nexgen.DataFile, p *plan) error {
	det := "entry/instrument/detector"
	if err := b.CreateGroup(det, "NXdetector"); err != nil {
		return fmt.Errorf("emit detector: %w", err)
	}

	type field struct {
		name  string
		value interface{}
		attrs storage.Attributes
	}
	mm := storage.Attributes{"units": "mm"}
	px := storage.Attributes{"units": "pixels"}
	fields := []field{
		{"description", exp.Detector.Description, nil},
		{"depends_on", p.detectorDependsOn, nil},
		{"beam_center_x", exp.Detector.BeamCenter[0], px},
		{"beam_center_y", exp.Detector.BeamCenter[1], px},
		{"distance", exp.Detector.Distance, mm},
		{"count_time", exp.Detector.ExposureTime, storage.Attributes{"units": "s"}},
		{"x_pixel_size", exp.Detector.PixelSize[0], mm},
		{"y_pixel_size", exp.Detector.PixelSize[1], mm},
		{"sensor_material", exp.Detector.SensorMaterial, nil},
		{"sensor_thickness", exp.Detector.SensorThickness, mm},
		{"saturation_value", exp.Detector.Overload, nil},
		{"underload_value", exp.Detector.Underload, nil},
	}
	for _, f := range fields {
		if err := b.CreateDataset(storage.Join(det, f.name), f.value, f.attrs); err != nil {
			return fmt.Errorf("emit detector: %s: %w", f.name, err)
		}
	}

	// Detector-specific metadata with no dedicated field, written verbatim.
	extraKeys := make([]string, 0, len(exp.Detector.Extra))
	for k := range exp.Detector.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if err := b.CreateDataset(storage.Join(det, k), exp.Detector.Extra[k], nil); err != nil {
			return fmt.Errorf("emit detector: %s: %w", k, err)
		}
	}

	trans := nexgen.DetectorTransformationCandidates[0]
	if err := b.CreateGroup(trans, "NXtransformations"); err != nil {
		return fmt.Errorf("emit detector: %w", err)
	}
	for _, ax := range p.det.Axes() {
		if err := b.CreateGroup(storage.Join(trans, ax.Name), "NXpositioner"); err != nil {
			return fmt.Errorf("emit detector: axis %s: %w", ax.Name, err)
		}
		attrs := axisAttributes(ax, detectorDependsOn(ax))
		path := storage.Join(trans, ax.Name, ax.Name)
		if err := b.CreateDataset(path, []float64{ax.Start}, attrs); err != nil {
			return fmt.Errorf("emit detector: axis %s: %w", ax.Name, err)
		}
	}
	return nil
}

func (a *Assembler) emitModule(b storage.Backend, exp *config.Experiment, _ []nexgen.DataFile, p *plan) error {
	mod := "entry/instrument/detector/module"
	if err := b.CreateGroup(mod, "NXdetector_module"); err != nil {
		return fmt.Errorf("emit module: %w", err)
	}
	if err := b.CreateDataset(storage.Join(mod, "data_origin"), []int{0, 0}, nil); err != nil {
		return fmt.Errorf("emit module: %w", err)
	}
	size := []int{exp.Detector.ImageSize[0], exp.Detector.ImageSize[1]}
	if err := b.CreateDataset(storage.Join(mod, "data_size"), size, nil); err != nil {
		return fmt.Errorf("emit module: %w", err)
	}

	pixel := func(name string, size float64, vector [3]float64, dependsOn string) error {
		attrs := storage.Attributes{
			"transformation_type": string(nexgen.Translation),
			"units":               "mm",
			"vector":              vector,
			"offset":              [3]float64{0, 0, 0},
			"depends_on":          dependsOn,
		}
		return b.CreateDataset(storage.Join(mod, name), []float64{size}, attrs)
	}

	fastDependsOn := p.detectorDependsOn
	if exp.Module.ModuleOffset {
		offsetPath := "/" + storage.Join(mod, "module_offset")
		if err := pixel("module_offset", 0, exp.Module.FastAxis, p.detectorDependsOn); err != nil {
			return fmt.Errorf("emit module: %w", err)
		}
		fastDependsOn = offsetPath
	}
	if err := pixel("fast_pixel_direction", exp.Detector.PixelSize[0], exp.Module.FastAxis, fastDependsOn); err != nil {
		return fmt.Errorf("emit module: %w", err)
	}
	slowDependsOn := "/" + storage.Join(mod, "fast_pixel_direction")
	if err := pixel("slow_pixel_direction", exp.Detector.PixelSize[1], exp.Module.SlowAxis, slowDependsOn); err != nil {
		return fmt.Errorf("emit module: %w", err)
	}
	return nil
}

func (a *Assembler) emitSource(b storage.Backend, exp *config.Experiment, _ []nexgen.DataFile, _ *plan) error {
	if err := b.CreateGroup("entry/source", "NXsource"); err != nil {
		return fmt.Errorf("emit source: %w", err)
	}
	attrs := storage.Attributes{}
	if exp.Source.ShortName != "" {
		attrs["short_name"] = exp.Source.ShortName
	}
	if err := b.CreateDataset("entry/source/name", exp.Source.Name, attrs); err != nil {
		return fmt.Errorf("emit source: %w", err)
	}
	if err := b.CreateDataset("entry/source/type", exp.Source.Type, nil); err != nil {
		return fmt.Errorf("emit source: %w", err)
	}
	if exp.Source.Probe != "" {
		if err := b.CreateDataset("entry/source/probe", exp.Source.Probe, nil); err != nil {
			return fmt.Errorf("emit source: %w", err)
		}
	}
	return nil
}

func (a *Assembler) emitSample(b storage.Backend, _ *config.Experiment, _ []nexgen.DataFile, p *plan) error {
	if err := b.CreateGroup("entry/sample", "NXsample"); err != nil {
		return fmt.Errorf("emit sample: %w", err)
	}
	if err := b.CreateDataset("entry/sample/depends_on", p.sampleDependsOn, nil); err != nil {
		return fmt.Errorf("emit sample: %w", err)
	}
	if err := b.CreateGroup(nexgen.SampleTransformationsPath, "NXtransformations"); err != nil {
		return fmt.Errorf("emit sample: %w", err)
	}
	for _, ax := range p.gonio.Axes() {
		attrs := axisAttributes(ax, transform.DependsOnPath(nexgen.SampleTransformationsPath, ax))
		path := storage.Join(nexgen.SampleTransformationsPath, ax.Name)
		if err := b.CreateDataset(path, axisValue(ax, p.spec), attrs); err != nil {
			return fmt.Errorf("emit sample: axis %s: %w", ax.Name, err)
		}
	}
	return nil
}

// eventScanAxis picks the moving axis for a time-binned collection, where
// increments are conventionally left at zero: a declared increment wins,
// otherwise the single axis sweeping from start to end.
func eventScanAxis(axes []nexgen.Axis) (nexgen.Axis, error) {
	if ax, err := scan.FindScanAxis(axes); err == nil {
		return ax, nil
	}
	var found nexgen.Axis
	count := 0
	for _, ax := range axes {
		if ax.Start != ax.End {
			found = ax
			count++
		}
	}
	if count == 1 {
		return found, nil
	}
	return nexgen.Axis{}, fmt.Errorf("time-binned scan: %d axes sweep a range: %w", count, nexgen.ErrScanAxisNotFound)
}

// axisValue picks what a sample axis dataset holds: the full position grid
// for the scan axis (the interval boundaries in events mode), the start
// position for everything else.
func axisValue(ax nexgen.Axis, spec scan.Spec) []float64 {
	if ax.Name != spec.ScanAxis {
		return []float64{ax.Start}
	}
	if spec.Mode == scan.ModeEvents {
		return []float64{spec.Interval.Start, spec.Interval.End}
	}
	return spec.Positions
}

// axisAttributes builds the standard attribute set of a transformation
// dataset.
func axisAttributes(ax nexgen.Axis, dependsOn string) storage.Attributes {
	return storage.Attributes{
		"transformation_type": string(ax.Kind),
		"units":               ax.Kind.Units(),
		"vector":              ax.Vector,
		"offset":              [3]float64{0, 0, 0},
		"depends_on":          dependsOn,
	}
}

// goniometerOrder picks the canonical order enforced on the sample chain:
// the instrument convention when the config declares exactly that axis set,
// otherwise the declared order (configs list axes leaf first).
func goniometerOrder(axes []nexgen.Axis) []string {
	if len(axes) != len(nexgen.GoniometerOrder) {
		return declaredOrder(axes)
	}
	names := make(map[string]bool, len(axes))
	for _, ax := range axes {
		names[ax.Name] = true
	}
	for _, name := range nexgen.GoniometerOrder {
		if !names[name] {
			return declaredOrder(axes)
		}
	}
	return nexgen.GoniometerOrder
}

func declaredOrder(axes []nexgen.Axis) []string {
	out := make([]string, len(axes))
	for i, ax := range axes {
		out[i] = ax.Name
	}
	return out
}

// sampleDependsOn resolves the sample's own depends_on target: the
// instrument convention pins it at phi when present, otherwise the chain
// leaf.
func sampleDependsOn(gonio *transform.Graph) string {
	if _, ok := gonio.Axis("phi"); ok {
		return nexgen.SampleDependsOnTarget
	}
	return "/" + storage.Join(nexgen.SampleTransformationsPath, gonio.Chain()[0])
}

// detectorDependsOn resolves a detector axis's depends_on attribute. The
// detector chain nests each axis dataset inside a group of the same name.
func detectorDependsOn(ax nexgen.Axis) string {
	if ax.DependsOn == nexgen.RootSentinel {
		return nexgen.RootSentinel
	}
	return detectorAxisPath(ax.DependsOn)
}

func detectorAxisPath(name string) string {
	return "/" + storage.Join(nexgen.DetectorTransformationCandidates[0], name, name)
}
