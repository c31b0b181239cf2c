package nexgen

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitInvalidChain     = 11 // Axis dependency chain violates the instrument convention
	ExitScanAxisError    = 12 // Zero or multiple candidate scan axes
	ExitMissingStructure = 13 // Required group/dataset/attribute absent from the file
)

const (
	// Definition is the application definition written to entry/definition
	// and enforced by the checker.
	Definition = "NXmx"

	// RootSentinel terminates every dependency chain. It represents the
	// laboratory reference frame.
	RootSentinel = "."

	// DefaultExtension is the extension substituted for unrecognized
	// output filename suffixes.
	DefaultExtension = ".nxs"

	// CoordinateFrame is the coordinate system convention all axis vectors
	// are expressed in.
	CoordinateFrame = "mcstas"

	// SampleDependsOnTarget is the canonical value of entry/sample/depends_on.
	SampleDependsOnTarget = "/entry/sample/transformations/phi"

	// SampleTransformationsPath locates the goniometer axis datasets.
	SampleTransformationsPath = "entry/sample/transformations"

	// DetectorZDependsOnTarget is the canonical dependency of the detector
	// translation axis.
	DetectorZDependsOnTarget = "/entry/instrument/detector/transformations/two_theta/two_theta"
)

// RecognizedExtensions lists the output filename suffixes accepted as-is.
// Anything else is replaced by DefaultExtension on the same base name.
var RecognizedExtensions = []string{".nxs", ".h5"}

// DetectorTransformationCandidates are the parent groups tried, in order,
// when locating the detector transformations. The second entry covers files
// written before the NXtransformations group moved under NXdetector.
var DetectorTransformationCandidates = []string{
	"entry/instrument/detector/transformations",
	"entry/instrument/transformations",
}

// GoniometerOrder is the canonical sample axis dependency order, leaf first.
// Each axis depends on the next; the last depends on the root sentinel.
var GoniometerOrder = []string{"sam_x", "sam_y", "sam_z", "phi", "kappa", "omega"}
