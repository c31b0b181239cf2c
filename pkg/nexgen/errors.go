package nexgen

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := assembler.Assemble(backend, exp)
//	if errors.Is(err, nexgen.ErrScanAxisNotFound) {
//	    // Handle ambiguous oscillation axis
//	}
var (
	// ErrInvalidConfig indicates the provided experiment configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidChain indicates an axis dependency chain with a cycle,
	// branching, a wrong root count, or an order that violates the
	// instrument convention.
	ErrInvalidChain = errors.New("invalid dependency chain")

	// ErrScanAxisNotFound indicates zero or multiple goniometer axes
	// qualify as the scan axis. The oscillation intent is ambiguous and is
	// never repaired automatically.
	ErrScanAxisNotFound = errors.New("scan axis not found")

	// ErrDegenerateRange indicates a zero increment in a mode that requires
	// a positional grid. The caller must switch to frame-count mode.
	ErrDegenerateRange = errors.New("degenerate scan range")

	// ErrMissingAxis indicates a required axis dataset or transformation
	// group is entirely absent from the file.
	ErrMissingAxis = errors.New("axis not present in file")

	// ErrNotFound indicates a group, dataset, or attribute is absent from
	// the storage backend.
	ErrNotFound = errors.New("not found")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidChain):
		return ExitInvalidChain
	case errors.Is(err, ErrScanAxisNotFound):
		return ExitScanAxisError
	case errors.Is(err, ErrDegenerateRange):
		return ExitConfigError
	case errors.Is(err, ErrMissingAxis), errors.Is(err, ErrNotFound):
		return ExitMissingStructure
	}

	return ExitGeneralError
}
