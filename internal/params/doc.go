// Package params applies beam-parameter overrides to an experiment config.
//
// Overrides come from two places, later wins:
//   - NEXGEN_* environment variables (loaded from .env by the CLI)
//   - --set key=value flags on the command line
//
// Only per-collection beam parameters can be overridden. Instrument
// geometry (axes, vectors, module layout) is fixed by the config file.
package params
