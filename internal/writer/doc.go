// Package writer assembles a complete metadata tree for one data collection.
//
// The assembler validates every structural invariant (axis chains, scan
// range, config sanity) before issuing the first write, then emits the tree
// in a fixed order through a storage.Backend. Writes are not retried; the
// first failure aborts the assembly and the caller discards the partially
// written file.
package writer
