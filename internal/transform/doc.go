// Package transform models the instrument's axis dependency chains.
//
// An axis chain is a degenerate DAG: a simple path of coordinate frames,
// each defined relative to the next, terminating at the root sentinel "."
// (the laboratory frame). Build assembles and verifies a chain from
// configuration; Validate and Repair express the same invariants as checkers
// against an existing tree, so that a file written elsewhere can be brought
// back to the instrument convention without touching anything else in it.
package transform
