package transform

import (
	"fmt"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// ChainError reports a structural violation of an axis dependency chain,
// naming the first axis found to be at fault.
type ChainError struct {
	Axis   string
	Reason string
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	return fmt.Sprintf("invalid dependency chain: axis %q: %s", e.Axis, e.Reason)
}

// Unwrap lets callers classify the failure with errors.Is.
func (e *ChainError) Unwrap() error {
	return nexgen.ErrInvalidChain
}

// Graph is a verified axis dependency chain: an ordered name to axis mapping
// whose realized depends_on path matches the instrument's canonical order.
// A Graph is owned exclusively by the assembler or checker that built it.
type Graph struct {
	byName map[string]nexgen.Axis
	chain  []string // realized order, leaf first, ending at the root axis
}

// Build constructs a Graph from axes and verifies its structure:
//   - every axis-local invariant holds;
//   - exactly one axis depends on the root sentinel;
//   - every other depends_on resolves to exactly one axis in the set;
//   - no two axes share a dependency target (no branching);
//   - walking depends_on from any non-root axis reaches the root in at most
//     len(axes)-1 steps (cycle and disconnection detection);
//   - the realized chain equals canonicalOrder, when one is given.
//
// The first violated condition aborts with a ChainError naming the axis.
func Build(axes []nexgen.Axis, canonicalOrder []string) (*Graph, error) {
	if len(axes) == 0 {
		return nil, &ChainError{Axis: "", Reason: "no axes declared"}
	}

	byName := make(map[string]nexgen.Axis, len(axes))
	for _, ax := range axes {
		if err := ax.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byName[ax.Name]; dup {
			return nil, &ChainError{Axis: ax.Name, Reason: "declared twice"}
		}
		byName[ax.Name] = ax
	}

	var root string
	dependedOn := make(map[string]string, len(axes))
	for _, ax := range axes {
		if ax.DependsOn == nexgen.RootSentinel {
			if root != "" {
				return nil, &ChainError{Axis: ax.Name, Reason: "second root axis, chain already rooted at " + root}
			}
			root = ax.Name
			continue
		}
		if _, ok := byName[ax.DependsOn]; !ok {
			return nil, &ChainError{Axis: ax.Name, Reason: fmt.Sprintf("depends_on %q does not resolve", ax.DependsOn)}
		}
		if prev, taken := dependedOn[ax.DependsOn]; taken {
			return nil, &ChainError{Axis: ax.Name, Reason: fmt.Sprintf("branch: %s already depends on %s", prev, ax.DependsOn)}
		}
		dependedOn[ax.DependsOn] = ax.Name
	}
	if root == "" {
		return nil, &ChainError{Axis: axes[0].Name, Reason: "no axis depends on the root sentinel"}
	}

	// Every non-root axis must reach the root in len(axes)-1 steps.
	for _, ax := range axes {
		steps := 0
		for cur := ax; cur.DependsOn != nexgen.RootSentinel; cur = byName[cur.DependsOn] {
			steps++
			if steps > len(axes)-1 {
				return nil, &ChainError{Axis: ax.Name, Reason: "depends_on walk does not terminate (cycle)"}
			}
		}
	}

	// Realized chain, leaf first. The leaf is the one axis nothing depends on.
	var leaf string
	for _, ax := range axes {
		if _, ok := dependedOn[ax.Name]; !ok {
			leaf = ax.Name
			break
		}
	}
	chain := make([]string, 0, len(axes))
	for cur := leaf; ; cur = byName[cur].DependsOn {
		chain = append(chain, cur)
		if cur == root {
			break
		}
	}
	if len(chain) != len(axes) {
		// Unreachable after the walks above, kept as a guard.
		return nil, &ChainError{Axis: leaf, Reason: "chain does not cover all axes"}
	}

	if canonicalOrder != nil {
		if len(canonicalOrder) != len(chain) {
			return nil, &ChainError{Axis: leaf, Reason: fmt.Sprintf("chain has %d axes, canonical order has %d", len(chain), len(canonicalOrder))}
		}
		for i, name := range canonicalOrder {
			if chain[i] != name {
				return nil, &ChainError{Axis: chain[i], Reason: fmt.Sprintf("out of canonical order: expected %s at position %d", name, i)}
			}
		}
	}

	return &Graph{byName: byName, chain: chain}, nil
}

// Axis returns the axis registered under name.
func (g *Graph) Axis(name string) (nexgen.Axis, bool) {
	ax, ok := g.byName[name]
	return ax, ok
}

// Chain returns the realized dependency order, leaf first, root last.
func (g *Graph) Chain() []string {
	out := make([]string, len(g.chain))
	copy(out, g.chain)
	return out
}

// Axes returns the axes in realized chain order.
func (g *Graph) Axes() []nexgen.Axis {
	out := make([]nexgen.Axis, 0, len(g.chain))
	for _, name := range g.chain {
		out = append(out, g.byName[name])
	}
	return out
}

// Len returns the number of axes in the chain.
func (g *Graph) Len() int {
	return len(g.chain)
}

// DependsOnPath resolves an axis's depends_on reference into the absolute
// path written to file: the root sentinel stays as-is, anything else points
// at the sibling dataset under prefix.
func DependsOnPath(prefix string, ax nexgen.Axis) string {
	if ax.DependsOn == nexgen.RootSentinel {
		return nexgen.RootSentinel
	}
	return "/" + prefix + "/" + ax.DependsOn
}
