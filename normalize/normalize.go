// Package normalize assigns stable unique identities to every node in a
// forest. The pass is a pure function: it rebuilds the tree bottom-up
// rather than editing it in place, preserves IDs that are already set, and
// is idempotent, so re-running it on its own output changes nothing.
package normalize

import (
	"github.com/google/uuid"

	"github.com/BaSui01/uigen/types"
)

// IDSource produces opaque identifiers. The only property normalization
// relies on is per-envelope uniqueness; randomized and monotonic sources
// are both fine.
type IDSource func() string

// Envelope returns a copy of env whose entire UI forest carries identities.
// Everything outside the forest is carried over unchanged.
func Envelope(env *types.Envelope) *types.Envelope {
	if env == nil {
		return nil
	}
	out := *env
	out.UI = Nodes(env.UI)
	return &out
}

// Nodes returns a copy of the forest in which every node, recursively
// through container children and form fields, has a non-empty ID. Existing
// IDs are preserved verbatim so callers can pin identities across turns.
func Nodes(nodes []types.Node) []types.Node {
	return NodesWithSource(uuid.NewString, nodes)
}

// NodesWithSource is Nodes with a caller-supplied identity source.
func NodesWithSource(newID IDSource, nodes []types.Node) []types.Node {
	if nodes == nil {
		return nil
	}
	out := make([]types.Node, len(nodes))
	for i, n := range nodes {
		out[i] = normalizeNode(newID, n)
	}
	return out
}

// normalizeNode rebuilds one node in depth-first pre-order: the node gets
// its identity first, then its composite members in their original order.
// The props switch is exhaustive over the sealed variant; a new node kind
// must be handled here before it can flow through.
func normalizeNode(newID IDSource, n types.Node) types.Node {
	if n.ID == "" {
		n.ID = newID()
	}

	switch p := n.Props.(type) {
	case types.ContainerProps:
		p.Children = NodesWithSource(newID, p.Children)
		n.Props = p
	case types.FormProps:
		p.Fields = NodesWithSource(newID, p.Fields)
		n.Props = p
	case types.TextProps, types.HeadingProps, types.ButtonProps,
		types.InputProps, types.ListProps, types.TableProps, types.CodeProps:
		// Leaf kinds carry no nested nodes.
	}
	return n
}
