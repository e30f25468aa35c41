package json

import (
	"fmt"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
node is the JSON representation of a tree.Node. Leaves only have the
"label" property, decisions have "feature", "branches" and, for threshold
decisions, "threshold".
*/
type node struct {
	Label     *string   `json:"label,omitempty"`
	Feature   string    `json:"feature,omitempty"`
	Threshold *float64  `json:"threshold,omitempty"`
	Branches  []*branch `json:"branches,omitempty"`
}

type branch struct {
	Key  string `json:"key"`
	Node *node  `json:"node"`
}

func encodeNode(n tree.Node) (*node, error) {
	switch n := n.(type) {
	case *tree.Leaf:
		label := n.Label()
		return &node{Label: &label}, nil
	case *tree.Decision:
		jn := &node{Feature: n.Feature().Name()}
		if t, ok := n.Threshold(); ok {
			jn.Threshold = &t
		}
		for _, b := range n.Branches() {
			jbn, err := encodeNode(b.Node)
			if err != nil {
				return nil, err
			}
			jn.Branches = append(jn.Branches, &branch{b.Key, jbn})
		}
		return jn, nil
	}
	return nil, fmt.Errorf("encoding node: %w %T", tree.ErrUnknownNodeType, n)
}

func decodeNode(jn *node, schema feature.Schema) (tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("decoding node: %w: null node", tree.ErrInvalidNode)
	}
	if jn.Label != nil {
		if jn.Feature != "" || len(jn.Branches) > 0 {
			return nil, fmt.Errorf("decoding node: %w: node has both label and branches", tree.ErrInvalidNode)
		}
		return tree.NewLeaf(*jn.Label), nil
	}
	f, ok := schema.Lookup(jn.Feature)
	if !ok {
		return nil, fmt.Errorf("decoding node: unknown feature %q", jn.Feature)
	}
	branches := make([]tree.Branch, 0, len(jn.Branches))
	for _, jb := range jn.Branches {
		if jb == nil {
			return nil, fmt.Errorf("decoding node on %s: %w: null branch", jn.Feature, tree.ErrInvalidNode)
		}
		n, err := decodeNode(jb.Node, schema)
		if err != nil {
			return nil, err
		}
		branches = append(branches, tree.Branch{Key: jb.Key, Node: n})
	}
	if jn.Threshold == nil {
		d, err := tree.NewDecision(f, branches)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	var below, atOrAbove tree.Node
	for _, b := range branches {
		switch b.Key {
		case tree.Below:
			below = b.Node
		case tree.AtOrAbove:
			atOrAbove = b.Node
		default:
			return nil, fmt.Errorf("decoding node on %s: %w: unexpected branch %q on threshold decision", jn.Feature, tree.ErrInvalidNode, b.Key)
		}
	}
	if len(branches) != 2 {
		return nil, fmt.Errorf("decoding node on %s: %w: threshold decision with %d branches", jn.Feature, tree.ErrInvalidNode, len(branches))
	}
	d, err := tree.NewThresholdDecision(f, *jn.Threshold, below, atOrAbove)
	if err != nil {
		return nil, err
	}
	return d, nil
}
