package tree

import (
	"fmt"

	"github.com/pbanos/sapling/feature"
)

const (
	// Below is the branch key for samples with a value under the threshold
	// of a threshold decision
	Below = "below"
	// AtOrAbove is the branch key for samples with a value equal to or over
	// the threshold of a threshold decision
	AtOrAbove = "at-or-above"
)

/*
Node is a node of the tree: either a *Leaf or a *Decision.
Nodes are immutable once built and every node belongs to exactly one
parent.
*/
type Node interface {
	isNode()
}

/*
Leaf is a terminal node holding the label predicted for samples that reach it
*/
type Leaf struct {
	label string
}

/*
Branch links a branch key of a decision to the node samples with that key
continue to.
*/
type Branch struct {
	Key  string
	Node Node
}

/*
Decision is an internal node that sends samples down one of its branches
according to their value for a feature. Threshold decisions have exactly the
Below and AtOrAbove branches; value decisions have one branch per value key.
*/
type Decision struct {
	feature      feature.Feature
	threshold    float64
	hasThreshold bool
	branches     []Branch
	index        map[string]int
}

// NewLeaf returns a leaf predicting the given label
func NewLeaf(label string) *Leaf {
	return &Leaf{label}
}

// Label returns the label predicted by the leaf
func (l *Leaf) Label() string {
	return l.label
}

func (l *Leaf) isNode() {}

func (l *Leaf) String() string {
	return fmt.Sprintf("{ %s }", l.label)
}

/*
NewDecision takes a feature and an ordered list of branches and returns a
decision sending samples to the branch whose key equals the key of their
value for the feature (see feature.ValueKey). It returns an error if there
are no branches, a branch has no node or two branches share a key.
*/
func NewDecision(f feature.Feature, branches []Branch) (*Decision, error) {
	d := &Decision{feature: f}
	if err := d.setBranches(branches); err != nil {
		return nil, err
	}
	return d, nil
}

/*
NewThresholdDecision takes a feature, a threshold and the nodes for samples
below and at or above the threshold and returns a decision on them. It
returns an error if any of the nodes is nil.
*/
func NewThresholdDecision(f feature.Feature, threshold float64, below, atOrAbove Node) (*Decision, error) {
	d := &Decision{feature: f, threshold: threshold, hasThreshold: true}
	err := d.setBranches([]Branch{{Below, below}, {AtOrAbove, atOrAbove}})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decision) setBranches(branches []Branch) error {
	if d.feature == nil {
		return fmt.Errorf("%w: decision without feature", ErrInvalidNode)
	}
	if len(branches) == 0 {
		return fmt.Errorf("%w: decision on %s without branches", ErrInvalidNode, d.feature.Name())
	}
	d.branches = make([]Branch, len(branches))
	d.index = make(map[string]int, len(branches))
	for i, b := range branches {
		if b.Node == nil {
			return fmt.Errorf("%w: decision on %s has no node for branch %q", ErrInvalidNode, d.feature.Name(), b.Key)
		}
		if _, ok := d.index[b.Key]; ok {
			return fmt.Errorf("%w: decision on %s has branch %q twice", ErrInvalidNode, d.feature.Name(), b.Key)
		}
		d.index[b.Key] = i
		d.branches[i] = b
	}
	return nil
}

// Feature returns the feature the decision is made on
func (d *Decision) Feature() feature.Feature {
	return d.feature
}

/*
Threshold returns the threshold of the decision and true for threshold
decisions, and 0 and false for value decisions.
*/
func (d *Decision) Threshold() (float64, bool) {
	return d.threshold, d.hasThreshold
}

// Branches returns a copy of the branches of the decision in order
func (d *Decision) Branches() []Branch {
	return append([]Branch(nil), d.branches...)
}

/*
Branch returns the node for the branch with the given key and true, or nil
and false if the decision has no such branch.
*/
func (d *Decision) Branch(key string) (Node, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.branches[i].Node, true
}

/*
BranchKeyFor returns the key of the branch a value goes to and true, or ""
and false when the decision cannot place the value: a nil value, a non
float64 value on a threshold decision or a value without branch.
*/
func (d *Decision) BranchKeyFor(value interface{}) (string, bool) {
	if value == nil {
		return "", false
	}
	if d.hasThreshold {
		v, ok := value.(float64)
		if !ok {
			return "", false
		}
		if v < d.threshold {
			return Below, true
		}
		return AtOrAbove, true
	}
	key := feature.ValueKey(value)
	_, ok := d.index[key]
	return key, ok
}

func (d *Decision) isNode() {}

func (d *Decision) String() string {
	if d.hasThreshold {
		return fmt.Sprintf("{ %s < %g ? }", d.feature.Name(), d.threshold)
	}
	return fmt.Sprintf("{ %s ? }", d.feature.Name())
}
