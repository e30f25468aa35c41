package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// Model represents a decision tree able to predict the values of a label
// feature. It is composed of the root node of the tree, the label it
// predicts and the default label it falls back to for samples the tree
// cannot place.
type Model struct {
	root         Node
	label        feature.Feature
	defaultLabel string
}

// Stats summarizes the shape of a tree
type Stats struct {
	Nodes     int
	Leaves    int
	Decisions int
	Depth     int
}

// NewModel takes the root Node, the label feature and a default label and
// returns a model walking the tree under root to predict the label.
func NewModel(root Node, label feature.Feature, defaultLabel string) *Model {
	return &Model{root, label, defaultLabel}
}

// Root returns the root node of the tree
func (m *Model) Root() Node {
	return m.root
}

// Label returns the feature the model predicts
func (m *Model) Label() feature.Feature {
	return m.label
}

// Default returns the label predicted for samples the tree cannot place
func (m *Model) Default() string {
	return m.defaultLabel
}

/*
Predict takes a context and a sample and returns the label the tree predicts
for it. Starting at the root it follows, on every decision, the branch for the
sample's value of the decision feature until it reaches a leaf, whose label is
returned. If the sample has no value for a decision feature, or a value
without branch, the model's default label is returned no matter how deep the
decision is.

The returned error is only non-nil if a value cannot be obtained from the
sample. Predict does not modify the model and can be called concurrently.
*/
func (m *Model) Predict(ctx context.Context, s feature.Sample) (string, error) {
	if m == nil || m.root == nil {
		return "", fmt.Errorf("nil model cannot predict samples")
	}
	n := m.root
	for {
		switch cn := n.(type) {
		case *Leaf:
			return cn.label, nil
		case *Decision:
			v, err := s.ValueFor(ctx, cn.feature)
			if err != nil {
				return "", fmt.Errorf("predicting sample: obtaining value for %s: %w", cn.feature.Name(), err)
			}
			key, ok := cn.BranchKeyFor(v)
			if !ok {
				return m.defaultLabel, nil
			}
			n, ok = cn.Branch(key)
			if !ok {
				return m.defaultLabel, nil
			}
		default:
			return "", fmt.Errorf("%w %T", ErrUnknownNodeType, n)
		}
	}
}

/*
Test takes a context.Context and a dataset with samples labelled with the
model's label feature and returns the success rate of the model over the
dataset: the weight of the samples whose label is predicted correctly over
the total weight of the dataset. An error is returned if the dataset cannot
be read or a prediction cannot be made. An empty dataset has a success rate
of 0.
*/
func (m *Model) Test(ctx context.Context, ds dataset.Dataset) (float64, error) {
	var hits, total float64
	samples, err := ds.Samples(ctx)
	if err != nil {
		return 0.0, err
	}
	for _, sample := range samples {
		p, err := m.Predict(ctx, sample)
		if err != nil {
			return 0.0, err
		}
		v, err := sample.ValueFor(ctx, m.label)
		if err != nil {
			return 0.0, err
		}
		total += sample.Weight()
		if v != nil && feature.ValueKey(v) == p {
			hits += sample.Weight()
		}
	}
	if total == 0 {
		return 0.0, nil
	}
	return hits / total, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (m *Model) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	return traverse(ctx, m.root, bottomup, f)
}

func traverse(ctx context.Context, n Node, bottomup bool, f func(context.Context, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	if d, ok := n.(*Decision); ok {
		for _, b := range d.branches {
			err = traverse(ctx, b.Node, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Stats returns the number of nodes, leaves and decisions in the tree and
// its depth, a lone leaf having depth 0.
func (m *Model) Stats() Stats {
	var s Stats
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		s.Nodes++
		if depth > s.Depth {
			s.Depth = depth
		}
		switch cn := n.(type) {
		case *Leaf:
			s.Leaves++
		case *Decision:
			s.Decisions++
			for _, b := range cn.branches {
				walk(b.Node, depth+1)
			}
		}
	}
	if m.root != nil {
		walk(m.root, 0)
	}
	return s
}

func (m *Model) String() string {
	return fmt.Sprintf("[ %s, default %s ]\n%s", m.label.Name(), m.defaultLabel, subtreeString(m.root))
}

func subtreeString(n Node) string {
	result := fmt.Sprintf("%v\n", n)
	d, ok := n.(*Decision)
	if !ok {
		return result
	}
	result = fmt.Sprintf("%s|\n", result)
	for i, b := range d.branches {
		for j, line := range strings.Split(subtreeString(b.Node), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__[%s] %s\n", result, b.Key, line)
				} else {
					if i == len(d.branches)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
