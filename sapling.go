/*
Package sapling grows ID3 decision trees: classifiers that predict the
value of a label feature of a sample by asking about its other features.

Fit grows a tree.Model from a dataset, choosing at each node the feature
that yields the highest information gain over the label. Discrete features
are split with one branch per observed value, continuous ones by a
threshold into the samples below it and those at or above it.
*/
package sapling

import (
	"context"
	"fmt"
	"math"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
Fit takes a context.Context, a training dataset, the schema of its samples,
the name of the label feature and a variadic list of options and grows
a tree.Model that predicts the label from the rest of features in the
schema.

Every sample in the dataset must hold a valid, non-nil value for each
feature in the schema (continuous values must be finite) and a positive
weight. The label must be a discrete feature of the schema and, if the
dataset is empty, a default label must be provided with WithDefault. Otherwise an error wrapping ErrInvalidInput is returned.

The default label of the model is the one given with WithDefault or, if
none is given, the majority label of the dataset.
*/
func Fit(ctx context.Context, s dataset.Dataset, schema feature.Schema, label string, opts ...Option) (*tree.Model, error) {
	o := newOptions(opts)
	lf, ok := schema.Lookup(label)
	if !ok {
		return nil, fmt.Errorf("%w: label feature %q not in schema", ErrInvalidInput, label)
	}
	if lf.Kind() != feature.Discrete {
		return nil, fmt.Errorf("%w: label feature %q is %v, want discrete", ErrInvalidInput, label, lf.Kind())
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}
	for i, smpl := range samples {
		err = validateSample(ctx, smpl, schema)
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrInvalidInput, i, err)
		}
	}
	defaultLabel := o.DefaultLabel
	if !o.HasDefaultLabel {
		d, err := s.Distribution(ctx, lf)
		if err != nil {
			return nil, err
		}
		var found bool
		defaultLabel, found = d.Majority()
		if !found {
			return nil, fmt.Errorf("%w: cannot fit an empty dataset without a default label", ErrInvalidInput)
		}
	}
	o.Logger.Logf("Growing tree for %s from %d samples", lf.Name(), len(samples))
	g := &grower{label: lf, opts: o}
	root, err := g.grow(ctx, s, schema.Without(label), defaultLabel, 0)
	if err != nil {
		return nil, err
	}
	m := tree.NewModel(root, lf, defaultLabel)
	st := m.Stats()
	o.Logger.Logf("Grew tree with %d nodes (%d leaves) and depth %d", st.Nodes, st.Leaves, st.Depth)
	return m, nil
}

func validateSample(ctx context.Context, smpl dataset.Sample, schema feature.Schema) error {
	w := smpl.Weight()
	if !(w > 0) || math.IsInf(w, 1) {
		return fmt.Errorf("invalid weight %v", w)
	}
	for _, f := range schema {
		v, err := smpl.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("missing value for %s", f.Name())
		}
		ok, err := f.Valid(v)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("invalid value %v for %s", v, f.Name())
		}
	}
	return nil
}

type grower struct {
	label feature.Feature
	opts  *Options
}

/*
grow returns the subtree for dataset s. The rules are applied in order:
an empty dataset yields a leaf with the inherited label, a pure one a leaf
with its only label, and one with no candidate features left, or for which
no split beats the minimum gain, a leaf with its majority label. Otherwise
the best split becomes a decision whose children inherit this dataset's
majority label.
*/
func (g *grower) grow(ctx context.Context, s dataset.Dataset, candidates feature.Schema, inherited string, depth int) (tree.Node, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}
	d, err := s.Distribution(ctx, g.label)
	if err != nil {
		return nil, err
	}
	majority, found := d.Majority()
	if !found {
		return tree.NewLeaf(inherited), nil
	}
	if d.Len() == 1 {
		return tree.NewLeaf(majority), nil
	}
	if len(candidates) == 0 {
		g.opts.Logger.Logf("%*sNo features left, leaf %s", 2*depth, "", majority)
		return tree.NewLeaf(majority), nil
	}
	sel, err := SelectAttribute(ctx, s, candidates, g.label, g.opts.KindPolicy)
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.Gain <= g.opts.MinGain+gainTolerance {
		g.opts.Logger.Logf("%*sNo split with enough gain, leaf %s", 2*depth, "", majority)
		return tree.NewLeaf(majority), nil
	}
	g.opts.Logger.Logf("%*sSplitting on %v", 2*depth, "", sel)
	parts, err := Partition(ctx, s, sel.Feature, sel.ThresholdPtr())
	if err != nil {
		return nil, err
	}
	childCandidates := candidates
	if sel.Kind != feature.Continuous {
		childCandidates = candidates.Without(sel.Feature.Name())
	}
	branches := make([]tree.Branch, 0, len(parts))
	for _, p := range parts {
		n, err := g.grow(ctx, p.Dataset, childCandidates, majority, depth+1)
		if err != nil {
			return nil, err
		}
		branches = append(branches, tree.Branch{Key: p.Key, Node: n})
	}
	var dn *tree.Decision
	if sel.Kind == feature.Continuous {
		dn, err = tree.NewThresholdDecision(sel.Feature, sel.Threshold, branches[0].Node, branches[1].Node)
	} else {
		dn, err = tree.NewDecision(sel.Feature, branches)
	}
	if err != nil {
		return nil, err
	}
	return dn, nil
}
