package sapling

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// gainTolerance is the margin by which a gain must beat another to win.
// Sums of the same weights in a different order may differ in their last
// bits, and such noise must not override first-candidate ordering.
const gainTolerance = 1e-12

/*
Selection is the split chosen for a dataset: the feature to split on, how
it is split and the information gain the split yields.
When Kind is feature.Continuous the split is by Threshold, otherwise the
dataset is split by value and Threshold is meaningless.
*/
type Selection struct {
	Feature   feature.Feature
	Kind      feature.Kind
	Threshold float64
	Gain      float64
}

// ThresholdPtr returns a pointer to the threshold of the selection, or nil
// if it splits by value. It is meant to be passed on to Partition.
func (s *Selection) ThresholdPtr() *float64 {
	if s.Kind != feature.Continuous {
		return nil
	}
	t := s.Threshold
	return &t
}

func (s *Selection) String() string {
	if s.Kind == feature.Continuous {
		return fmt.Sprintf("%s < %g (gain %.6f)", s.Feature.Name(), s.Threshold, s.Gain)
	}
	return fmt.Sprintf("%s (gain %.6f)", s.Feature.Name(), s.Gain)
}

/*
SelectAttribute takes a context.Context, a dataset, the candidate features,
the label feature and a feature.KindPolicy and returns the Selection
with the highest information gain over the label among all candidates.
Candidates are evaluated in order and a later candidate only replaces the
current best when its gain is strictly greater, so ties go to the first.
Splits with no gain are still eligible: it is up to the caller to decide
whether the returned gain is worth splitting for.

SelectAttribute returns nil if there are no candidates or the dataset has
no samples, and an error if the dataset cannot be read or a sample holds a
value that cannot be split by threshold, such as a string or a non-finite
number, for a feature the policy treats as continuous.
*/
func SelectAttribute(ctx context.Context, s dataset.Dataset, candidates feature.Schema, label feature.Feature, policy feature.KindPolicy) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if policy == nil {
		policy = feature.DefaultKindPolicy()
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	labels := make([]string, len(samples))
	total := dataset.NewDistribution()
	for i, smpl := range samples {
		v, err := smpl.ValueFor(ctx, label)
		if err != nil {
			return nil, err
		}
		labels[i] = feature.ValueKey(v)
		total.Add(labels[i], smpl.Weight())
	}
	var best *Selection
	for _, f := range candidates {
		sel, err := scoreFeature(ctx, samples, labels, total, f, policy)
		if err != nil {
			return nil, err
		}
		if best == nil || sel.Gain > best.Gain+gainTolerance {
			best = sel
		}
	}
	return best, nil
}

type observation struct {
	value  interface{}
	label  string
	weight float64
}

func scoreFeature(ctx context.Context, samples []dataset.Sample, labels []string, total *dataset.Distribution, f feature.Feature, policy feature.KindPolicy) (*Selection, error) {
	obs := make([]observation, 0, len(samples))
	distinct := make(map[string]struct{})
	for i, smpl := range samples {
		v, err := smpl.ValueFor(ctx, f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		distinct[feature.ValueKey(v)] = struct{}{}
		obs = append(obs, observation{v, labels[i], smpl.Weight()})
	}
	kind := policy.SplitKind(f, len(distinct))
	if kind == feature.Continuous {
		return thresholdGain(f, obs, total)
	}
	return valueGain(f, obs, total), nil
}

func valueGain(f feature.Feature, obs []observation, total *dataset.Distribution) *Selection {
	var keys []string
	parts := make(map[string]*dataset.Distribution)
	for _, o := range obs {
		k := feature.ValueKey(o.value)
		d, ok := parts[k]
		if !ok {
			d = dataset.NewDistribution()
			parts[k] = d
			keys = append(keys, k)
		}
		d.Add(o.label, o.weight)
	}
	w := total.Total()
	gain := dataset.Entropy(total)
	for _, k := range keys {
		d := parts[k]
		gain -= d.Total() / w * dataset.Entropy(d)
	}
	return &Selection{Feature: f, Kind: feature.Discrete, Gain: gain}
}

/*
thresholdGain evaluates every distinct value of the feature but the lowest
as a threshold t, splitting samples into those with value < t and the rest,
and returns the one with the highest gain. Ties go to the lowest threshold.
*/
func thresholdGain(f feature.Feature, obs []observation, total *dataset.Distribution) (*Selection, error) {
	values := make([]float64, len(obs))
	for i, o := range obs {
		v, ok := o.value.(float64)
		if !ok {
			return nil, fmt.Errorf("splitting %s by threshold: expected float64 value, got %T", f.Name(), o.value)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("splitting %s by threshold: non-finite value %v", f.Name(), v)
		}
		values[i] = v
	}
	idx := make([]int, len(obs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })
	w := total.Total()
	h := dataset.Entropy(total)
	below := dataset.NewDistribution()
	above := total.Clone()
	sel := &Selection{Feature: f, Kind: feature.Continuous}
	found := false
	for i := 0; i < len(idx); {
		t := values[idx[i]]
		if i > 0 {
			bw, aw := below.Total(), above.Total()
			gain := h - bw/w*dataset.Entropy(below) - aw/w*dataset.Entropy(above)
			if !found || gain > sel.Gain+gainTolerance {
				sel.Threshold, sel.Gain, found = t, gain, true
			}
		}
		for ; i < len(idx) && values[idx[i]] == t; i++ {
			o := obs[idx[i]]
			below.Add(o.label, o.weight)
			above.Remove(o.label, o.weight)
		}
	}
	if !found {
		// A single distinct value: no threshold separates anything.
		if len(idx) > 0 {
			sel.Threshold = values[idx[0]]
		}
		sel.Kind = feature.Discrete
		sel.Gain = 0
	}
	return sel, nil
}
