package sapling

import (
	"context"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
Part is one of the subsets a dataset is divided into when splitting it on a
feature: the key of the branch it feeds, the criterion its samples satisfy
and the subset itself.
*/
type Part struct {
	Key       string
	Criterion feature.Criterion
	Dataset   dataset.Dataset
}

/*
Partition takes a context.Context, a dataset, a feature and an optional
threshold and splits the dataset on the feature. Without a threshold it
returns one part per distinct value of the feature on the dataset, in the
order the values first appear, keyed with feature.ValueKey. With a threshold
it returns exactly two parts: tree.Below, with the samples whose value is
lower than the threshold, and tree.AtOrAbove with the rest.
The given dataset is not modified and samples keep their weights.
*/
func Partition(ctx context.Context, s dataset.Dataset, f feature.Feature, threshold *float64) ([]*Part, error) {
	if threshold != nil {
		return thresholdPartition(ctx, s, f, *threshold)
	}
	return valuePartition(ctx, s, f)
}

func valuePartition(ctx context.Context, s dataset.Dataset, f feature.Feature) ([]*Part, error) {
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	parts := make([]*Part, 0, len(values))
	for _, v := range values {
		key := feature.ValueKey(v)
		fc := feature.NewDiscreteCriterion(f, key)
		ss, err := s.SubsetWith(ctx, fc)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &Part{key, fc, ss})
	}
	return parts, nil
}

func thresholdPartition(ctx context.Context, s dataset.Dataset, f feature.Feature, threshold float64) ([]*Part, error) {
	below := feature.NewBelowCriterion(f, threshold)
	bs, err := s.SubsetWith(ctx, below)
	if err != nil {
		return nil, err
	}
	atOrAbove := feature.NewAtOrAboveCriterion(f, threshold)
	as, err := s.SubsetWith(ctx, atOrAbove)
	if err != nil {
		return nil, err
	}
	return []*Part{{tree.Below, below, bs}, {tree.AtOrAbove, atOrAbove, as}}, nil
}
