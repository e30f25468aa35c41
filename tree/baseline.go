package tree

import (
	"context"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Majority takes a context, a dataset and a label feature and returns a model
made of a single leaf predicting the label value with the greatest weight on
the dataset, ties going to the value seen first. Such a model is the baseline
any grown tree should beat.
It returns ErrCannotPredictFromEmptySet if no sample in the dataset has a
value for the label.
*/
func Majority(ctx context.Context, ds dataset.Dataset, label feature.Feature) (*Model, error) {
	d, err := ds.Distribution(ctx, label)
	if err != nil {
		return nil, err
	}
	value, ok := d.Majority()
	if !ok {
		return nil, ErrCannotPredictFromEmptySet
	}
	return NewModel(NewLeaf(value), label, value), nil
}
