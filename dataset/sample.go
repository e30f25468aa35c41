package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/feature"
)

/*
Sample represents an item to process or from which to learn how to process them.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter.

Its Weight method returns how many items the sample stands for when learning
from it, 1 for a plain record.
*/
type Sample interface {
	feature.Sample
	Weight() float64
}

type sample struct {
	featureValues map[string]interface{}
	weight        float64
}

/*
NewSample takes a map of feature string names to values and returns a
sample with weight 1.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues, 1.0}
}

/*
NewWeightedSample takes a map of feature string names to values and a
weight and returns a sample standing for weight identical records.
*/
func NewWeightedSample(featureValues map[string]interface{}, weight float64) Sample {
	return &sample{featureValues, weight}
}

func (s *sample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) Weight() float64 {
	return s.weight
}

func (s *sample) String() string {
	if s.weight == 1.0 {
		return fmt.Sprintf("[%v]", s.featureValues)
	}
	return fmt.Sprintf("[%v]x%g", s.featureValues, s.weight)
}
