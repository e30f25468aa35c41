package dataset

import (
	"context"
	"reflect"
	"testing"

	"github.com/pbanos/sapling/feature"
)

var (
	outlook = feature.NewDiscreteFeature("outlook", nil)
	temp    = feature.NewContinuousFeature("temp")
	play    = feature.NewDiscreteFeature("play", []string{"yes", "no"})
)

func weatherSamples() []Sample {
	return []Sample{
		NewSample(map[string]interface{}{"outlook": "sunny", "temp": 30.0, "play": "no"}),
		NewWeightedSample(map[string]interface{}{"outlook": "rain", "temp": 18.0, "play": "yes"}, 2),
		NewSample(map[string]interface{}{"outlook": "overcast", "temp": 22.0, "play": "yes"}),
		NewSample(map[string]interface{}{"outlook": "sunny", "temp": 21.0, "play": "yes"}),
		NewSample(map[string]interface{}{"temp": 25.0, "play": "no"}),
	}
}

func implementations() map[string]func([]Sample) Dataset {
	return map[string]func([]Sample) Dataset{
		"memory intensive": NewMemoryIntensive,
		"cpu intensive":    NewCPUIntensive,
	}
}

func TestDatasetAggregates(t *testing.T) {
	ctx := context.Background()
	for name, newDataset := range implementations() {
		t.Run(name, func(t *testing.T) {
			ds := newDataset(weatherSamples())
			count, err := ds.Count(ctx)
			if err != nil || count != 5 {
				t.Errorf("Count() = %d, %v, want 5", count, err)
			}
			w, err := ds.Weight(ctx)
			if err != nil || w != 6 {
				t.Errorf("Weight() = %v, %v, want 6", w, err)
			}
			d, err := ds.Distribution(ctx, play)
			if err != nil {
				t.Fatalf("Distribution() error = %v", err)
			}
			if !reflect.DeepEqual(d.Keys(), []string{"no", "yes"}) {
				t.Errorf("Distribution().Keys() = %v, want [no yes]", d.Keys())
			}
			if d.Weight("yes") != 4 || d.Weight("no") != 2 {
				t.Errorf("Distribution() weights yes=%v no=%v, want 4 and 2", d.Weight("yes"), d.Weight("no"))
			}
			values, err := ds.FeatureValues(ctx, outlook)
			if err != nil {
				t.Fatalf("FeatureValues() error = %v", err)
			}
			want := []interface{}{"sunny", "rain", "overcast"}
			if !reflect.DeepEqual(values, want) {
				t.Errorf("FeatureValues() = %v, want %v", values, want)
			}
		})
	}
}

func TestDatasetSubsetWith(t *testing.T) {
	ctx := context.Background()
	for name, newDataset := range implementations() {
		t.Run(name, func(t *testing.T) {
			ds := newDataset(weatherSamples())
			sunny, err := ds.SubsetWith(ctx, feature.NewDiscreteCriterion(outlook, "sunny"))
			if err != nil {
				t.Fatalf("SubsetWith() error = %v", err)
			}
			if n, _ := sunny.Count(ctx); n != 2 {
				t.Errorf("sunny Count() = %d, want 2", n)
			}
			warm, err := sunny.SubsetWith(ctx, feature.NewAtOrAboveCriterion(temp, 25))
			if err != nil {
				t.Fatalf("SubsetWith() error = %v", err)
			}
			samples, _ := warm.Samples(ctx)
			if len(samples) != 1 {
				t.Fatalf("warm sunny samples = %v, want 1 sample", samples)
			}
			if v, _ := samples[0].ValueFor(ctx, play); v != "no" {
				t.Errorf("warm sunny play = %v, want no", v)
			}
			criteria, _ := warm.Criteria(ctx)
			if len(criteria) != 2 {
				t.Errorf("Criteria() = %v, want 2 criteria", criteria)
			}
			if n, _ := ds.Count(ctx); n != 5 {
				t.Errorf("original Count() = %d after subsetting, want 5", n)
			}
			if c, _ := ds.Criteria(ctx); len(c) != 0 {
				t.Errorf("original Criteria() = %v, want none", c)
			}
		})
	}
}

func TestDatasetEntropy(t *testing.T) {
	ctx := context.Background()
	for name, newDataset := range implementations() {
		t.Run(name, func(t *testing.T) {
			ds := newDataset(weatherSamples())
			cold, err := ds.SubsetWith(ctx, feature.NewBelowCriterion(temp, 22))
			if err != nil {
				t.Fatalf("SubsetWith() error = %v", err)
			}
			e, err := cold.Entropy(ctx, play)
			if err != nil || e != 0 {
				t.Errorf("Entropy() = %v, %v, want 0", e, err)
			}
		})
	}
}

func TestNewPicksImplementationBySize(t *testing.T) {
	if _, ok := New(weatherSamples()).(*memoryIntensiveSubsettingDataset); !ok {
		t.Error("New() with few samples should return a memory intensive dataset")
	}
	many := make([]Sample, sampleCountThresholdForDatasetImplementation+1)
	for i := range many {
		many[i] = NewSample(map[string]interface{}{"play": "yes"})
	}
	if _, ok := New(many).(*cpuIntensiveSubsettingDataset); !ok {
		t.Error("New() with many samples should return a cpu intensive dataset")
	}
}
