package dataset

import (
	"context"

	"github.com/pbanos/sapling/feature"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents an ordered collection of weighted samples.

Its Entropy method returns the entropy in bits of the weighted distribution
of values of a given Feature on the dataset: a measure of the disinformation
we have on the classes of samples that belong to it.

Its Distribution method returns the weight of each value of a given Feature
on the dataset, values in the order in which samples first show them.

Its FeatureValues method returns the distinct non-nil values samples take
for a given Feature, in the order in which samples first show them.

Its SubsetWith method takes a feature.Criterion and returns a subset that only
contains samples that satisfy it, in the same order. The receiver is left
untouched.

Its Samples method returns the samples it contains, Count how many there are
and Weight the sum of their weights.

Its Criteria method returns the criteria applied to obtain the dataset.
*/
type Dataset interface {
	Entropy(context.Context, feature.Feature) (float64, error)
	Distribution(context.Context, feature.Feature) (*Distribution, error)
	SubsetWith(context.Context, feature.Criterion) (Dataset, error)
	FeatureValues(context.Context, feature.Feature) ([]interface{}, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Weight(context.Context) (float64, error)
	Criteria(context.Context) ([]feature.Criterion, error)
}

type memoryIntensiveSubsettingDataset struct {
	samples  []Sample
	criteria []feature.Criterion
}

type cpuIntensiveSubsettingDataset struct {
	count    *int
	samples  []Sample
	criteria []feature.Criterion
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return NewCPUIntensive(samples)
	}
	return NewMemoryIntensive(samples)
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of samples when subsetting to reduce
calculations at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{samples, nil}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset
built with them. A cpu-intensive dataset is an implementation that
instead of replicating the samples when subsetting, stores the
applying feature criteria to define the subset and keeps the same
sample slice. This can achieve a drastic reduction in memory use
that comes at the cost of CPU time: every calculation that goes over
the samples of the dataset will apply the feature criteria of the dataset
on all original samples (the ones provided to this method).
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{nil, samples, nil}
}

func (s *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	if s.count != nil {
		return *s.count, nil
	}
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	s.count = &length
	return length, nil
}

func (s *memoryIntensiveSubsettingDataset) Weight(ctx context.Context) (float64, error) {
	return weight(ctx, s.iterateOnDataset)
}

func (s *cpuIntensiveSubsettingDataset) Weight(ctx context.Context) (float64, error) {
	return weight(ctx, s.iterateOnDataset)
}

func (s *memoryIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	d, err := distribution(ctx, s.iterateOnDataset, f)
	if err != nil {
		return 0.0, err
	}
	return Entropy(d), nil
}

func (s *cpuIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	d, err := distribution(ctx, s.iterateOnDataset, f)
	if err != nil {
		return 0.0, err
	}
	return Entropy(d), nil
}

func (s *memoryIntensiveSubsettingDataset) Distribution(ctx context.Context, f feature.Feature) (*Distribution, error) {
	return distribution(ctx, s.iterateOnDataset, f)
}

func (s *cpuIntensiveSubsettingDataset) Distribution(ctx context.Context, f feature.Feature) (*Distribution, error) {
	return distribution(ctx, s.iterateOnDataset, f)
}

func (s *memoryIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return featureValues(ctx, s.iterateOnDataset, f)
}

func (s *cpuIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return featureValues(ctx, s.iterateOnDataset, f)
}

func (s *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	var samples []Sample
	for _, sample := range s.samples {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{samples, appendCriterion(s.criteria, fc)}, nil
}

func (s *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	return &cpuIntensiveSubsettingDataset{nil, s.samples, appendCriterion(s.criteria, fc)}, nil
}

func (s *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *memoryIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *cpuIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *memoryIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		ok, err := lambda(sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func (s *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		skip := false
		for _, criterion := range s.criteria {
			ok, err := criterion.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

type iterator func(context.Context, func(Sample) (bool, error)) error

func weight(ctx context.Context, iterate iterator) (float64, error) {
	var result float64
	err := iterate(ctx, func(sample Sample) (bool, error) {
		result += sample.Weight()
		return true, nil
	})
	return result, err
}

func distribution(ctx context.Context, iterate iterator, f feature.Feature) (*Distribution, error) {
	result := NewDistribution()
	err := iterate(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v != nil {
			result.Add(feature.ValueKey(v), sample.Weight())
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func featureValues(ctx context.Context, iterate iterator, f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	err := iterate(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v == nil {
			return true, nil
		}
		vKey := feature.ValueKey(v)
		if !encountered[vKey] {
			encountered[vKey] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func appendCriterion(criteria []feature.Criterion, fc feature.Criterion) []feature.Criterion {
	result := make([]feature.Criterion, 0, len(criteria)+1)
	result = append(result, criteria...)
	return append(result, fc)
}
