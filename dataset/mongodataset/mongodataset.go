/*
Package mongodataset provides a implementation of dataset.Dataset
that uses a MongoDB database as backend.

Samples are stored as documents of the samples collection, with a field per
defined feature value and their weight under WeightField. Documents are read
in insertion order.
*/
package mongodataset

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset to which samples can be added
and from which samples can be sequentially read
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongodataset struct {
	session    *mgo.Session
	features   feature.Schema
	criteria   []feature.Criterion
	mongoQuery bson.M
}

const (
	samplesCollectionName = "samples"
	// WeightField is the document field holding the sample weight.
	// Documents without it weigh 1.
	WeightField = "_counts"
)

/*
Open takes a context, a MongoDB database session and a schema and returns
a Dataset that works on the default database for that session or an error
if it fails to set up the indexes for the features.
*/
func Open(ctx context.Context, session *mgo.Session, features feature.Schema) (Dataset, error) {
	mds := &mongodataset{session: session, features: features}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	d, err := mds.Distribution(ctx, f)
	if err != nil {
		return 0.0, err
	}
	return dataset.Entropy(d), nil
}

func (mds *mongodataset) Distribution(ctx context.Context, f feature.Feature) (*dataset.Distribution, error) {
	d := dataset.NewDistribution()
	err := mds.iterate(ctx, func(s dataset.Sample) (bool, error) {
		v, err := s.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v != nil {
			d.Add(feature.ValueKey(v), s.Weight())
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (mds *mongodataset) SubsetWith(ctx context.Context, fc feature.Criterion) (dataset.Dataset, error) {
	criteria := make([]feature.Criterion, 0, len(mds.criteria)+1)
	criteria = append(append(criteria, mds.criteria...), fc)
	return &mongodataset{session: mds.session, features: mds.features, criteria: criteria}, nil
}

func (mds *mongodataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	var result []interface{}
	seen := make(map[string]bool)
	err := mds.iterate(ctx, func(s dataset.Sample) (bool, error) {
		v, err := s.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v != nil && !seen[feature.ValueKey(v)] {
			seen[feature.ValueKey(v)] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := mds.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	err = mds.iterate(ctx, func(s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	return samples, err
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) Weight(ctx context.Context) (float64, error) {
	var result float64
	err := mds.iterate(ctx, func(s dataset.Sample) (bool, error) {
		result += s.Weight()
		return true, nil
	})
	return result, err
}

func (mds *mongodataset) Criteria(context.Context) ([]feature.Criterion, error) {
	return append([]feature.Criterion(nil), mds.criteria...), nil
}

func (mds *mongodataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := bson.M{WeightField: s.Weight()}
		for _, f := range mds.features {
			value, err := s.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		err := mds.iterate(ctx, func(s dataset.Sample) (bool, error) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case samples <- s:
			}
			return true, nil
		})
		if err != nil {
			errs <- err
		}
		close(errs)
		close(samples)
	}()
	return samples, errs
}

func (mds *mongodataset) iterate(ctx context.Context, lambda func(dataset.Sample) (bool, error)) error {
	iter := mds.query().Sort("_id").Iter()
	defer iter.Close()
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := mds.sampleFrom(doc)
		if err != nil {
			return err
		}
		ok, err := lambda(s)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		doc = nil
	}
	return iter.Err()
}

// sampleFrom takes only the schema fields of a document, converting
// numbers of continuous features to float64.
func (mds *mongodataset) sampleFrom(doc bson.M) (dataset.Sample, error) {
	values := make(map[string]interface{}, len(mds.features))
	for _, f := range mds.features {
		v := doc[f.Name()]
		if f.Kind() == feature.Continuous {
			switch n := v.(type) {
			case int:
				v = float64(n)
			case int64:
				v = float64(n)
			}
		}
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("reading document %v: %v", doc["_id"], err)
		}
		values[f.Name()] = v
	}
	w := 1.0
	switch n := doc[WeightField].(type) {
	case float64:
		w = n
	case int:
		w = float64(n)
	case int64:
		w = float64(n)
	}
	return dataset.NewWeightedSample(values, w), nil
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.features {
		fName := f.Name()
		if fName == "_id" || fName == WeightField {
			return fmt.Errorf("invalid feature name %q: reserved collection field", fName)
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func (mds *mongodataset) query() *mgo.Query {
	if mds.mongoQuery == nil {
		mds.mongoQuery = Query(mds.criteria)
	}
	return mds.samplesCollection().Find(mds.mongoQuery)
}

/*
Query takes a slice of criteria and returns the MongoDB query selecting the
documents whose samples satisfy all of them. Discrete criteria on continuous
features match the number their value key stands for.
*/
func Query(criteria []feature.Criterion) bson.M {
	q := make(bson.M)
	for _, fc := range criteria {
		fName := fc.Feature().Name()
		switch qfc := fc.(type) {
		case feature.DiscreteCriterion:
			var value interface{} = qfc.Value()
			if fc.Feature().Kind() == feature.Continuous {
				if n, err := strconv.ParseFloat(qfc.Value(), 64); err == nil {
					value = n
				}
			}
			q[fName] = value
		case feature.ContinuousCriterion:
			a, b := qfc.Interval()
			rangeValue, _ := q[fName].(bson.M)
			if rangeValue == nil {
				rangeValue = make(bson.M)
			}
			if !math.IsInf(a, 0) {
				v, ok := rangeValue["$gte"].(float64)
				if !ok || v < a {
					rangeValue["$gte"] = a
				}
			}
			if !math.IsInf(b, 0) {
				v, ok := rangeValue["$lt"].(float64)
				if !ok || v > b {
					rangeValue["$lt"] = b
				}
			}
			q[fName] = rangeValue
		}
	}
	return q
}
