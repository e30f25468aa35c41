package mongodataset

import (
	"context"
	"reflect"
	"testing"

	"github.com/pbanos/sapling/feature"
	"gopkg.in/mgo.v2/bson"
)

var (
	outlook = feature.NewDiscreteFeature("outlook", nil)
	temp    = feature.NewContinuousFeature("temp")
)

func TestQuery(t *testing.T) {
	tests := []struct {
		name     string
		criteria []feature.Criterion
		want     bson.M
	}{
		{"none", nil, bson.M{}},
		{
			"discrete",
			[]feature.Criterion{feature.NewDiscreteCriterion(outlook, "sunny")},
			bson.M{"outlook": "sunny"},
		},
		{
			"discrete on continuous feature",
			[]feature.Criterion{feature.NewDiscreteCriterion(temp, "21.5")},
			bson.M{"temp": 21.5},
		},
		{
			"below",
			[]feature.Criterion{feature.NewBelowCriterion(temp, 20)},
			bson.M{"temp": bson.M{"$lt": 20.0}},
		},
		{
			"narrowed range",
			[]feature.Criterion{
				feature.NewAtOrAboveCriterion(temp, 10),
				feature.NewBelowCriterion(temp, 30),
				feature.NewAtOrAboveCriterion(temp, 15),
				feature.NewBelowCriterion(temp, 40),
			},
			bson.M{"temp": bson.M{"$gte": 15.0, "$lt": 30.0}},
		},
		{
			"several features",
			[]feature.Criterion{
				feature.NewDiscreteCriterion(outlook, "rain"),
				feature.NewAtOrAboveCriterion(temp, 10),
			},
			bson.M{"outlook": "rain", "temp": bson.M{"$gte": 10.0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Query(tt.criteria); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleFrom(t *testing.T) {
	mds := &mongodataset{features: feature.Schema{outlook, temp}}
	s, err := mds.sampleFrom(bson.M{"_id": 1, "outlook": "sunny", "temp": 21, "other": "x", WeightField: 3})
	if err != nil {
		t.Fatalf("sampleFrom() error = %v", err)
	}
	if v, _ := s.ValueFor(context.Background(), temp); v != 21.0 {
		t.Errorf("temp = %v (%T), want float64 21", v, v)
	}
	if s.Weight() != 3 {
		t.Errorf("Weight() = %v, want 3", s.Weight())
	}
	if _, err := mds.sampleFrom(bson.M{"_id": 2, "temp": "warm"}); err == nil {
		t.Error("sampleFrom() with a string temp expected an error")
	}
	s, err = mds.sampleFrom(bson.M{"_id": 3})
	if err != nil || s.Weight() != 1 {
		t.Errorf("sampleFrom() of empty document = %v, %v, want weight 1", s, err)
	}
}
