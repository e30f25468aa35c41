package yaml

import (
	"reflect"
	"testing"

	"github.com/pbanos/sapling/feature"
)

func TestReadSchema(t *testing.T) {
	md := []byte(`
features:
  outlook:
    - sunny
    - overcast
    - rain
  temperature: continuous
  windy: discrete
  rating:
    - 1
    - 2
`)
	schema, err := ReadSchema(md)
	if err != nil {
		t.Fatalf("ReadSchema() error = %v", err)
	}
	if !reflect.DeepEqual(schema.Names(), []string{"outlook", "temperature", "windy", "rating"}) {
		t.Errorf("ReadSchema() names = %v, want declaration order", schema.Names())
	}
	kinds := []feature.Kind{feature.Discrete, feature.Continuous, feature.Discrete, feature.Discrete}
	for i, f := range schema {
		if f.Kind() != kinds[i] {
			t.Errorf("feature %s kind = %v, want %v", f.Name(), f.Kind(), kinds[i])
		}
	}
	outlook := schema[0].(*feature.DiscreteFeature)
	if !reflect.DeepEqual(outlook.AvailableValues(), []string{"sunny", "overcast", "rain"}) {
		t.Errorf("outlook values = %v", outlook.AvailableValues())
	}
	if v := schema[2].(*feature.DiscreteFeature).AvailableValues(); len(v) != 0 {
		t.Errorf("windy values = %v, want none", v)
	}
	rating := schema[3].(*feature.DiscreteFeature)
	if !reflect.DeepEqual(rating.AvailableValues(), []string{"1", "2"}) {
		t.Errorf("rating values = %v, want [1 2]", rating.AvailableValues())
	}
}

func TestReadSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		md   string
	}{
		{"no features", "other: 1\n"},
		{"unknown declaration", "features:\n  a: numeric\n"},
		{"map declaration", "features:\n  a:\n    b: c\n"},
		{"duplicated feature", "features:\n  a: continuous\n  a: discrete\n"},
		{"malformed", "features: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSchema([]byte(tt.md)); err == nil {
				t.Errorf("ReadSchema(%q) expected an error", tt.md)
			}
		})
	}
}
