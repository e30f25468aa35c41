package tree

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

var (
	xFeature     = feature.NewContinuousFeature("x")
	colorFeature = feature.NewDiscreteFeature("color", nil)
	classFeature = feature.NewDiscreteFeature("class", nil)
)

func sampleModel(t *testing.T) *Model {
	t.Helper()
	cd, err := NewDecision(colorFeature, []Branch{
		{"red", NewLeaf("hot")},
		{"blue", NewLeaf("cold")},
	})
	if err != nil {
		t.Fatal(err)
	}
	root, err := NewThresholdDecision(xFeature, 3, NewLeaf("low"), cd)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(root, classFeature, "none")
}

func sample(values map[string]interface{}) dataset.Sample {
	return dataset.NewSample(values)
}

func TestModelPredict(t *testing.T) {
	m := sampleModel(t)
	ctx := context.Background()
	tests := []struct {
		name   string
		values map[string]interface{}
		want   string
	}{
		{"below threshold", map[string]interface{}{"x": 2.0}, "low"},
		{"at threshold", map[string]interface{}{"x": 3.0, "color": "red"}, "hot"},
		{"second branch", map[string]interface{}{"x": 9.0, "color": "blue"}, "cold"},
		{"unseen value at depth", map[string]interface{}{"x": 5.0, "color": "green"}, "none"},
		{"missing value at depth", map[string]interface{}{"x": 5.0}, "none"},
		{"missing value at root", map[string]interface{}{"color": "red"}, "none"},
		{"wrong type at root", map[string]interface{}{"x": "5"}, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(ctx, sample(tt.values))
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Predict(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

type failingSample struct{}

func (failingSample) ValueFor(context.Context, feature.Feature) (interface{}, error) {
	return nil, fmt.Errorf("unavailable")
}

func TestModelPredictErrors(t *testing.T) {
	var nilModel *Model
	if _, err := nilModel.Predict(context.Background(), sample(nil)); err == nil {
		t.Error("nil model Predict() expected an error")
	}
	if _, err := sampleModel(t).Predict(context.Background(), failingSample{}); err == nil {
		t.Error("Predict() on a failing sample expected an error")
	}
}

func TestModelTest(t *testing.T) {
	m := sampleModel(t)
	ds := dataset.New([]dataset.Sample{
		dataset.NewWeightedSample(map[string]interface{}{"x": 1.0, "class": "low"}, 3),
		dataset.NewSample(map[string]interface{}{"x": 4.0, "color": "red", "class": "cold"}),
	})
	got, err := m.Test(context.Background(), ds)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Test() = %v, want 0.75", got)
	}
	got, err = m.Test(context.Background(), dataset.New(nil))
	if err != nil || got != 0 {
		t.Errorf("Test() on empty dataset = %v, %v, want 0", got, err)
	}
}

func TestModelTraverse(t *testing.T) {
	m := sampleModel(t)
	describe := func(n Node) string {
		if l, ok := n.(*Leaf); ok {
			return l.Label()
		}
		return n.(*Decision).Feature().Name()
	}
	tests := []struct {
		bottomup bool
		want     []string
	}{
		{false, []string{"x", "low", "color", "hot", "cold"}},
		{true, []string{"low", "hot", "cold", "color", "x"}},
	}
	for _, tt := range tests {
		var got []string
		err := m.Traverse(context.Background(), tt.bottomup, func(_ context.Context, n Node) error {
			got = append(got, describe(n))
			return nil
		})
		if err != nil {
			t.Fatalf("Traverse() error = %v", err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Traverse(bottomup=%v) = %v, want %v", tt.bottomup, got, tt.want)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Traverse(ctx, false, func(context.Context, Node) error { return nil })
	if err != context.Canceled {
		t.Errorf("Traverse() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestModelStatsAndString(t *testing.T) {
	m := sampleModel(t)
	want := Stats{Nodes: 5, Leaves: 3, Decisions: 2, Depth: 2}
	if got := m.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	s := m.String()
	for _, part := range []string{"[ class, default none ]", "{ x < 3 ? }", "|__[below] { low }", "|__[at-or-above] { color ? }", "|__[red] { hot }"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
	if got := NewModel(NewLeaf("a"), classFeature, "a").Stats(); got != (Stats{Nodes: 1, Leaves: 1}) {
		t.Errorf("single leaf Stats() = %+v", got)
	}
}

func TestMajority(t *testing.T) {
	ctx := context.Background()
	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"class": "b"}),
		dataset.NewSample(map[string]interface{}{"class": "a"}),
		dataset.NewSample(map[string]interface{}{"class": "a"}),
		dataset.NewWeightedSample(map[string]interface{}{"class": "b"}, 1),
	})
	m, err := Majority(ctx, ds, classFeature)
	if err != nil {
		t.Fatalf("Majority() error = %v", err)
	}
	p, _ := m.Predict(ctx, sample(nil))
	if p != "b" || m.Default() != "b" {
		t.Errorf("Majority() predicts %q with default %q, want b", p, m.Default())
	}
	if _, err := Majority(ctx, dataset.New(nil), classFeature); err != ErrCannotPredictFromEmptySet {
		t.Errorf("Majority() on empty dataset error = %v, want ErrCannotPredictFromEmptySet", err)
	}
}
