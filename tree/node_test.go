package tree

import (
	"errors"
	"testing"

	"github.com/pbanos/sapling/feature"
)

func TestNewDecisionErrors(t *testing.T) {
	c := feature.NewDiscreteFeature("c", nil)
	tests := []struct {
		name     string
		f        feature.Feature
		branches []Branch
	}{
		{"no feature", nil, []Branch{{"a", NewLeaf("x")}}},
		{"no branches", c, nil},
		{"nil node", c, []Branch{{"a", nil}}},
		{"duplicated key", c, []Branch{{"a", NewLeaf("x")}, {"a", NewLeaf("y")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecision(tt.f, tt.branches)
			if !errors.Is(err, ErrInvalidNode) {
				t.Errorf("NewDecision() error = %v, want ErrInvalidNode", err)
			}
			if d != nil {
				t.Errorf("NewDecision() = %v, want nil", d)
			}
		})
	}
	x := feature.NewContinuousFeature("x")
	if _, err := NewThresholdDecision(x, 1, NewLeaf("a"), nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("NewThresholdDecision() with nil node error = %v, want ErrInvalidNode", err)
	}
}

func TestBranchKeyFor(t *testing.T) {
	x := feature.NewContinuousFeature("x")
	c := feature.NewDiscreteFeature("c", nil)
	td, err := NewThresholdDecision(x, 2.5, NewLeaf("low"), NewLeaf("high"))
	if err != nil {
		t.Fatal(err)
	}
	vd, err := NewDecision(c, []Branch{{"red", NewLeaf("r")}, {"3", NewLeaf("three")}})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		d      *Decision
		v      interface{}
		want   string
		wantOK bool
	}{
		{"below", td, 1.0, Below, true},
		{"at threshold", td, 2.5, AtOrAbove, true},
		{"above", td, 7.0, AtOrAbove, true},
		{"string on threshold", td, "1", "", false},
		{"nil on threshold", td, nil, "", false},
		{"known value", vd, "red", "red", true},
		{"float value key", vd, 3.0, "3", true},
		{"unknown value", vd, "blue", "blue", false},
		{"nil on value decision", vd, nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.d.BranchKeyFor(tt.v)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BranchKeyFor(%v) = (%q, %v), want (%q, %v)", tt.v, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if th, ok := td.Threshold(); !ok || th != 2.5 {
		t.Errorf("Threshold() = %v, %v, want 2.5, true", th, ok)
	}
	if _, ok := vd.Threshold(); ok {
		t.Error("value decision reports a threshold")
	}
	bs := vd.Branches()
	bs[0].Key = "changed"
	if _, ok := vd.Branch("red"); !ok {
		t.Error("modifying Branches() result altered the decision")
	}
}
