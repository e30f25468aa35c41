package json

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

var (
	x      = feature.NewContinuousFeature("x")
	color  = feature.NewDiscreteFeature("color", nil)
	class  = feature.NewDiscreteFeature("class", nil)
	schema = feature.Schema{x, color, class}
)

func sampleModel(t *testing.T) *tree.Model {
	t.Helper()
	cd, err := tree.NewDecision(color, []tree.Branch{
		{Key: "red", Node: tree.NewLeaf("hot")},
		{Key: "blue", Node: tree.NewLeaf("cold")},
	})
	if err != nil {
		t.Fatal(err)
	}
	root, err := tree.NewThresholdDecision(x, 3.5, tree.NewLeaf("low"), cd)
	if err != nil {
		t.Fatal(err)
	}
	return tree.NewModel(root, class, "none")
}

func TestWriteReadJSONModel(t *testing.T) {
	m := sampleModel(t)
	buf := &bytes.Buffer{}
	if err := WriteJSONModel(buf, m); err != nil {
		t.Fatalf("WriteJSONModel() error = %v", err)
	}
	got, err := ReadJSONModel(buf, schema)
	if err != nil {
		t.Fatalf("ReadJSONModel() error = %v", err)
	}
	if got.String() != m.String() {
		t.Errorf("read model:\n%s\nwant:\n%s", got, m)
	}
	ctx := context.Background()
	for _, values := range []map[string]interface{}{
		{"x": 1.0},
		{"x": 3.5, "color": "red"},
		{"x": 4.0, "color": "blue"},
		{"x": 4.0, "color": "green"},
	} {
		s := dataset.NewSample(values)
		want, _ := m.Predict(ctx, s)
		p, err := got.Predict(ctx, s)
		if err != nil || p != want {
			t.Errorf("read model Predict(%v) = %q, %v, want %q", values, p, err, want)
		}
	}
}

func TestModelEncodeDecoder(t *testing.T) {
	med := NewModelEncodeDecoder(schema)
	m := sampleModel(t)
	data, err := med.Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := med.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Default() != "none" || got.Label() != class || got.Stats() != m.Stats() {
		t.Errorf("Decode() = %v, want %v", got, m)
	}
	if _, err := med.Encode(nil); err == nil {
		t.Error("Encode(nil) expected an error")
	}
}

func TestReadJSONModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"malformed", `{"label":`, false},
		{"unknown label", `{"label":"nope","default":"a","root":{"label":"a"}}`, false},
		{"no root", `{"label":"class","default":"a"}`, false},
		{"unknown feature", `{"label":"class","default":"a","root":{"feature":"nope","branches":[{"key":"a","node":{"label":"a"}}]}}`, false},
		{"decision without branches", `{"label":"class","default":"a","root":{"feature":"color"}}`, true},
		{"null branch node", `{"label":"class","default":"a","root":{"feature":"color","branches":[{"key":"a","node":null}]}}`, true},
		{"leaf with branches", `{"label":"class","default":"a","root":{"label":"a","feature":"color","branches":[{"key":"a","node":{"label":"a"}}]}}`, true},
		{"threshold with value branch", `{"label":"class","default":"a","root":{"feature":"x","threshold":1,"branches":[{"key":"below","node":{"label":"a"}},{"key":"red","node":{"label":"b"}}]}}`, true},
		{"threshold with one branch", `{"label":"class","default":"a","root":{"feature":"x","threshold":1,"branches":[{"key":"below","node":{"label":"a"}}]}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONModel(strings.NewReader(tt.doc), schema)
			if err == nil {
				t.Fatalf("ReadJSONModel(%s) expected an error", tt.doc)
			}
			if tt.invalid && !errors.Is(err, tree.ErrInvalidNode) {
				t.Errorf("ReadJSONModel(%s) error = %v, want ErrInvalidNode", tt.doc, err)
			}
		})
	}
}
