/*
Package json provides the serialization of tree.Model values to and from
JSON documents.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
ModelEncodeDecoder is an interface for objects
that allow encoding models into slices of
bytes and decoding them back to models.
*/
type ModelEncodeDecoder interface {

	//Encode receives a *tree.Model
	//and returns a slice of bytes with the model
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Model) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Model decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Model, error)
}

type model struct {
	Label   string `json:"label"`
	Default string `json:"default"`
	Root    *node  `json:"root"`
}

type modelEncodeDecoder feature.Schema

/*
NewModelEncodeDecoder takes the schema of the features a model may use and
returns a ModelEncodeDecoder that marshals and unmarshals models as JSON.
The schema is used to resolve the feature names found when decoding.
*/
func NewModelEncodeDecoder(schema feature.Schema) ModelEncodeDecoder {
	return modelEncodeDecoder(schema)
}

func (med modelEncodeDecoder) Encode(m *tree.Model) ([]byte, error) {
	jm, err := encodeModel(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jm)
}

func (med modelEncodeDecoder) Decode(data []byte) (*tree.Model, error) {
	jm := &model{}
	err := json.Unmarshal(data, jm)
	if err != nil {
		return nil, err
	}
	return decodeModel(jm, feature.Schema(med))
}

/*
WriteJSONModel takes a pointer to a tree.Model and an io.Writer and
serializes the given model as JSON onto the io.Writer.
A model is serialized as a JSON object with the following fields:
* "label": a string with the name of the feature the model predicts
* "default": a string with the label predicted for samples the tree
  cannot place
* "root": the root node of the tree. Leaves are objects with a "label"
  string, decisions are objects with a "feature" name, a "threshold"
  number for threshold decisions and an array of "branches", each an
  object with the branch "key" and its "node".
An error is returned if the model cannot be serialized or written onto
the io.Writer.
*/
func WriteJSONModel(w io.Writer, m *tree.Model) error {
	jm, err := encodeModel(m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jm)
}

/*
ReadJSONModel takes an io.Reader and the schema of features the model may
use and unmarshals the contents of the io.Reader into a model. The JSON is
expected to have the format generated by WriteJSONModel. An error is
returned if the JSON cannot be read, refers to features not in the schema or
does not describe a valid tree.
*/
func ReadJSONModel(r io.Reader, schema feature.Schema) (*tree.Model, error) {
	jm := &model{}
	err := json.NewDecoder(r).Decode(jm)
	if err != nil {
		return nil, err
	}
	return decodeModel(jm, schema)
}

func encodeModel(m *tree.Model) (*model, error) {
	if m == nil || m.Root() == nil {
		return nil, fmt.Errorf("cannot encode nil model")
	}
	root, err := encodeNode(m.Root())
	if err != nil {
		return nil, err
	}
	return &model{Label: m.Label().Name(), Default: m.Default(), Root: root}, nil
}

func decodeModel(jm *model, schema feature.Schema) (*tree.Model, error) {
	label, ok := schema.Lookup(jm.Label)
	if !ok {
		return nil, fmt.Errorf("label feature %q not defined", jm.Label)
	}
	if jm.Root == nil {
		return nil, fmt.Errorf("no root node available")
	}
	root, err := decodeNode(jm.Root, schema)
	if err != nil {
		return nil, err
	}
	return tree.NewModel(root, label, jm.Default), nil
}
