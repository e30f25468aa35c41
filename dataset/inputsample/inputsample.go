/*
Package inputsample provides an implementation of dataset.Sample whose values
are read on demand from an io.Reader, as when prompting a user for them.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// ErrNoValue is returned when the reader ends before a value is given
const ErrNoValue = Error("EOF when requesting value")

// Error represents an error reading a sample value
type Error string

func (e Error) Error() string {
	return string(e)
}

type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              feature.Schema
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, interface{}) error
}

/*
New takes an io.Reader, a schema, a FeatureValueRequester and an
undefinedValue coding string and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Values are only requested
once: later calls for the same feature return the value read first,
so only the features a model actually asks about are requested.

The parsing expects each value on its own line, and a line with the
undefinedValue string is interpreted as an undefined value.

For a continuous feature, lines will be read from the reader until a line
containing a valid float64 number is found. For a discrete feature, lines
will be read until a line with a valid value for the feature is found.
Non accepted values are rejected with the FeatureValueRequester's
RejectValueFor method.

The sample weighs 1. Attempting to obtain a value for a feature not in the
given schema returns an error.
*/
func New(r io.Reader, features feature.Schema, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Sample {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[string]interface{}), undefinedValue, scanner, featureValueRequester, features}
}

func (rs *readSample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	featureWithInfo, ok := rs.features.Lookup(f.Name())
	if !ok {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return nil, err
	}
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[f.Name()] = nil
			return nil, nil
		}
		value, ok := parse(featureWithInfo, line)
		if ok {
			rs.obtainedValues[f.Name()] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(featureWithInfo, line)
		if err != nil {
			return nil, err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, ErrNoValue
}

func (rs *readSample) Weight() float64 {
	return 1.0
}

func parse(f feature.Feature, line string) (interface{}, bool) {
	var value interface{} = line
	if f.Kind() == feature.Continuous {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, false
		}
		value = v
	}
	ok, _ := f.Valid(value)
	return value, ok
}
