package feature

import (
	"fmt"
	"math"
	"strconv"
)

/*
Kind is the way a feature splits data: by exact value or by threshold.
*/
type Kind int

const (
	// Discrete features take values from a finite set of strings and split
	// data into one branch per observed value.
	Discrete Kind = iota
	// Continuous features take float64 values and split data into the
	// samples below a threshold and those at or above it.
	Continuous
)

func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Kind() Kind
	Valid(interface{}) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. A DiscreteFeature without available values
accepts any string.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

// Kind returns Discrete
func (df *DiscreteFeature) Kind() Kind {
	return Discrete
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a string included in the available values of the feature
(or the feature declares none), the method returns true and nil. Otherwise it
returns false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Kind returns Continuous
func (cf *ContinuousFeature) Kind() Kind {
	return Continuous
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a finite float64 it returns true and nil, otherwise it
returns false and an error describing the reason. NaN and infinite values
are rejected as they cannot be ordered against a threshold.
*/
func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	v, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous feature %s expects float64 value, got %T value", cf.Name(), value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false, fmt.Errorf("continuous feature %s expects a finite value, got %v", cf.Name(), v)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
ValueKey returns the string under which a feature value is counted and
branched on. Strings are returned as is, float64 values in their shortest
representation and anything else formatted with %v.
*/
func ValueKey(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}
