package sapling

import (
	"github.com/pbanos/sapling/feature"
)

/*
Logger is an interface wrapping the Logf method, used by Fit to report
how the tree is grown.
*/
type Logger interface {
	Logf(format string, a ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

// Options holds the configuration for how a tree is grown.
type Options struct {
	// DefaultLabel is the label the model predicts for
	// samples it cannot place, and for branches left
	// without training samples at the root. It is only
	// used when HasDefaultLabel is true, otherwise the
	// majority label of the training dataset is used.
	DefaultLabel    string
	HasDefaultLabel bool
	// KindPolicy decides whether a feature is split
	// by threshold or by value on each dataset.
	KindPolicy feature.KindPolicy
	// MinGain is the information gain a split must
	// exceed to be added to the tree. Nodes for which
	// no split exceeds it become leaves. It must not be
	// negative: a split with no gain may not shrink
	// the dataset and would never end.
	MinGain float64
	// Logger receives a line for every node grown.
	Logger Logger
}

// Option modifies the Options used to grow a tree
type Option func(*Options)

/*
WithDefault takes a label and returns an Option that sets it as the default
label of the grown model.
*/
func WithDefault(label string) Option {
	return func(o *Options) {
		o.DefaultLabel = label
		o.HasDefaultLabel = true
	}
}

/*
WithKindPolicy takes a feature.KindPolicy and returns an Option that makes
it decide how features are split.
*/
func WithKindPolicy(p feature.KindPolicy) Option {
	return func(o *Options) {
		o.KindPolicy = p
	}
}

/*
WithContinuousThreshold takes an integer and returns an Option that splits
continuous features by threshold only when they show more than that many
distinct values. It is a shortcut for
WithKindPolicy(feature.DistinctValuePolicy(n)).
*/
func WithContinuousThreshold(n int) Option {
	return WithKindPolicy(feature.DistinctValuePolicy(n))
}

/*
WithMinGain takes an information gain in bits and returns an Option that
requires splits to exceed it. Negative values are ignored.
*/
func WithMinGain(g float64) Option {
	return func(o *Options) {
		if g >= 0 {
			o.MinGain = g
		}
	}
}

// WithLogger returns an Option that sends growth logs to l
func WithLogger(l Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

/*
DefaultOptions returns the Options Fit uses when given none: majority
default label, feature.DefaultKindPolicy, a MinGain of 0 and no logging.
*/
func DefaultOptions() *Options {
	return &Options{
		KindPolicy: feature.DefaultKindPolicy(),
		Logger:     nopLogger{},
	}
}

func newOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.KindPolicy == nil {
		o.KindPolicy = feature.DefaultKindPolicy()
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	if o.MinGain < 0 {
		o.MinGain = 0
	}
	return o
}
