package feature

/*
DefaultDistinctValueThreshold is the number of distinct observed values a
continuous feature must exceed to be split by threshold under the
DefaultKindPolicy.
*/
const DefaultDistinctValueThreshold = 5

/*
KindPolicy decides how a feature is split on a given dataset, taking the
feature and the number of distinct values observed for it.

Telling continuous data apart from a numerically coded category is a
heuristic: a policy only decides what split gets tried, it does not
classify the data.
*/
type KindPolicy interface {
	SplitKind(f Feature, distinctValues int) Kind
}

/*
KindPolicyFunc wraps a function with the SplitKind method signature to
implement the KindPolicy interface
*/
type KindPolicyFunc func(f Feature, distinctValues int) Kind

// SplitKind invokes the KindPolicyFunc
func (kpf KindPolicyFunc) SplitKind(f Feature, distinctValues int) Kind {
	return kpf(f, distinctValues)
}

/*
DistinctValuePolicy returns a KindPolicy that splits continuous features by
threshold only when more than threshold distinct values are observed, and
splits them by exact value otherwise. Discrete features are always split by
value.
*/
func DistinctValuePolicy(threshold int) KindPolicy {
	return KindPolicyFunc(func(f Feature, distinctValues int) Kind {
		if f.Kind() == Continuous && distinctValues > threshold {
			return Continuous
		}
		return Discrete
	})
}

// DefaultKindPolicy returns DistinctValuePolicy(DefaultDistinctValueThreshold)
func DefaultKindPolicy() KindPolicy {
	return DistinctValuePolicy(DefaultDistinctValueThreshold)
}

/*
DeclaredKindPolicy returns a KindPolicy that always splits a feature
according to its declared kind.
*/
func DeclaredKindPolicy() KindPolicy {
	return KindPolicyFunc(func(f Feature, _ int) Kind {
		return f.Kind()
	})
}
