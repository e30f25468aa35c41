package dataset

import "math"

/*
Distribution holds the weight of each value of a feature on a set of
samples. Values are kept in the order in which they were first added, and
every method that enumerates them honours that order.
*/
type Distribution struct {
	keys    []string
	weights map[string]float64
	total   float64
}

// NewDistribution returns an empty distribution
func NewDistribution() *Distribution {
	return &Distribution{weights: make(map[string]float64)}
}

/*
Add adds weight w to the value with the given key, registering the key if
it was not present yet.
*/
func (d *Distribution) Add(key string, w float64) {
	if _, ok := d.weights[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.weights[key] += w
	d.total += w
}

/*
Remove subtracts weight w from the value with the given key. Keys are never
unregistered, a value whose weight drops to 0 simply stops contributing.
*/
func (d *Distribution) Remove(key string, w float64) {
	if _, ok := d.weights[key]; !ok {
		return
	}
	d.weights[key] -= w
	d.total -= w
}

// Keys returns the registered value keys in first-seen order
func (d *Distribution) Keys() []string {
	return d.keys
}

// Weight returns the weight of the value with the given key
func (d *Distribution) Weight(key string) float64 {
	return d.weights[key]
}

// Total returns the sum of the weights of all values
func (d *Distribution) Total() float64 {
	return d.total
}

// Len returns the number of values with a positive weight
func (d *Distribution) Len() int {
	var n int
	for _, k := range d.keys {
		if d.weights[k] > 0 {
			n++
		}
	}
	return n
}

/*
Majority returns the key of the value with the greatest weight and true,
or "" and false if the distribution has no value with positive weight.
Ties go to the value seen first.
*/
func (d *Distribution) Majority() (string, bool) {
	var (
		result string
		best   float64
		found  bool
	)
	for _, k := range d.keys {
		w := d.weights[k]
		if w > 0 && (!found || w > best) {
			result, best, found = k, w, true
		}
	}
	return result, found
}

// Clone returns an independent copy of the distribution
func (d *Distribution) Clone() *Distribution {
	c := &Distribution{
		keys:    append([]string(nil), d.keys...),
		weights: make(map[string]float64, len(d.weights)),
		total:   d.total,
	}
	for k, w := range d.weights {
		c.weights[k] = w
	}
	return c
}

/*
Entropy returns the Shannon entropy in bits of the distribution:
the sum of -p·log2(p) over its values, p being the fraction of the total
weight a value holds. Values without positive weight contribute nothing and
an empty distribution has an entropy of 0.
*/
func Entropy(d *Distribution) float64 {
	if d == nil || d.total <= 0 {
		return 0.0
	}
	var result float64
	for _, k := range d.keys {
		w := d.weights[k]
		if w <= 0 {
			continue
		}
		p := w / d.total
		result -= p * math.Log2(p)
	}
	if result < 0 {
		return 0.0
	}
	return result
}
