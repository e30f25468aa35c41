package feature

/*
Schema is an ordered list of features. Its order is the enumeration order
used whenever features are compared, so it must stay fixed for the whole
growth of a tree.
*/
type Schema []Feature

/*
Lookup returns the feature with the given name and true, or nil and false
when the schema has no such feature.
*/
func (s Schema) Lookup(name string) (Feature, bool) {
	for _, f := range s {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

/*
Without returns a new schema with the features of s except the one named
name, preserving their order. s is not modified.
*/
func (s Schema) Without(name string) Schema {
	result := make(Schema, 0, len(s))
	for _, f := range s {
		if f.Name() != name {
			result = append(result, f)
		}
	}
	return result
}

// Names returns the names of the features in order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name()
	}
	return names
}
