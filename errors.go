package sapling

// Error represents an error growing a tree
type Error string

/*
ErrInvalidInput is the error wrapped by Fit when it is given input it cannot
grow a tree from: a label missing from the schema, samples with missing or
invalid values or weights, or an empty dataset and no default label.
*/
const ErrInvalidInput = Error("invalid input")

func (e Error) Error() string {
	return string(e)
}
