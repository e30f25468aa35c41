package tree

// Error represents an error related with trees and their nodes
type Error string

/*
ErrInvalidNode is the error wrapped when a node cannot be built because it
would break the structure of the tree, like a decision without branches.
*/
const ErrInvalidNode = Error("invalid node")

/*
ErrUnknownNodeType is the error wrapped when a Node implementation outside
this package is found in a tree.
*/
const ErrUnknownNodeType = Error("unknown node type")

/*
ErrCannotPredictFromEmptySet is the error returned when trying to build a
prediction based on an empty dataset.
*/
const ErrCannotPredictFromEmptySet = Error("cannot make prediction for empty dataset")

/*
ErrModelNotFound is the error returned by a Store when there is no model
under the requested name.
*/
const ErrModelNotFound = Error("model not found")

func (e Error) Error() string {
	return string(e)
}
