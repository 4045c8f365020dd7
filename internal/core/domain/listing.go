package domain

type ListSource string

const (
	// SourceArray marks a collection decoded from a bare JSON sequence.
	// An unrecognized body shape degrades to an empty array collection.
	SourceArray ListSource = "array"
	// SourcePaginated marks a collection unwrapped from a {results: [...]}
	// envelope.
	SourcePaginated ListSource = "paginated"
)

// Collection is the tagged result of normalizing a heterogeneous list
// response at the adapter boundary. Item order is the server's.
type Collection[T any] struct {
	Items  []T
	Source ListSource
}
