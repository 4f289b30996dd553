package types

// Query is a boolean test over a document's fields. The engine evaluates
// it against every stored document during a search scan.
type Query interface {
	Test(fields map[string]any) bool
}

// CacheableQuery is a Query that may have its results memoized. A query
// that does not implement this interface is never cached.
//
// CacheKey must be stable for the lifetime of the query instance so the
// instance is used consistently as its own cache key. Two structurally
// identical queries may share a key but are not required to.
type CacheableQuery interface {
	Query
	Cacheable() bool
	CacheKey() string
}

// Transform mutates a document's field mapping in place. Transforms are
// produced by the operations package and applied by the table's update
// machinery; a transform that cannot be applied to the current field value
// returns an error wrapping ErrTypeMismatch.
type Transform func(fields map[string]any) error
