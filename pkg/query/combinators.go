package query

import (
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// compound joins sub-queries with a boolean connective. It is cacheable
// only when every part is, keyed by the parts' keys in order.
type compound struct {
	op    string
	parts []types.Query
	test  func(fields map[string]any, parts []types.Query) bool
}

func (c compound) Test(fields map[string]any) bool {
	return c.test(fields, c.parts)
}

func (c compound) Cacheable() bool {
	for _, p := range c.parts {
		cq, ok := p.(types.CacheableQuery)
		if !ok || !cq.Cacheable() {
			return false
		}
	}
	return true
}

func (c compound) CacheKey() string {
	keys := make([]string, len(c.parts))
	for i, p := range c.parts {
		if cq, ok := p.(types.CacheableQuery); ok {
			keys[i] = cq.CacheKey()
		}
	}
	return c.op + "(" + strings.Join(keys, ", ") + ")"
}

// And matches documents that match every given query.
func And(qs ...types.Query) types.Query {
	return compound{op: "and", parts: qs, test: func(fields map[string]any, parts []types.Query) bool {
		for _, p := range parts {
			if !p.Test(fields) {
				return false
			}
		}
		return true
	}}
}

// Or matches documents that match at least one of the given queries.
func Or(qs ...types.Query) types.Query {
	return compound{op: "or", parts: qs, test: func(fields map[string]any, parts []types.Query) bool {
		for _, p := range parts {
			if p.Test(fields) {
				return true
			}
		}
		return false
	}}
}

// Not matches documents that do not match the given query.
func Not(q types.Query) types.Query {
	return compound{op: "not", parts: []types.Query{q}, test: func(fields map[string]any, parts []types.Query) bool {
		return !parts[0].Test(fields)
	}}
}
