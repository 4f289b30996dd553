// Package query provides ready-made predicates for the table engine. The
// engine itself only depends on the types.Query contract; this package is
// the convenience implementation used by the CLI and tests.
//
// Field comparisons built with Where carry deterministic cache keys, so
// structurally identical comparisons share a query-cache slot. Ad-hoc
// predicates built with Func are never cached; CacheableFunc predicates
// are cached under a per-instance identity key.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Field names a document field for comparison building.
type Field string

// Where starts a comparison against the named field.
func Where(field string) Field {
	return Field(field)
}

// Eq matches documents whose field equals v. Numbers compare by value
// regardless of Go type.
func (f Field) Eq(v any) types.Query {
	return comparison{field: string(f), op: "eq", value: v, test: func(cur any, ok bool) bool {
		return ok && types.Equal(cur, v)
	}}
}

// Ne matches documents whose field is present and differs from v.
func (f Field) Ne(v any) types.Query {
	return comparison{field: string(f), op: "ne", value: v, test: func(cur any, ok bool) bool {
		return ok && !types.Equal(cur, v)
	}}
}

// Gt matches documents whose field is a number greater than v, or a
// string greater than a string v.
func (f Field) Gt(v any) types.Query {
	return comparison{field: string(f), op: "gt", value: v, test: orderTest(v, func(cmp int) bool {
		return cmp > 0
	})}
}

// Lt matches documents whose field is a number less than v, or a string
// less than a string v.
func (f Field) Lt(v any) types.Query {
	return comparison{field: string(f), op: "lt", value: v, test: orderTest(v, func(cmp int) bool {
		return cmp < 0
	})}
}

// Exists matches documents that carry the field, whatever its value.
func (f Field) Exists() types.Query {
	return comparison{field: string(f), op: "exists", test: func(_ any, ok bool) bool {
		return ok
	}}
}

// comparison is a single-field predicate with a deterministic cache key.
type comparison struct {
	field string
	op    string
	value any
	test  func(cur any, present bool) bool
}

func (c comparison) Test(fields map[string]any) bool {
	cur, ok := fields[c.field]
	return c.test(cur, ok)
}

func (c comparison) Cacheable() bool { return true }

func (c comparison) CacheKey() string {
	return fmt.Sprintf("%s %s %s", c.op, c.field, encodeValue(c.value))
}

// orderTest builds a comparison test for Gt/Lt. Mismatched or unordered
// types never match.
func orderTest(v any, accept func(cmp int) bool) func(any, bool) bool {
	return func(cur any, ok bool) bool {
		if !ok {
			return false
		}
		if cn, okc := types.Numeric(cur); okc {
			vn, okv := types.Numeric(v)
			return okv && accept(compareFloat(cn, vn))
		}
		if cs, okc := cur.(string); okc {
			vs, okv := v.(string)
			return okv && accept(strings.Compare(cs, vs))
		}
		return false
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// encodeValue renders a value for use in a cache key. encoding/json sorts
// map keys, so structurally identical values encode identically.
func encodeValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// funcQuery wraps an arbitrary test function.
type funcQuery struct {
	fn        func(map[string]any) bool
	key       string
	cacheable bool
}

func (q funcQuery) Test(fields map[string]any) bool { return q.fn(fields) }
func (q funcQuery) Cacheable() bool                 { return q.cacheable }
func (q funcQuery) CacheKey() string                { return q.key }

// Func wraps an arbitrary predicate function. The result is never
// memoized by the table's query cache.
func Func(fn func(fields map[string]any) bool) types.Query {
	return funcQuery{fn: fn}
}

// CacheableFunc wraps an arbitrary predicate function that may be
// memoized. The instance carries a generated identity key, so repeated
// searches with the same instance hit the cache while distinct instances
// never collide.
func CacheableFunc(fn func(fields map[string]any) bool) types.Query {
	return funcQuery{fn: fn, cacheable: true, key: "func " + newKeyID()}
}

// newKeyID generates a UUID v7 identity for ad-hoc cacheable predicates.
func newKeyID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
