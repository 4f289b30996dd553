// Package operations provides the update transforms applied by
// Table.UpdateTransform. Each constructor is pure; the side effect happens
// only when the table's update machinery applies the produced transform to
// a matched document.
//
// Typical use:
//
//	table.UpdateTransform(operations.Delete("foo"), query.Where("foo").Eq(2), nil)
package operations

import (
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Delete removes the given field from the document. Absent fields are a
// no-op, never an error.
func Delete(field string) types.Transform {
	return func(fields map[string]any) error {
		delete(fields, field)
		return nil
	}
}

// Add adds n to the given field: numeric addition for numbers, concatenation
// for strings and lists, following the current value. An absent field is set
// to n.
func Add(field string, n any) types.Transform {
	return func(fields map[string]any) error {
		cur, ok := fields[field]
		if !ok {
			fields[field] = n
			return nil
		}
		v, err := addValues(cur, n)
		if err != nil {
			return fmt.Errorf("add to field %q: %w", field, err)
		}
		fields[field] = v
		return nil
	}
}

// Subtract subtracts n from the given field. Numeric only. An absent field
// is set to -n.
func Subtract(field string, n any) types.Transform {
	return func(fields map[string]any) error {
		nv, ok := types.Numeric(n)
		if !ok {
			return fmt.Errorf("subtract from field %q: operand %T: %w", field, n, types.ErrTypeMismatch)
		}
		cur, present := fields[field]
		if !present {
			fields[field] = negate(n, nv)
			return nil
		}
		cv, ok := types.Numeric(cur)
		if !ok {
			return fmt.Errorf("subtract from field %q: value %T: %w", field, cur, types.ErrTypeMismatch)
		}
		fields[field] = numericResult(cur, n, cv-nv)
		return nil
	}
}

// Set unconditionally assigns the given value to the field, regardless of
// prior presence or type.
func Set(field string, value any) types.Transform {
	return func(fields map[string]any) error {
		fields[field] = value
		return nil
	}
}

// Increment adds 1 to the given field. An absent field is set to 1.
func Increment(field string) types.Transform {
	return step(field, 1)
}

// Decrement subtracts 1 from the given field. An absent field is set to -1.
func Decrement(field string) types.Transform {
	return step(field, -1)
}

func step(field string, delta int) types.Transform {
	return func(fields map[string]any) error {
		cur, ok := fields[field]
		if !ok {
			fields[field] = delta
			return nil
		}
		cv, ok := types.Numeric(cur)
		if !ok {
			return fmt.Errorf("step field %q: value %T: %w", field, cur, types.ErrTypeMismatch)
		}
		fields[field] = numericResult(cur, delta, cv+float64(delta))
		return nil
	}
}

// addValues applies "+" semantics driven by the current value's type.
func addValues(cur, n any) (any, error) {
	switch c := cur.(type) {
	case string:
		s, ok := n.(string)
		if !ok {
			return nil, fmt.Errorf("operand %T: %w", n, types.ErrTypeMismatch)
		}
		return c + s, nil
	case []any:
		s, ok := n.([]any)
		if !ok {
			return nil, fmt.Errorf("operand %T: %w", n, types.ErrTypeMismatch)
		}
		out := make([]any, 0, len(c)+len(s))
		out = append(out, c...)
		out = append(out, s...)
		return out, nil
	}
	cv, ok := types.Numeric(cur)
	if !ok {
		return nil, fmt.Errorf("value %T: %w", cur, types.ErrTypeMismatch)
	}
	nv, ok := types.Numeric(n)
	if !ok {
		return nil, fmt.Errorf("operand %T: %w", n, types.ErrTypeMismatch)
	}
	return numericResult(cur, n, cv+nv), nil
}

// numericResult keeps integer arithmetic integer: when both operands are
// Go integers the result is an int, otherwise a float64. Values decoded
// from JSON are float64 and stay float64.
func numericResult(a, b any, result float64) any {
	if types.Integral(a) && types.Integral(b) {
		return int(result)
	}
	return result
}

// negate returns -n, preserving integer-ness.
func negate(n any, nv float64) any {
	if types.Integral(n) {
		return int(-nv)
	}
	return -nv
}
