package jsonschema

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// numberValue extracts a decimal from a JSON value. It accepts the two
// representations encoding/json produces (float64, and json.Number when the
// decoder uses UseNumber) plus plain Go ints for hand-built values.
func numberValue(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	}
	return decimal.Decimal{}, false
}

// countValue extracts a non-negative integer keyword value (maxLength,
// minItems, ...). The second result reports whether the value is a number at
// all; the third whether it is a usable non-negative integer.
func countValue(v any) (uint64, bool, bool) {
	d, ok := numberValue(v)
	if !ok {
		return 0, false, false
	}
	if !d.IsInteger() || d.Sign() < 0 {
		return 0, true, false
	}
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, true, false
	}
	return bi.Uint64(), true, true
}

// jsonEqual compares two JSON values structurally. Numbers compare by
// numeric value regardless of representation, so 1, 1.0 and json.Number("1")
// are all equal. Used by enum, const and uniqueItems.
func jsonEqual(a, b any) bool {
	if da, ok := numberValue(a); ok {
		db, ok := numberValue(b)
		return ok && da.Equal(db)
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !jsonEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

// decodeValue parses JSON bytes into the generic value representation the
// compiler and evaluator operate on, preserving numeric precision via
// json.Number.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
