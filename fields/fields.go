package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Field converts between the raw representation of a parameter (a JSON
// value or a CLI option value) and its domain representation.
//
// Decode rejects malformed input with a *DecodeError. Encode assumes the
// value already satisfies the field's domain contract; an Encode failure
// indicates a caller bug, not bad user input.
type Field interface {
	Decode(raw any) (any, error)
	Encode(v any) (any, error)
}

// String passes string values through unchanged.
type String struct{}

func (String) Decode(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, decodeErrorf("expected a string, got %T", raw)
	}
	return s, nil
}

func (String) Encode(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

// PositiveInteger decodes a strictly positive integer. JSON numbers
// arrive as float64, CLI options as int, and HTTP query parameters as
// numeric strings; all three are accepted as long as the value is a
// whole number greater than zero.
type PositiveInteger struct{}

func (PositiveInteger) Decode(raw any) (any, error) {
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, decodeErrorf("expected a whole number, got %v", v)
		}
		n = int(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, decodeErrorf("expected an integer, got %q", v.String())
		}
		n = int(parsed)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, decodeErrorf("expected an integer, got %q", v)
		}
		n = parsed
	default:
		return nil, decodeErrorf("expected an integer, got %T", raw)
	}

	if n <= 0 {
		return nil, decodeErrorf("expected a positive integer, got %d", n)
	}
	return n, nil
}

func (PositiveInteger) Encode(v any) (any, error) {
	n, ok := v.(int)
	if !ok {
		return nil, fmt.Errorf("expected an int, got %T", v)
	}
	return n, nil
}

// StringList decodes an ordered sequence by applying Inner to every
// element. JSON arrays arrive as []any, repeatable CLI flags as
// []string; order is preserved in both cases.
type StringList struct {
	Inner Field
}

func (f StringList) Decode(raw any) (any, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return nil, decodeErrorf("expected a list, got %T", raw)
	}

	decoded := make([]any, 0, len(items))
	for i, item := range items {
		v, err := f.Inner.Decode(item)
		if err != nil {
			return nil, decodeErrorf("element %d: %w", i, err)
		}
		decoded = append(decoded, v)
	}
	return decoded, nil
}

func (f StringList) Encode(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	encoded := make([]any, 0, len(items))
	for i, item := range items {
		e, err := f.Inner.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		encoded = append(encoded, e)
	}
	return encoded, nil
}

// JSONObject requires the raw value to be a flat JSON object. A string
// raw value, as produced by a CLI option, is parsed as JSON first; any
// other JSON type is rejected.
type JSONObject struct{}

func (JSONObject) Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, decodeErrorf("invalid JSON: %v", err)
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return nil, decodeErrorf("expected a JSON object, got %T", parsed)
		}
		return obj, nil
	default:
		return nil, decodeErrorf("expected a JSON object, got %T", raw)
	}
}

func (JSONObject) Encode(v any) (any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}
