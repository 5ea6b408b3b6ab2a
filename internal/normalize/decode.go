// Package normalize converts the exchange's loosely shaped payloads into
// canonical records. The API mixes arrays with id-keyed objects and
// snake_case with camelCase, and numbers sometimes arrive as JSON strings;
// none of that ambiguity is allowed past this package.
package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexFloat decodes a JSON number or a numeric string. Unparseable values
// coerce to zero rather than failing the record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON integer or a numeric string, coercing to zero on
// failure.
type flexInt int64

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		*i = 0
		return nil
	}
	*i = flexInt(f)
	return nil
}

// items decodes a payload that is either a JSON array or an object keyed by
// id, returning the element values in either case. Anything else yields nil.
func items(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil
		}
		return arr
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil
		}
		out := make([]json.RawMessage, 0, len(keyed))
		for _, v := range keyed {
			out = append(out, v)
		}
		return out
	default:
		return nil
	}
}

// coalesce returns the first non-zero float among the variants.
func coalesce(vals ...flexFloat) float64 {
	for _, v := range vals {
		if v != 0 {
			return float64(v)
		}
	}
	return 0
}

// coalesceInt returns the first non-zero integer among the variants.
func coalesceInt(vals ...flexInt) int64 {
	for _, v := range vals {
		if v != 0 {
			return int64(v)
		}
	}
	return 0
}

// coalesceStr returns the first non-empty string among the variants.
func coalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
