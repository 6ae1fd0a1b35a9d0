package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMissingID is returned when a record has no string "id".
	ErrMissingID = errors.New("record has no string id")

	errNotObject = errors.New("record is not a JSON object")
)

// fields is a decoded JSON object whose values are interpreted lazily and leniently.
type fields map[string]json.RawMessage

func objectFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errNotObject
	}
	if f == nil {
		return nil, errNotObject
	}
	return f, nil
}

// id reports the "id" value only when it is a JSON string.
func (f fields) id() (string, bool) {
	return f.text("id")
}

// text reports a value only when it is a JSON string. Numbers are not coerced.
func (f fields) text(key string) (string, bool) {
	raw, ok := f[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && string(raw) != "null"
}

// str renders scalars as text; null, arrays and objects become "".
func (f fields) str(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return scalarText(v)
}

// strs keeps the scalar members of an array value. A lone scalar becomes a one-item list.
func (f fields) strs(key string) []string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch item.(type) {
			case string, float64:
				out = append(out, scalarText(item))
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case float64:
		return []string{scalarText(t)}
	}
	return nil
}

func (f fields) integer(key string, def int) int {
	raw, ok := f[key]
	if !ok {
		return def
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

func (f fields) number(key string) float64 {
	raw, ok := f[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

// examples keeps object entries only and reads their "ja"/"en" members.
func (f fields) examples(key string) []Example {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Example, 0, len(items))
	for _, item := range items {
		ex, err := objectFields(item)
		if err != nil {
			continue
		}
		out = append(out, Example{Ja: ex.str("ja"), En: ex.str("en")})
	}
	return out
}

// rest returns the members not named in known, or nil when there are none.
func (f fields) rest(known []string) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	for k, v := range f {
		if contains(known, k) {
			continue
		}
		if out == nil {
			out = make(map[string]json.RawMessage)
		}
		out[k] = v
	}
	return out
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// marshalWithExtra encodes v and folds in extra members that v does not already define.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	merged := make(map[string]json.RawMessage, len(extra)+12)
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, taken := merged[k]; !taken {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}

// decodeArray decodes a JSON array element by element. Elements that fail to decode are
// counted and skipped instead of failing the whole list.
func decodeArray[T any](data []byte, what string) ([]T, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, &DecodeError{What: what, Err: err}
	}
	out := make([]T, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

// DecodeError reports a top-level artifact that is not a JSON array.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return "failed to parse " + e.What + " list: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
