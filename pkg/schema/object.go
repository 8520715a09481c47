package schema

import (
	"github.com/goccy/go-json"
)

var _ json.Marshaler = (*Object)(nil)

// Object is a JSON object that remembers the order in which its keys were
// first set.
type Object struct {
	values map[string]any
	keys   []string
}

// NewObject creates an empty [Object].
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set sets key to v. A new key is appended to the end; an existing key keeps
// its position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]

	return v, ok
}

// Has reports whether key is set.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]

	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Map returns a plain map copy, with nested objects converted as well.
func (o *Object) Map() map[string]any {
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = plain(o.values[k])
	}

	return m
}

// MarshalJSON encodes the object with its keys in insertion order. Nested
// objects bypass the json package so that their output is never re-escaped.
func (o *Object) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, o, "")
}

func plain(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}

		return out
	default:
		return v
	}
}
