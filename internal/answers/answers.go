package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Set is an ordered mapping from question id to accepted value. Values are
// strings, bools, or nil. A Set is never modified in place: With returns a
// new Set, so a value handed to a predicate cannot change underneath it.
type Set struct {
	keys   []string
	values map[string]any
}

// New returns an empty Set.
func New() Set {
	return Set{}
}

// FromPairs builds a Set from alternating id/value arguments. It panics on an
// odd argument count or a non-string id and is intended for tests and fixtures.
func FromPairs(kv ...any) Set {
	if len(kv)%2 != 0 {
		panic("answers.FromPairs: odd argument count")
	}
	s := New()
	for i := 0; i < len(kv); i += 2 {
		id, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("answers.FromPairs: id at %d is %T, not string", i, kv[i]))
		}
		s = s.With(id, kv[i+1])
	}
	return s
}

// With returns a copy of s with id set to v. An existing id keeps its
// position; a new id is appended.
func (s Set) With(id string, v any) Set {
	next := Set{
		keys:   make([]string, len(s.keys), len(s.keys)+1),
		values: make(map[string]any, len(s.values)+1),
	}
	copy(next.keys, s.keys)
	for k, val := range s.values {
		next.values[k] = val
	}
	if _, exists := s.values[id]; !exists {
		next.keys = append(next.keys, id)
	}
	next.values[id] = v
	return next
}

// Get returns the value stored for id.
func (s Set) Get(id string) (any, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Has reports whether id has an entry.
func (s Set) Has(id string) bool {
	_, ok := s.values[id]
	return ok
}

// String returns the value for id as a string, or "" when absent or not a string.
func (s Set) String(id string) string {
	v, _ := s.values[id].(string)
	return v
}

// Bool returns the value for id as a bool, or false when absent or not a bool.
func (s Set) Bool(id string) bool {
	v, _ := s.values[id].(bool)
	return v
}

// Keys returns the ids in insertion order.
func (s Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.keys)
}

// Map returns an unordered copy of the entries.
func (s Set) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Equal reports whether a and b hold the same ids, in the same order, with
// equal values.
func (s Set) Equal(other Set) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for i, k := range s.keys {
		if other.keys[i] != k {
			return false
		}
		if s.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a flat JSON object in insertion order.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping the key order of the
// document. Nested objects and arrays are rejected.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("answers: expected JSON object, got %v", tok)
	}

	next := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("answers: expected object key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("answers: reading %q: %w", key, err)
		}
		if delim, ok := tok.(json.Delim); ok {
			return fmt.Errorf("answers: %q holds a nested %v, only scalar values are allowed", key, delim)
		}
		next = next.With(key, tok)
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	*s = next
	return nil
}

// MarshalYAML renders the set as a mapping node so key order survives.
func (s Set) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range s.keys {
		var val yaml.Node
		if err := val.Encode(s.values[k]); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
