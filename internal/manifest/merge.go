package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Document is a decoded JSON object.
type Document = map[string]any

// ConflictKind classifies a replaced value.
type ConflictKind string

const (
	// ConflictReplace is a plain scalar replacement.
	ConflictReplace ConflictKind = "replace"
	// ConflictUpgrade replaces a version string with a higher one.
	ConflictUpgrade ConflictKind = "upgrade"
	// ConflictDowngrade replaces a version string with a lower one.
	ConflictDowngrade ConflictKind = "downgrade"
	// ConflictType replaces a value of a different JSON type (object, array, scalar).
	ConflictType ConflictKind = "type"
)

// Conflict records a base value the fragment overrode. The fragment value
// always wins; conflicts are notices, not errors.
type Conflict struct {
	Path     string // JSON pointer, e.g. "/dependencies/react"
	Base     any
	Fragment any
	Kind     ConflictKind
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %v -> %v (%s)", c.Path, c.Base, c.Fragment, c.Kind)
}

// MergeResult holds a merged manifest and the conflicts met on the way.
type MergeResult struct {
	Manifest  Document
	Conflicts []Conflict
}

// Merge folds fragment into base and returns a new document; neither input is
// modified.
//
//   - Objects present on both sides merge recursively.
//   - Arrays present on both sides become their union: base elements in
//     order, then fragment elements not already present. Duplicates are
//     dropped on both sides. Elements compare by canonical JSON encoding.
//   - Any other value from the fragment replaces the base value.
//
// Versions are never checked for compatibility; a later fragment's value for
// the same key always wins.
func Merge(base, fragment Document) *MergeResult {
	r := &MergeResult{}
	r.Manifest = mergeObject("", base, fragment, &r.Conflicts)
	return r
}

func mergeObject(path string, base, fragment map[string]any, conflicts *[]Conflict) map[string]any {
	out := make(map[string]any, len(base)+len(fragment))
	for k, v := range base {
		out[k] = deepCopy(v)
	}
	for _, k := range sortedKeys(fragment) {
		fv := fragment[k]
		bv, exists := base[k]
		if !exists {
			out[k] = deepCopy(fv)
			continue
		}
		out[k] = mergeValue(path+"/"+escapePointer(k), bv, fv, conflicts)
	}
	return out
}

func mergeValue(path string, base, fragment any, conflicts *[]Conflict) any {
	switch b := base.(type) {
	case map[string]any:
		if f, ok := fragment.(map[string]any); ok {
			return mergeObject(path, b, f, conflicts)
		}
	case []any:
		if f, ok := fragment.([]any); ok {
			return unionArrays(b, f)
		}
	}

	if canonical(base) != canonical(fragment) {
		*conflicts = append(*conflicts, Conflict{
			Path:     path,
			Base:     base,
			Fragment: fragment,
			Kind:     classify(base, fragment),
		})
	}
	return deepCopy(fragment)
}

func unionArrays(base, fragment []any) []any {
	seen := make(map[string]bool, len(base)+len(fragment))
	out := make([]any, 0, len(base)+len(fragment))
	for _, src := range [][]any{base, fragment} {
		for _, v := range src {
			key := canonical(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, deepCopy(v))
		}
	}
	return out
}

func classify(base, fragment any) ConflictKind {
	if jsonType(base) != jsonType(fragment) {
		return ConflictType
	}
	bs, ok1 := base.(string)
	fs, ok2 := fragment.(string)
	if !ok1 || !ok2 {
		return ConflictReplace
	}
	bv, err1 := versionOf(bs)
	fv, err2 := versionOf(fs)
	if err1 != nil || err2 != nil {
		return ConflictReplace
	}
	switch bv.Compare(fv) {
	case -1:
		return ConflictUpgrade
	case 1:
		return ConflictDowngrade
	default:
		return ConflictReplace
	}
}

// versionOf extracts the version from a simple range such as "^18.2.0" or
// ">=5". Compound ranges do not parse.
func versionOf(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimLeft(strings.TrimSpace(s), "^~>=<v "))
}

func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "scalar"
	}
}

// canonical returns a stable encoding used for equality. Maps encode with
// sorted keys and numbers by value, so 1, 1.0 and 1e0 compare equal.
func canonical(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalizeNumbers(v)); err != nil {
		return fmt.Sprintf("%T:%#v", v, v)
	}
	return buf.String()
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = normalizeNumbers(item)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, item := range val {
			a[i] = normalizeNumbers(item)
		}
		return a
	case json.Number:
		f, _, err := big.ParseFloat(string(val), 10, numberPrec, big.ToNearestEven)
		if err != nil {
			return val
		}
		return json.Number(f.Text('g', -1))
	case float64:
		return json.Number(new(big.Float).SetFloat64(val).Text('g', -1))
	default:
		return val
	}
}

// numberPrec is wide enough that distinct decimals of any realistic length
// stay distinct.
const numberPrec = 256

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = deepCopy(item)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, item := range val {
			a[i] = deepCopy(item)
		}
		return a
	default:
		return val
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapePointer escapes a key for use in a JSON pointer (RFC 6901).
func escapePointer(k string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(k)
}
