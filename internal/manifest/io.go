package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"
)

// FileName is the manifest file inside a project directory.
const FileName = "package.json"

// ErrInvalidManifest is returned when a manifest or fragment fails schema
// validation.
var ErrInvalidManifest = errors.New("invalid manifest")

// keyOrder is the conventional position of top-level manifest keys. Keys not
// listed follow in alphabetical order.
var keyOrder = []string{
	"name",
	"version",
	"private",
	"description",
	"author",
	"license",
	"type",
	"main",
	"module",
	"types",
	"scripts",
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// ReadFile decodes the JSON object at path. Numbers are kept as json.Number
// so that version-like values and large integers survive a rewrite unchanged.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a JSON object.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("manifest must be a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after manifest object")
	}
	return doc, nil
}

// Encode renders doc with two-space indentation and conventional key order.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, k := range orderedKeys(doc) {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")

		key, err := marshalNoEscape(k, "")
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(doc[k], "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(doc) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// WriteFile encodes doc and atomically replaces path.
func WriteFile(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MergeFile merges the fragment at fragmentPath into the manifest of
// targetDir and writes the result back. Both inputs must pass schema
// validation, as must the merged document, before anything is written.
func MergeFile(targetDir, fragmentPath string) (*MergeResult, error) {
	target := filepath.Join(targetDir, FileName)

	base, err := readValid(target)
	if err != nil {
		return nil, err
	}
	fragment, err := readValid(fragmentPath)
	if err != nil {
		return nil, err
	}

	result := Merge(base, fragment)
	data, err := Encode(result.Manifest)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(target, data); err != nil {
		return nil, err
	}

	if err := renameio.WriteFile(target, data, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", target, err)
	}
	return result, nil
}

func readValid(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := checkSchema(path, data); err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func checkSchema(path string, data []byte) error {
	vr, err := Validate(data)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	if !vr.Valid {
		return fmt.Errorf("%w: %s: %s", ErrInvalidManifest, filepath.Base(path), vr.summary())
	}
	return nil
}

func orderedKeys(doc Document) []string {
	keys := make([]string, 0, len(doc))
	known := make(map[string]bool, len(keyOrder))
	for _, k := range keyOrder {
		known[k] = true
		if _, ok := doc[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range doc {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// marshalNoEscape is json.MarshalIndent without HTML escaping, so values
// like ">=18" stay readable.
func marshalNoEscape(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
