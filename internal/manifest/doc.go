// Package manifest reads, validates, merges, and writes package.json style
// manifests. Merge folds a partial fragment (dependency maps, scripts, arrays)
// into a base document: objects merge deeply, arrays become an ordered
// de-duplicated union, and any other value in the fragment replaces the base
// value, which is reported as a Conflict.
package manifest
