// Package answers defines Set, the ordered id → value mapping produced by the
// configuration interview. A Set grows one accepted answer at a time, keeps
// traversal order through JSON and YAML encoding, and is persisted as the
// user's saved setup.
package answers
