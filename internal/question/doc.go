// Package question holds the configuration interview: typed questions grouped
// into ordered phases, each with a validator, an optional visibility predicate,
// and a static or answer-derived choice list. Graph.Resolve walks the questions
// in phase order against an accumulating answers.Set, accepting overrides
// without prompting and skipping questions whose predicate is false for the
// answers gathered so far.
//
// Predicates, choice functions, and default functions receive the answer set as
// it stood before the question was reached. They must be pure: the same prefix
// always yields the same visibility, choices, and default.
package question
