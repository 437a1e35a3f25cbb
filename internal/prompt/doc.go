// Package prompt implements question.Prompter on a line-oriented terminal.
//
// Select questions are rendered as numbered menus; the user types a number or
// the choice value. An empty line picks the default. End of input counts as
// cancellation and surfaces as question.ErrAborted.
package prompt
