package question

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/codex-labs/create-codex-app/internal/answers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the input style of a question.
type Kind int

const (
	// Confirm is a yes/no question; accepted values are bools.
	Confirm Kind = iota
	// Select is a single choice from a list; accepted values are choice values.
	Select
	// Input is free text; accepted values are strings.
	Input
)

func (k Kind) String() string {
	switch k {
	case Confirm:
		return "confirm"
	case Select:
		return "single-choice"
	case Input:
		return "free-text"
	default:
		return "unknown"
	}
}

// Phase groups questions. Phases run in declaration order.
type Phase int

const (
	PhaseRepository Phase = iota
	PhaseMetadata
	PhaseLanguage
	PhaseEnvironment
	PhaseFramework
	PhaseQuality
	PhaseInfrastructure
	PhaseHosting
	PhaseAutomation
)

var phaseNames = [...]string{
	PhaseRepository:     "repository setup",
	PhaseMetadata:       "metadata",
	PhaseLanguage:       "language/structure",
	PhaseEnvironment:    "environment",
	PhaseFramework:      "framework/ui/routing",
	PhaseQuality:        "quality tooling",
	PhaseInfrastructure: "infrastructure",
	PhaseHosting:        "repository hosting",
	PhaseAutomation:     "automation",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Choice is one option of a Select question.
type Choice struct {
	Label string
	Value string
}

var titleCaser = cases.Title(language.English)

// Values builds choices whose labels are the title-cased values.
func Values(vals ...string) []Choice {
	out := make([]Choice, len(vals))
	for i, v := range vals {
		out[i] = Choice{Label: titleCaser.String(v), Value: v}
	}
	return out
}

// Question is one node of the interview.
type Question struct {
	ID      string
	Kind    Kind
	Phase   Phase
	Message string

	// Choices is the static list for Select questions. ChoicesFunc, when set,
	// replaces it with a list computed from the answers so far.
	Choices     []Choice
	ChoicesFunc func(answers.Set) []Choice

	// Default is the static default. DefaultFunc, when set, takes precedence.
	Default     any
	DefaultFunc func(answers.Set) any

	// Validate rejects a coerced value; the error text is shown to the user.
	Validate func(any) error

	// When reports whether the question is asked. Nil means always.
	When func(answers.Set) bool

	// Transform normalizes an accepted value before it is stored.
	Transform func(any) any

	// DependsOn lists the ids read by When, ChoicesFunc, and DefaultFunc.
	// Each must belong to a question earlier in phase order.
	DependsOn []string
}

// ChoicesFor returns the choice list given the answers so far.
func (q *Question) ChoicesFor(a answers.Set) []Choice {
	if q.ChoicesFunc != nil {
		return q.ChoicesFunc(a)
	}
	return q.Choices
}

// Visible reports whether the question is asked given the answers so far.
func (q *Question) Visible(a answers.Set) bool {
	return q.When == nil || q.When(a)
}

// DefaultFor returns the static or answer-derived default. For Select
// questions a default that is not a current choice is dropped.
func (q *Question) DefaultFor(a answers.Set) any {
	def := q.Default
	if q.DefaultFunc != nil {
		def = q.DefaultFunc(a)
	}
	if q.Kind == Select && def != nil {
		s, _ := def.(string)
		if !hasChoice(q.ChoicesFor(a), s) {
			return nil
		}
	}
	return def
}

// Check coerces raw to the question's value type and validates it against the
// validator and, for Select questions, the live choice list. The returned
// value has not been transformed.
func (q *Question) Check(raw any, a answers.Set) (any, error) {
	v, err := q.coerce(raw)
	if err != nil {
		return nil, err
	}
	if q.Kind == Select {
		choices := q.ChoicesFor(a)
		if !hasChoice(choices, v.(string)) {
			return nil, fmt.Errorf("%q is not one of %s", v, choiceValues(choices))
		}
	}
	if q.Validate != nil {
		if err := q.Validate(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Accept runs Check and then Transform.
func (q *Question) Accept(raw any, a answers.Set) (any, error) {
	v, err := q.Check(raw, a)
	if err != nil {
		return nil, err
	}
	if q.Transform != nil {
		v = q.Transform(v)
	}
	return v, nil
}

func (q *Question) coerce(raw any) (any, error) {
	switch q.Kind {
	case Confirm:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			return parseYesNo(v)
		}
		return nil, fmt.Errorf("expected yes or no, got %T", raw)
	case Select:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a choice, got %T", raw)
		}
		return strings.TrimSpace(s), nil
	case Input:
		switch v := raw.(type) {
		case nil:
			return "", nil
		case string:
			return strings.TrimSpace(v), nil
		}
		return nil, fmt.Errorf("expected text, got %T", raw)
	}
	return nil, errors.New("unknown question kind")
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("expected yes or no, got %q", s)
	}
	return b, nil
}

func hasChoice(choices []Choice, v string) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func choiceValues(choices []Choice) string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return "[" + strings.Join(vals, ", ") + "]"
}
