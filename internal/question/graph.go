package question

import (
	"context"
	"fmt"
	"sort"

	"github.com/codex-labs/create-codex-app/internal/answers"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
)

// Overrides maps question ids to values supplied outside the interview,
// typically command-line flags. An overridden question is never prompted.
type Overrides map[string]any

// Graph is an ordered, validated set of questions.
type Graph struct {
	questions []*Question
	index     map[string]int
}

// NewGraph orders questions by phase, keeping declaration order within a
// phase, and checks that ids are unique and that every DependsOn id belongs
// to an earlier question.
func NewGraph(qs ...*Question) (*Graph, error) {
	ordered := make([]*Question, len(qs))
	copy(ordered, qs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Phase < ordered[j].Phase
	})

	g := &Graph{
		questions: ordered,
		index:     make(map[string]int, len(ordered)),
	}
	for i, q := range ordered {
		if q.ID == "" {
			return nil, fmt.Errorf("question at position %d has no id", i)
		}
		if _, dup := g.index[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if q.Kind == Select && q.Choices == nil && q.ChoicesFunc == nil {
			return nil, fmt.Errorf("select question %q has no choices", q.ID)
		}
		for _, dep := range q.DependsOn {
			if _, earlier := g.index[dep]; !earlier {
				return nil, fmt.Errorf("question %q depends on %q, which is not asked before it", q.ID, dep)
			}
		}
		g.index[q.ID] = i
	}
	return g, nil
}

// MustGraph is NewGraph that panics on error, for package-level catalogs.
func MustGraph(qs ...*Question) *Graph {
	g, err := NewGraph(qs...)
	if err != nil {
		panic(err)
	}
	return g
}

// Questions returns the questions in traversal order.
func (g *Graph) Questions() []*Question {
	out := make([]*Question, len(g.questions))
	copy(out, g.questions)
	return out
}

// Lookup returns the question with the given id.
func (g *Graph) Lookup(id string) (*Question, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.questions[i], true
}

// Option configures a Resolve call.
type Option func(*resolveConfig)

type resolveConfig struct {
	retry RetryPolicy
	prior answers.Set
}

// WithRetry sets the re-prompt policy. The default is unbounded.
func WithRetry(p RetryPolicy) Option {
	return func(c *resolveConfig) { c.retry = p }
}

// WithPrior supplies a previous answer set whose values become prompt
// defaults where they are still legal for the current answers.
func WithPrior(prior answers.Set) Option {
	return func(c *resolveConfig) { c.prior = prior }
}

// Resolve walks the graph and returns the accepted answers. For each
// question in order: an override is validated and accepted without
// prompting (an invalid override fails with ErrInvalidInput); otherwise a
// question whose predicate is false for the answers so far is skipped;
// otherwise the user is prompted with the live choice list.
func (g *Graph) Resolve(ctx context.Context, p Prompter, overrides Overrides, opts ...Option) (answers.Set, error) {
	cfg := resolveConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := xlog.WithComponentFromContext(ctx, "question")

	set := answers.New()
	for _, q := range g.questions {
		if raw, ok := overrides[q.ID]; ok {
			v, err := q.Accept(raw, set)
			if err != nil {
				return answers.Set{}, &InvalidInputError{
					ID:     q.ID,
					Value:  raw,
					Reason: err.Error(),
					Source: SourceOverride,
				}
			}
			logger.Debug().Str(xlog.FieldQuestion, q.ID).Str(xlog.FieldSource, string(SourceOverride)).Msg("accepted")
			set = set.With(q.ID, v)
			continue
		}

		if !q.Visible(set) {
			logger.Debug().Str(xlog.FieldQuestion, q.ID).Stringer(xlog.FieldPhase, q.Phase).Msg("skipped")
			continue
		}

		v, err := Ask(ctx, p, q, set, g.defaultFor(q, set, cfg.prior), cfg.retry)
		if err != nil {
			return answers.Set{}, err
		}
		logger.Debug().Str(xlog.FieldQuestion, q.ID).Str(xlog.FieldSource, string(SourcePrompt)).Msg("accepted")
		set = set.With(q.ID, v)
	}
	return set, nil
}

// defaultFor prefers a prior answer that is still legal, then the
// question's own default.
func (g *Graph) defaultFor(q *Question, set, prior answers.Set) any {
	if v, ok := prior.Get(q.ID); ok {
		if checked, err := q.Check(v, set); err == nil {
			return checked
		}
	}
	return q.DefaultFor(set)
}

// DriftKind classifies a Drift finding.
type DriftKind string

const (
	DriftHidden  DriftKind = "hidden"  // carried answer whose predicate is now false
	DriftInvalid DriftKind = "invalid" // carried answer the question would now reject
	DriftMissing DriftKind = "missing" // visible question with no carried answer
	DriftUnknown DriftKind = "unknown" // carried id the graph does not ask
)

// DriftIssue describes one difference between a carried-over answer set and
// what the graph would ask today.
type DriftIssue struct {
	ID     string
	Kind   DriftKind
	Detail string
}

// Drift replays set against the graph without prompting and reports answers
// that the current predicates, choice lists, or validators disagree with.
// The set is not modified.
func (g *Graph) Drift(set answers.Set) []DriftIssue {
	var issues []DriftIssue
	prefix := answers.New()

	for _, q := range g.questions {
		v, ok := set.Get(q.ID)
		visible := q.Visible(prefix)
		switch {
		case !ok && visible:
			issues = append(issues, DriftIssue{ID: q.ID, Kind: DriftMissing, Detail: "no saved answer"})
		case ok && !visible:
			issues = append(issues, DriftIssue{ID: q.ID, Kind: DriftHidden, Detail: fmt.Sprintf("saved %v would not be asked", v)})
		case ok:
			if _, err := q.Check(v, prefix); err != nil {
				issues = append(issues, DriftIssue{ID: q.ID, Kind: DriftInvalid, Detail: err.Error()})
			}
		}
		if ok {
			prefix = prefix.With(q.ID, v)
		}
	}

	for _, id := range set.Keys() {
		if _, known := g.index[id]; !known {
			issues = append(issues, DriftIssue{ID: id, Kind: DriftUnknown, Detail: "not part of the interview"})
		}
	}
	return issues
}
