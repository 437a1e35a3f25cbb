package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/codex-labs/create-codex-app/internal/answers"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
	"github.com/codex-labs/create-codex-app/internal/question"
)

// IDReuse is the id of the reuse prompt. It never appears in an answer set.
const IDReuse = "reuseConfig"

// Mode records which path produced a Result.
type Mode string

const (
	// ModeFresh means no saved record existed and the full interview ran.
	ModeFresh Mode = "fresh"
	// ModeDeclined means a saved record was offered, declined, and the full
	// interview ran.
	ModeDeclined Mode = "declined"
	// ModeReused means the saved record was carried over with a new name.
	ModeReused Mode = "reused"
)

// Loader reads the saved record. store.Store satisfies it.
type Loader interface {
	Load() (answers.Set, bool)
}

// Result is the outcome of PreviousConfig.
type Result struct {
	Answers answers.Set
	Mode    Mode
	// Drift lists ways a reused record disagrees with the current
	// interview. It is only set in ModeReused.
	Drift []question.DriftIssue
}

// Resolver combines the interview graph with the saved record.
type Resolver struct {
	Graph    *question.Graph
	Store    Loader
	Prompter question.Prompter
	Retry    question.RetryPolicy

	// SeedDefaults makes a declined record's answers the prompt defaults
	// of the full interview.
	SeedDefaults bool
}

// PreviousConfig returns the answers for this run.
//
// Without a saved record the full interview runs with overrides applied. With
// one, the user is asked whether to reuse it. Declining runs the full
// interview. Accepting asks only for a new project name and returns the
// saved answers with that name, every other value copied as saved. Carried
// answers are not re-checked against the interview; disagreements are
// reported in Result.Drift and logged.
//
// A non-empty candidateName overrides the project name for the full
// interview and is the default name when reusing.
func (r *Resolver) PreviousConfig(ctx context.Context, candidateName string, overrides question.Overrides) (*Result, error) {
	logger := xlog.WithComponentFromContext(ctx, "resolver")
	candidateName = strings.TrimSpace(candidateName)

	saved, ok := r.Store.Load()
	if !ok {
		set, err := r.resolve(ctx, candidateName, overrides)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("mode", string(ModeFresh)).Msg("resolved config")
		return &Result{Answers: set, Mode: ModeFresh}, nil
	}

	r.notify("Found your last setup.")
	reuse, err := question.Ask(ctx, r.Prompter, reuseQuestion(), answers.New(), true, r.Retry)
	if err != nil {
		return nil, err
	}

	if reuse != true {
		var opts []question.Option
		if r.SeedDefaults {
			opts = append(opts, question.WithPrior(saved))
		}
		set, err := r.resolve(ctx, candidateName, overrides, opts...)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("mode", string(ModeDeclined)).Bool("seeded", r.SeedDefaults).Msg("resolved config")
		return &Result{Answers: set, Mode: ModeDeclined}, nil
	}

	def := candidateName
	if def == "" {
		def = saved.String(question.IDProjectName) + "-2"
	}
	name, err := question.Ask(ctx, r.Prompter, nameQuestion(), saved, def, r.Retry)
	if err != nil {
		return nil, err
	}

	set := saved.With(question.IDProjectName, name)
	drift := r.Graph.Drift(set)
	for _, d := range drift {
		logger.Warn().
			Str(xlog.FieldQuestion, d.ID).
			Str("drift", string(d.Kind)).
			Str("detail", d.Detail).
			Msg("reused answer disagrees with current interview")
	}
	r.notify(fmt.Sprintf("Reusing your previous setup with new project name %q.", name))
	logger.Debug().Str("mode", string(ModeReused)).Int("drift", len(drift)).Msg("resolved config")
	return &Result{Answers: set, Mode: ModeReused, Drift: drift}, nil
}

func (r *Resolver) resolve(ctx context.Context, candidateName string, overrides question.Overrides, opts ...question.Option) (answers.Set, error) {
	if candidateName != "" {
		merged := make(question.Overrides, len(overrides)+1)
		for k, v := range overrides {
			merged[k] = v
		}
		merged[question.IDProjectName] = candidateName
		overrides = merged
	}
	opts = append(opts, question.WithRetry(r.Retry))
	set, err := r.Graph.Resolve(ctx, r.Prompter, overrides, opts...)
	if err != nil {
		return answers.Set{}, fmt.Errorf("resolving config: %w", err)
	}
	return set, nil
}

// notify forwards msg to prompters that can show messages between questions.
func (r *Resolver) notify(msg string) {
	if n, ok := r.Prompter.(interface{ Notify(string) }); ok {
		n.Notify(msg)
	}
}

func reuseQuestion() *question.Question {
	return &question.Question{
		ID:      IDReuse,
		Kind:    question.Confirm,
		Message: "Reuse your previous configuration?",
		Default: true,
	}
}

func nameQuestion() *question.Question {
	return &question.Question{
		ID:       question.IDProjectName,
		Kind:     question.Input,
		Message:  "New project name:",
		Validate: question.ValidateProjectName,
	}
}
