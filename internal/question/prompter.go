package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/codex-labs/create-codex-app/internal/answers"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
)

// Prompt is what a Prompter renders for one attempt at a question.
type Prompt struct {
	ID      string
	Kind    Kind
	Message string
	Choices []Choice
	Default any

	// Attempt starts at 1. Problem holds the reason the previous attempt was
	// rejected and is empty on the first attempt.
	Attempt int
	Problem string
}

// Prompter asks the user one question and returns the raw response. It
// returns ErrAborted when the user cancels.
type Prompter interface {
	Ask(ctx context.Context, p Prompt) (any, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, p Prompt) (any, error)

// Ask calls f(ctx, p).
func (f PrompterFunc) Ask(ctx context.Context, p Prompt) (any, error) {
	return f(ctx, p)
}

// RetryPolicy bounds re-prompting after a rejected answer.
// MaxAttempts <= 0 means keep asking until a valid answer or cancellation.
type RetryPolicy struct {
	MaxAttempts int
}

// Ask prompts for q until the answer passes Accept, the retry policy is
// exhausted, or the user aborts. def is shown as the default; it is never
// used unless the prompter returns it.
func Ask(ctx context.Context, p Prompter, q *Question, a answers.Set, def any, retry RetryPolicy) (any, error) {
	logger := xlog.FromContext(ctx)
	choices := q.ChoicesFor(a)
	problem := ""

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAborted, err)
		}

		raw, err := p.Ask(ctx, Prompt{
			ID:      q.ID,
			Kind:    q.Kind,
			Message: q.Message,
			Choices: choices,
			Default: def,
			Attempt: attempt,
			Problem: problem,
		})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
			}
			return nil, fmt.Errorf("asking %s: %w", q.ID, err)
		}

		v, err := q.Accept(raw, a)
		if err == nil {
			return v, nil
		}

		problem = err.Error()
		logger.Debug().
			Str(xlog.FieldQuestion, q.ID).
			Int("attempt", attempt).
			Str("reason", problem).
			Msg("answer rejected")

		if retry.MaxAttempts > 0 && attempt >= retry.MaxAttempts {
			return nil, &InvalidInputError{
				ID:       q.ID,
				Value:    raw,
				Reason:   problem,
				Source:   SourcePrompt,
				Attempts: attempt,
			}
		}
	}
}
