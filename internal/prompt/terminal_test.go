package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/codex-labs/create-codex-app/internal/answers"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var frameworks = []question.Choice{
	{Label: "React", Value: "react"},
	{Label: "Next", Value: "next"},
	{Label: "Vue", Value: "vue"},
}

func TestAsk_Select(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   any
		want  any
	}{
		{"by number", "2\n", nil, "next"},
		{"by value", "vue\n", nil, "vue"},
		{"by label", "REACT\n", nil, "react"},
		{"empty picks default", "\n", "vue", "vue"},
		{"out of range passes through", "9\n", nil, "9"},
		{"unknown passes through", "svelte\n", nil, "svelte"},
		{"last line without newline", "1", nil, "react"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.Ask(context.Background(), question.Prompt{
				ID: "framework", Kind: question.Select, Message: "Framework?",
				Choices: frameworks, Default: tt.def, Attempt: 1,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsk_SelectRendersMenu(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("1\n"), &out)

	_, err := term.Ask(context.Background(), question.Prompt{
		Kind: question.Select, Message: "Framework?", Choices: frameworks, Default: "next",
	})
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "? Framework?")
	assert.Contains(t, rendered, "  1) React")
	assert.Contains(t, rendered, "* 2) Next")
	assert.Contains(t, rendered, "Enter number [1-3] (Next): ")
}

func TestAsk_ConfirmAndInput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\n\n  my-app  \n\n"), &out)
	ctx := context.Background()

	got, err := term.Ask(ctx, question.Prompt{Kind: question.Confirm, Message: "Git?", Default: false})
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	got, err = term.Ask(ctx, question.Prompt{Kind: question.Confirm, Message: "Auth?", Default: true})
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = term.Ask(ctx, question.Prompt{Kind: question.Input, Message: "Name?", Default: "my-codex-app"})
	require.NoError(t, err)
	assert.Equal(t, "my-app", got)

	got, err = term.Ask(ctx, question.Prompt{Kind: question.Input, Message: "Description?"})
	require.NoError(t, err)
	assert.Equal(t, "", got)

	assert.Contains(t, out.String(), "(y/N)")
	assert.Contains(t, out.String(), "(Y/n)")
	assert.Contains(t, out.String(), "(my-codex-app)")
}

func TestAsk_ShowsProblem(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("ok\n"), &out)

	_, err := term.Ask(context.Background(), question.Prompt{
		Kind: question.Input, Message: "Name?", Attempt: 2, Problem: "must match pattern",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "must match pattern")
}

func TestAsk_EOFAborts(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), io.Discard)

	_, err := term.Ask(context.Background(), question.Prompt{Kind: question.Input, Message: "Name?"})
	assert.True(t, errors.Is(err, question.ErrAborted))
}

func TestAsk_CancelledContextAborts(t *testing.T) {
	pr, pw := io.Pipe()
	term := NewTerminal(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := term.Ask(ctx, question.Prompt{Kind: question.Input, Message: "Name?"})
	assert.True(t, errors.Is(err, question.ErrAborted))

	// The abandoned read is still served to the next question.
	go func() {
		_, _ = pw.Write([]byte("late\n"))
	}()
	got, err := term.Ask(context.Background(), question.Prompt{Kind: question.Input, Message: "Name?"})
	require.NoError(t, err)
	assert.Equal(t, "late", got)
	require.NoError(t, pw.Close())
}

func TestTerminal_DrivesGraph(t *testing.T) {
	g := question.MustGraph(
		&question.Question{ID: "name", Kind: question.Input, Phase: question.PhaseMetadata, Message: "Name?",
			Validate: question.ValidateProjectName},
		&question.Question{ID: "framework", Kind: question.Select, Phase: question.PhaseFramework, Message: "Framework?",
			Choices: frameworks},
		&question.Question{ID: "ssr", Kind: question.Confirm, Phase: question.PhaseFramework, Message: "SSR?",
			Default: false, DependsOn: []string{"framework"},
			When: func(a answers.Set) bool { return a.String("framework") == "next" }},
	)

	var out bytes.Buffer
	input := "bad name\ngood\n2\n\n"
	term := NewTerminal(strings.NewReader(input), &out)

	set, err := g.Resolve(context.Background(), term, nil, question.WithRetry(question.RetryPolicy{MaxAttempts: 3}))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "framework", "ssr"}, set.Keys())
	assert.Equal(t, "good", set.String("name"))
	assert.Equal(t, "next", set.String("framework"))
	assert.Equal(t, false, set.Bool("ssr"))
	assert.Contains(t, out.String(), "✗")
}

func TestNotify(t *testing.T) {
	var out bytes.Buffer
	NewTerminal(strings.NewReader(""), &out).Notify("Using saved config")
	assert.Equal(t, "Using saved config\n", out.String())
}
