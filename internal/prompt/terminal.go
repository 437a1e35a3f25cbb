package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/codex-labs/create-codex-app/internal/question"
)

type styles struct {
	mark    lipgloss.Style
	message lipgloss.Style
	hint    lipgloss.Style
	problem lipgloss.Style
	notice  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		mark:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		message: r.NewStyle().Bold(true),
		hint:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
		problem: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		notice:  r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
}

type line struct {
	text string
	err  error
}

// Terminal asks questions on a reader/writer pair, usually stdin and stdout.
// It is safe to abandon a question through context cancellation; the pending
// read is picked up by the next Ask.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	st  styles

	mu      sync.Mutex
	pending chan line
}

// NewTerminal returns a Terminal reading answers from in and rendering to out.
// Colors are used only when out is a color-capable terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		st:  newStyles(lipgloss.NewRenderer(out)),
	}
}

// Ask renders p and returns the user's raw response. Validation is left to
// the caller; an unparseable menu entry is returned as typed so the caller
// can reject it and ask again.
func (t *Terminal) Ask(ctx context.Context, p question.Prompt) (any, error) {
	t.render(p)

	text, err := t.readLine(ctx)
	if err != nil {
		fmt.Fprintln(t.out)
		return nil, err
	}

	if text == "" && p.Default != nil {
		return p.Default, nil
	}

	switch p.Kind {
	case question.Select:
		return pick(p.Choices, text), nil
	case question.Confirm:
		if text == "" {
			return nil, nil
		}
		return text, nil
	default:
		return text, nil
	}
}

// Notify prints an informational line between questions.
func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.out, t.st.notice.Render(msg))
}

func (t *Terminal) render(p question.Prompt) {
	if p.Problem != "" {
		fmt.Fprintf(t.out, "%s\n", t.st.problem.Render("✗ "+p.Problem))
	}

	head := t.st.mark.Render("?") + " " + t.st.message.Render(p.Message)

	switch p.Kind {
	case question.Select:
		fmt.Fprintln(t.out, head)
		for i, c := range p.Choices {
			marker := " "
			if c.Value == p.Default {
				marker = "*"
			}
			fmt.Fprintf(t.out, "%s %d) %s\n", marker, i+1, c.Label)
		}
		hint := fmt.Sprintf("Enter number [1-%d]", len(p.Choices))
		if label, ok := labelFor(p.Choices, p.Default); ok {
			hint += fmt.Sprintf(" (%s)", label)
		}
		fmt.Fprintf(t.out, "%s: ", t.st.hint.Render(hint))
	case question.Confirm:
		fmt.Fprintf(t.out, "%s %s ", head, t.st.hint.Render(confirmHint(p.Default)))
	default:
		if s, ok := p.Default.(string); ok && s != "" {
			head += " " + t.st.hint.Render("("+s+")")
		}
		fmt.Fprintf(t.out, "%s ", head)
	}
}

// readLine returns the next input line without its terminator. io.EOF with
// no data, or a cancelled context, is reported as question.ErrAborted.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.mu.Lock()
	ch := t.pending
	if ch == nil {
		ch = make(chan line, 1)
		t.pending = ch
		go func() {
			s, err := t.in.ReadString('\n')
			ch <- line{text: s, err: err}
		}()
	}
	t.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", question.ErrAborted, ctx.Err())
	case l := <-ch:
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()

		if l.err != nil {
			if errors.Is(l.err, io.EOF) && l.text != "" {
				return strings.TrimSpace(l.text), nil
			}
			if errors.Is(l.err, io.EOF) {
				return "", fmt.Errorf("%w: end of input", question.ErrAborted)
			}
			return "", fmt.Errorf("reading answer: %w", l.err)
		}
		return strings.TrimSpace(l.text), nil
	}
}

// pick maps a menu entry to a choice value. It accepts a 1-based index, a
// value, or a label (case-insensitive).
func pick(choices []question.Choice, text string) any {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1].Value
		}
		return text
	}
	for _, c := range choices {
		if c.Value == text || strings.EqualFold(c.Label, text) {
			return c.Value
		}
	}
	return text
}

func labelFor(choices []question.Choice, v any) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, c := range choices {
		if c.Value == v {
			return c.Label, true
		}
	}
	return "", false
}

func confirmHint(def any) string {
	switch def {
	case true:
		return "(Y/n)"
	case false:
		return "(y/N)"
	default:
		return "(y/n)"
	}
}
