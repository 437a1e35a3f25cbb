package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/codex-labs/create-codex-app/internal/answers"
	"github.com/codex-labs/create-codex-app/internal/branding"
	"github.com/codex-labs/create-codex-app/internal/config"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
	"github.com/codex-labs/create-codex-app/internal/prompt"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/codex-labs/create-codex-app/internal/resolver"
	"github.com/codex-labs/create-codex-app/internal/scaffold"
	"github.com/codex-labs/create-codex-app/internal/store"
	"github.com/spf13/cobra"
)

// ErrProjectExists is returned when the project directory is already present.
var ErrProjectExists = errors.New("project directory already exists")

type createOptions struct {
	framework   string
	ui          string
	skipInstall bool
	noGit       bool
	sets        []string
	dryRun      bool
	print       string
}

var createOpts createOptions

func init() {
	f := rootCmd.Flags()
	f.StringVar(&createOpts.framework, "framework", "", "Framework (react, next, vue)")
	f.StringVar(&createOpts.ui, "ui", "", "UI library (tailwind, mui, shadcn, antd, none)")
	f.BoolVar(&createOpts.skipInstall, "skip-install", false, "Skip dependency installation")
	f.BoolVar(&createOpts.noGit, "no-git", false, "Skip Git initialization")
	f.StringArrayVar(&createOpts.sets, "set", nil, "Answer a question up front as id=value (repeatable)")
	f.BoolVar(&createOpts.dryRun, "dry-run", false, "Resolve answers and list the files that would be written, without writing")
	f.StringVar(&createOpts.print, "print", "", "Print the resolved answers as json or yaml")
}

// createEnv holds everything runCreate wires from settings and the terminal.
// Status lines go to errOut so that out carries only --print and --dry-run
// output.
type createEnv struct {
	out       io.Writer
	errOut    io.Writer
	workDir   string
	store     *store.Store
	resolver  *resolver.Resolver
	generator *scaffold.Generator
}

func runCreate(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	term := prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
	st := store.New(config.RecordPath())

	env := createEnv{
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		workDir: ".",
		store:   st,
		resolver: &resolver.Resolver{
			Graph:        question.Default(),
			Store:        st,
			Prompter:     term,
			Retry:        question.RetryPolicy{MaxAttempts: config.GetInt(config.KeyPromptRetries)},
			SeedDefaults: config.GetBool(config.KeySeedDefaults),
		},
		generator: templateGenerator(),
	}
	return create(cmd.Context(), createOpts, name, env)
}

// create resolves answers, generates the project, and saves the answers for
// next time. A project directory left half-written by an error or
// cancellation is removed.
func create(ctx context.Context, opts createOptions, name string, env createEnv) (err error) {
	logger := xlog.WithComponentFromContext(ctx, "create")

	if opts.print != "" && opts.print != "json" && opts.print != "yaml" {
		return fmt.Errorf("--print must be json or yaml, got %q", opts.print)
	}
	overrides, err := opts.overrides(env.resolver.Graph)
	if err != nil {
		return err
	}

	st := newStyles(env.errOut)
	fmt.Fprintln(env.errOut, st.title.Render("Welcome to "+branding.DisplayName()))

	res, err := env.resolver.PreviousConfig(ctx, name, overrides)
	if err != nil {
		return err
	}
	set := res.Answers
	logger.Info().Str("mode", string(res.Mode)).Msg("answers resolved")

	if opts.print != "" {
		if err := printAnswers(env.out, set, opts.print); err != nil {
			return err
		}
	}

	projectName := set.String(question.IDProjectName)
	if projectName == "" {
		return fmt.Errorf("invalid project name")
	}
	projectDir, err := filepath.Abs(filepath.Join(env.workDir, projectName))
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	if opts.dryRun {
		files, err := env.generator.Plan(set)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "Would create %s:\n", projectDir)
		for _, f := range files {
			fmt.Fprintf(env.out, "  %s\n", f)
		}
		return nil
	}

	if err := env.generator.Check(set.String(question.IDFramework), set.String(question.IDUI)); err != nil {
		return err
	}
	if _, statErr := os.Stat(projectDir); statErr == nil {
		return fmt.Errorf("%w: %s", ErrProjectExists, projectDir)
	}

	var cleanup cleanupList
	cleanup.register(projectDir)
	defer func() {
		if err != nil {
			for _, p := range cleanup.run() {
				logger.Debug().Str(xlog.FieldPath, p).Msg("removed incomplete project")
				fmt.Fprintln(env.errOut, st.warn.Render("Removed incomplete project files: "+p))
			}
		}
	}()

	fmt.Fprintf(env.errOut, "Creating project in %s\n", projectDir)
	result, err := env.generator.Generate(ctx, projectDir, set)
	if err != nil {
		return err
	}
	cleanup.finalize(projectDir)

	for _, c := range result.Conflicts {
		fmt.Fprintln(env.errOut, st.note.Render(fmt.Sprintf("package.json %s: %v replaced by %v", c.Path, c.Base, c.Fragment)))
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(env.errOut, st.warn.Render("Warning: "+w))
	}

	if saveErr := env.store.Save(set); saveErr != nil {
		logger.Warn().Err(saveErr).Str(xlog.FieldPath, env.store.Path()).Msg("failed to save config")
		fmt.Fprintln(env.errOut, st.warn.Render("Failed to save config: "+saveErr.Error()))
	} else {
		fmt.Fprintf(env.errOut, "Saved your setup to %s\n", env.store.Path())
	}

	printNextSteps(env.errOut, st, projectName, set, opts)
	return nil
}

// overrides builds the override bag from dedicated flags and --set entries.
// --set is applied last and wins.
func (o createOptions) overrides(g *question.Graph) (question.Overrides, error) {
	ov := question.Overrides{}
	if o.framework != "" {
		ov[question.IDFramework] = o.framework
	}
	if o.ui != "" {
		ov[question.IDUI] = o.ui
	}
	if o.noGit {
		ov[question.IDInitGit] = false
	}
	if o.skipInstall {
		ov[question.IDAutoInstall] = false
	}

	for _, kv := range o.sets {
		id, value, ok := strings.Cut(kv, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("--set %q: expected id=value", kv)
		}
		if _, known := g.Lookup(id); !known {
			return nil, fmt.Errorf("--set %q: unknown question id %q", kv, id)
		}
		ov[id] = value
	}
	return ov, nil
}

func printNextSteps(w io.Writer, st styles, projectName string, set answers.Set, opts createOptions) {
	pm := set.String(question.IDRegistry)
	if pm == "" {
		pm = "npm"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.success.Render(fmt.Sprintf("Project %q created successfully!", projectName)))
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  cd %s\n", projectName)
	if set.Bool(question.IDInitGit) && !opts.noGit {
		fmt.Fprintln(w, "  git init")
	}
	fmt.Fprintf(w, "  %s install\n", pm)
	fmt.Fprintf(w, "  %s run dev\n", pm)
}

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	note    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C77DFF")),
		success: r.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#E3B341")),
		note:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}
