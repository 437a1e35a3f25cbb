package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/codex-labs/create-codex-app/internal/branding"
	"github.com/codex-labs/create-codex-app/internal/config"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/spf13/cobra"
)

// ExitAborted is the exit status after the user cancels (128 + SIGINT).
const ExitAborted = 130

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [projectName]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` interviews you about the project you want, remembers your
answers for next time, and generates a ready-to-run project skeleton.

Answers given as flags are not asked again. When a previous setup is saved,
you can reuse it and only pick a new project name.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		level := config.Get(config.KeyLogLevel)
		if verbose {
			level = "debug"
		}
		xlog.Configure(xlog.Config{Level: level, Output: cmd.ErrOrStderr(), Service: branding.CLIName()})
		cmd.SetContext(xlog.ContextWithRunID(cmd.Context(), xlog.NewRunID()))
	},
	RunE: runCreate,
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the command context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, question.ErrAborted), errors.Is(err, context.Canceled):
		return ExitAborted
	default:
		return 1
	}
}

// Report prints err for the user and returns the exit status for it. A
// cancelled run prints a plain notice instead of an error.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	switch code {
	case 0:
	case ExitAborted:
		fmt.Fprintln(w, "Aborted.")
	default:
		fmt.Fprintln(w, "Error:", err)
	}
	return code
}
