package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/codex-labs/create-codex-app/internal/branding"
	"github.com/codex-labs/create-codex-app/internal/config"
	"github.com/codex-labs/create-codex-app/internal/manifest"
	"github.com/codex-labs/create-codex-app/internal/platform"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/codex-labs/create-codex-app/internal/runtime"
	"github.com/codex-labs/create-codex-app/internal/scaffold"
	"github.com/codex-labs/create-codex-app/internal/store"
	"github.com/spf13/cobra"
)

var (
	checkHome      bool
	checkSaved     bool
	checkTemplates bool
	checkRuntime   bool
	checkManifest  string
	doctorFix      bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkHome, "check-home", false, "Verify the tool directory and its permissions")
	doctorCmd.Flags().BoolVar(&checkSaved, "check-saved", false, "Verify the saved setup is readable")
	doctorCmd.Flags().BoolVar(&checkTemplates, "check-templates", false, "List available frameworks and UI libraries")
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify Node.js, git and package managers")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a package.json at the given path")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create or restrict the tool directory")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for " + branding.DisplayName(),
	Long:  `Run diagnostic checks on your ` + branding.DisplayName() + ` setup and toolchain.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		anyFlag := checkHome || checkSaved || checkTemplates || checkRuntime || checkManifest != "" || doctorFix

		if !anyFlag || checkHome || doctorFix {
			if err := runHomeCheck(w, doctorFix); err != nil {
				return err
			}
		}
		if !anyFlag || checkSaved {
			runSavedCheck(w, store.New(config.RecordPath()))
		}
		if !anyFlag || checkTemplates {
			runTemplatesCheck(w, templateGenerator())
		}
		if !anyFlag || checkRuntime {
			runRuntimeCheck(cmd.Context(), w, runtime.NewDetector(nil))
		}
		if checkManifest != "" {
			return runManifestCheck(w, checkManifest)
		}
		return nil
	},
}

func templateGenerator() *scaffold.Generator {
	if dir := config.Get(config.KeyTemplatesDir); dir != "" {
		return scaffold.New(scaffold.WithFS(os.DirFS(dir)))
	}
	return scaffold.New()
}

func runHomeCheck(w io.Writer, fix bool) error {
	fmt.Fprintln(w, "Home check:")
	dir := config.Dir()

	perm, ok, err := platform.PermOK(dir, store.DirPerm)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", dir)
		if !fix {
			fmt.Fprintln(w, "         It is created on the first successful run, or with --fix")
			return nil
		}
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", dir, err)
		return nil
	case !ok:
		fmt.Fprintf(w, "  [WARN] %s has permissions %o, expected %o\n", dir, perm, store.DirPerm)
		if !fix {
			return nil
		}
	default:
		fmt.Fprintf(w, "  [ OK ] %s\n", dir)
		return nil
	}

	if err := config.EnsureDir(); err != nil {
		return err
	}
	fmt.Fprintf(w, "  [FIX ] %s ready with %o\n", dir, store.DirPerm)
	return nil
}

func runSavedCheck(w io.Writer, st *store.Store) {
	fmt.Fprintln(w, "Saved setup check:")
	set, err := st.Inspect()
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(w, "  [INFO] No saved setup at %s\n", st.Path())
		return
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", st.Path(), err)
		fmt.Fprintf(w, "         Run '%s saved clear' to discard it\n", branding.CLIName())
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (%d answers, project %q)\n", st.Path(), set.Len(), set.String(question.IDProjectName))

	if _, ok, err := platform.PermOK(st.Path(), store.FilePerm); err == nil && !ok {
		fmt.Fprintf(w, "  [WARN] %s is readable by other users\n", st.Path())
	}
}

func runTemplatesCheck(w io.Writer, g *scaffold.Generator) {
	fmt.Fprintln(w, "Templates check:")
	frameworks := g.Frameworks()
	if len(frameworks) == 0 {
		fmt.Fprintln(w, "  [FAIL] No framework templates found")
		return
	}
	for _, fw := range frameworks {
		fmt.Fprintf(w, "  [ OK ] %s: %v\n", fw, g.UIs(fw))
	}
}

func runRuntimeCheck(ctx context.Context, w io.Writer, d *runtime.Detector) {
	fmt.Fprintln(w, "Runtime check:")

	for _, name := range append([]string{runtime.ToolNode, runtime.ToolGit}, runtime.PackageManagers()...) {
		tool, err := d.Detect(ctx, name)
		if errors.Is(err, runtime.ErrNotFound) {
			fmt.Fprintf(w, "  [MISS] %s not found\n", name)
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "  [WARN] %s: %v\n", name, err)
			continue
		}

		version := tool.Raw
		if tool.Version != nil {
			version = tool.Version.String()
		}
		if name == runtime.ToolNode {
			if ok, _ := tool.Satisfies(runtime.MinNode); !ok {
				fmt.Fprintf(w, "  [WARN] node %s found at %s, templates need %s\n", version, tool.Path, runtime.MinNode)
				continue
			}
		}
		fmt.Fprintf(w, "  [ OK ] %s %s found at %s\n", name, version, tool.Path)
	}
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	result, err := manifest.Validate(data)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] Valid package.json")
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
