package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/codex-labs/create-codex-app/internal/answers"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/codex-labs/create-codex-app/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	listFramework string
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List project templates",
	Long: `List every framework and UI library combination that can be generated.
Frameworks offered by the interview without a template are shown as unsupported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := listTemplates(templateGenerator(), question.Default(), listFramework)
		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No templates matching --framework=%s\n", listFramework)
			return nil
		}
		if listJSON {
			return printListJSON(cmd.OutOrStdout(), entries)
		}
		return printListTable(cmd.OutOrStdout(), entries)
	},
}

func init() {
	listCmd.Flags().StringVar(&listFramework, "framework", "", "Only show this framework")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one framework/ui combination.
type listEntry struct {
	Framework string `json:"framework"`
	UI        string `json:"ui,omitempty"`
	Files     int    `json:"files"`
	Supported bool   `json:"supported"`
}

// listTemplates walks the interview's framework choices so that choices
// without a template still show up. Frameworks found only in the template
// catalog are listed after them.
func listTemplates(g *scaffold.Generator, graph *question.Graph, only string) []listEntry {
	var frameworks []string
	seen := map[string]bool{}
	if q, ok := graph.Lookup(question.IDFramework); ok {
		for _, c := range q.ChoicesFor(answers.New()) {
			frameworks = append(frameworks, c.Value)
			seen[c.Value] = true
		}
	}
	for _, fw := range g.Frameworks() {
		if !seen[fw] {
			frameworks = append(frameworks, fw)
		}
	}

	var entries []listEntry
	for _, fw := range frameworks {
		if only != "" && fw != only {
			continue
		}
		if g.Check(fw, scaffold.NoUI) != nil {
			entries = append(entries, listEntry{Framework: fw})
			continue
		}
		for _, ui := range g.UIs(fw) {
			files, err := g.Plan(answers.FromPairs(question.IDFramework, fw, question.IDUI, ui))
			entries = append(entries, listEntry{Framework: fw, UI: ui, Files: len(files), Supported: err == nil})
		}
	}
	return entries
}

func printListTable(out io.Writer, entries []listEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FRAMEWORK\tUI\tFILES")
	for _, e := range entries {
		if !e.Supported {
			fmt.Fprintf(w, "%s\t-\tnot yet supported\n", e.Framework)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Framework, e.UI, e.Files)
	}
	return w.Flush()
}

func printListJSON(out io.Writer, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
