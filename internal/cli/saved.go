package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/codex-labs/create-codex-app/internal/answers"
	"github.com/codex-labs/create-codex-app/internal/config"
	"github.com/codex-labs/create-codex-app/internal/store"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var savedShowJSON bool

func init() {
	savedShowCmd.Flags().BoolVar(&savedShowJSON, "json", false, "Print the saved answers as JSON")
	savedCmd.AddCommand(savedShowCmd)
	savedCmd.AddCommand(savedClearCmd)
	rootCmd.AddCommand(savedCmd)
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Inspect or clear the saved setup",
	Long:  `The setup saved after each successful run is offered for reuse on the next run.`,
}

var savedShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(config.RecordPath())
		set, err := st.Inspect()
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved config found.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("saved config at %s is unusable: %w", st.Path(), err)
		}

		format := "yaml"
		if savedShowJSON {
			format = "json"
		}
		return printAnswers(cmd.OutOrStdout(), set, format)
	},
}

var savedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(config.RecordPath())
		removed, err := st.Clear()
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared saved config.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved config found.")
		}
		return nil
	},
}

// printAnswers writes set in the given format ("json" or "yaml"), keeping
// question order.
func printAnswers(w io.Writer, set answers.Set, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding answers: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return fmt.Errorf("encoding answers: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}
