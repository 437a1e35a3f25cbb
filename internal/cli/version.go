package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/codex-labs/create-codex-app/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(cmd.OutOrStdout(), versionShort, versionJSON)
	},
}

func writeVersion(out io.Writer, short, asJSON bool) error {
	if short {
		fmt.Fprintln(out, buildVersion)
		return nil
	}

	if asJSON {
		info := map[string]string{
			"version": buildVersion,
			"commit":  buildCommit,
			"date":    buildDate,
			"module":  branding.GoModule(),
			"repo":    branding.GitHubRepo(),
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
	fmt.Fprintf(out, "https://github.com/%s\n", branding.GitHubRepo())
	return nil
}
