// Package cli defines the Cobra command tree for create-codex-app. The root
// command runs the interview and generates a project. Subcommands manage the
// saved answers (saved) and tool settings (config), list templates (list),
// check the local setup (doctor), and print build info (version). Commands
// delegate to internal packages and only handle flags, output formatting,
// and user interaction.
package cli
