// Package config manages tool settings stored at ~/.codex/settings.yaml, with
// CODEX_* environment variables taking precedence. Settings tune the tool
// itself (log level, prompt retries, where the saved answers live); the saved
// answers are handled by package store.
package config
