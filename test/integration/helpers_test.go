//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codex-labs/create-codex-app/internal/config"
	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/spf13/viper"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // HOME, so ~/.codex lands in a temp dir
	WorkDir string // where projects are generated
}

// setupTestEnv points HOME at a temp dir and reloads settings so every
// operation is sandboxed. The environment is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{HomeDir: t.TempDir(), WorkDir: t.TempDir()}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.Load()
	return env
}

// scripted answers prompts from a map keyed by message, falling back to the
// offered default. Every asked message is recorded.
type scripted struct {
	answers map[string]any
	asked   []string
}

func (s *scripted) Ask(_ context.Context, p question.Prompt) (any, error) {
	s.asked = append(s.asked, p.Message)
	if v, ok := s.answers[p.Message]; ok {
		return v, nil
	}
	return p.Default, nil
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected path to not exist: %s", path)
	}
}

func projectPath(env *testEnv, name string, parts ...string) string {
	return filepath.Join(append([]string{env.WorkDir, name}, parts...)...)
}
