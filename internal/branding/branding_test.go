package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "create-codex-app"},
		{"HomeDir", HomeDir(), ".codex"},
		{"EnvPrefix", EnvPrefix(), "CODEX"},
		{"GoModule", GoModule(), "github.com/codex-labs/create-codex-app"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("log_level"); got != "CODEX_LOG_LEVEL" {
		t.Errorf("EnvVar() = %q, want CODEX_LOG_LEVEL", got)
	}
}
