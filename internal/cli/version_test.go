package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/codex-labs/create-codex-app/internal/branding"
)

func TestWriteVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-02"

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeVersion(&buf, false, true); err != nil {
			t.Fatalf("writeVersion() error: %v", err)
		}
		var info map[string]string
		if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
		}
		want := map[string]string{
			"version": "1.2.3",
			"commit":  "abc123",
			"date":    "2026-01-02",
			"module":  branding.GoModule(),
			"repo":    branding.GitHubRepo(),
		}
		for k, v := range want {
			if info[k] != v {
				t.Errorf("%s = %q, want %q", k, info[k], v)
			}
		}
		if info["module"] == "" || info["repo"] == "" {
			t.Errorf("module and repo must be set, got %v", info)
		}
	})

	t.Run("short", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeVersion(&buf, true, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "1.2.3\n" {
			t.Errorf("short output = %q", buf.String())
		}
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeVersion(&buf, false, false); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"version 1.2.3", "commit: abc123", "github.com/" + branding.GitHubRepo()} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %q:\n%s", want, buf.String())
			}
		}
	})
}
