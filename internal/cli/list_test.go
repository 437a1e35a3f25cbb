package cli

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/codex-labs/create-codex-app/internal/question"
	"github.com/codex-labs/create-codex-app/internal/scaffold"
)

func TestListTemplates(t *testing.T) {
	entries := listTemplates(scaffold.New(), question.Default(), "")

	var react, unsupported int
	for _, e := range entries {
		switch {
		case e.Framework == "react" && e.Supported:
			react++
			if e.Files == 0 {
				t.Errorf("react/%s lists no files", e.UI)
			}
		case !e.Supported:
			unsupported++
		}
	}
	if react != 5 {
		t.Errorf("got %d react entries, want 5", react)
	}
	if unsupported != 2 {
		t.Errorf("got %d unsupported frameworks, want 2 (next, vue)", unsupported)
	}
}

func TestListTemplates_FilterAndCustomCatalog(t *testing.T) {
	g := scaffold.New(scaffold.WithFS(fstest.MapFS{
		"svelte/base/package.json": {Data: []byte(`{"name":"x"}`)},
	}))

	entries := listTemplates(g, question.Default(), "svelte")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	e := entries[0]
	if e.UI != scaffold.NoUI || !e.Supported || e.Files != 1 {
		t.Errorf("entry = %+v", e)
	}

	if got := listTemplates(g, question.Default(), "react"); len(got) != 1 || got[0].Supported {
		t.Errorf("react without templates = %+v, want one unsupported entry", got)
	}
}

func TestPrintListTable(t *testing.T) {
	var buf bytes.Buffer
	err := printListTable(&buf, []listEntry{
		{Framework: "react", UI: "none", Files: 10, Supported: true},
		{Framework: "vue"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "FRAMEWORK") || !strings.Contains(out, "not yet supported") {
		t.Errorf("unexpected table:\n%s", out)
	}
}
