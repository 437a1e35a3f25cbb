package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/codex-labs/create-codex-app/internal/answers"
	"github.com/codex-labs/create-codex-app/internal/manifest"
	"github.com/codex-labs/create-codex-app/internal/question"
)

func projectAnswers(framework, ui string) answers.Set {
	return answers.FromPairs(
		question.IDProjectName, "my-app",
		question.IDDescription, "A demo app",
		question.IDAuthor, "Dev <dev@example.com>",
		question.IDLicense, "MIT",
		question.IDPackageScope, nil,
		question.IDRegistry, "pnpm",
		question.IDFramework, framework,
		question.IDUI, ui,
	)
}

func TestNewData(t *testing.T) {
	t.Run("with scope", func(t *testing.T) {
		d := NewData(projectAnswers("react", "none").With(question.IDPackageScope, "@acme"))
		if d.PackageName != "@acme/my-app" {
			t.Errorf("PackageName = %q, want %q", d.PackageName, "@acme/my-app")
		}
		if d.Registry != "pnpm" {
			t.Errorf("Registry = %q, want %q", d.Registry, "pnpm")
		}
	})

	t.Run("without scope or registry", func(t *testing.T) {
		d := NewData(answers.FromPairs(question.IDProjectName, "x"))
		if d.PackageName != "x" {
			t.Errorf("PackageName = %q, want %q", d.PackageName, "x")
		}
		if d.Registry != "npm" {
			t.Errorf("Registry = %q, want npm", d.Registry)
		}
		if d.Year == 0 {
			t.Error("Year should not be zero")
		}
	})
}

func TestGenerateReactTailwind(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "my-app")

	result, err := New().Generate(context.Background(), outDir, projectAnswers("react", "tailwind"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	assertFiles(t, result, []string{
		".gitignore", "README.md", "index.html", "package.json", "public/favicon.svg",
		"src/App.tsx", "src/index.css", "src/main.tsx", "tsconfig.json", "vite.config.ts",
	})
	if _, err := os.Stat(filepath.Join(outDir, "tailwind.pkg.json")); !os.IsNotExist(err) {
		t.Error("fragment should be removed after merging")
	}

	pkg := readManifest(t, outDir)
	if pkg["name"] != "my-app" {
		t.Errorf("name = %v, want my-app", pkg["name"])
	}
	if pkg["type"] != "module" {
		t.Errorf("type = %v, want module", pkg["type"])
	}
	if pkg["description"] != "A demo app" || pkg["license"] != "MIT" {
		t.Errorf("metadata not filled: %v", pkg)
	}
	deps := pkg["dependencies"].(map[string]any)
	for _, name := range []string{"react", "react-dom", "tailwindcss", "@tailwindcss/vite"} {
		if _, ok := deps[name]; !ok {
			t.Errorf("dependencies missing %s", name)
		}
	}

	assertContains(t, readGenerated(t, outDir, "vite.config.ts"), "tailwindcss()")
	assertContains(t, readGenerated(t, outDir, "src/index.css"), `@import "tailwindcss";`)
	assertContains(t, readGenerated(t, outDir, "index.html"), "<title>my-app</title>")
	assertContains(t, readGenerated(t, outDir, "README.md"), "pnpm run dev")

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestGenerateEveryReactUI(t *testing.T) {
	for _, ui := range []string{"none", "mui", "shadcn", "antd", "tailwind"} {
		t.Run(ui, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "app")
			result, err := New().Generate(context.Background(), outDir, projectAnswers("react", ui))
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}

			entries, err := os.ReadDir(outDir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".pkg.json") {
					t.Errorf("leftover fragment %s", e.Name())
				}
			}
			if len(result.Conflicts) != 0 {
				t.Errorf("unexpected conflicts: %v", result.Conflicts)
			}

			data, err := os.ReadFile(filepath.Join(outDir, manifest.FileName))
			if err != nil {
				t.Fatal(err)
			}
			vr, err := manifest.Validate(data)
			if err != nil || !vr.Valid {
				t.Errorf("generated package.json invalid: %v %+v", err, vr)
			}
		})
	}
}

func TestGenerateUnknownChoice(t *testing.T) {
	tests := []struct {
		name      string
		framework string
		ui        string
		field     string
	}{
		{"next not supported", "next", "tailwind", question.IDFramework},
		{"vue not supported", "vue", "none", question.IDFramework},
		{"unknown ui", "react", "bootstrap", question.IDUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "app")
			_, err := New().Generate(context.Background(), outDir, projectAnswers(tt.framework, tt.ui))
			if !errors.Is(err, ErrUnknownChoice) {
				t.Fatalf("Generate() error = %v, want ErrUnknownChoice", err)
			}
			var uce *UnknownChoiceError
			if !errors.As(err, &uce) || uce.Field != tt.field {
				t.Errorf("error = %#v, want field %s", err, tt.field)
			}
			if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
				t.Error("nothing should be written for an unknown choice")
			}
		})
	}
}

func TestGenerateRejectsNonEmptyDir(t *testing.T) {
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outDir, "existing.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := New().Generate(context.Background(), outDir, projectAnswers("react", "none"))
	if err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Errorf("Generate() error = %v, want not-empty error", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Generate(ctx, filepath.Join(t.TempDir(), "app"), projectAnswers("react", "none"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCustomFSReportsConflicts(t *testing.T) {
	fsys := fstest.MapFS{
		"svelte/base/package.json":     {Data: []byte(`{"name":"t","type":"commonjs","dependencies":{"svelte":"^4.0.0"},"files":["dist"]}`)},
		"svelte/base/src/app.js.tmpl":  {Data: []byte(`console.log("{{.PackageName}}");`)},
		"svelte/ui/skel/skel.pkg.json": {Data: []byte(`{"dependencies":{"svelte":"^5.0.0","skeleton":"^2.0.0"},"files":["dist","lib"]}`)},
		"svelte/ui/skel/src/theme.css": {Data: []byte(`:root{}`)},
	}
	g := New(WithFS(fsys))

	if got := g.Frameworks(); len(got) != 1 || got[0] != "svelte" {
		t.Fatalf("Frameworks() = %v", got)
	}

	set := projectAnswers("svelte", "skel").With(question.IDPackageScope, "@acme")
	outDir := filepath.Join(t.TempDir(), "app")
	result, err := g.Generate(context.Background(), outDir, set)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(result.Conflicts) != 1 || result.Conflicts[0].Kind != manifest.ConflictUpgrade {
		t.Errorf("Conflicts = %v, want one upgrade", result.Conflicts)
	}

	pkg := readManifest(t, outDir)
	if pkg["type"] != "commonjs" {
		t.Errorf("existing type must be kept, got %v", pkg["type"])
	}
	if pkg["name"] != "@acme/my-app" {
		t.Errorf("name = %v", pkg["name"])
	}
	files := pkg["files"].([]any)
	if len(files) != 2 || files[0] != "dist" || files[1] != "lib" {
		t.Errorf("files = %v, want [dist lib]", files)
	}
	assertContains(t, readGenerated(t, outDir, "src/app.js"), `console.log("@acme/my-app");`)
}

func TestPlan(t *testing.T) {
	files, err := New().Plan(projectAnswers("react", "shadcn"))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	for _, want := range []string{"package.json", "components.json", "src/lib/utils.ts", ".gitignore"} {
		found := false
		for _, f := range files {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Plan() missing %s in %v", want, files)
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".pkg.json") || strings.HasSuffix(f, ".tmpl") {
			t.Errorf("Plan() lists %s", f)
		}
	}

	if _, err := New().Plan(projectAnswers("vue", "none")); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Plan(vue) error = %v, want ErrUnknownChoice", err)
	}
}

func TestOverlayWithoutFragmentIsUnsupported(t *testing.T) {
	fsys := fstest.MapFS{
		"react/base/package.json":     {Data: []byte(`{"name":"t","dependencies":{"react":"^18.2.0"}}`)},
		"react/ui/mui/src/theme.ts":   {Data: []byte(`export const theme = {};`)},
		"react/ui/antd/antd.pkg.json": {Data: []byte(`{"dependencies":{"antd":"^5.0.0"}}`)},
	}
	g := New(WithFS(fsys))

	uis := g.UIs("react")
	if len(uis) != 2 || uis[0] != NoUI || uis[1] != "antd" {
		t.Errorf("UIs(react) = %v, want [none antd]", uis)
	}

	if err := g.Check("react", "mui"); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Check(react, mui) error = %v, want ErrUnknownChoice", err)
	}
	if _, err := g.Plan(projectAnswers("react", "mui")); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Plan(react, mui) error = %v, want ErrUnknownChoice", err)
	}

	outDir := filepath.Join(t.TempDir(), "app")
	if _, err := g.Generate(context.Background(), outDir, projectAnswers("react", "mui")); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Generate(react, mui) error = %v, want ErrUnknownChoice", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("Generate must not write anything for an unsupported ui")
	}

	if err := g.Check("react", "antd"); err != nil {
		t.Errorf("Check(react, antd) error = %v", err)
	}
}

// --- helpers ---

func assertFiles(t *testing.T, result *Result, expected []string) {
	t.Helper()
	if len(result.Files) != len(expected) {
		t.Fatalf("got %d files %v, want %d %v", len(result.Files), result.Files, len(expected), expected)
	}
	for i, f := range expected {
		if result.Files[i] != f {
			t.Errorf("file[%d] = %q, want %q", i, result.Files[i], f)
		}
	}
}

func readGenerated(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func readManifest(t *testing.T, dir string) manifest.Document {
	t.Helper()
	doc, err := manifest.ReadFile(filepath.Join(dir, manifest.FileName))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	return doc
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q:\n%s", substr, content)
	}
}
