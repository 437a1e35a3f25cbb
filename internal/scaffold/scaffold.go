package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/codex-labs/create-codex-app/internal/answers"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
	"github.com/codex-labs/create-codex-app/internal/manifest"
	"github.com/codex-labs/create-codex-app/internal/question"
)

//go:embed templates
var embedded embed.FS

// NoUI is the ui value that selects the base template only.
const NoUI = "none"

// ErrUnknownChoice is matched by UnknownChoiceError.
var ErrUnknownChoice = errors.New("unknown choice")

// UnknownChoiceError reports a framework or ui with no template.
type UnknownChoiceError struct {
	Field     string // "framework" or "ui"
	Value     string
	Supported []string
}

func (e *UnknownChoiceError) Error() string {
	return fmt.Sprintf("%s %q is not yet supported (available: %s)", e.Field, e.Value, strings.Join(e.Supported, ", "))
}

// Is reports whether target is ErrUnknownChoice.
func (e *UnknownChoiceError) Is(target error) bool {
	return target == ErrUnknownChoice
}

// Data holds the variables available to .tmpl files.
type Data struct {
	Name        string // project directory name
	PackageName string // Name, prefixed with the scope when one is set
	Description string
	Author      string
	License     string
	Registry    string // package manager used in instructions
	Year        int
}

// NewData derives template data from resolved answers.
func NewData(set answers.Set) *Data {
	d := &Data{
		Name:        set.String(question.IDProjectName),
		Description: set.String(question.IDDescription),
		Author:      set.String(question.IDAuthor),
		License:     set.String(question.IDLicense),
		Registry:    set.String(question.IDRegistry),
		Year:        time.Now().Year(),
	}
	d.PackageName = d.Name
	if scope := set.String(question.IDPackageScope); scope != "" {
		d.PackageName = scope + "/" + d.Name
	}
	if d.Registry == "" {
		d.Registry = "npm"
	}
	return d
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Conflicts []manifest.Conflict
	Warnings  []string
}

// Generator copies templates from a file system laid out as
// <framework>/base and <framework>/ui/<ui>.
type Generator struct {
	fsys fs.FS
}

// Option configures a Generator.
type Option func(*Generator)

// WithFS replaces the embedded template catalog, e.g. with os.DirFS.
func WithFS(fsys fs.FS) Option {
	return func(g *Generator) { g.fsys = fsys }
}

// New returns a Generator over the embedded templates unless WithFS is given.
func New(opts ...Option) *Generator {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("scaffold: embedded templates: %v", err))
	}
	g := &Generator{fsys: sub}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Frameworks lists the frameworks that have a base template.
func (g *Generator) Frameworks() []string {
	entries, err := fs.ReadDir(g.fsys, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if info, err := fs.Stat(g.fsys, path.Join(e.Name(), "base")); err == nil && info.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// UIs lists the UI overlays of framework, including NoUI. An overlay counts
// only when it carries its <ui>.pkg.json fragment.
func (g *Generator) UIs(framework string) []string {
	out := []string{NoUI}
	entries, err := fs.ReadDir(g.fsys, path.Join(framework, "ui"))
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		fragment := path.Join(framework, "ui", e.Name(), fragmentName(e.Name()))
		if info, err := fs.Stat(g.fsys, fragment); err == nil && !info.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// Check returns an *UnknownChoiceError when framework or ui has no template.
func (g *Generator) Check(framework, ui string) error {
	frameworks := g.Frameworks()
	if !contains(frameworks, framework) {
		return &UnknownChoiceError{Field: question.IDFramework, Value: framework, Supported: frameworks}
	}
	if uis := g.UIs(framework); !contains(uis, uiOrNone(ui)) {
		return &UnknownChoiceError{Field: question.IDUI, Value: ui, Supported: uis}
	}
	return nil
}

// Plan returns the project-relative files Generate would write for set,
// sorted. Fragments are not listed since they are merged away.
func (g *Generator) Plan(set answers.Set) ([]string, error) {
	framework, ui := set.String(question.IDFramework), uiOrNone(set.String(question.IDUI))
	if err := g.Check(framework, ui); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, root := range g.layers(framework, ui) {
		err := fs.WalkDir(g.fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel := outputName(strings.TrimPrefix(p, root+"/"))
			if rel != fragmentName(ui) {
				seen[rel] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("listing template %s: %w", root, err)
		}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// Generate writes the project for set into outputDir, which must be absent
// or empty.
func (g *Generator) Generate(ctx context.Context, outputDir string, set answers.Set) (*Result, error) {
	logger := xlog.WithComponentFromContext(ctx, "scaffold")
	framework, ui := set.String(question.IDFramework), uiOrNone(set.String(question.IDUI))
	if err := g.Check(framework, ui); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if entries, err := os.ReadDir(outputDir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	data := NewData(set)
	result := &Result{OutputDir: outputDir}
	written := map[string]bool{}

	for _, root := range g.layers(framework, ui) {
		logger.Debug().Str(xlog.FieldPath, root).Msg("copying template")
		files, err := g.copyLayer(ctx, root, outputDir, data)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !written[f] {
				written[f] = true
				result.Files = append(result.Files, f)
			}
		}
	}

	if ui != NoUI {
		conflicts, err := g.mergeFragment(outputDir, ui)
		if err != nil {
			return nil, err
		}
		result.Conflicts = conflicts
		result.Files = remove(result.Files, fragmentName(ui))
		for _, c := range conflicts {
			logger.Info().
				Str(xlog.FieldPath, c.Path).
				Interface("base", c.Base).
				Interface("fragment", c.Fragment).
				Str("kind", string(c.Kind)).
				Msg("manifest value replaced by fragment")
		}
	}

	warnings, err := finalizeManifest(outputDir, data)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	sort.Strings(result.Files)
	logger.Debug().
		Str(xlog.FieldFramework, framework).
		Str(xlog.FieldUI, ui).
		Int("files", len(result.Files)).
		Msg("project generated")
	return result, nil
}

func (g *Generator) layers(framework, ui string) []string {
	layers := []string{path.Join(framework, "base")}
	if ui != NoUI {
		layers = append(layers, path.Join(framework, "ui", ui))
	}
	return layers
}

// copyLayer copies one template directory into outputDir. Later layers
// overwrite files of earlier ones.
func (g *Generator) copyLayer(ctx context.Context, root, outputDir string, data *Data) ([]string, error) {
	var files []string
	err := fs.WalkDir(g.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(g.fsys, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		rel := strings.TrimPrefix(p, root+"/")
		if strings.HasSuffix(rel, ".tmpl") {
			content, err = render(rel, content, data)
			if err != nil {
				return err
			}
		}

		outName := outputName(rel)
		outPath := filepath.Join(outputDir, filepath.FromSlash(outName))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", outName, err)
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		files = append(files, outName)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copying template %s: %w", root, err)
	}
	return files, nil
}

func (g *Generator) mergeFragment(outputDir, ui string) ([]manifest.Conflict, error) {
	fragment := filepath.Join(outputDir, fragmentName(ui))
	if _, err := os.Stat(fragment); err != nil {
		return nil, fmt.Errorf("ui %q has no %s: %w", ui, fragmentName(ui), err)
	}

	res, err := manifest.MergeFile(outputDir, fragment)
	if err != nil {
		return nil, fmt.Errorf("merging %s: %w", fragmentName(ui), err)
	}
	if err := os.Remove(fragment); err != nil {
		return nil, fmt.Errorf("removing %s: %w", fragmentName(ui), err)
	}
	return res.Conflicts, nil
}

// finalizeManifest fills package.json metadata from the answers and makes
// sure the project is an ES module. Schema violations come back as warnings.
func finalizeManifest(outputDir string, data *Data) ([]string, error) {
	pkgPath := filepath.Join(outputDir, manifest.FileName)
	doc, err := manifest.ReadFile(pkgPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc["name"] = data.PackageName
	if data.Description != "" {
		doc["description"] = data.Description
	}
	if data.Author != "" {
		doc["author"] = data.Author
	}
	if data.License != "" && data.License != "Other" {
		doc["license"] = data.License
	}
	if _, ok := doc["type"]; !ok {
		doc["type"] = "module"
	}

	if err := manifest.WriteFile(pkgPath, doc); err != nil {
		return nil, err
	}

	encoded, err := manifest.Encode(doc)
	if err != nil {
		return nil, err
	}
	vr, err := manifest.Validate(encoded)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate %s: %v", manifest.FileName, err)}, nil
	}
	var warnings []string
	for _, issue := range vr.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		warnings = append(warnings, msg)
	}
	return warnings, nil
}

func render(name string, content []byte, data *Data) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// outputName strips the .tmpl suffix and restores dotfiles, which are stored
// without the dot so that packaging keeps them.
func outputName(rel string) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	dir, base := path.Split(rel)
	if base == "gitignore" {
		base = ".gitignore"
	}
	return dir + base
}

func fragmentName(ui string) string {
	return ui + ".pkg.json"
}

func uiOrNone(ui string) string {
	if ui == "" {
		return NoUI
	}
	return ui
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
