package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Supported tool identifiers.
const (
	ToolNode = "node"
	ToolGit  = "git"
	ToolNPM  = "npm"
	ToolPNPM = "pnpm"
	ToolYarn = "yarn"
	ToolBun  = "bun"
)

// MinNode is the oldest Node.js the bundled templates build with.
const MinNode = ">= 18.0.0"

// ErrNotFound is returned when a tool is not on PATH.
var ErrNotFound = errors.New("tool not found")

// Runner executes a binary and returns its combined output.
type Runner interface {
	LookPath(name string) (string, error)
	Output(ctx context.Context, path string, args ...string) ([]byte, error)
}

// Tool describes a detected binary.
type Tool struct {
	Name    string
	Path    string
	Version *semver.Version // nil when the output had no version
	Raw     string          // first line of --version output
}

// Satisfies reports whether the tool version matches constraint. A tool
// without a parsed version never satisfies a constraint.
func (t *Tool) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	if t.Version == nil {
		return false, nil
	}
	return c.Check(t.Version), nil
}

// Detector finds tools and their versions.
type Detector struct {
	runner  Runner
	timeout time.Duration
}

// NewDetector returns a Detector that runs real binaries. A nil runner uses
// os/exec.
func NewDetector(r Runner) *Detector {
	if r == nil {
		r = execRunner{}
	}
	return &Detector{runner: r, timeout: 5 * time.Second}
}

// Detect looks up name on PATH and asks it for its version.
func (d *Detector) Detect(ctx context.Context, name string) (*Tool, error) {
	path, err := d.runner.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	out, err := d.runner.Output(ctx, path, "--version")
	if err != nil {
		return nil, fmt.Errorf("running %s --version: %w", name, err)
	}

	raw := firstLine(out)
	return &Tool{Name: name, Path: path, Version: parseVersion(raw), Raw: raw}, nil
}

// PackageManagers lists the package managers the interview offers.
func PackageManagers() []string {
	return []string{ToolNPM, ToolPNPM, ToolYarn, ToolBun}
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.\-]+)?)`)

// parseVersion extracts the first version-looking token, so both "v20.11.1"
// and "git version 2.43.0" parse.
func parseVersion(s string) *semver.Version {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil
	}
	return v
}

func firstLine(b []byte) string {
	b = bytes.TrimSpace(b)
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (execRunner) Output(ctx context.Context, path string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, path, args...).CombinedOutput()
}
