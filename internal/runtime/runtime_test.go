package runtime

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

type fakeRunner struct {
	paths   map[string]string
	outputs map[string]string
	err     error
}

func (f fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", exec.ErrNotFound
}

func (f fakeRunner) Output(_ context.Context, path string, _ ...string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.outputs[path]), nil
}

func TestDetect(t *testing.T) {
	r := fakeRunner{
		paths: map[string]string{"node": "/usr/bin/node", "git": "/usr/bin/git", "bun": "/opt/bun"},
		outputs: map[string]string{
			"/usr/bin/node": "v20.11.1\n",
			"/usr/bin/git":  "git version 2.43.0\n",
			"/opt/bun":      "canary\n",
		},
	}
	d := NewDetector(r)

	tests := []struct {
		name    string
		version string
	}{
		{"node", "20.11.1"},
		{"git", "2.43.0"},
		{"bun", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := d.Detect(context.Background(), tt.name)
			if err != nil {
				t.Fatalf("Detect() error: %v", err)
			}
			if tt.version == "" {
				if tool.Version != nil {
					t.Errorf("Version = %v, want nil", tool.Version)
				}
				return
			}
			if tool.Version == nil || tool.Version.String() != tt.version {
				t.Errorf("Version = %v, want %s", tool.Version, tt.version)
			}
		})
	}
}

func TestDetect_NotFound(t *testing.T) {
	_, err := NewDetector(fakeRunner{}).Detect(context.Background(), "pnpm")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Detect() error = %v, want ErrNotFound", err)
	}
}

func TestDetect_RunFailure(t *testing.T) {
	r := fakeRunner{paths: map[string]string{"yarn": "/bin/yarn"}, err: errors.New("exit status 1")}
	if _, err := NewDetector(r).Detect(context.Background(), "yarn"); err == nil {
		t.Error("Detect() should fail when --version fails")
	}
}

func TestSatisfies(t *testing.T) {
	tool := &Tool{Name: "node", Version: parseVersion("v16.20.0")}
	ok, err := tool.Satisfies(MinNode)
	if err != nil || ok {
		t.Errorf("Satisfies(%q) = %v, %v; want false", MinNode, ok, err)
	}

	tool.Version = parseVersion("v22.1.0")
	if ok, _ := tool.Satisfies(MinNode); !ok {
		t.Errorf("node 22 should satisfy %s", MinNode)
	}

	if ok, _ := (&Tool{}).Satisfies(MinNode); ok {
		t.Error("a tool without a version never satisfies")
	}
	if _, err := tool.Satisfies("not a constraint"); err == nil {
		t.Error("expected error for invalid constraint")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"10.2.4", "10.2.4"},
		{"v18.19.0", "18.19.0"},
		{"git version 2.39.3 (Apple Git-145)", "2.39.3"},
		{"1.22", "1.22.0"},
		{"9.0.0-beta.1", "9.0.0-beta.1"},
	}
	for _, tt := range tests {
		v := parseVersion(tt.in)
		if v == nil || v.String() != tt.want {
			t.Errorf("parseVersion(%q) = %v, want %s", tt.in, v, tt.want)
		}
	}
	if parseVersion("unknown") != nil {
		t.Error("parseVersion(unknown) should be nil")
	}
}
