package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0600); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want %o", perm, 0600)
		}
	}
}

func TestChmodDir(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "secure")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(dir, 0700); err != nil {
		t.Fatalf("Chmod on dir failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("permissions = %o, want %o", perm, 0700)
		}
	}
}

func TestMkdirPrivate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "home")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := MkdirPrivate(dir, 0700); err != nil {
		t.Fatalf("MkdirPrivate failed: %v", err)
	}
	if runtime.GOOS == "windows" {
		return
	}
	perm, ok, err := PermOK(dir, 0700)
	if err != nil || !ok {
		t.Errorf("PermOK = %o, %v, %v; want 0700, true", perm, ok, err)
	}
}

func TestPermOK(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no permission bits on Windows")
	}
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatal(err)
	}

	perm, ok, err := PermOK(path, 0600)
	if err != nil {
		t.Fatal(err)
	}
	if ok || perm != 0644 {
		t.Errorf("PermOK(0644 file, 0600) = %o, %v; want 0644, false", perm, ok)
	}

	if _, ok, _ := PermOK(path, 0644); !ok {
		t.Error("exact permissions should be OK")
	}
	if _, _, err := PermOK(filepath.Join(t.TempDir(), "missing"), 0600); !os.IsNotExist(err) {
		t.Errorf("PermOK(missing) error = %v, want not-exist", err)
	}
}
