// Package testutil holds helpers shared by valentine's package tests: an
// isolated environment, config fixtures and golden files.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Dirs are the directories an isolated test runs against.
type Dirs struct {
	Root   string
	Config string // $XDG_CONFIG_HOME/valentine
	State  string // VALENTINE_STATE_DIR
}

// IsolateEnv points every XDG and VALENTINE_* variable at a fresh temp dir
// so a test never reads or writes the user's real config or progress.
func IsolateEnv(t *testing.T) Dirs {
	t.Helper()

	root := t.TempDir()
	d := Dirs{
		Root:   root,
		Config: filepath.Join(root, "config", "valentine"),
		State:  filepath.Join(root, "state"),
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "xdg-state"))
	t.Setenv("VALENTINE_STATE_DIR", d.State)
	for _, name := range []string{"VALENTINE_STORE", "VALENTINE_LANG", "VALENTINE_SEED", "VALENTINE_NO_EFFECTS"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return d
}

// WriteConfig writes body to dir/name and returns the path.
func WriteConfig(t *testing.T, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %q\nactual:   %q", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}
