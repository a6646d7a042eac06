package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/valentine/pkg/config"
	"github.com/vanderheijden86/valentine/pkg/progress"
	"github.com/vanderheijden86/valentine/pkg/testutil"
	"github.com/vanderheijden86/valentine/pkg/version"
)

// isolate points config and state at a temp dir and returns a --config arg.
func isolate(t *testing.T) (cfgArg string, stateDir string) {
	t.Helper()
	d := testutil.IsolateEnv(t)
	return "--config=" + filepath.Join(d.Config, "config.yaml"), d.State
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out, version.Version) {
		t.Fatalf("version output %q", out)
	}
}

func TestRun_Help(t *testing.T) {
	code, out, _ := runCLI(t, "--help")
	if code != 0 || !strings.Contains(out, "Usage: valentine") || !strings.Contains(out, "-export-card") {
		t.Fatalf("help output (code %d): %q", code, out)
	}
}

func TestRun_BadFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "--nope")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
	if !strings.Contains(errOut, "nope") {
		t.Fatalf("stderr %q should mention the flag", errOut)
	}
}

func TestRun_StatusAndReset(t *testing.T) {
	cfgArg, stateDir := isolate(t)

	code, out, _ := runCLI(t, cfgArg, "--status")
	if code != 0 || !strings.Contains(out, "no saved progress") {
		t.Fatalf("fresh status (code %d): %q", code, out)
	}

	store, err := progress.Open(progress.BackendFile, stateDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(progress.Key, "quiz"); err != nil {
		t.Fatal(err)
	}

	_, out, _ = runCLI(t, cfgArg, "--status")
	if strings.TrimSpace(out) != "quiz" {
		t.Fatalf("status = %q, want quiz", out)
	}

	code, out, _ = runCLI(t, cfgArg, "--reset")
	if code != 0 || !strings.Contains(out, "cleared") {
		t.Fatalf("reset (code %d): %q", code, out)
	}
	if _, ok, _ := store.Get(progress.Key); ok {
		t.Fatal("reset should delete the saved screen")
	}
}

func TestRun_StatusSQLite(t *testing.T) {
	cfgArg, stateDir := isolate(t)

	code, _, errOut := runCLI(t, cfgArg, "--store=SQLite", "--status")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(stateDir, "progress.db")); err != nil {
		t.Fatalf("sqlite store not created: %v", err)
	}
}

func TestRun_ExportCard(t *testing.T) {
	cfgArg, _ := isolate(t)
	path := filepath.Join(t.TempDir(), "card.svg")

	code, out, errOut := runCLI(t, cfgArg, "--export-card", path)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output %q should name the card", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "My Dearest Love") {
		t.Fatal("card is missing the letter")
	}

	// Parent is a regular file, so the card cannot be written.
	code, _, _ = runCLI(t, cfgArg, "--export-card", filepath.Join(path, "card.png"))
	if code != 1 {
		t.Fatalf("unwritable path exit code %d, want 1", code)
	}
}

func TestRun_BadConfigWarns(t *testing.T) {
	_, _ = isolate(t)
	cfgPath := testutil.WriteConfig(t, t.TempDir(), "config.yaml", "storage: [broken")
	code, _, errOut := runCLI(t, "--config", cfgPath, "--status")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(errOut, "Warning") {
		t.Fatalf("expected a warning, got %q", errOut)
	}
}

func TestRun_NeedsTerminal(t *testing.T) {
	cfgArg, _ := isolate(t)
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	code, _, errOut := runCLI(t, cfgArg, "--store=memory", "--no-watch")
	if code != 1 || !strings.Contains(errOut, "interactive terminal") {
		t.Fatalf("code %d stderr %q", code, errOut)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	applyFlags(&cfg, options{store: "SQLite", lang: "es", noEffects: true})
	if cfg.Storage.Backend != "sqlite" || cfg.UI.Lang != "es" || !cfg.Effects.Disabled {
		t.Fatalf("flags not applied: %+v", cfg)
	}

	cfg = config.DefaultConfig()
	applyFlags(&cfg, options{})
	if cfg.Storage.Backend != "file" || cfg.UI.Lang != "en" || cfg.Effects.Disabled {
		t.Fatal("empty flags must not change the config")
	}
}

func TestStatusLine(t *testing.T) {
	mem := progress.NewMemoryStore()
	_ = mem.Set(progress.Key, "bogus")
	if got := statusLine(mem); !strings.Contains(got, "unrecognized") {
		t.Errorf("statusLine = %q", got)
	}
	if got := statusLine(progress.UnavailableStore{}); !strings.HasPrefix(got, "unknown") {
		t.Errorf("statusLine = %q", got)
	}
}

func TestReloadContent(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), "config.yaml", "content:\n  name: Robin\n")
	c, err := reloadContent(path)()
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Robin" {
		t.Fatalf("Name = %q", c.Name)
	}
}

func TestStartWatcher_MissingFile(t *testing.T) {
	if w := startWatcher(filepath.Join(t.TempDir(), "missing.yaml")); w != nil {
		w.Stop()
		t.Fatal("no watcher expected for a missing file")
	}
	if w := startWatcher(""); w != nil {
		t.Fatal("no watcher expected for an empty path")
	}
}

func TestRun_ExportCardHooks(t *testing.T) {
	cfgArg, _ := isolate(t)
	cfgDir := filepath.Dir(strings.TrimPrefix(cfgArg, "--config="))
	out := filepath.Join(t.TempDir(), "card.svg")
	marker := filepath.Join(t.TempDir(), "posted")

	testutil.WriteConfig(t, cfgDir, "hooks.yaml", `
hooks:
  post-export:
    - name: note
      command: printf '%s' "$VALENTINE_CARD_FORMAT" > "`+marker+`"
`)
	code, _, errOut := runCLI(t, cfgArg, "--export-card", out)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("post-export hook did not run: %v", err)
	}
	if string(data) != "svg" {
		t.Fatalf("hook saw format %q", data)
	}
	if !strings.Contains(errOut, "1 succeeded") {
		t.Fatalf("summary missing from stderr: %q", errOut)
	}
}

func TestRun_ExportCardPreHookCancels(t *testing.T) {
	cfgArg, _ := isolate(t)
	cfgDir := filepath.Dir(strings.TrimPrefix(cfgArg, "--config="))
	out := filepath.Join(t.TempDir(), "card.svg")

	testutil.WriteConfig(t, cfgDir, "hooks.yaml", "hooks:\n  pre-export:\n    - command: exit 3\n")
	code, _, errOut := runCLI(t, cfgArg, "--export-card", out)
	if code != 1 || !strings.Contains(errOut, "cancelled") {
		t.Fatalf("code %d stderr %q", code, errOut)
	}
	if _, err := os.Stat(out); err == nil {
		t.Fatal("card must not be written when a pre-export hook fails")
	}

	code, _, _ = runCLI(t, cfgArg, "--no-hooks", "--export-card", out)
	if code != 0 {
		t.Fatalf("--no-hooks exit code %d", code)
	}
}

func TestRun_ResetAndStatusNeedTheRealStore(t *testing.T) {
	cfgArg, _ := isolate(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VALENTINE_STATE_DIR", filepath.Join(blocker, "state"))

	code, out, errOut := runCLI(t, cfgArg, "--reset")
	if code != 1 || strings.Contains(out, "cleared") {
		t.Fatalf("reset on a broken store: code %d stdout %q", code, out)
	}
	if !strings.Contains(errOut, "progress store") {
		t.Fatalf("stderr %q should name the store failure", errOut)
	}

	code, out, _ = runCLI(t, cfgArg, "--store=bogus", "--status")
	if code != 1 || !strings.HasPrefix(out, "unknown") {
		t.Fatalf("status on a broken store: code %d stdout %q", code, out)
	}
}
