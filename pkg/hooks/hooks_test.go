package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeHooksFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write hooks.yaml: %v", err)
	}
}

func TestExportContextToEnv(t *testing.T) {
	ctx := ExportContext{
		CardPath:  "/tmp/card.svg",
		Format:    "svg",
		Recipient: "Sam",
		Timestamp: time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
	}
	want := []string{
		"VALENTINE_CARD_PATH=/tmp/card.svg",
		"VALENTINE_CARD_FORMAT=svg",
		"VALENTINE_RECIPIENT=Sam",
		"VALENTINE_TIMESTAMP=2026-02-14T09:00:00Z",
	}
	got := ctx.ToEnv()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("ToEnv() = %v", got)
	}
}

func TestLoaderNoConfig(t *testing.T) {
	loader := NewLoader(t.TempDir())
	if err := loader.Load(); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if loader.HasHooks() {
		t.Error("expected no hooks when the file is missing")
	}
}

func TestLoaderDefaults(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `
hooks:
  pre-export:
    - name: validate
      command: echo ok
      timeout: 5s
  post-export:
    - command: echo done
      timeout: 2
    - command: "   "
`)
	loader := NewLoader(dir)
	if err := loader.Load(); err != nil {
		t.Fatal(err)
	}
	cfg := loader.Config()
	if len(cfg.Hooks.PreExport) != 1 || len(cfg.Hooks.PostExport) != 1 {
		t.Fatalf("hooks = %+v", cfg.Hooks)
	}
	pre, post := cfg.Hooks.PreExport[0], cfg.Hooks.PostExport[0]
	if pre.Timeout != 5*time.Second || pre.OnError != "fail" {
		t.Errorf("pre hook = %+v", pre)
	}
	if post.Timeout != 2*time.Second || post.OnError != "continue" || post.Name != "post-export-1" {
		t.Errorf("post hook = %+v", post)
	}
	if len(loader.Warnings()) != 1 {
		t.Errorf("warnings = %v, want one for the empty command", loader.Warnings())
	}
}

func TestLoaderInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, "hooks: [")
	if err := NewLoader(dir).Load(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestHookUnmarshalInvalidTimeout(t *testing.T) {
	var h Hook
	if err := yaml.Unmarshal([]byte("command: x\ntimeout: soon\n"), &h); err == nil {
		t.Fatal("expected an invalid timeout error")
	}
}

func TestExecutorRunsWithContextEnv(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{
		PostExport: []Hook{{
			Name:    "echo",
			Command: `echo "$VALENTINE_RECIPIENT $GREETING"`,
			Timeout: 5 * time.Second,
			Env:     map[string]string{"GREETING": "for ${VALENTINE_CARD_FORMAT}"},
			OnError: "continue",
		}},
	}}
	e := NewExecutor(cfg, ExportContext{Recipient: "Sam", Format: "png", Timestamp: time.Now()})
	if err := e.RunPostExport(); err != nil {
		t.Fatal(err)
	}
	res := e.Results()
	if len(res) != 1 || !res[0].Success {
		t.Fatalf("results = %+v", res)
	}
	if res[0].Stdout != "Sam for png" {
		t.Fatalf("stdout = %q", res[0].Stdout)
	}
}

func TestExecutorPreExportStopsOnFail(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{
		PreExport: []Hook{
			{Name: "bad", Command: "exit 1", Timeout: 5 * time.Second, OnError: "fail"},
			{Name: "never", Command: "echo nope", Timeout: 5 * time.Second, OnError: "fail"},
		},
	}}
	e := NewExecutor(cfg, ExportContext{})
	if err := e.RunPreExport(); err == nil {
		t.Fatal("expected pre-export failure")
	}
	if len(e.Results()) != 1 {
		t.Fatalf("later hooks ran: %+v", e.Results())
	}
}

func TestExecutorPostExportRunsAll(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{
		PostExport: []Hook{
			{Name: "bad", Command: "exit 1", Timeout: 5 * time.Second, OnError: "fail"},
			{Name: "good", Command: "echo ok", Timeout: 5 * time.Second, OnError: "continue"},
		},
	}}
	e := NewExecutor(cfg, ExportContext{})
	if err := e.RunPostExport(); err == nil {
		t.Fatal("expected the failing hook to be reported")
	}
	if len(e.Results()) != 2 {
		t.Fatalf("results = %+v", e.Results())
	}
	summary := e.Summary()
	if !strings.Contains(summary, "1 succeeded") || !strings.Contains(summary, "1 failed") {
		t.Fatalf("summary = %q", summary)
	}
}

func TestExecutorTimeout(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{
		PreExport: []Hook{{Name: "slow", Command: "sleep 5", Timeout: 50 * time.Millisecond, OnError: "fail"}},
	}}
	e := NewExecutor(cfg, ExportContext{})
	err := e.RunPreExport()
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	e, err := Load(dir, ExportContext{})
	if err != nil || e != nil {
		t.Fatalf("missing file: executor=%v err=%v", e, err)
	}

	writeHooksFile(t, dir, "hooks:\n  post-export:\n    - command: echo hi\n")
	e, err = Load(dir, ExportContext{})
	if err != nil || e == nil {
		t.Fatalf("executor=%v err=%v", e, err)
	}
	if len(e.Results()) != 0 {
		t.Fatal("no results expected before running")
	}
}
