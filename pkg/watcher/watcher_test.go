package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	path := writeConfig(t, "content:\n  name: A\n")

	var (
		changeMu sync.Mutex
		changed  bool
	)

	w, err := New(path,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() {
			changeMu.Lock()
			changed = true
			changeMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("content:\n  name: Sam\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		changeMu.Lock()
		done := changed
		changeMu.Unlock()
		if done {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("expected change to be detected")
}

func TestWatcher_PollingChangedChannel(t *testing.T) {
	path := writeConfig(t, "initial")

	w, err := New(path,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(path, []byte("new content, longer"), 0644)
	}()

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("VALENTINE_FORCE_POLL", "yes")
	path := writeConfig(t, "initial")

	w, err := New(path, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode when VALENTINE_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := writeConfig(t, "initial")

	var (
		errMu    sync.Mutex
		gotError error
	)

	w, err := New(path,
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			errMu.Lock()
			gotError = err
			errMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	errMu.Lock()
	defer errMu.Unlock()
	if gotError != ErrFileRemoved {
		t.Errorf("expected ErrFileRemoved, got %v", gotError)
	}
}

func TestWatcher_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var errCount atomic.Int32
	w, err := New(path,
		WithPollInterval(20*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(error) { errCount.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("missing file should not fail Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if errCount.Load() != 0 {
		t.Errorf("expected no errors for a file that never existed, got %d", errCount.Load())
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := writeConfig(t, "initial")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	w.Stop()

	// Restart after stop works.
	if err := w.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	w.Stop()
}

func TestWatcher_StoppedDoesNotNotify(t *testing.T) {
	path := writeConfig(t, "initial")

	var calls atomic.Int32
	w, err := New(path, WithOnChange(func() { calls.Add(1) }))
	if err != nil {
		t.Fatal(err)
	}
	w.notifyChange()
	if calls.Load() != 0 {
		t.Fatal("notifyChange before Start should be ignored")
	}
}

func TestWatcher_PathAndInterval(t *testing.T) {
	path := writeConfig(t, "initial")

	w, err := New(path, WithPollInterval(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if w.Path() != path {
		t.Errorf("expected path %q, got %q", path, w.Path())
	}
	if w.PollInterval() != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %v", w.PollInterval())
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("VALENTINE_TEST_BOOL", tt.value)
		if got := envBool("VALENTINE_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
