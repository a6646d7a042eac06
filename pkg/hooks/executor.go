package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/vanderheijden86/valentine/pkg/debug"
)

// maxSummaryStderr caps how much stderr a failed hook contributes to Summary.
const maxSummaryStderr = 200

// Result records one hook execution.
type Result struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs the hooks of a Config with a fixed export context.
type Executor struct {
	config  *Config
	context ExportContext
	results []Result
}

// NewExecutor creates an executor. A nil config runs nothing.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ctx}
}

// RunPreExport runs pre-export hooks in order and stops at the first
// failing hook whose OnError is "fail".
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		r := e.runHook(h, PreExport)
		e.results = append(e.results, r)
		if !r.Success && h.OnError != "continue" {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, r.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. Failures of hooks marked
// "fail" are joined into the returned error after all hooks ran.
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		r := e.runHook(h, PostExport)
		e.results = append(e.results, r)
		if !r.Success && h.OnError == "fail" {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, r.Error))
		}
	}
	return errors.Join(errs...)
}

// Results returns all results recorded so far.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary describes the hook runs in one line per failure.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	var lines []string
	for _, r := range e.results {
		if r.Success {
			ok++
			continue
		}
		failed++
		line := fmt.Sprintf("  %s (%s): %v", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			stderr := r.Stderr
			if len(stderr) > maxSummaryStderr {
				stderr = stderr[:maxSummaryStderr] + "..."
			}
			line += "\n    " + stderr
		}
		lines = append(lines, line)
	}
	head := fmt.Sprintf("hooks: %d succeeded, %d failed", ok, failed)
	if len(lines) == 0 {
		return head
	}
	return head + "\n" + strings.Join(lines, "\n")
}

func (e *Executor) runHook(h Hook, phase HookPhase) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := shellCommand(ctx, h.Command)
	// Children of the shell may hold the output pipes after it is killed.
	cmd.WaitDelay = time.Second
	ctxEnv := e.context.ToEnv()
	lookup := func(key string) string {
		for _, kv := range ctxEnv {
			if v, ok := strings.CutPrefix(kv, key+"="); ok {
				return v
			}
		}
		return os.Getenv(key)
	}
	env := append(os.Environ(), ctxEnv...)
	for k, v := range h.Env {
		env = append(env, k+"="+os.Expand(v, lookup))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r := Result{
		Hook:     h,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		r.Error = fmt.Errorf("timed out after %s", timeout)
	case err != nil:
		r.Error = err
	default:
		r.Success = true
	}
	debug.Logger().Debug().
		Str("hook", h.Name).
		Str("phase", string(phase)).
		Bool("ok", r.Success).
		Dur("took", r.Duration).
		Msg("hook finished")
	return r
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// Load reads the hooks file from dir. It returns a nil executor when there
// is nothing to run.
func Load(dir string, ctx ExportContext) (*Executor, error) {
	loader := NewLoader(dir)
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ctx), nil
}
