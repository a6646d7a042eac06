package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/valentine/pkg/config"
	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/debug"
	"github.com/vanderheijden86/valentine/pkg/export"
	"github.com/vanderheijden86/valentine/pkg/hooks"
	"github.com/vanderheijden86/valentine/pkg/locale"
	"github.com/vanderheijden86/valentine/pkg/metrics"
	"github.com/vanderheijden86/valentine/pkg/progress"
	"github.com/vanderheijden86/valentine/pkg/screen"
	"github.com/vanderheijden86/valentine/pkg/ui"
	"github.com/vanderheijden86/valentine/pkg/version"
	"github.com/vanderheijden86/valentine/pkg/watcher"
)

var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	store      string
	lang       string
	exportCard string
	noEffects  bool
	noWatch    bool
	noHooks    bool
	reset      bool
	status     bool
	setup      bool
	version    bool
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("valentine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/valentine/config.yaml)")
	fs.StringVar(&o.store, "store", "", "Progress backend: file, sqlite or memory")
	fs.StringVar(&o.lang, "lang", "", "UI language (en, es)")
	fs.StringVar(&o.exportCard, "export-card", "", "Write the letter as a keepsake card (.svg or .png) and exit")
	fs.BoolVar(&o.noEffects, "no-effects", false, "Disable hearts and confetti")
	fs.BoolVar(&o.noWatch, "no-watch", false, "Do not reload the config file when it changes")
	fs.BoolVar(&o.noHooks, "no-hooks", false, "Skip hooks.yaml when exporting a card")
	fs.BoolVar(&o.reset, "reset", false, "Forget saved progress and exit")
	fs.BoolVar(&o.status, "status", false, "Print the saved screen and exit")
	fs.BoolVar(&o.setup, "setup", false, "Run the interactive setup wizard")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.help, "help", false, "Show help")
	err := fs.Parse(args)
	return o, fs, err
}

func run(args []string, stdout, stderr io.Writer) int {
	defer debug.Close()

	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		fmt.Fprintln(stdout, "Usage: valentine [options]")
		fmt.Fprintln(stdout, "\nAsk your Valentine, right in the terminal.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "valentine %s\n", version.String())
		return 0
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		// Non-fatal: LoadFrom hands back defaults.
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}
	applyFlags(&cfg, opts)

	if opts.setup {
		if cfg, err = config.RunSetup(cfg, cfgPath, stdout); err != nil {
			fmt.Fprintf(stderr, "Setup failed: %v\n", err)
			return 1
		}
		applyFlags(&cfg, opts)
	}

	if opts.exportCard != "" {
		return exportCard(cfg, filepath.Dir(cfgPath), opts.exportCard, opts.noHooks, stdout, stderr)
	}

	store, openErr := progress.Open(cfg.Storage.Backend, cfg.ResolvedStateDir())
	defer store.Close()

	// The fallback store is empty, so it cannot answer for what is on disk.
	if opts.reset || opts.status {
		if openErr != nil {
			fmt.Fprintf(stderr, "Error opening progress store: %v\n", openErr)
			if opts.status {
				fmt.Fprintln(stdout, "unknown (progress store unavailable)")
			}
			return 1
		}
		if opts.reset {
			if err := store.Delete(progress.Key); err != nil {
				fmt.Fprintf(stderr, "Error clearing progress: %v\n", err)
				return 1
			}
			fmt.Fprintln(stdout, "Progress cleared.")
			return 0
		}
		fmt.Fprintln(stdout, statusLine(store))
		return 0
	}
	if openErr != nil {
		fmt.Fprintf(stderr, "Warning: progress will not be saved: %v\n", openErr)
	}

	if !stdoutIsTerminal() {
		fmt.Fprintln(stderr, "valentine needs an interactive terminal")
		return 1
	}

	var w *watcher.Watcher
	if !opts.noWatch {
		w = startWatcher(cfgPath)
		if w != nil {
			defer w.Stop()
		}
	}

	m := ui.New(ui.Options{
		Router:    screen.New(store),
		Content:   cfg.Content,
		Decline:   cfg.DeclineConfig(),
		Locale:    locale.New(cfg.UI.Lang),
		Timing:    ui.DefaultTiming(),
		Effects:   !cfg.Effects.Disabled,
		MaxHearts: cfg.Effects.MaxHearts,
		Seed:      cfg.Effects.Seed,
		ExportDir: cfg.ResolvedExportDir(),
		Watcher:   w,
		Reload:    reloadContent(cfgPath),
	})

	err = runTUIProgram(m, !cfg.UI.NoAltScreen)
	metrics.LogSummary()
	if err != nil {
		fmt.Fprintf(stderr, "Error running valentine: %v\n", err)
		return 1
	}
	return 0
}

// exportCard writes the keepsake card, running any hooks.yaml found in
// hookDir around it.
func exportCard(cfg config.Config, hookDir, path string, noHooks bool, stdout, stderr io.Writer) int {
	card := export.LetterCard(cfg.Content)
	card.Path = path
	format, resolved, err := export.CardFormat(card)
	if err != nil {
		fmt.Fprintf(stderr, "Error exporting card: %v\n", err)
		return 1
	}

	var executor *hooks.Executor
	if !noHooks {
		executor, err = hooks.Load(hookDir, hooks.ExportContext{
			CardPath:  resolved,
			Format:    format,
			Recipient: cfg.Content.Name,
			Timestamp: time.Now(),
		})
		if err != nil {
			fmt.Fprintf(stderr, "Warning: hooks disabled: %v\n", err)
		}
	}
	if executor != nil {
		if err := executor.RunPreExport(); err != nil {
			fmt.Fprintf(stderr, "Export cancelled: %v\n", err)
			return 1
		}
	}

	written, err := export.SaveCard(card)
	if err != nil {
		fmt.Fprintf(stderr, "Error exporting card: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Saved %s\n", written)

	if executor != nil {
		if err := executor.RunPostExport(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
		if summary := executor.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}
	return 0
}

// applyFlags lets command-line flags override file and env settings.
func applyFlags(cfg *config.Config, o options) {
	if o.store != "" {
		cfg.Storage.Backend = strings.ToLower(o.store)
	}
	if o.lang != "" {
		cfg.UI.Lang = o.lang
	}
	if o.noEffects {
		cfg.Effects.Disabled = true
	}
}

func statusLine(store progress.Store) string {
	id, ok, err := store.Get(progress.Key)
	switch {
	case err != nil:
		return fmt.Sprintf("unknown (%v)", err)
	case !ok:
		return "proposal (no saved progress)"
	}
	if s, known := screen.Parse(id); known {
		return s.String()
	}
	return fmt.Sprintf("proposal (unrecognized value %q)", id)
}

// startWatcher watches the config file if it exists. Failures only disable
// hot reload.
func startWatcher(path string) *watcher.Watcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := watcher.New(path,
		watcher.WithOnError(func(err error) {
			debug.Logger().Warn().Err(err).Str("path", path).Msg("config watch error")
		}),
	)
	if err != nil {
		debug.Log("config watcher: %v", err)
		return nil
	}
	if err := w.Start(); err != nil {
		debug.Log("config watcher start: %v", err)
		return nil
	}
	debug.Log("watching %s (polling=%v)", filepath.Base(path), w.IsPolling())
	return w
}

func reloadContent(path string) func() (content.Content, error) {
	return func() (content.Content, error) {
		cfg, err := config.LoadFrom(path)
		if err != nil {
			return content.Content{}, err
		}
		return cfg.Content, nil
	}
}

func runTUIProgram(m ui.Model, altScreen bool) error {
	progOpts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, progOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set VALENTINE_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("VALENTINE_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
