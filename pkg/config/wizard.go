package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/valentine/pkg/locale"
	"github.com/vanderheijden86/valentine/pkg/progress"
)

// SetupAnswers holds the values collected by the setup wizard.
type SetupAnswers struct {
	Name      string
	Lang      string
	Backend   string
	Effects   bool
	Threshold string
}

// AnswersFrom pre-fills the wizard from cfg.
func AnswersFrom(cfg Config) SetupAnswers {
	return SetupAnswers{
		Name:      cfg.Content.Name,
		Lang:      cfg.UI.Lang,
		Backend:   cfg.Storage.Backend,
		Effects:   !cfg.Effects.Disabled,
		Threshold: strconv.Itoa(cfg.Proposal.Threshold),
	}
}

// Apply writes the answers into cfg.
func (a SetupAnswers) Apply(cfg Config) (Config, error) {
	if err := validateThreshold(a.Threshold); err != nil {
		return cfg, err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(a.Threshold))

	cfg.Content.Name = strings.TrimSpace(a.Name)
	cfg.UI.Lang = a.Lang
	cfg.Storage.Backend = a.Backend
	cfg.Effects.Disabled = !a.Effects
	cfg.Proposal.Threshold = n
	return cfg.normalized(), nil
}

func validateThreshold(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("threshold must be a number")
	}
	if n < 1 || n > 20 {
		return fmt.Errorf("threshold must be between 1 and 20")
	}
	return nil
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// SetupForm builds the wizard form bound to a.
func SetupForm(a *SetupAnswers) *huh.Form {
	var langs []huh.Option[string]
	for _, tag := range locale.Supported() {
		langs = append(langs, huh.NewOption(tag.String(), tag.String()))
	}

	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Who is this for?").
				Description("Used on the keepsake card").
				Value(&a.Name),
			huh.NewSelect[string]().
				Title("Language").
				Options(langs...).
				Value(&a.Lang),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should progress be saved?").
				Options(
					huh.NewOption("JSON file", progress.BackendFile),
					huh.NewOption("SQLite database", progress.BackendSQLite),
					huh.NewOption("Nowhere (start over every run)", progress.BackendMemory),
				).
				Value(&a.Backend),
			huh.NewConfirm().
				Title("Floating hearts and confetti?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.Effects),
			huh.NewInput().
				Title("How many times can they say no?").
				Validate(validateThreshold).
				Value(&a.Threshold),
		),
	)
}

// RunSetup walks the user through the main settings and saves the result
// to path.
func RunSetup(cfg Config, path string, out io.Writer) (Config, error) {
	fmt.Fprintln(out, "♥ valentine setup")
	fmt.Fprintln(out, "─────────────────")

	answers := AnswersFrom(cfg)
	if err := SetupForm(&answers).Run(); err != nil {
		return cfg, err
	}

	updated, err := answers.Apply(cfg)
	if err != nil {
		return cfg, err
	}
	if err := SaveTo(updated, path); err != nil {
		return cfg, err
	}
	fmt.Fprintf(out, "Saved %s\n", path)
	return updated, nil
}
