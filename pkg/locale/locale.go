// Package locale provides the UI chrome strings (titles, button labels,
// help text) in every bundled language. Greeting copy lives in content and
// is never translated.
package locale

import (
	"embed"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/valentine/pkg/debug"
)

//go:embed locales/*.toml
var files embed.FS

// Default is the fallback language.
var Default = language.English

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// Bundle returns the shared message bundle, loading it on first use.
func Bundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		bundle, bundleErr = loadBundle()
	})
	return bundle, bundleErr
}

func loadBundle() (*i18n.Bundle, error) {
	b := i18n.NewBundle(Default)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := files.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := b.LoadMessageFileFS(files, path.Join("locales", e.Name())); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Supported lists the bundled languages.
func Supported() []language.Tag {
	b, err := Bundle()
	if err != nil {
		return []language.Tag{Default}
	}
	return b.LanguageTags()
}

// Localizer translates message ids for one language.
type Localizer struct {
	loc *i18n.Localizer
	tag language.Tag
}

// New returns a Localizer for lang (a BCP 47 tag such as "es" or "en-GB").
// Unknown or empty languages resolve to English.
func New(lang string) *Localizer {
	b, err := Bundle()
	if err != nil {
		debug.Log("locale: bundle unavailable: %v", err)
		return &Localizer{tag: Default}
	}

	matcher := language.NewMatcher(b.LanguageTags())
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()

	return &Localizer{
		loc: i18n.NewLocalizer(b, lang, Default.String()),
		tag: language.Make(base.String()),
	}
}

// Lang returns the resolved language.
func (l *Localizer) Lang() language.Tag {
	return l.tag
}

// T returns the translation for id, or id itself when no language has it.
func (l *Localizer) T(id string) string {
	return l.Tf(id, nil)
}

// Tf is T with template data, e.g. {"Current": 2, "Total": 5}.
func (l *Localizer) Tf(id string, data map[string]any) string {
	if l == nil || l.loc == nil {
		return id
	}
	s, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil || s == "" {
		return id
	}
	return s
}
