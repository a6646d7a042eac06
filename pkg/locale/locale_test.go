package locale

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

func TestNew_English(t *testing.T) {
	l := New("en")
	if got := l.T("proposal_yes"); got != "Yes" {
		t.Fatalf("T(proposal_yes) = %q", got)
	}
	if l.Lang().String() != "en" {
		t.Fatalf("Lang = %v", l.Lang())
	}
}

func TestNew_Spanish(t *testing.T) {
	l := New("es-MX")
	if got := l.T("proposal_yes"); got != "Sí" {
		t.Fatalf("T(proposal_yes) = %q", got)
	}
	if l.Lang().String() != "es" {
		t.Fatalf("Lang = %v", l.Lang())
	}
}

func TestNew_UnknownFallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "xx", "fr"} {
		l := New(lang)
		if got := l.T("quiz_perfect"); got != "Perfect Score!" {
			t.Errorf("New(%q).T(quiz_perfect) = %q", lang, got)
		}
	}
}

func TestT_UnknownIDReturnsID(t *testing.T) {
	if got := New("en").T("no_such_message"); got != "no_such_message" {
		t.Fatalf("expected id back, got %q", got)
	}
	var l *Localizer
	if got := l.T("proposal_yes"); got != "proposal_yes" {
		t.Fatalf("nil localizer should echo id, got %q", got)
	}
}

func TestTf_TemplateData(t *testing.T) {
	got := New("en").Tf("quiz_progress", map[string]any{"Current": 2, "Total": 5})
	if got != "Question 2 of 5" {
		t.Fatalf("Tf = %q", got)
	}
}

func TestSupported_EveryLanguageHasEveryMessage(t *testing.T) {
	tags := Supported()
	if len(tags) < 2 {
		t.Fatalf("expected at least 2 languages, got %v", tags)
	}
	fresh := i18n.NewBundle(Default)
	fresh.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	english, err := fresh.LoadMessageFileFS(files, "locales/active.en.toml")
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range tags {
		l := New(tag.String())
		for _, m := range english.Messages {
			if got := l.T(m.ID); got == m.ID {
				t.Errorf("%v: missing message %q", tag, m.ID)
			}
		}
	}
}
