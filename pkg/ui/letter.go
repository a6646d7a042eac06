package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/debug"
	"github.com/vanderheijden86/valentine/pkg/export"
	"github.com/vanderheijden86/valentine/pkg/screen"
)

const letterWidth = 60

type letterState struct {
	revealed int
	done     bool
	rendered string
	width    int
	renderer *glamour.TermRenderer
}

// cardExportedMsg reports the result of a keepsake export.
type cardExportedMsg struct {
	paths []string
	err   error
}

func newLetterState(c content.Content, width int) letterState {
	var l letterState
	l.resize(c, width)
	return l
}

// resize rebuilds the markdown renderer for width and re-renders.
func (l *letterState) resize(c content.Content, width int) {
	wrap := min(max(width-8, 20), letterWidth)
	if l.renderer == nil || wrap != l.width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("pink"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			debug.Log("letter renderer: %v", err)
		}
		l.renderer, l.width = r, wrap
	}
	l.render(c)
}

func (l *letterState) render(c content.Content) {
	lines := c.Letter.Lines[:min(l.revealed, len(c.Letter.Lines))]
	md := letterMarkdown(lines, len(c.Letter.Lines))
	if l.renderer == nil {
		l.rendered = strings.Join(lines, "\n")
		return
	}
	out, err := l.renderer.Render(md)
	if err != nil {
		l.rendered = strings.Join(lines, "\n")
		return
	}
	l.rendered = strings.Trim(out, "\n")
}

// letterMarkdown renders revealed lines of a letter with total lines. The
// salutation and the closing are bold; empty lines separate paragraphs.
func letterMarkdown(lines []string, total int) string {
	var b strings.Builder
	for i, line := range lines {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		if i == 0 || i == total-2 {
			line = "**" + line + "**"
		}
		b.WriteString(line)
		b.WriteString("  \n")
	}
	return b.String()
}

func (m Model) updateLetter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyFn(m.content.LetterText()); err != nil {
			debug.Logger().Warn().Err(err).Msg("clipboard write failed")
			return m.setStatus(m.loc.T("letter_copy_failed"), true)
		}
		return m.setStatus(m.loc.T("letter_copied"), false)

	case key.Matches(msg, m.keys.Export):
		return m, exportCardCmd(m.content, m.exportDir)

	case key.Matches(msg, m.keys.Select):
		if m.letter.done {
			return m.dispatch(screen.LetterComplete{})
		}
		// Skip the typewriter and show everything.
		m.letter.revealed = len(m.content.Letter.Lines)
		m.letter.render(m.content)
		return m, m.scope.After(m.timing.LetterPause, letterDone{})
	}
	return m, nil
}

func (m Model) letterTimer(payload any) (tea.Model, tea.Cmd) {
	switch payload.(type) {
	case letterReveal:
		total := len(m.content.Letter.Lines)
		if m.letter.revealed >= total {
			return m, nil
		}
		m.letter.revealed++
		m.letter.render(m.content)
		if m.letter.revealed >= total {
			return m, m.scope.After(m.timing.LetterPause, letterDone{})
		}
		return m, m.scope.After(m.content.Letter.LineInterval, letterReveal{})
	case letterDone:
		m.letter.done = true
	}
	return m, nil
}

func exportCardCmd(c content.Content, dir string) tea.Cmd {
	return func() tea.Msg {
		opts := export.LetterCard(c)
		base := filepath.Join(dir, "valentine-letter-"+time.Now().Format("20060102-150405"))
		paths, err := export.SaveCards(opts, base)
		return cardExportedMsg{paths: paths, err: err}
	}
}

func (m Model) handleCardExported(msg cardExportedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		debug.Logger().Error().Err(msg.err).Msg("card export failed")
		return m.setStatus(m.loc.T("letter_export_failed"), true)
	}
	debug.Logger().Info().Strs("paths", msg.paths).Msg("card exported")
	return m.setStatus(m.loc.Tf("letter_exported", map[string]any{"Path": strings.Join(msg.paths, ", ")}), false)
}

func (m Model) viewLetter() string {
	l := m.letter
	body := m.theme.Card.Width(l.width + 4).Render(l.rendered)

	var footer string
	if l.done {
		footer = RenderYesButton(m.theme, m.loc.T("letter_next")+" →", 1, true)
	} else {
		footer = m.theme.Tagline.Render(fmt.Sprintf("%s ▍", m.loc.T("letter_writing")))
	}
	return centerLines(1, body, footer)
}
