package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/valentine/pkg/effects"
)

const (
	photoCardWidth = 24
	photoColumns   = 3
)

var finaleBurst = effects.Burst{Count: 150, OriginX: 0.5, OriginY: 0.6, Angle: 90, Spread: 160}

type photosState struct {
	final bool
}

func (m Model) updatePhotos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.photos.final || !key.Matches(msg, m.keys.Select) {
		return m, nil
	}
	m.photos.final = true
	return m, tea.Batch(
		m.startStream(m.timing.PhotosFinaleRun, 4),
		m.scheduleBurst(0, finaleBurst),
	)
}

func (m Model) viewPhotos() string {
	if m.photos.final {
		return m.viewFinal()
	}

	cols := photoColumns
	if m.width < (photoCardWidth+2)*photoColumns {
		cols = max(m.width/(photoCardWidth+2), 1)
	}

	var rows, row []string
	for i, p := range m.content.Photos {
		style := m.theme.Card
		if i%2 == 1 {
			style = m.theme.CardFocused
		}
		frame := lipgloss.NewStyle().Foreground(m.theme.Secondary).Render(strings.Repeat("░", photoCardWidth-4))
		caption := m.theme.Subtitle.Render(runewidth.Truncate(p.Caption, photoCardWidth-4, "…"))
		row = append(row, style.Width(photoCardWidth).Render(frame+"\n"+frame+"\n"+caption))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return centerLines(1,
		m.theme.Title.Render(m.loc.T("photos_title")),
		m.theme.Tagline.Render(m.loc.T("photos_subtitle")),
		strings.Join(rows, "\n"),
		RenderYesButton(m.theme, m.loc.T("photos_final")+" ♥", 1, true),
	)
}

func (m Model) viewFinal() string {
	f := m.content.Final
	var lines []string
	for _, l := range f.Lines {
		lines = append(lines, m.theme.Base.Render(l))
	}
	return centerLines(1,
		m.theme.Title.Render(f.Title),
		m.theme.Subtitle.Render(f.Subtitle),
		strings.Join(lines, "\n"),
	)
}
