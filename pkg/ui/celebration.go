package ui

import "github.com/charmbracelet/lipgloss"

const bigHeart = `  ♥♥♥   ♥♥♥
♥♥♥♥♥♥ ♥♥♥♥♥♥
 ♥♥♥♥♥♥♥♥♥♥♥
   ♥♥♥♥♥♥♥
     ♥♥♥
      ♥`

func (m Model) viewCelebration() string {
	heart := lipgloss.NewStyle().Foreground(m.theme.Primary).Render(bigHeart)
	button := RenderYesButton(m.theme, m.loc.T("celebration_continue")+" →", 1, true)
	return centerLines(1,
		heart,
		m.theme.Title.Render(m.loc.T("celebration_title")),
		m.theme.Subtitle.Render(m.loc.T("celebration_subtitle")),
		m.theme.Tagline.Render(m.loc.T("celebration_tagline")),
		button,
	)
}
