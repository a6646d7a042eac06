package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/valentine/pkg/locale"
	"github.com/vanderheijden86/valentine/pkg/screen"
)

// giftItem is one gift menu entry.
type giftItem struct {
	kind  screen.Screen
	title string
	desc  string
}

func (g giftItem) Title() string       { return g.title }
func (g giftItem) Description() string { return g.desc }
func (g giftItem) FilterValue() string { return g.title }

func giftItems(loc *locale.Localizer) []list.Item {
	icons := map[screen.Screen]string{
		screen.Quiz:   "♥ ",
		screen.Letter: "✉ ",
		screen.Photos: "❀ ",
	}
	var items []list.Item
	for _, s := range screen.Gifts() {
		items = append(items, giftItem{
			kind:  s,
			title: icons[s] + loc.T("gifts_"+s.String()+"_title"),
			desc:  loc.T("gifts_" + s.String() + "_desc"),
		})
	}
	return items
}

func newGiftList(loc *locale.Localizer, t Theme, width, height int) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(t.Primary).
		BorderForeground(t.Primary)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(t.Secondary).
		BorderForeground(t.Primary)

	l := list.New(giftItems(loc), d, min(width, 60), max(height-7, 8))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	return l
}

func (m Model) updateGifts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3":
		gifts := screen.Gifts()
		return m.dispatch(screen.GiftChosen{Kind: gifts[int(msg.String()[0]-'1')]})
	}
	if key.Matches(msg, m.keys.Select) {
		if it, ok := m.gifts.SelectedItem().(giftItem); ok {
			return m.dispatch(screen.GiftChosen{Kind: it.kind})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.gifts, cmd = m.gifts.Update(msg)
	return m, cmd
}

func (m Model) viewGifts() string {
	return centerLines(1,
		m.theme.Title.Render(m.loc.T("gifts_title")),
		m.theme.Tagline.Render(m.loc.T("gifts_subtitle")),
		m.gifts.View(),
	)
}
