package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/valentine/pkg/locale"
	"github.com/vanderheijden86/valentine/pkg/screen"
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Reset  key.Binding
	Copy   key.Binding
	Export key.Binding
	Quit   key.Binding
}

func newKeyMap(loc *locale.Localizer) keyMap {
	return keyMap{
		Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", loc.T("help_yes"))),
		No:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", loc.T("help_no"))),
		Left:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/→", loc.T("help_focus"))),
		Right:  key.NewBinding(key.WithKeys("right", "l", "tab")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", loc.T("help_focus"))),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", loc.T("help_select"))),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", loc.T("help_reset"))),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", loc.T("help_copy"))),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", loc.T("help_export"))),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", loc.T("help_quit"))),
	}
}

// bindingsFor lists the keys shown in the help line for s.
func (k keyMap) bindingsFor(s screen.Screen) []key.Binding {
	switch s {
	case screen.Proposal:
		return []key.Binding{k.Yes, k.No, k.Left, k.Select, k.Quit}
	case screen.GiftMenu, screen.Quiz:
		return []key.Binding{k.Up, k.Select, k.Reset, k.Quit}
	case screen.Letter:
		return []key.Binding{k.Select, k.Copy, k.Export, k.Reset, k.Quit}
	default:
		return []key.Binding{k.Select, k.Reset, k.Quit}
	}
}

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }

func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }
