// Package screen holds the greeting's screen state machine.
//
// Exactly one Screen is active at a time. Views never pick the next screen
// themselves: they emit an Event and the Router decides where to go,
// persisting every change to a progress.Store.
package screen

// Screen identifies one full-terminal view.
type Screen int

const (
	Proposal Screen = iota
	Celebration
	GiftMenu
	Quiz
	Letter
	Photos
	numScreens
)

var screenIDs = [...]string{
	Proposal:    "proposal",
	Celebration: "celebration",
	GiftMenu:    "gifts",
	Quiz:        "quiz",
	Letter:      "letter",
	Photos:      "photos",
}

// String returns the persisted identifier for s.
func (s Screen) String() string {
	if s < 0 || s >= numScreens {
		return "unknown"
	}
	return screenIDs[s]
}

// Valid reports whether s is one of the six known screens.
func (s Screen) Valid() bool {
	return s >= 0 && s < numScreens
}

// IsGift reports whether s can be reached from the gift menu.
func (s Screen) IsGift() bool {
	return s == Quiz || s == Letter || s == Photos
}

// Parse maps a persisted identifier back to its Screen.
func Parse(id string) (Screen, bool) {
	for i, name := range screenIDs {
		if name == id {
			return Screen(i), true
		}
	}
	return Proposal, false
}

// All returns every screen in flow order.
func All() []Screen {
	out := make([]Screen, 0, numScreens)
	for s := Proposal; s < numScreens; s++ {
		out = append(out, s)
	}
	return out
}

// Gifts returns the screens offered by the gift menu, in menu order.
func Gifts() []Screen {
	return []Screen{Quiz, Letter, Photos}
}
