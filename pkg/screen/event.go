package screen

import "fmt"

// Event is something a view reports to the router. Each view emits exactly
// the events for its own controls.
type Event interface {
	event()
	fmt.Stringer
}

// Confirmed is emitted by the positive proposal control, or by the decline
// machine once it auto-confirms.
type Confirmed struct{}

// DeclineActivated is emitted by the decline control. The router does not
// move on it; the decline machine consumes it.
type DeclineActivated struct{}

// Continue is emitted by the celebration screen.
type Continue struct{}

// GiftChosen is emitted by the gift menu.
type GiftChosen struct {
	Kind Screen
}

// QuizComplete is emitted when the last quiz question is answered.
type QuizComplete struct{}

// LetterComplete is emitted once the letter has been read.
type LetterComplete struct{}

// ResetRequested is emitted by the "start over" control.
type ResetRequested struct{}

func (Confirmed) event()        {}
func (DeclineActivated) event() {}
func (Continue) event()         {}
func (GiftChosen) event()       {}
func (QuizComplete) event()     {}
func (LetterComplete) event()   {}
func (ResetRequested) event()   {}

func (Confirmed) String() string        { return "confirmed" }
func (DeclineActivated) String() string { return "decline-activated" }
func (Continue) String() string         { return "continue" }
func (e GiftChosen) String() string     { return "gift-chosen(" + e.Kind.String() + ")" }
func (QuizComplete) String() string     { return "quiz-complete" }
func (LetterComplete) String() string   { return "letter-complete" }
func (ResetRequested) String() string   { return "reset-requested" }
