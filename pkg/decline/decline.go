// Package decline models the proposal screen's "No" control: a button that
// dodges every press and, after enough of them, gives up and says yes on the
// user's behalf.
//
// A Machine is scoped to one showing of the proposal screen. Build a new one
// with New whenever that screen is mounted; the press count never carries
// over.
package decline

import "time"

// Phase is where the machine is in its lifecycle.
type Phase int

const (
	// Idle: no press yet.
	Idle Phase = iota
	// Evading: pressed at least once, below the threshold.
	Evading
	// AutoConfirming: threshold reached, the committed message is showing.
	AutoConfirming
	// Loading: the loading indicator is up, confirmation is imminent.
	Loading
	// Confirmed: the positive transition has been requested.
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Evading:
		return "evading"
	case AutoConfirming:
		return "auto-confirming"
	case Loading:
		return "loading"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Step tells the caller what to schedule after a machine update.
type Step int

const (
	// StepNone: nothing to do.
	StepNone Step = iota
	// StepScheduleLoading: call LoadingDue after Config.AutoConfirmDelay.
	StepScheduleLoading
	// StepScheduleConfirm: call ConfirmDue after Config.LoadingDelay.
	StepScheduleConfirm
	// StepConfirm: emit the confirmed event now.
	StepConfirm
)

// Offset is the fixed relocation applied to the decline control at one
// press ordinal, in terminal cells.
type Offset struct {
	X     int     `yaml:"x" toml:"x"`
	Y     int     `yaml:"y" toml:"y"`
	Scale float64 `yaml:"scale" toml:"scale"`
	Faded bool    `yaml:"faded,omitempty" toml:"faded"`
}

// Config holds the constants the machine reads. Only list lengths are
// checked; everything else is trusted.
type Config struct {
	Messages         []string
	Reactions        []string
	Offsets          []Offset
	Threshold        int
	AutoConfirmDelay time.Duration
	LoadingDelay     time.Duration
	YesScaleStep     float64
}

// DefaultMessages are shown above the buttons, one per press count.
var DefaultMessages = []string{
	"Will you be my Valentine?",
	"Are you certain?",
	"That seems like a hasty decision...",
	"Let's reconsider, my love",
	"Pretty please?",
	"One more chance?",
	"I'll take that as a yes",
}

// DefaultReactions stand in for the reaction GIFs of the browser version.
var DefaultReactions = []string{
	"(｡•́︿•̀｡)",
	"(¬_¬ )",
	"(╥﹏╥)",
	"(っ˘̩╭╮˘̩)っ",
	"ʕ•́ᴥ•̀ʔっ♡",
}

// DefaultOffsets move the control away, shrink it, send it to the other
// side and finally fade it.
var DefaultOffsets = []Offset{
	{X: 10, Y: 0, Scale: 1},
	{X: 0, Y: -2, Scale: 0.7},
	{X: -15, Y: 0, Scale: 0.5},
	{X: 8, Y: 3, Scale: 0.3, Faded: true},
	{X: -6, Y: -3, Scale: 0.25, Faded: true},
}

// DefaultConfig returns the latest revision's constants: six presses to
// auto-confirm, a two second pause, then a short loading beat.
func DefaultConfig() Config {
	return Config{
		Messages:         append([]string(nil), DefaultMessages...),
		Reactions:        append([]string(nil), DefaultReactions...),
		Offsets:          append([]Offset(nil), DefaultOffsets...),
		Threshold:        6,
		AutoConfirmDelay: 2 * time.Second,
		LoadingDelay:     1500 * time.Millisecond,
		YesScaleStep:     0.1,
	}
}

// Machine is the decline control's state for one proposal mount. It is a
// value; every transition returns the updated copy.
type Machine struct {
	cfg   Config
	count int
	phase Phase
	dodge *Offset
}

// New returns a fresh machine with a zero press count.
func New(cfg Config) Machine {
	if cfg.Threshold < 1 {
		cfg.Threshold = 1
	}
	return Machine{cfg: cfg}
}

// Config returns the machine's constants.
func (m Machine) Config() Config { return m.cfg }

// Count is the number of accepted decline presses.
func (m Machine) Count() int { return m.count }

// Phase returns the lifecycle phase.
func (m Machine) Phase() Phase { return m.phase }

// DeclineAvailable reports whether the decline control is shown.
func (m Machine) DeclineAvailable() bool { return m.count < m.cfg.Threshold }

// Committed reports whether the threshold has been reached.
func (m Machine) Committed() bool { return m.phase >= AutoConfirming }

// Loading reports whether the loading indicator should be shown.
func (m Machine) Loading() bool { return m.phase == Loading }

// Decline registers one press of the decline control. Presses at or past
// the threshold are ignored because the control is gone by then.
func (m Machine) Decline() (Machine, Step) {
	if !m.DeclineAvailable() {
		return m, StepNone
	}
	m.count++
	m.dodge = nil
	if m.count >= m.cfg.Threshold {
		m.phase = AutoConfirming
		return m, StepScheduleLoading
	}
	m.phase = Evading
	return m, StepNone
}

// LoadingDue advances from the committed message to the loading indicator.
func (m Machine) LoadingDue() (Machine, Step) {
	if m.phase != AutoConfirming {
		return m, StepNone
	}
	m.phase = Loading
	return m, StepScheduleConfirm
}

// ConfirmDue finishes the auto-confirm sequence.
func (m Machine) ConfirmDue() (Machine, Step) {
	if m.phase != Loading {
		return m, StepNone
	}
	m.phase = Confirmed
	return m, StepConfirm
}

// Message returns the line to show for the current press count.
func (m Machine) Message() string {
	return MessageAt(m.cfg.Messages, m.count)
}

// MessageAt indexes list with count clamped to the last element, so an
// exhausted list keeps repeating its final entry. An empty list yields "".
func MessageAt(list []string, count int) string {
	if len(list) == 0 {
		return ""
	}
	if count < 0 {
		count = 0
	}
	return list[min(count, len(list)-1)]
}

// Reaction returns the reaction art for the current stage, or "" before the
// first press. Reactions cycle when there are more presses than entries.
func (m Machine) Reaction() string {
	if m.count == 0 || len(m.cfg.Reactions) == 0 {
		return ""
	}
	return m.cfg.Reactions[(m.count-1)%len(m.cfg.Reactions)]
}

// Offset returns where the decline control sits for the current press
// count. A pending dodge takes precedence.
func (m Machine) Offset() Offset {
	if m.dodge != nil {
		return *m.dodge
	}
	return OffsetAt(m.cfg.Offsets, m.count)
}

// OffsetAt returns the relocation bound to press ordinal count (1-based).
// Ordinal 0 is the resting position; ordinals past the table reuse its last
// entry.
func OffsetAt(table []Offset, count int) Offset {
	if count <= 0 || len(table) == 0 {
		return Offset{Scale: 1}
	}
	return table[min(count, len(table))-1]
}

// YesScale is the positive control's emphasis. It grows linearly with the
// press count.
func (m Machine) YesScale() float64 {
	return 1 + float64(m.count)*m.cfg.YesScaleStep
}

// CanDodge reports whether focusing the decline control makes it jump.
func (m Machine) CanDodge() bool {
	return m.count >= 2 && m.DeclineAvailable()
}

// Dodge moves the decline control to o without counting a press. It only
// applies once the control has been pressed twice.
func (m Machine) Dodge(o Offset) Machine {
	if !m.CanDodge() {
		return m
	}
	o.Scale = max(0.1, 0.8-float64(m.count)*0.1)
	m.dodge = &o
	return m
}
