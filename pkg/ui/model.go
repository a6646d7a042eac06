// Package ui is the Bubble Tea front end: one Model that renders whichever
// screen the router is on, drives the per-screen timers and paints the
// decoration layer behind it.
package ui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/debug"
	"github.com/vanderheijden86/valentine/pkg/decline"
	"github.com/vanderheijden86/valentine/pkg/effects"
	"github.com/vanderheijden86/valentine/pkg/locale"
	"github.com/vanderheijden86/valentine/pkg/metrics"
	"github.com/vanderheijden86/valentine/pkg/screen"
	"github.com/vanderheijden86/valentine/pkg/watcher"
)

// Timing holds the per-screen delays. Decline timing lives in decline.Config
// and the letter's line interval in content.
type Timing struct {
	BurstDelay       time.Duration // celebration heart burst
	CelebrationRun   time.Duration // celebration confetti streams
	QuizAdvance      time.Duration // correct answer -> next question
	QuizWrongClear   time.Duration // wrong-answer quip lifetime
	QuizFinaleRun    time.Duration
	LetterPause      time.Duration // last line -> "One Last Gift"
	PhotosFinaleRun  time.Duration
	StatusClear      time.Duration
	FrameInterval    time.Duration
	HeartSpawnPeriod time.Duration
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		BurstDelay:       500 * time.Millisecond,
		CelebrationRun:   3 * time.Second,
		QuizAdvance:      1500 * time.Millisecond,
		QuizWrongClear:   2 * time.Second,
		QuizFinaleRun:    3 * time.Second,
		LetterPause:      time.Second,
		PhotosFinaleRun:  4 * time.Second,
		StatusClear:      3 * time.Second,
		FrameInterval:    effects.FrameInterval,
		HeartSpawnPeriod: effects.HeartSpawnInterval,
	}
}

// Options configures a Model.
type Options struct {
	Router    *screen.Router
	Content   content.Content
	Decline   decline.Config
	Locale    *locale.Localizer
	Timing    Timing
	Effects   bool
	MaxHearts int
	Seed      int64 // 0 = random
	ExportDir string

	// Watcher, when set, reloads content through Reload on every change.
	Watcher *watcher.Watcher
	Reload  func() (content.Content, error)

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// ConfigChangedMsg is sent when the watched config file changes on disk.
type ConfigChangedMsg struct{}

// WatchConfigCmd waits for the next config change.
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return ConfigChangedMsg{}
	}
}

// Payloads for app-scope timers.
type (
	frameTick  struct{}
	heartSpawn struct{}
)

// Payloads for screen-scope timers.
type (
	loadingDue     struct{}
	confirmDue     struct{}
	confettiStream struct{ frames, perSide int }
	confettiBurst  struct{ burst effects.Burst }
	quizAdvance    struct{}
	quizClearWrong struct{}
	letterReveal   struct{}
	letterDone     struct{}
	statusClear    struct{}
)

// Model is the root Bubble Tea model.
type Model struct {
	router  *screen.Router
	content content.Content
	declCfg decline.Config
	loc     *locale.Localizer
	theme   Theme
	keys    keyMap
	help    help.Model
	timing  Timing

	width, height int

	// app owns timers that outlive screens; scope is reset on every
	// screen change by the router listener.
	app       *effects.Scheduler
	scope     *effects.Scheduler
	gen       effects.Generator
	hearts    effects.Hearts
	confetti  effects.Confetti
	effectsOn bool

	proposal proposalState
	gifts    list.Model
	quiz     quizState
	letter   letterState
	photos   photosState
	spinner  spinner.Model
	bar      progress.Model

	exportDir string
	copyFn    func(string) error
	watcher   *watcher.Watcher
	reload    func() (content.Content, error)

	status        string
	statusIsError bool
	statusTimer   effects.Timer

	initCmd tea.Cmd
}

// New builds the model and mounts the router's current screen.
func New(opts Options) Model {
	if opts.Router == nil {
		opts.Router = screen.New(nil)
	}
	if opts.Locale == nil {
		opts.Locale = locale.New("")
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Decline.Threshold == 0 {
		opts.Decline = decline.DefaultConfig()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	opts.Content = opts.Content.WithDefaults()

	app := effects.NewScheduler("app")
	scope := effects.NewScheduler("screen")
	gen := effects.SeededGenerator(opts.Seed)
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	sp := spinner.New(spinner.WithSpinner(spinner.Points))
	sp.Style = theme.Title

	m := Model{
		router:    opts.Router,
		content:   opts.Content,
		declCfg:   opts.Decline,
		loc:       opts.Locale,
		theme:     theme,
		keys:      newKeyMap(opts.Locale),
		help:      help.New(),
		timing:    opts.Timing,
		width:     defaultWidth,
		height:    defaultHeight,
		app:       &app,
		scope:     &scope,
		gen:       gen,
		hearts:    effects.NewHearts(gen, opts.MaxHearts),
		confetti:  effects.NewConfetti(gen),
		effectsOn: opts.Effects,
		spinner:   sp,
		bar: progress.New(
			progress.WithGradient("#F472B6", "#E11D48"),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
		exportDir: opts.ExportDir,
		copyFn:    opts.Clipboard,
		watcher:   opts.Watcher,
		reload:    opts.Reload,
	}
	m.gifts = newGiftList(m.loc, m.theme, m.width, m.height)

	// Timers of the outgoing screen die with its epoch.
	m.router.OnChange(func(from, to screen.Screen) {
		scope.CancelAll()
	})

	var cmd tea.Cmd
	m, cmd = m.mount(m.router.Current())
	m.initCmd = cmd
	return m
}

// Init starts the app-wide timers and the config watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initCmd}
	if m.effectsOn {
		cmds = append(cmds,
			m.app.After(m.timing.FrameInterval, frameTick{}),
			m.app.After(m.timing.HeartSpawnPeriod, heartSpawn{}),
		)
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchConfigCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Screen returns the active screen.
func (m Model) Screen() screen.Screen {
	return m.router.Current()
}

// Status returns the transient status line.
func (m Model) Status() string {
	return m.status
}

// PendingTimers returns the number of live screen-scope timers.
func (m Model) PendingTimers() int {
	return m.scope.Pending()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.gifts.SetSize(min(m.width, 60), max(m.bodyHeight()-6, 8))
		m.help.Width = m.width
		if m.router.Current() == screen.Letter {
			m.letter.resize(m.content, m.width)
		}
		return m, nil

	case effects.Fired:
		switch {
		case m.app.Owns(msg):
			if !m.app.Accept(msg) {
				return m, nil
			}
			return m.handleAppTimer(msg.Payload)
		case m.scope.Owns(msg):
			if !m.scope.Accept(msg) {
				debug.Log("dropped stale %T timer", msg.Payload)
				return m, nil
			}
			return m.handleScreenTimer(msg.Payload)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.proposal.machine.Loading() || m.router.Current() != screen.Proposal {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ConfigChangedMsg:
		m = m.reloadContent()
		if m.watcher != nil {
			return m, WatchConfigCmd(m.watcher)
		}
		return m, nil

	case cardExportedMsg:
		return m.handleCardExported(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.scope.CancelAll()
		m.app.CancelAll()
		return m, tea.Quit
	}

	current := m.router.Current()
	if current != screen.Proposal && key.Matches(msg, m.keys.Reset) {
		return m.dispatch(screen.ResetRequested{})
	}

	switch current {
	case screen.Proposal:
		return m.updateProposal(msg)
	case screen.Celebration:
		if key.Matches(msg, m.keys.Select) {
			return m.dispatch(screen.Continue{})
		}
	case screen.GiftMenu:
		return m.updateGifts(msg)
	case screen.Quiz:
		return m.updateQuiz(msg)
	case screen.Letter:
		return m.updateLetter(msg)
	case screen.Photos:
		return m.updatePhotos(msg)
	}
	return m, nil
}

// dispatch sends ev to the router and mounts whatever screen results.
func (m Model) dispatch(ev screen.Event) (Model, tea.Cmd) {
	to := m.router.Dispatch(ev)
	if _, ok := ev.(screen.DeclineActivated); ok {
		return m, nil
	}
	return m.mount(to)
}

// mount resets per-screen state for s and starts its timers. Earlier
// screen timers were already cancelled by the router listener.
func (m Model) mount(s screen.Screen) (Model, tea.Cmd) {
	m.confetti.Clear()
	m.status, m.statusIsError = "", false

	switch s {
	case screen.Proposal:
		m.proposal = newProposalState(m.declCfg)
		return m, nil

	case screen.Celebration:
		return m, tea.Batch(
			m.startStream(m.timing.CelebrationRun, 3),
			m.scheduleBurst(m.timing.BurstDelay, effects.Burst{Count: 100, OriginX: 0.5, OriginY: 0.6, Angle: 90, Spread: 100}),
		)

	case screen.GiftMenu:
		m.gifts.Select(0)
		return m, nil

	case screen.Quiz:
		m.quiz = quizState{}
		return m, nil

	case screen.Letter:
		m.letter = newLetterState(m.content, m.width)
		return m, m.scope.After(m.content.Letter.LineInterval, letterReveal{})

	case screen.Photos:
		m.photos = photosState{}
		return m, nil
	}
	return m, nil
}

func (m Model) handleAppTimer(payload any) (tea.Model, tea.Cmd) {
	switch payload.(type) {
	case frameTick:
		done := metrics.Timer(metrics.FrameStep)
		w, h := m.canvasSize()
		m.hearts.Step()
		m.confetti.Step(w, h)
		done()
		return m, m.app.After(m.timing.FrameInterval, frameTick{})
	case heartSpawn:
		w, h := m.canvasSize()
		m.hearts.Spawn(w, h)
		return m, m.app.After(m.timing.HeartSpawnPeriod, heartSpawn{})
	}
	return m, nil
}

func (m Model) handleScreenTimer(payload any) (tea.Model, tea.Cmd) {
	switch p := payload.(type) {
	case loadingDue, confirmDue:
		return m.proposalTimer(p)

	case confettiStream:
		w, h := m.canvasSize()
		for _, b := range effects.Cannons(p.perSide) {
			m.confetti.Emit(b, w, h)
		}
		if p.frames <= 1 {
			return m, nil
		}
		return m, m.scope.After(m.timing.FrameInterval, confettiStream{frames: p.frames - 1, perSide: p.perSide})

	case confettiBurst:
		w, h := m.canvasSize()
		m.confetti.Emit(p.burst, w, h)
		return m, nil

	case quizAdvance, quizClearWrong:
		return m.quizTimer(p)

	case letterReveal, letterDone:
		return m.letterTimer(p)

	case statusClear:
		m.status, m.statusIsError = "", false
		return m, nil
	}
	return m, nil
}

// startStream emits cannon bursts every frame for d. No-op with effects off.
func (m Model) startStream(d time.Duration, perSide int) tea.Cmd {
	if !m.effectsOn {
		return nil
	}
	frames := max(int(d/m.timing.FrameInterval), 1)
	return m.scope.After(0, confettiStream{frames: frames, perSide: perSide})
}

// scheduleBurst fires one burst after d. No-op with effects off.
func (m Model) scheduleBurst(d time.Duration, b effects.Burst) tea.Cmd {
	if !m.effectsOn {
		return nil
	}
	return m.scope.After(d, confettiBurst{burst: b})
}

// setStatus shows msg until StatusClear elapses. A newer status replaces the
// older one's clear timer.
func (m Model) setStatus(msg string, isError bool) (Model, tea.Cmd) {
	m.status, m.statusIsError = msg, isError
	m.scope.Cancel(m.statusTimer)
	var cmd tea.Cmd
	m.statusTimer, cmd = m.scope.Schedule(m.timing.StatusClear, statusClear{})
	return m, cmd
}

func (m Model) reloadContent() Model {
	if m.reload == nil {
		return m
	}
	c, err := m.reload()
	if err != nil {
		debug.Logger().Warn().Err(err).Msg("content reload failed; keeping current copy")
		return m
	}
	m.content = c.WithDefaults()
	m.declCfg.Messages = m.content.Proposal.Messages
	m.declCfg.Reactions = m.content.Proposal.Reactions
	switch m.router.Current() {
	case screen.Letter:
		m.letter.resize(m.content, m.width)
	case screen.Quiz:
		m.quiz = m.quiz.clamp(m.content.Quiz.Questions)
	}
	debug.Log("content reloaded")
	return m
}

func (m Model) bodyHeight() int {
	return max(m.height-1, 1)
}

func (m Model) canvasSize() (int, int) {
	return m.width, m.bodyHeight()
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var body string
	switch m.router.Current() {
	case screen.Proposal:
		body = m.viewProposal()
	case screen.Celebration:
		body = m.viewCelebration()
	case screen.GiftMenu:
		body = m.viewGifts()
	case screen.Quiz:
		body = m.viewQuiz()
	case screen.Letter:
		body = m.viewLetter()
	case screen.Photos:
		body = m.viewPhotos()
	}

	w, h := m.canvasSize()
	if m.effectsOn {
		cv := effects.NewCanvas(w, h)
		m.hearts.Draw(cv)
		m.confetti.Draw(cv)
		body = effects.Overlay(cv, body)
	} else {
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
	}

	return body + "\n" + m.renderFooter()
}

func (m Model) renderFooter() string {
	if m.status != "" {
		style := m.theme.Status
		if m.statusIsError {
			style = m.theme.StatusError
		}
		return style.Render(m.status)
	}
	return m.help.View(helpKeys(m.keys.bindingsFor(m.router.Current())))
}
