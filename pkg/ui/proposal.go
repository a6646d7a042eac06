package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/valentine/pkg/debug"
	"github.com/vanderheijden86/valentine/pkg/decline"
	"github.com/vanderheijden86/valentine/pkg/effects"
	"github.com/vanderheijden86/valentine/pkg/screen"
)

// Dodge range for the decline control, in cells from its resting spot.
const (
	dodgeRangeX = 15
	dodgeRangeY = 3
)

type proposalState struct {
	machine decline.Machine
	focusNo bool
}

func newProposalState(cfg decline.Config) proposalState {
	return proposalState{machine: decline.New(cfg)}
}

func (m Model) updateProposal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.proposal
	switch {
	case key.Matches(msg, m.keys.Yes):
		return m.dispatch(screen.Confirmed{})

	case key.Matches(msg, m.keys.No):
		return m.declinePressed()

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if !p.machine.DeclineAvailable() {
			p.focusNo = false
			m.proposal = p
			return m, nil
		}
		p.focusNo = !p.focusNo
		if p.focusNo && p.machine.CanDodge() {
			p.machine = p.machine.Dodge(decline.Offset{
				X: m.gen.Intn(2*dodgeRangeX+1) - dodgeRangeX,
				Y: m.gen.Intn(2*dodgeRangeY+1) - dodgeRangeY,
			})
		}
		m.proposal = p
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if p.focusNo && p.machine.DeclineAvailable() {
			return m.declinePressed()
		}
		return m.dispatch(screen.Confirmed{})
	}
	return m, nil
}

func (m Model) declinePressed() (tea.Model, tea.Cmd) {
	m, _ = m.dispatch(screen.DeclineActivated{})

	var step decline.Step
	m.proposal.machine, step = m.proposal.machine.Decline()
	debug.Logger().Debug().
		Int("count", m.proposal.machine.Count()).
		Str("phase", m.proposal.machine.Phase().String()).
		Msg("decline pressed")

	if step != decline.StepScheduleLoading {
		return m, nil
	}
	m.proposal.focusNo = false
	cmd := m.scope.After(m.declCfg.AutoConfirmDelay, loadingDue{})
	if m.effectsOn {
		w, h := m.canvasSize()
		m.confetti.Emit(effects.Burst{Count: 40, OriginX: 0.5, OriginY: 0.5, Angle: 90, Spread: 120}, w, h)
	}
	return m, cmd
}

func (m Model) proposalTimer(payload any) (tea.Model, tea.Cmd) {
	var step decline.Step
	switch payload.(type) {
	case loadingDue:
		m.proposal.machine, step = m.proposal.machine.LoadingDue()
	case confirmDue:
		m.proposal.machine, step = m.proposal.machine.ConfirmDue()
	}

	switch step {
	case decline.StepScheduleConfirm:
		return m, tea.Batch(
			m.scope.After(m.declCfg.LoadingDelay, confirmDue{}),
			m.spinner.Tick,
		)
	case decline.StepConfirm:
		return m.dispatch(screen.Confirmed{})
	}
	return m, nil
}

func (m Model) viewProposal() string {
	p := m.proposal
	mc := p.machine

	reaction := mc.Reaction()
	if reaction != "" {
		reaction = m.theme.Reaction.Render(reaction)
	}
	title := m.theme.Title.Render(mc.Message())

	yes := RenderYesButton(m.theme, m.loc.T("proposal_yes"), mc.YesScale(), !p.focusNo)

	var buttons string
	if mc.DeclineAvailable() {
		no := RenderNoButton(m.theme, m.loc.T("proposal_no"), mc.Offset(), p.focusNo)
		area := lipgloss.NewStyle().Height(buttonRows)
		buttons = lipgloss.JoinHorizontal(lipgloss.Top,
			area.Render(yes),
			area.Render(PlaceNoButton(no, mc.Offset())),
		)
	} else {
		buttons = yes
	}

	var footer string
	switch {
	case mc.Loading():
		footer = m.spinner.View() + " " + m.theme.Tagline.Render(m.loc.T("proposal_loading"))
	case mc.Committed():
		footer = m.theme.Subtitle.Render(m.loc.T("proposal_auto_yes"))
	}

	return centerLines(1, reaction, title, buttons, footer)
}
