package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/effects"
	"github.com/vanderheijden86/valentine/pkg/screen"
)

type quizState struct {
	current  int
	cursor   int
	answered bool   // correct answer shown, waiting to advance
	wrong    string // quip for the last wrong answer
	complete bool
}

// clamp keeps the position inside questions after the list changed under it.
func (q quizState) clamp(questions []content.Question) quizState {
	if q.current >= len(questions) {
		q.current = len(questions) - 1
		q.answered, q.wrong = false, ""
	}
	q.current = max(q.current, 0)
	if q.current < len(questions) {
		q.cursor = min(q.cursor, len(questions[q.current].Options)-1)
	}
	q.cursor = max(q.cursor, 0)
	return q
}

func (m Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	if q.complete {
		if key.Matches(msg, m.keys.Select) {
			return m.dispatch(screen.QuizComplete{})
		}
		return m, nil
	}
	if q.answered {
		return m, nil
	}

	question := m.content.Quiz.Questions[q.current]
	switch {
	case key.Matches(msg, m.keys.Up):
		q.cursor = max(q.cursor-1, 0)
		m.quiz = q
		return m, nil
	case key.Matches(msg, m.keys.Down):
		q.cursor = min(q.cursor+1, len(question.Options)-1)
		m.quiz = q
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.answer(q.cursor)
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(question.Options) {
			m.quiz.cursor = i
			return m.answer(i)
		}
	}
	return m, nil
}

func (m Model) answer(choice int) (tea.Model, tea.Cmd) {
	question := m.content.Quiz.Questions[m.quiz.current]
	if choice != question.Correct {
		m.quiz.wrong = effects.Pick(m.gen, m.content.Quiz.WrongAnswers)
		return m, m.scope.After(m.timing.QuizWrongClear, quizClearWrong{})
	}

	m.quiz.answered = true
	m.quiz.wrong = ""
	return m, tea.Batch(
		m.scope.After(m.timing.QuizAdvance, quizAdvance{}),
		m.scheduleBurst(0, effects.Burst{Count: 50, OriginX: 0.5, OriginY: 0.7, Angle: 90, Spread: 60}),
	)
}

func (m Model) quizTimer(payload any) (tea.Model, tea.Cmd) {
	switch payload.(type) {
	case quizClearWrong:
		m.quiz.wrong = ""
		return m, nil
	case quizAdvance:
		m.quiz.answered = false
		m.quiz.cursor = 0
		if m.quiz.current+1 >= len(m.content.Quiz.Questions) {
			m.quiz.complete = true
			return m, m.startStream(m.timing.QuizFinaleRun, 5)
		}
		m.quiz.current++
		return m, nil
	}
	return m, nil
}

func (m Model) viewQuiz() string {
	q := m.quiz
	total := len(m.content.Quiz.Questions)

	if q.complete {
		button := RenderYesButton(m.theme, m.loc.T("quiz_next")+" →", 1, true)
		return centerLines(1,
			m.theme.Title.Render("★ "+m.loc.T("quiz_perfect")+" ★"),
			m.theme.Tagline.Render(m.loc.T("quiz_perfect_sub")),
			button,
		)
	}

	progress := m.loc.Tf("quiz_progress", map[string]any{"Current": q.current + 1, "Total": total})
	bar := m.bar.ViewAs(float64(q.current) / float64(total))
	question := m.content.Quiz.Questions[q.current]

	var opts []string
	for i, o := range question.Options {
		label := fmt.Sprintf("%d. %s", i+1, o)
		style := m.theme.Card
		switch {
		case q.answered && i == question.Correct:
			style = m.theme.CardFocused.Foreground(m.theme.Success)
		case i == q.cursor:
			style = m.theme.CardFocused
		}
		opts = append(opts, style.Width(40).Render(label))
	}

	var feedback string
	switch {
	case q.answered:
		feedback = m.theme.Status.Render(m.loc.T("quiz_correct"))
	case q.wrong != "":
		feedback = m.theme.StatusError.Render(q.wrong)
	}

	return centerLines(1,
		m.theme.Tagline.Render(progress),
		bar,
		m.theme.Subtitle.Render(question.Question),
		strings.Join(opts, "\n"),
		feedback,
	)
}
