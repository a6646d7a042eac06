// Package content holds the greeting's copy: proposal lines, quiz, letter
// and photo captions. Everything has a default so an empty config still
// produces a complete greeting.
package content

import (
	"strings"
	"time"
)

// Question is one quiz question. Correct indexes Options.
type Question struct {
	Question string   `yaml:"question" toml:"question"`
	Options  []string `yaml:"options" toml:"options"`
	Correct  int      `yaml:"correct" toml:"correct"`
}

// Photo is one memory card.
type Photo struct {
	URL     string `yaml:"url" toml:"url"`
	Caption string `yaml:"caption" toml:"caption"`
}

// Proposal is the copy for the proposal screen.
type Proposal struct {
	Messages  []string `yaml:"messages,omitempty" toml:"messages"`
	Reactions []string `yaml:"reactions,omitempty" toml:"reactions"`
}

// Quiz is the copy for the quiz gift.
type Quiz struct {
	Questions    []Question `yaml:"questions,omitempty" toml:"questions"`
	WrongAnswers []string   `yaml:"wrong_answers,omitempty" toml:"wrong_answers"`
}

// Letter is the copy for the letter gift. Empty lines are paragraph breaks.
type Letter struct {
	Lines        []string      `yaml:"lines,omitempty" toml:"lines"`
	LineInterval time.Duration `yaml:"line_interval,omitempty" toml:"line_interval"`
}

// Final is the closing message shown after the photos.
type Final struct {
	Title    string   `yaml:"title,omitempty" toml:"title"`
	Subtitle string   `yaml:"subtitle,omitempty" toml:"subtitle"`
	Lines    []string `yaml:"lines,omitempty" toml:"lines"`
}

// Content is the complete set of greeting copy.
type Content struct {
	Name     string   `yaml:"name,omitempty" toml:"name"`
	Proposal Proposal `yaml:"proposal,omitempty" toml:"proposal"`
	Quiz     Quiz     `yaml:"quiz,omitempty" toml:"quiz"`
	Letter   Letter   `yaml:"letter,omitempty" toml:"letter"`
	Photos   []Photo  `yaml:"photos,omitempty" toml:"photos"`
	Final    Final    `yaml:"final,omitempty" toml:"final"`
}

// Default returns the stock greeting.
func Default() Content {
	return Content{
		Name: "My Love",
		Proposal: Proposal{
			Messages: []string{
				"Will you be my Valentine?",
				"Are you certain?",
				"That seems like a hasty decision...",
				"Let's reconsider, my love",
				"Pretty please?",
				"One more chance?",
				"I'll take that as a yes",
			},
			Reactions: []string{
				"(｡•́︿•̀｡)",
				"(¬_¬ )",
				"(╥﹏╥)",
				"(っ˘̩╭╮˘̩)っ",
				"ʕ•́ᴥ•̀ʔっ♡",
			},
		},
		Quiz: Quiz{
			Questions: []Question{
				{Question: "Where did we first meet?", Options: []string{"At a coffee shop", "Through friends", "At school/work"}, Correct: 1},
				{Question: "What's my favorite thing about you?", Options: []string{"Your smile", "Your laugh", "Everything"}, Correct: 2},
				{Question: "What's our favorite thing to do together?", Options: []string{"Watch movies", "Go on adventures", "Just talk for hours"}, Correct: 0},
				{Question: "What food reminds me of us?", Options: []string{"Pizza", "Ice cream", "Home-cooked meals"}, Correct: 1},
				{Question: "What's our song?", Options: []string{"A romantic ballad", "Something upbeat", "We have too many!"}, Correct: 2},
			},
			WrongAnswers: []string{
				"Hmm… are you sure you know me?",
				"Are we dating the same person?",
				"Let me help you with that one!",
				"Close enough... but not quite!",
				"Someone wasn't paying attention!",
			},
		},
		Letter: Letter{
			Lines: []string{
				"My Dearest Love,",
				"",
				"From the moment I met you,",
				"I knew my life would never be the same.",
				"",
				"Every day with you feels like a gift,",
				"wrapped in laughter, warmth, and endless love.",
				"",
				"You make the ordinary extraordinary,",
				"and turn simple moments into treasured memories.",
				"",
				"Thank you for being my best friend,",
				"my confidant, my partner in everything.",
				"",
				"I fall more in love with you each day,",
				"and I can't wait for all our tomorrows.",
				"",
				"Forever & Always,",
				"Your Valentine",
			},
			LineInterval: 600 * time.Millisecond,
		},
		Photos: []Photo{
			{URL: "https://images.unsplash.com/photo-1518199266791-5375a83190b7", Caption: "Our first adventure together"},
			{URL: "https://images.unsplash.com/photo-1516589178581-6cd7833ae3b2", Caption: "That magical sunset"},
			{URL: "https://images.unsplash.com/photo-1522673607200-164d1b6ce486", Caption: "Laughing together"},
			{URL: "https://images.unsplash.com/photo-1529333166437-7750a6dd5a70", Caption: "Best friends forever"},
			{URL: "https://images.unsplash.com/photo-1544005313-94ddf0286df2", Caption: "Your beautiful smile"},
			{URL: "https://images.unsplash.com/photo-1621452773781-0f992fd1f5cb", Caption: "Making memories"},
		},
		Final: Final{
			Title:    "This is just the beginning",
			Subtitle: "Happy Valentine's Day ♥",
			Lines:    []string{"Thank you for being mine", "I love you endlessly ∞"},
		},
	}
}

// WithDefaults fills every empty section of c from Default and drops quiz
// questions that cannot be answered.
func (c Content) WithDefaults() Content {
	d := Default()
	if c.Name == "" {
		c.Name = d.Name
	}
	if len(c.Proposal.Messages) == 0 {
		c.Proposal.Messages = d.Proposal.Messages
	}
	if len(c.Proposal.Reactions) == 0 {
		c.Proposal.Reactions = d.Proposal.Reactions
	}

	var questions []Question
	for _, q := range c.Quiz.Questions {
		if len(q.Options) > 0 && q.Correct >= 0 && q.Correct < len(q.Options) {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		questions = d.Quiz.Questions
	}
	c.Quiz.Questions = questions
	if len(c.Quiz.WrongAnswers) == 0 {
		c.Quiz.WrongAnswers = d.Quiz.WrongAnswers
	}

	if len(c.Letter.Lines) == 0 {
		c.Letter.Lines = d.Letter.Lines
	}
	if c.Letter.LineInterval <= 0 {
		c.Letter.LineInterval = d.Letter.LineInterval
	}
	if len(c.Photos) == 0 {
		c.Photos = d.Photos
	}
	if c.Final.Title == "" {
		c.Final.Title = d.Final.Title
	}
	if c.Final.Subtitle == "" {
		c.Final.Subtitle = d.Final.Subtitle
	}
	if len(c.Final.Lines) == 0 {
		c.Final.Lines = d.Final.Lines
	}
	return c
}

// LetterText returns the letter as plain text, one line per entry.
func (c Content) LetterText() string {
	return strings.Join(c.Letter.Lines, "\n")
}
