// Package quizsetup collects the question count and seed for a quiz over
// a chosen set of topics.
package quizsetup

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/router"
	"github.com/abhisek/lingoquiz/internal/screen"
	"github.com/abhisek/lingoquiz/internal/screens/preview"
	"github.com/abhisek/lingoquiz/internal/topic"
	"github.com/abhisek/lingoquiz/internal/topictree"
	"github.com/abhisek/lingoquiz/internal/ui/components"
	"github.com/abhisek/lingoquiz/internal/ui/layout"
	"github.com/abhisek/lingoquiz/internal/ui/theme"
)

// DefaultQuestionCount pre-fills the count input.
const DefaultQuestionCount = 10

const (
	focusCount = iota
	focusSeed
	focusGenerate
	focusFields
)

type generatedMsg struct {
	quiz *quiz.GeneratedQuiz
	err  error
}

// SetupScreen is the quiz setup form.
type SetupScreen struct {
	gen    preview.Generator
	tree   *topictree.Tree
	topics []topic.ID

	count    components.TextInput
	seed     components.TextInput
	generate components.Button
	focus    int

	busy bool
	err  string
}

var _ screen.Screen = (*SetupScreen)(nil)

// New creates a setup screen for the given topics. The tree only supplies
// display labels and may be nil.
func New(gen preview.Generator, tree *topictree.Tree, topics []topic.ID) *SetupScreen {
	s := &SetupScreen{
		gen:    gen,
		tree:   tree,
		topics: topics,
		count:  components.NewTextInput("Questions", strconv.Itoa(DefaultQuestionCount), true, 4),
		seed:   components.NewTextInput("Seed     ", "random", false, 64),
	}
	s.count.SetValue(strconv.Itoa(DefaultQuestionCount))
	s.seed.Blur()
	s.generate = components.NewButton("Generate", false, s.submit)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.count.Init()
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		s.busy = false
		if msg.err != nil {
			s.err = describe(msg.err)
			return s, nil
		}
		next := preview.New(s.gen, s.tree, msg.quiz)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			if s.focus != focusGenerate {
				return s, s.setFocus(s.focus + 1)
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusCount:
		s.count, cmd = s.count.Update(msg)
	case focusSeed:
		s.seed, cmd = s.seed.Update(msg)
	case focusGenerate:
		s.generate, cmd = s.generate.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) setFocus(f int) tea.Cmd {
	s.focus = (f + focusFields) % focusFields
	s.count.Blur()
	s.seed.Blur()
	s.generate.Focused = false

	switch s.focus {
	case focusCount:
		return s.count.Focus()
	case focusSeed:
		return s.seed.Focus()
	default:
		s.generate.Focused = true
	}
	return nil
}

// Config builds the request from the form. It fails only on an unparsable
// count; range checks are left to the generator.
func (s *SetupScreen) Config() (quiz.Config, error) {
	n, err := s.count.NumericValue()
	if err != nil {
		return quiz.Config{}, errors.New("enter a number")
	}
	return quiz.Config{
		QuestionCount: n,
		Topics:        append([]topic.ID(nil), s.topics...),
		Seed:          strings.TrimSpace(s.seed.Value()),
	}, nil
}

func (s *SetupScreen) submit() tea.Cmd {
	s.err = ""
	cfg, err := s.Config()
	if err != nil {
		s.count.Invalidate(err.Error())
		return s.setFocus(focusCount)
	}
	if err := quiz.Validate(cfg); err != nil {
		var cerr *quiz.ConfigError
		if errors.As(err, &cerr) {
			if reason, ok := cerr.Fields["questionCount"]; ok {
				s.count.Invalidate(reason)
				return s.setFocus(focusCount)
			}
		}
		s.err = describe(err)
		return nil
	}

	s.busy = true
	gen := s.gen
	return func() tea.Msg {
		q, err := gen.GenerateQuiz(context.Background(), cfg)
		return generatedMsg{quiz: q, err: err}
	}
}

func describe(err error) string {
	var cerr *quiz.ConfigError
	if !errors.As(err, &cerr) {
		return err.Error()
	}
	keys := make([]string, 0, len(cerr.Fields))
	for k := range cerr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+cerr.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("New quiz"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Topics"))
	b.WriteString("\n")
	for _, id := range s.topics {
		b.WriteString("    • ")
		b.WriteString(theme.Body.Render(s.label(id)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("  " + s.count.View() + "\n")
	b.WriteString("  " + s.seed.View() + "\n\n")
	b.WriteString("  " + s.generate.View() + "\n")

	switch {
	case s.busy:
		b.WriteString("\n" + theme.Hint.Render("  Generating…"))
	case s.err != "":
		b.WriteString("\n" + theme.Failure.Render("  "+s.err))
	}
	return b.String()
}

func (s *SetupScreen) label(id topic.ID) string {
	if s.tree == nil {
		return string(id)
	}
	return s.tree.Label(id)
}

func (s *SetupScreen) Title() string {
	return "Quiz Setup"
}

// KeyHints returns the key binding hints for the footer.
func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Back"},
	}
}
