// Package preview shows a generated quiz and how it was assembled.
package preview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/router"
	"github.com/abhisek/lingoquiz/internal/screen"
	"github.com/abhisek/lingoquiz/internal/topic"
	"github.com/abhisek/lingoquiz/internal/topictree"
	"github.com/abhisek/lingoquiz/internal/ui/components"
	"github.com/abhisek/lingoquiz/internal/ui/layout"
	"github.com/abhisek/lingoquiz/internal/ui/theme"
)

// Generator produces quizzes.
type Generator interface {
	GenerateQuiz(ctx context.Context, cfg quiz.Config) (*quiz.GeneratedQuiz, error)
}

type regeneratedMsg struct {
	quiz *quiz.GeneratedQuiz
	err  error
}

// PreviewScreen lists the questions of one quiz.
type PreviewScreen struct {
	gen  Generator
	tree *topictree.Tree
	quiz *quiz.GeneratedQuiz

	scrollOffset int
	err          string
}

var _ screen.Screen = (*PreviewScreen)(nil)

// New creates a preview of q. Gen is used to reroll; tree supplies labels
// and may be nil.
func New(gen Generator, tree *topictree.Tree, q *quiz.GeneratedQuiz) *PreviewScreen {
	return &PreviewScreen{gen: gen, tree: tree, quiz: q}
}

func (s *PreviewScreen) Init() tea.Cmd {
	return nil
}

func (s *PreviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case regeneratedMsg:
		if msg.err != nil {
			s.err = msg.err.Error()
			return s, nil
		}
		next := New(s.gen, s.tree, msg.quiz)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.quiz.Questions)-1 {
				s.scrollOffset++
			}
		case "n":
			return s, s.reroll()
		case "h":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// reroll generates a fresh quiz for the same topics and count with a new
// time-derived seed.
func (s *PreviewScreen) reroll() tea.Cmd {
	cfg := s.quiz.Config
	cfg.Seed = ""
	gen := s.gen
	return func() tea.Msg {
		q, err := gen.GenerateQuiz(context.Background(), cfg)
		return regeneratedMsg{quiz: q, err: err}
	}
}

func (s *PreviewScreen) View(width, height int) string {
	q := s.quiz
	md := q.Metadata

	var header []string
	header = append(header, theme.Title.Width(width).Render(
		fmt.Sprintf("%d of %d questions", len(q.Questions), q.Config.QuestionCount)))
	header = append(header, theme.Subtitle.Width(width).Render(
		fmt.Sprintf("seed %s · index %s · %d candidates", md.EffectiveSeed, q.IndexVersion, md.UnionSize)))
	header = append(header, "  "+components.Ratio("Coverage", len(q.Questions), q.Config.QuestionCount, width-4).View())
	if md.Shortfall {
		header = append(header, theme.Warning.Render(fmt.Sprintf(
			"  Only %d sentences match these topics.", md.UnionSize)))
	}
	if md.FallbackFilled > 0 {
		header = append(header, theme.Hint.Render(fmt.Sprintf(
			"  %d filled from the combined pool", md.FallbackFilled)))
	}
	header = append(header, s.renderCounts())
	if s.err != "" {
		header = append(header, theme.Failure.Render("  "+s.err))
	}
	header = append(header, "")

	body := make([]string, 0, len(q.Questions))
	for i, question := range q.Questions {
		if i < s.scrollOffset {
			continue
		}
		body = append(body, s.renderQuestion(i+1, question))
	}

	lines := append(header, body...)
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (s *PreviewScreen) renderCounts() string {
	counts := s.quiz.Metadata.CandidateCounts
	ids := make([]topic.ID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s %d", s.label(id), counts[id]))
	}
	return theme.Hint.Render("  " + strings.Join(parts, " · "))
}

func (s *PreviewScreen) renderQuestion(n int, q quiz.Question) string {
	num := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%3d.", n))
	id := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("#%d", q.SentenceID))
	text := theme.Body.Render(q.Sentence.Text())

	labels := make([]string, 0, len(q.MatchedTopics))
	for _, t := range q.MatchedTopics {
		labels = append(labels, s.label(t))
	}
	matched := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(labels, ", "))

	return fmt.Sprintf("  %s %s %s\n       %s", num, text, id, matched)
}

func (s *PreviewScreen) label(id topic.ID) string {
	if s.tree == nil {
		return string(id)
	}
	return s.tree.Label(id)
}

// Quiz returns the quiz on display.
func (s *PreviewScreen) Quiz() *quiz.GeneratedQuiz {
	return s.quiz
}

func (s *PreviewScreen) Title() string {
	return "Quiz Preview"
}

// KeyHints returns the key binding hints for the footer.
func (s *PreviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "n", Description: "New seed"},
		{Key: "h", Description: "Topics"},
		{Key: "Esc", Description: "Back"},
	}
}
