// Package topicmap is the root screen: the annotated topic tree with
// multi-select.
package topicmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/router"
	"github.com/abhisek/lingoquiz/internal/screen"
	"github.com/abhisek/lingoquiz/internal/screens/quizsetup"
	"github.com/abhisek/lingoquiz/internal/topic"
	"github.com/abhisek/lingoquiz/internal/topictree"
	"github.com/abhisek/lingoquiz/internal/ui/layout"
	"github.com/abhisek/lingoquiz/internal/ui/theme"
)

// Engine is what the screen needs from the quiz engine.
type Engine interface {
	Tree(ctx context.Context) (*topictree.Tree, error)
	SentenceTopicIndex(ctx context.Context) (*index.Index, error)
	GenerateQuiz(ctx context.Context, cfg quiz.Config) (*quiz.GeneratedQuiz, error)
	ResetIndex()
}

type treeLoadedMsg struct {
	tree      *topictree.Tree
	sentences int
	err       error
}

// Notice is shown above the tree until the next key press.
type Notice string

// TopicMapScreen lists the topic tree and collects a topic selection.
type TopicMapScreen struct {
	engine Engine

	tree         *topictree.Tree
	rows         []topictree.Row
	cursor       int
	scrollOffset int

	// picked preserves selection order, which is the quiz request order.
	picked []topic.ID

	loading bool
	err     error
	notice  string
}

var _ screen.Screen = (*TopicMapScreen)(nil)

// New creates a new TopicMapScreen. The tree loads asynchronously on Init.
func New(eng Engine) *TopicMapScreen {
	return &TopicMapScreen{engine: eng, loading: true}
}

func (s *TopicMapScreen) Init() tea.Cmd {
	return s.load()
}

func (s *TopicMapScreen) load() tea.Cmd {
	eng := s.engine
	return func() tea.Msg {
		ctx := context.Background()
		tree, err := eng.Tree(ctx)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		idx, err := eng.SentenceTopicIndex(ctx)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		return treeLoadedMsg{tree: tree, sentences: idx.SentenceCount()}
	}
}

func (s *TopicMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case treeLoadedMsg:
		s.loading = false
		s.err = msg.err
		if msg.err != nil {
			return s, nil
		}
		s.setTree(msg.tree)
		status := layout.IndexStatus(msg.tree.IndexVersion(), msg.sentences)
		return s, func() tea.Msg { return screen.StatusMsg{Text: status} }

	case Notice:
		s.notice = string(msg)
		return s, nil

	case tea.KeyMsg:
		s.notice = ""
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "space", " ":
			s.toggle()
		case "c":
			s.picked = nil
		case "r":
			s.engine.ResetIndex()
			s.loading = true
			s.notice = "Index reset"
			return s, s.load()
		case "enter":
			return s, s.startQuiz()
		}
	}
	return s, nil
}

// setTree swaps in a freshly loaded tree. The selection survives a reload
// while its topics still exist.
func (s *TopicMapScreen) setTree(tree *topictree.Tree) {
	var current topic.ID
	if s.cursor < len(s.rows) {
		current = s.rows[s.cursor].ID
	}

	s.tree = tree
	s.rows = tree.Flatten()
	s.cursor = 0
	for i, r := range s.rows {
		if r.ID == current {
			s.cursor = i
			break
		}
	}

	kept := s.picked[:0]
	for _, id := range s.picked {
		if _, ok := tree.Lookup(id); ok {
			kept = append(kept, id)
		}
	}
	s.picked = kept
}

func (s *TopicMapScreen) View(width, height int) string {
	switch {
	case s.loading:
		return theme.Hint.Render("  Building topic index…")
	case s.err != nil:
		return theme.Failure.Render("  Could not load topics: " + s.err.Error())
	case len(s.rows) == 0:
		return theme.Hint.Render("  The taxonomy has no topics.")
	}

	var lines []string
	lines = append(lines, s.renderSummary(width))
	if s.notice != "" {
		lines = append(lines, theme.Picked.Render("  "+s.notice))
	}
	listHeight := height - len(lines)
	s.adjustScroll(listHeight)

	for i := s.scrollOffset; i < len(s.rows) && i-s.scrollOffset < listHeight; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (s *TopicMapScreen) Title() string {
	return "Topics"
}

// KeyHints returns the key binding hints for the footer.
func (s *TopicMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Pick"},
		{Key: "Enter", Description: "Quiz"},
		{Key: "c", Description: "Clear"},
		{Key: "r", Description: "Reset index"},
	}
}

// Picked returns the selected topics in selection order.
func (s *TopicMapScreen) Picked() []topic.ID {
	return append([]topic.ID(nil), s.picked...)
}

func (s *TopicMapScreen) moveCursor(delta int) {
	next := s.cursor + delta
	if next >= 0 && next < len(s.rows) {
		s.cursor = next
	}
}

func (s *TopicMapScreen) toggle() {
	if len(s.rows) == 0 {
		return
	}
	id := s.rows[s.cursor].ID
	for i, p := range s.picked {
		if p == id {
			s.picked = append(s.picked[:i], s.picked[i+1:]...)
			return
		}
	}
	s.picked = append(s.picked, id)
}

func (s *TopicMapScreen) isPicked(id topic.ID) bool {
	for _, p := range s.picked {
		if p == id {
			return true
		}
	}
	return false
}

// startQuiz opens quiz setup for the selection, or for the topic under the
// cursor when nothing is picked.
func (s *TopicMapScreen) startQuiz() tea.Cmd {
	topics := s.Picked()
	if len(topics) == 0 && len(s.rows) > 0 {
		topics = []topic.ID{s.rows[s.cursor].ID}
	}
	if len(topics) == 0 {
		return nil
	}
	setup := quizsetup.New(s.engine, s.tree, topics)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: setup}
	}
}

func (s *TopicMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *TopicMapScreen) renderSummary(width int) string {
	text := "Nothing picked"
	if n := len(s.picked); n > 0 {
		text = fmt.Sprintf("%d picked", n)
	}
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(0, 0, 0, 2).
		Render(text)
}

func (s *TopicMapScreen) renderRow(r topictree.Row, selected bool, width int) string {
	picked := s.isPicked(r.ID)
	check := "[ ]"
	if picked {
		check = theme.Picked.Render("[x]")
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	indent := strings.Repeat("  ", r.Depth)
	count := fmt.Sprintf("%4d", r.CandidateCount)

	labelStyle := theme.Unselected
	countStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if picked {
		countStyle = lipgloss.NewStyle().Foreground(theme.Success)
	}
	switch {
	case selected:
		labelStyle = theme.Selected
		countStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	case !r.Leaf:
		labelStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	case r.CandidateCount == 0:
		labelStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	label := r.Label
	nameWidth := width - 16 - len(indent)
	if nameWidth < 10 {
		nameWidth = 10
	}
	if len(label) > nameWidth {
		label = label[:nameWidth-1] + "…"
	}

	line := fmt.Sprintf("  %s%s%s %s  %s", cursor, indent, check,
		labelStyle.Render(label), countStyle.Render(count))
	if r.Info != "" {
		line += "  " + theme.Hint.Render(r.Info)
	}
	return line
}
