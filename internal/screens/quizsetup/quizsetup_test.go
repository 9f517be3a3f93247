package quizsetup

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/engine"
	"github.com/abhisek/lingoquiz/internal/router"
	"github.com/abhisek/lingoquiz/internal/sample"
	"github.com/abhisek/lingoquiz/internal/screens/preview"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
	"github.com/abhisek/lingoquiz/internal/topic"
)

func newSetup(topics ...topic.ID) *SetupScreen {
	eng := engine.New(corpus.StaticProvider(sample.MustLessons()),
		taxonomy.StaticProvider{T: sample.MustTaxonomy()}, nil, nil)
	return New(eng, nil, topics)
}

func TestSetup_DefaultConfig(t *testing.T) {
	s := newSetup(topic.Word("verb.ser"))

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, DefaultQuestionCount, cfg.QuestionCount)
	assert.Empty(t, cfg.Seed)
	assert.Contains(t, s.View(80, 24), "word:verb.ser")
}

func TestSetup_TabCyclesFocus(t *testing.T) {
	s := newSetup(topic.Word("verb.ser"))

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, focusSeed, s.focus)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, focusGenerate, s.focus)
	assert.True(t, s.generate.Focused)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, focusCount, s.focus)
}

func TestSetup_ZeroCountIsRejected(t *testing.T) {
	s := newSetup(topic.Word("verb.ser"))
	s.count.SetValue("0")
	s.setFocus(focusGenerate)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.Equal(t, focusCount, s.focus)
	assert.Equal(t, "must be at least 1", s.count.Invalid())
	assert.False(t, s.busy)
}

func TestSetup_GeneratePushesPreview(t *testing.T) {
	s := newSetup(topic.Word("verb.ser"), topic.Group("pron", "subject"))
	s.count.SetValue("4")
	s.seed.SetValue("golden")
	s.setFocus(focusGenerate)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, s.busy)

	_, next := s.Update(cmd())
	require.NotNil(t, next)
	push, ok := next().(router.PushScreenMsg)
	require.True(t, ok)

	p, ok := push.Screen.(*preview.PreviewScreen)
	require.True(t, ok)
	assert.Equal(t, []int{3, 5, 2, 10}, p.Quiz().SentenceIDs())
	assert.Equal(t, "golden", p.Quiz().Metadata.EffectiveSeed)
}
