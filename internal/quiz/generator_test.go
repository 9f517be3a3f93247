package quiz

import (
	"errors"
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/sample"
	"github.com/abhisek/lingoquiz/internal/topic"
)

var (
	el  = topic.Word("artcl.el")
	ser = topic.Word("verb.ser")
)

func annotated(id int, words ...string) corpus.Sentence {
	var phrases []corpus.PhraseEntry
	for _, w := range words {
		phrases = append(phrases, corpus.PhraseEntry{Phrase: w, Translation: corpus.WordAnnotation(corpus.Word{ID: w})})
	}
	return corpus.NewSentence(id, phrases...)
}

func indexOf(sentences ...corpus.Sentence) *index.Index {
	return index.Build([]corpus.Lesson{{ID: "l1", Sentences: sentences}})
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
}

func newTestGenerator() *Generator {
	return NewGenerator(DefaultConfig()).WithClock(fixedClock())
}

func TestGenerate_InvalidConfig(t *testing.T) {
	g := newTestGenerator()
	tests := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{"zero count", Config{QuestionCount: 0, Topics: []topic.ID{el}}, []string{"questionCount"}},
		{"negative count", Config{QuestionCount: -3, Topics: []topic.ID{el}}, []string{"questionCount"}},
		{"no topics", Config{QuestionCount: 2}, []string{"topics"}},
		{"both", Config{}, []string{"questionCount", "topics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A nil index proves validation runs first.
			q, err := g.Generate(nil, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			for _, f := range tt.fields {
				assert.Contains(t, cerr.Fields, f)
			}
			assert.Len(t, cerr.Fields, len(tt.fields))
		})
	}
}

func TestGenerate_NilIndex(t *testing.T) {
	_, err := newTestGenerator().Generate(nil, Config{QuestionCount: 1, Topics: []topic.ID{el}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestGenerate_CrossTopicCredit(t *testing.T) {
	idx := indexOf(
		annotated(1, "artcl.el"),
		annotated(2, "artcl.el", "verb.ser"),
		annotated(3, "verb.ser"),
	)
	cfg := Config{QuestionCount: 2, Topics: []topic.ID{el, ser}, Seed: "t1"}

	q, err := newTestGenerator().Generate(idx, cfg)
	require.NoError(t, err)
	require.Len(t, q.Questions, 2)

	covered := map[topic.ID]bool{}
	for _, qq := range q.Questions {
		for _, m := range qq.MatchedTopics {
			covered[m] = true
		}
	}
	assert.True(t, covered[el])
	assert.True(t, covered[ser])
	assert.NotEqual(t, q.Questions[0].SentenceID, q.Questions[1].SentenceID)

	// With this seed S2 is drawn first and discharges both quotas; the
	// second slot comes from the fallback pass.
	assert.Equal(t, []int{2, 3}, q.SentenceIDs())
	assert.Equal(t, []topic.ID{el, ser}, q.Questions[0].MatchedTopics)
	assert.Equal(t, 1, q.Metadata.FallbackFilled)
	assert.Equal(t, 3, q.Metadata.UnionSize)
	assert.False(t, q.Metadata.Shortfall)
	assert.Equal(t, map[topic.ID]int{el: 2, ser: 2}, q.Metadata.CandidateCounts)
}

func TestGenerate_CrossTopicCredit_AllSeeds(t *testing.T) {
	idx := indexOf(
		annotated(1, "artcl.el"),
		annotated(2, "artcl.el", "verb.ser"),
		annotated(3, "verb.ser"),
	)
	g := newTestGenerator()
	for _, seed := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "t1", "t2"} {
		q, err := g.Generate(idx, Config{QuestionCount: 2, Topics: []topic.ID{el, ser}, Seed: seed})
		require.NoError(t, err)
		require.Len(t, q.Questions, 2, seed)

		covered := map[topic.ID]bool{}
		for _, qq := range q.Questions {
			for _, m := range qq.MatchedTopics {
				covered[m] = true
			}
		}
		assert.Len(t, covered, 2, seed)
	}
}

func TestGenerate_Shortfall(t *testing.T) {
	idx := indexOf(
		annotated(1, "artcl.el"),
		annotated(3, "verb.ser"),
	)
	q, err := newTestGenerator().Generate(idx, Config{QuestionCount: 5, Topics: []topic.ID{el, ser}, Seed: "t1"})
	require.NoError(t, err)

	assert.True(t, q.Metadata.Shortfall)
	assert.Equal(t, 2, q.Metadata.UnionSize)
	assert.Len(t, q.Questions, 2)
	assert.ElementsMatch(t, []int{1, 3}, q.SentenceIDs())
}

func TestGenerate_HugeCountIsBoundedByCorpus(t *testing.T) {
	idx := indexOf(
		annotated(1, "artcl.el"),
		annotated(3, "verb.ser"),
	)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	q, err := newTestGenerator().Generate(idx, Config{QuestionCount: 200_000_000, Topics: []topic.ID{el, ser}, Seed: "t1"})
	runtime.ReadMemStats(&after)
	require.NoError(t, err)

	assert.True(t, q.Metadata.Shortfall)
	assert.Len(t, q.Questions, 2)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}

func TestGenerate_MaxIntCountKeepsQuota(t *testing.T) {
	idx := indexOf(
		annotated(1, "artcl.el"),
		annotated(3, "verb.ser"),
	)
	q, err := newTestGenerator().Generate(idx, Config{QuestionCount: math.MaxInt, Topics: []topic.ID{el, ser}, Seed: "t1"})
	require.NoError(t, err)

	assert.True(t, q.Metadata.Shortfall)
	assert.ElementsMatch(t, []int{1, 3}, q.SentenceIDs())
	// Both sentences come from the quota pass, not the fallback.
	assert.Equal(t, 0, q.Metadata.FallbackFilled)
}

func TestGenerate_UnknownTopic(t *testing.T) {
	idx := indexOf(annotated(1, "artcl.el"))
	q, err := newTestGenerator().Generate(idx, Config{QuestionCount: 3, Topics: []topic.ID{"word:nope"}})
	require.NoError(t, err)
	assert.Empty(t, q.Questions)
	assert.True(t, q.Metadata.Shortfall)
	assert.Equal(t, 0, q.Metadata.CandidateCounts["word:nope"])
}

func TestGenerate_Golden(t *testing.T) {
	idx := index.Build(sample.MustLessons())
	g := newTestGenerator()

	subj := topic.Group("pron", "subject")
	q, err := g.Generate(idx, Config{QuestionCount: 4, Topics: []topic.ID{ser, subj}, Seed: "golden"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 2, 10}, q.SentenceIDs())
	assert.Equal(t, 1, q.Metadata.FallbackFilled)
	assert.Equal(t, 8, q.Metadata.UnionSize)

	// The shared random stream makes topic order significant.
	q, err = g.Generate(idx, Config{QuestionCount: 4, Topics: []topic.ID{subj, ser}, Seed: "golden"})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2, 3, 10}, q.SentenceIDs())

	q, err = g.Generate(idx, Config{QuestionCount: 3, Topics: []topic.ID{el, ser}, Seed: "t1"})
	require.NoError(t, err)
	assert.Equal(t, []int{8, 7, 11}, q.SentenceIDs())
	assert.Equal(t, 0, q.Metadata.FallbackFilled)
}

func TestGenerate_Properties(t *testing.T) {
	idx := index.Build(sample.MustLessons())
	g := newTestGenerator()

	configs := []Config{
		{QuestionCount: 1, Topics: []topic.ID{el}, Seed: "p1"},
		{QuestionCount: 5, Topics: []topic.ID{topic.Group("pron"), topic.POS("verb")}, Seed: "p2"},
		{QuestionCount: 12, Topics: []topic.ID{topic.Group("noun"), topic.Group("verb"), topic.Group("artcl")}, Seed: "p3"},
		{QuestionCount: 20, Topics: []topic.ID{topic.Group("conj"), topic.Word("adv.muy")}, Seed: "p4"},
		{QuestionCount: 3, Topics: []topic.ID{ser, ser}, Seed: "p5"},
	}

	for _, cfg := range configs {
		q, err := g.Generate(idx, cfg)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(q.Questions), cfg.QuestionCount)
		if q.Metadata.UnionSize >= cfg.QuestionCount {
			assert.Len(t, q.Questions, cfg.QuestionCount)
		}
		assert.Equal(t, q.Metadata.UnionSize < cfg.QuestionCount, q.Metadata.Shortfall)

		seen := map[int]bool{}
		for _, qq := range q.Questions {
			assert.False(t, seen[qq.SentenceID], "duplicate sentence %d", qq.SentenceID)
			seen[qq.SentenceID] = true

			require.NotEmpty(t, qq.MatchedTopics)
			assert.Subset(t, cfg.Topics, qq.MatchedTopics)
			assert.Equal(t, qq.SentenceID, qq.Sentence.SentenceID())
		}

		again, err := g.Generate(idx, cfg)
		require.NoError(t, err)
		assert.Equal(t, q.SentenceIDs(), again.SentenceIDs())
	}
}

func TestGenerate_TimeSeed(t *testing.T) {
	idx := index.Build(sample.MustLessons())
	g := newTestGenerator()
	cfg := Config{QuestionCount: 4, Topics: []topic.ID{topic.Group("pron")}}

	q, err := g.Generate(idx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "1714564800000", q.Metadata.EffectiveSeed)
	assert.Equal(t, fixedClock()(), q.CreatedAt)
	assert.Equal(t, idx.Version(), q.IndexVersion)

	cfg.Seed = q.Metadata.EffectiveSeed
	replay, err := NewGenerator(DefaultConfig()).Generate(idx, cfg)
	require.NoError(t, err)
	assert.Equal(t, q.SentenceIDs(), replay.SentenceIDs())
}

func TestGenerate_BoostTopicsInert(t *testing.T) {
	idx := index.Build(sample.MustLessons())
	g := newTestGenerator()
	cfg := Config{QuestionCount: 4, Topics: []topic.ID{topic.Group("verb")}, Seed: "boost"}

	plain, err := g.Generate(idx, cfg)
	require.NoError(t, err)

	cfg.BoostTopics = []topic.ID{topic.Word("verb.tener")}
	boosted, err := g.Generate(idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, plain.SentenceIDs(), boosted.SentenceIDs())
	assert.Equal(t, cfg.BoostTopics, boosted.Config.BoostTopics)
}

func TestGenerate_SweepCap(t *testing.T) {
	idx := index.Build(sample.MustLessons())
	g := NewGenerator(GeneratorConfig{MaxSweeps: 1}).WithClock(fixedClock())

	q, err := g.Generate(idx, Config{QuestionCount: 6, Topics: []topic.ID{topic.Group("verb")}, Seed: "cap"})
	require.NoError(t, err)
	// One sweep yields one question; the rest come from the fallback pass.
	assert.Len(t, q.Questions, 6)
	assert.Equal(t, 5, q.Metadata.FallbackFilled)
}

func TestNewGenerator_DefaultsSweeps(t *testing.T) {
	g := NewGenerator(GeneratorConfig{})
	assert.Equal(t, DefaultConfig().MaxSweeps, g.cfg.MaxSweeps)
}
