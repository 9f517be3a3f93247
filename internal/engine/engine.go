// Package engine is the entry point for topic browsing and quiz
// generation. It owns the index cache and hands snapshots to the
// generator and the topic tree.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/topic"
	"github.com/abhisek/lingoquiz/internal/topictree"
)

// Engine exposes the query and generation API.
type Engine struct {
	cache     *Cache
	generator *quiz.Generator
	log       logrus.FieldLogger
	now       func() time.Time
}

// New creates an Engine. A nil generator uses quiz.DefaultConfig and a
// nil logger discards output.
func New(c CorpusProvider, t TaxonomyProvider, gen *quiz.Generator, log logrus.FieldLogger) *Engine {
	if gen == nil {
		gen = quiz.NewGenerator(quiz.DefaultConfig())
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("component", "engine")
	return &Engine{
		cache:     NewCache(c, t, log),
		generator: gen,
		log:       log,
		now:       time.Now,
	}
}

// WithClock returns a copy of e that reads time from now, for both debug
// reports and generated quizzes. The cache is shared with e.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	cp.generator = e.generator.WithClock(now)
	return &cp
}

// TopicTree returns the annotated taxonomy in family order.
func (e *Engine) TopicTree(ctx context.Context) ([]topictree.TopicNode, error) {
	tree, err := e.cache.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Nodes(), nil
}

// Tree returns the cached arena tree, for callers that need rows or lookups.
func (e *Engine) Tree(ctx context.Context) (*topictree.Tree, error) {
	return e.cache.Tree(ctx)
}

// SentenceTopicIndex returns the current index snapshot.
func (e *Engine) SentenceTopicIndex(ctx context.Context) (*index.Index, error) {
	return e.cache.Index(ctx)
}

// ResetIndex discards the cached index and tree.
func (e *Engine) ResetIndex() {
	e.cache.Invalidate()
	e.log.Info("index reset")
}

// GenerateQuiz validates cfg and builds a quiz from the current index.
// Configuration errors are returned before the index is touched.
func (e *Engine) GenerateQuiz(ctx context.Context, cfg quiz.Config) (*quiz.GeneratedQuiz, error) {
	if err := quiz.Validate(cfg); err != nil {
		return nil, err
	}
	idx, err := e.cache.Index(ctx)
	if err != nil {
		return nil, err
	}

	q, err := e.generator.Generate(idx, cfg)
	if err != nil {
		return nil, err
	}

	entry := e.log.WithFields(logrus.Fields{
		"requested": cfg.QuestionCount,
		"returned":  len(q.Questions),
		"topics":    len(cfg.Topics),
		"seed":      q.Metadata.EffectiveSeed,
		"union":     q.Metadata.UnionSize,
	})
	if q.Metadata.Shortfall {
		entry.Warn("quiz generated with shortfall")
	} else {
		entry.Debug("quiz generated")
	}
	return q, nil
}

// DebugTopic describes one indexed topic.
type DebugTopic struct {
	ID             topic.ID `json:"id"`
	CandidateCount int      `json:"candidateCount"`
	Label          string   `json:"label"`
}

// DebugReport is the introspection view of the index.
type DebugReport struct {
	IndexVersion  string       `json:"indexVersion"`
	SentenceCount int          `json:"sentenceCount"`
	TopicCount    int          `json:"topicCount"`
	Topics        []DebugTopic `json:"topics"`
	GeneratedAt   time.Time    `json:"generatedAt"`
}

// DebugTopics reports every indexed topic with its candidate count and
// display label. A non-empty filter restricts the report to those topics,
// in filter order; filtered topics that are not indexed report zero.
func (e *Engine) DebugTopics(ctx context.Context, filter []topic.ID) (*DebugReport, error) {
	idx, err := e.cache.Index(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := e.cache.Tree(ctx)
	if err != nil {
		return nil, err
	}

	ids := idx.Topics()
	if len(filter) > 0 {
		ids = lo.Uniq(filter)
	}

	report := &DebugReport{
		IndexVersion:  idx.Version(),
		SentenceCount: idx.SentenceCount(),
		TopicCount:    idx.TopicCount(),
		GeneratedAt:   e.now().UTC(),
		Topics: lo.Map(ids, func(id topic.ID, _ int) DebugTopic {
			return DebugTopic{
				ID:             id,
				CandidateCount: idx.CandidateCount(id),
				Label:          tree.Label(id),
			}
		}),
	}
	return report, nil
}
