// Package quiz assembles bounded, fair and reproducible quizzes from the
// topic index.
package quiz

import (
	"time"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/topic"
)

// Config is a quiz generation request.
type Config struct {
	// QuestionCount is the desired number of questions. Must be >= 1.
	QuestionCount int `json:"questionCount"`

	// Topics are the requested topic ids. Order matters for the result.
	Topics []topic.ID `json:"topics"`

	// Seed makes the quiz reproducible. Empty means time-derived.
	Seed string `json:"seed,omitempty"`

	// BoostTopics is accepted and echoed back but does not affect selection.
	BoostTopics []topic.ID `json:"boostTopics,omitempty"`
}

// Question is one selected sentence.
type Question struct {
	SentenceID int             `json:"sentenceId"`
	Sentence   corpus.Sentence `json:"sentence"`

	// MatchedTopics is the non-empty subset of requested topics the
	// sentence satisfies, in request order.
	MatchedTopics []topic.ID `json:"matchedTopics"`
}

// Metadata describes how the quiz was assembled.
type Metadata struct {
	// CandidateCounts holds raw pool sizes per requested topic. Pools
	// overlap, so the sum may exceed UnionSize.
	CandidateCounts map[topic.ID]int `json:"candidateCounts"`
	UnionSize       int              `json:"unionSize"`
	Shortfall       bool             `json:"shortfall"`

	// EffectiveSeed reproduces this quiz when passed back as Config.Seed.
	EffectiveSeed string `json:"effectiveSeed"`

	// FallbackFilled counts questions added after quota allocation ran dry.
	FallbackFilled int `json:"fallbackFilled"`
}

// GeneratedQuiz is the result of one generation call. It is a plain value;
// the caller owns it.
type GeneratedQuiz struct {
	Config       Config     `json:"config"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"createdAt"`
	IndexVersion string     `json:"indexVersion"`
	Metadata     Metadata   `json:"metadata"`
}

// SentenceIDs returns the selected sentence ids in quiz order.
func (q *GeneratedQuiz) SentenceIDs() []int {
	out := make([]int, len(q.Questions))
	for i, qq := range q.Questions {
		out[i] = qq.SentenceID
	}
	return out
}
