// Package index builds the inverted index between topics and sentences.
package index

import (
	"encoding/binary"
	"encoding/hex"
	"slices"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/topic"
)

// versionLen is the number of hex characters kept from the fingerprint.
const versionLen = 8

// Index is an immutable snapshot of the topic ⇄ sentence mapping.
// It is never patched; a changed corpus means a new Index.
type Index struct {
	topicToSentences map[topic.ID][]int
	sentenceTopics   map[int]map[topic.ID]struct{}
	sentences        []corpus.Sentence
	byID             map[int]int // sentence id -> position in sentences
	version          string
	stats            BuildStats
}

// BuildStats reports what the build tolerated.
type BuildStats struct {
	Lessons           int
	Sentences         int
	SkippedMalformed  int
	SkippedDuplicates int
	Topics            int
}

// Build indexes every well-formed sentence of the given lessons. Malformed
// sentences (no numeric id or no phrase list) and repeated ids are skipped.
func Build(lessons []corpus.Lesson) *Index {
	idx := &Index{
		topicToSentences: make(map[topic.ID][]int),
		sentenceTopics:   make(map[int]map[topic.ID]struct{}),
		byID:             make(map[int]int),
	}
	idx.stats.Lessons = len(lessons)

	for _, lesson := range lessons {
		for _, s := range lesson.Sentences {
			if !s.Valid() {
				idx.stats.SkippedMalformed++
				continue
			}
			id := s.SentenceID()
			if _, dup := idx.byID[id]; dup {
				idx.stats.SkippedDuplicates++
				continue
			}

			idx.byID[id] = len(idx.sentences)
			idx.sentences = append(idx.sentences, s)
			idx.register(id, topic.Extract(s))
		}
	}

	idx.stats.Sentences = len(idx.sentences)
	idx.stats.Topics = len(idx.topicToSentences)
	idx.version = fingerprint(len(idx.sentences), len(idx.topicToSentences))
	return idx
}

// register records a sentence's topic set in both directions.
func (idx *Index) register(sentenceID int, topics []topic.ID) {
	set := make(map[topic.ID]struct{}, len(topics))
	for _, t := range topics {
		if _, ok := set[t]; ok {
			continue
		}
		set[t] = struct{}{}
		idx.topicToSentences[t] = append(idx.topicToSentences[t], sentenceID)
	}
	idx.sentenceTopics[sentenceID] = set
}

// fingerprint hashes the sentence and topic counts. It detects that the
// index changed shape; it says nothing about content.
func fingerprint(sentences, topics int) string {
	sum := xxhash.Sum64String(strconv.Itoa(sentences) + ":" + strconv.Itoa(topics))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return hex.EncodeToString(b[:])[:versionLen]
}

// Version returns the change fingerprint of the index.
func (idx *Index) Version() string { return idx.version }

// Stats returns what the build counted and skipped.
func (idx *Index) Stats() BuildStats { return idx.stats }

// SentenceCount returns the number of indexed sentences.
func (idx *Index) SentenceCount() int { return len(idx.sentences) }

// TopicCount returns the number of distinct topics.
func (idx *Index) TopicCount() int { return len(idx.topicToSentences) }

// Sentences returns all indexed sentences in corpus order.
func (idx *Index) Sentences() []corpus.Sentence {
	return slices.Clone(idx.sentences)
}

// Sentence returns the sentence with the given id.
func (idx *Index) Sentence(id int) (corpus.Sentence, bool) {
	pos, ok := idx.byID[id]
	if !ok {
		return corpus.Sentence{}, false
	}
	return idx.sentences[pos], true
}

// SentencesFor returns the candidate sentence ids of a topic in corpus
// order. Unknown topics yield nil.
func (idx *Index) SentencesFor(t topic.ID) []int {
	return slices.Clone(idx.topicToSentences[t])
}

// CandidateCount returns the size of a topic's sentence bucket.
func (idx *Index) CandidateCount(t topic.ID) int {
	return len(idx.topicToSentences[t])
}

// TopicsOf returns the topics of a sentence, sorted.
func (idx *Index) TopicsOf(sentenceID int) []topic.ID {
	set := idx.sentenceTopics[sentenceID]
	out := make([]topic.ID, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Has reports whether the sentence belongs to the topic.
func (idx *Index) Has(sentenceID int, t topic.ID) bool {
	_, ok := idx.sentenceTopics[sentenceID][t]
	return ok
}

// Topics returns every indexed topic, sorted.
func (idx *Index) Topics() []topic.ID {
	out := make([]topic.ID, 0, len(idx.topicToSentences))
	for t := range idx.topicToSentences {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Snapshot is the serialisable form of the index.
type Snapshot struct {
	Version          string             `json:"version"`
	TopicToSentences map[topic.ID][]int `json:"topicToSentences"`
	SentenceTopics   map[int][]topic.ID `json:"sentenceTopics"`
	Sentences        []corpus.Sentence  `json:"sentences"`
}

// Snapshot returns a deep copy of the index contents.
func (idx *Index) Snapshot() Snapshot {
	snap := Snapshot{
		Version:          idx.version,
		TopicToSentences: make(map[topic.ID][]int, len(idx.topicToSentences)),
		SentenceTopics:   make(map[int][]topic.ID, len(idx.sentenceTopics)),
		Sentences:        idx.Sentences(),
	}
	for t, ids := range idx.topicToSentences {
		snap.TopicToSentences[t] = slices.Clone(ids)
	}
	for id := range idx.sentenceTopics {
		snap.SentenceTopics[id] = idx.TopicsOf(id)
	}
	return snap
}
