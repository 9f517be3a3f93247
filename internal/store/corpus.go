package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/abhisek/lingoquiz/internal/corpus"
)

// ImportCorpus replaces the stored corpus with lessons in one transaction.
// Malformed sentences are stored as-is so the index reports them the same
// way it would for a file source.
func (s *Store) ImportCorpus(ctx context.Context, lessons []corpus.Lesson) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := execBuilt(ctx, tx, builder().Delete("sentences")); err != nil {
			return fmt.Errorf("clear sentences: %w", err)
		}
		if err := execBuilt(ctx, tx, builder().Delete("lessons")); err != nil {
			return fmt.Errorf("clear lessons: %w", err)
		}

		for li, l := range lessons {
			ins := builder().Insert("lessons").
				Columns("id", "title", "ord", "position").
				Values(l.ID, l.Title, l.Order, li)
			if err := execBuilt(ctx, tx, ins); err != nil {
				return fmt.Errorf("insert lesson %s: %w", l.ID, err)
			}

			for si, sent := range l.Sentences {
				var id any
				if sent.ID != nil {
					id = *sent.ID
				}
				var phrases any
				if sent.Phrases != nil {
					b, err := json.Marshal(sent.Phrases)
					if err != nil {
						return fmt.Errorf("marshal phrases of lesson %s #%d: %w", l.ID, si, err)
					}
					phrases = string(b)
				}
				ins := builder().Insert("sentences").
					Columns("lesson_id", "position", "sentence_id", "phrases").
					Values(l.ID, si, id, phrases)
				if err := execBuilt(ctx, tx, ins); err != nil {
					return fmt.Errorf("insert sentence %s #%d: %w", l.ID, si, err)
				}
			}
		}
		return nil
	})
}

// Lessons returns the stored corpus in import order. It implements the
// engine's corpus provider contract.
func (s *Store) Lessons(ctx context.Context) ([]corpus.Lesson, error) {
	q, args := builder().Select("id", "title", "ord").
		From(builder().Table("lessons")).
		OrderBy("position").
		Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []corpus.Lesson
	byID := make(map[string]int)
	for rows.Next() {
		var l corpus.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Order); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		l.Sentences = []corpus.Sentence{}
		byID[l.ID] = len(lessons)
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	q, args = builder().Select("lesson_id", "sentence_id", "phrases").
		From(builder().Table("sentences")).
		OrderBy("lesson_id", "position").
		Query()
	srows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var (
			lessonID string
			id       sql.NullInt64
			phrases  sql.NullString
		)
		if err := srows.Scan(&lessonID, &id, &phrases); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		var sent corpus.Sentence
		if id.Valid {
			n := int(id.Int64)
			sent.ID = &n
		}
		if phrases.Valid {
			if err := json.Unmarshal([]byte(phrases.String), &sent.Phrases); err != nil {
				return nil, fmt.Errorf("decode phrases of lesson %s: %w", lessonID, err)
			}
			if sent.Phrases == nil {
				sent.Phrases = []corpus.PhraseEntry{}
			}
		}

		li, ok := byID[lessonID]
		if !ok {
			continue
		}
		lessons[li].Sentences = append(lessons[li].Sentences, sent)
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentences: %w", err)
	}
	return lessons, nil
}
