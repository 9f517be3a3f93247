package corpus

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Lenient decoding for corpus records. A corpus quality problem must only
// cost the record it occurs in, so sentences and phrases decode field by
// field and keep whatever is usable.

type rawLesson struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Order     int               `json:"order"`
	Sentences []json.RawMessage `json:"sentences"`
}

// UnmarshalJSON decodes a lesson, turning unusable sentence records into
// malformed Sentence values instead of failing.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var raw rawLesson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Lesson{ID: raw.ID, Title: raw.Title, Order: raw.Order}
	if raw.Sentences == nil {
		return nil
	}
	l.Sentences = make([]Sentence, 0, len(raw.Sentences))
	for _, rs := range raw.Sentences {
		var s Sentence
		if err := json.Unmarshal(rs, &s); err != nil {
			s = Sentence{}
		}
		l.Sentences = append(l.Sentences, s)
	}
	return nil
}

type rawSentence struct {
	ID      json.RawMessage   `json:"id"`
	Phrases []json.RawMessage `json:"phrases"`
}

// UnmarshalJSON decodes a sentence. A non-integer id leaves ID nil; a
// missing phrase list leaves Phrases nil; phrase entries that are not
// objects are dropped.
func (s *Sentence) UnmarshalJSON(data []byte) error {
	*s = Sentence{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var raw rawSentence
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}

	if id, ok := parseIntID(raw.ID); ok {
		s.ID = &id
	}

	if raw.Phrases != nil {
		s.Phrases = make([]PhraseEntry, 0, len(raw.Phrases))
		for _, rp := range raw.Phrases {
			p := bytes.TrimSpace(rp)
			if len(p) == 0 || p[0] != '{' {
				continue
			}
			var entry PhraseEntry
			if err := json.Unmarshal(p, &entry); err != nil {
				continue
			}
			s.Phrases = append(s.Phrases, entry)
		}
	}
	return nil
}

func parseIntID(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, false
	}
	return id, true
}
