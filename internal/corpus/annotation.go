package corpus

import (
	"bytes"
	"encoding/json"
)

// AnnotationKind discriminates the translation annotation variants.
type AnnotationKind int

const (
	AnnotationNone  AnnotationKind = iota // No annotation
	AnnotationText                        // Plain string, not tracked by any topic
	AnnotationWord                        // A single word object
	AnnotationWords                       // Several word objects on one phrase
)

// String returns the kind name used in logs and debug output.
func (k AnnotationKind) String() string {
	switch k {
	case AnnotationNone:
		return "none"
	case AnnotationText:
		return "text"
	case AnnotationWord:
		return "word"
	case AnnotationWords:
		return "words"
	default:
		return "unknown"
	}
}

// Annotation is the translation annotation attached to a phrase.
//
// Text is set only for AnnotationText. Words holds exactly one element for
// AnnotationWord and any number for AnnotationWords.
type Annotation struct {
	Kind  AnnotationKind
	Text  string
	Words []Word
}

// NoAnnotation returns an absent annotation.
func NoAnnotation() Annotation { return Annotation{} }

// TextAnnotation returns a plain untracked string annotation.
func TextAnnotation(s string) Annotation {
	return Annotation{Kind: AnnotationText, Text: s}
}

// WordAnnotation returns a single word-object annotation.
func WordAnnotation(w Word) Annotation {
	return Annotation{Kind: AnnotationWord, Words: []Word{w}}
}

// WordsAnnotation returns a multi word-object annotation.
func WordsAnnotation(ws ...Word) Annotation {
	return Annotation{Kind: AnnotationWords, Words: ws}
}

// UnmarshalJSON decodes the loosely typed wire form. It never fails on shape:
// anything that is not null, a string, a word object or an array of word
// objects becomes AnnotationNone, and array elements that are not usable
// word objects are dropped.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	*a = Annotation{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		*a = TextAnnotation(s)
	case '{':
		w, ok := decodeWord(trimmed)
		if ok {
			*a = WordAnnotation(w)
		}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil
		}
		words := make([]Word, 0, len(elems))
		for _, e := range elems {
			if w, ok := decodeWord(e); ok {
				words = append(words, w)
			}
		}
		*a = Annotation{Kind: AnnotationWords, Words: words}
	}
	return nil
}

// MarshalJSON writes the same loosely typed wire form UnmarshalJSON accepts.
func (a Annotation) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnnotationText:
		return json.Marshal(a.Text)
	case AnnotationWord:
		if len(a.Words) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(a.Words[0])
	case AnnotationWords:
		words := a.Words
		if words == nil {
			words = []Word{}
		}
		return json.Marshal(words)
	default:
		return []byte("null"), nil
	}
}

func decodeWord(raw json.RawMessage) (Word, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Word{}, false
	}
	var w Word
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Word{}, false
	}
	if w.ID == "" {
		return Word{}, false
	}
	return w, true
}
