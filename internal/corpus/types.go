package corpus

// Lesson is an ordered group of sentences as supplied by the corpus.
type Lesson struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Order     int        `json:"order,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Sentence is a single annotated sentence.
//
// ID and Phrases are left nil when the source record omits them. Such
// records survive decoding so one bad row never fails a whole corpus; the
// index skips them (see Valid).
type Sentence struct {
	ID      *int          `json:"id"`
	Phrases []PhraseEntry `json:"phrases"`
}

// Valid reports whether the sentence has both a numeric id and a phrase list.
func (s Sentence) Valid() bool {
	return s.ID != nil && s.Phrases != nil
}

// SentenceID returns the sentence id, or 0 for a malformed record.
func (s Sentence) SentenceID() int {
	if s.ID == nil {
		return 0
	}
	return *s.ID
}

// Text joins the surface phrases with single spaces.
func (s Sentence) Text() string {
	n := 0
	for _, p := range s.Phrases {
		n += len(p.Phrase) + 1
	}
	buf := make([]byte, 0, n)
	for i, p := range s.Phrases {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, p.Phrase...)
	}
	return string(buf)
}

// NewSentence builds a well-formed sentence. Mostly useful in tests and seeds.
func NewSentence(id int, phrases ...PhraseEntry) Sentence {
	if phrases == nil {
		phrases = []PhraseEntry{}
	}
	return Sentence{ID: &id, Phrases: phrases}
}

// PhraseEntry is a surface phrase plus its translation annotation.
type PhraseEntry struct {
	Phrase      string     `json:"phrase"`
	Translation Annotation `json:"translation"`
}

// Word is a lexical item from the taxonomy, referenced by annotations.
type Word struct {
	// ID is a dotted hierarchical identifier, e.g. "pron.subject.yo".
	ID string `json:"id"`

	// POS is the part-of-speech tag. May be empty.
	POS string `json:"pos,omitempty"`

	// Alternates lists other accepted surface forms.
	Alternates []string `json:"alternates,omitempty"`
}
