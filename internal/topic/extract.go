package topic

import (
	"strings"

	"github.com/abhisek/lingoquiz/internal/corpus"
)

// pronounSegment is the first word-id segment that gets a finer
// group:pron.<second> topic.
const pronounSegment = "pron"

// Extract returns the topics a sentence belongs to, in discovery order and
// without duplicates. Phrases with no annotation or a plain string
// annotation contribute nothing.
func Extract(s corpus.Sentence) []ID {
	var out []ID
	seen := make(map[ID]struct{})
	add := func(id ID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, p := range s.Phrases {
		switch p.Translation.Kind {
		case corpus.AnnotationNone, corpus.AnnotationText:
			continue
		case corpus.AnnotationWord, corpus.AnnotationWords:
			for _, w := range p.Translation.Words {
				for _, id := range WordTopics(w) {
					add(id)
				}
			}
		}
	}
	return out
}

// WordTopics returns the topics contributed by a single word object:
// word:<id>, pos:<pos> when tagged, group:<first segment>, and for
// pronouns with a second segment group:pron.<second>.
func WordTopics(w corpus.Word) []ID {
	if w.ID == "" {
		return nil
	}

	ids := make([]ID, 0, 4)
	ids = append(ids, Word(w.ID))
	if w.POS != "" {
		ids = append(ids, POS(w.POS))
	}

	segments := strings.Split(w.ID, ".")
	if segments[0] == "" {
		return ids
	}
	ids = append(ids, Group(segments[0]))
	if segments[0] == pronounSegment && len(segments) > 1 && segments[1] != "" {
		ids = append(ids, Group(segments[0], segments[1]))
	}
	return ids
}
