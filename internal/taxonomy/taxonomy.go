package taxonomy

import (
	"slices"

	"github.com/abhisek/lingoquiz/internal/corpus"
)

// Group is a named group of words within a family. Pronoun groups carry a
// Kind; every other family has exactly one group with an empty Kind.
type Group struct {
	Family Family        `json:"family"`
	Kind   PronounKind   `json:"kind,omitempty"`
	Words  []corpus.Word `json:"words"`
}

// Taxonomy is the grouped word dictionary.
type Taxonomy struct {
	Groups []Group `json:"groups"`
}

// Words returns the words of a family, in source order. For pronouns,
// kind selects the subfamily; it is ignored for the other families.
// Several groups for the same family/kind are concatenated.
func (t *Taxonomy) Words(family Family, kind PronounKind) []corpus.Word {
	if t == nil {
		return nil
	}
	var out []corpus.Word
	for _, g := range t.Groups {
		if g.Family != family {
			continue
		}
		if family == FamilyPronouns && g.Kind != kind {
			continue
		}
		out = append(out, g.Words...)
	}
	return slices.Clone(out)
}

// WordCount returns the total number of words across all groups.
func (t *Taxonomy) WordCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, g := range t.Groups {
		n += len(g.Words)
	}
	return n
}
