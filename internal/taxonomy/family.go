package taxonomy

// Family is a top-level word family of the taxonomy.
type Family string

const (
	FamilyArticles     Family = "articles"
	FamilyConjunctions Family = "conjunctions"
	FamilyPronouns     Family = "pronouns"
	FamilyPrepositions Family = "prepositions"
	FamilyAdverbs      Family = "adverbs"
	FamilyNouns        Family = "nouns"
	FamilyVerbs        Family = "verbs"
)

// AllFamilies returns all families in display order.
func AllFamilies() []Family {
	return []Family{
		FamilyArticles,
		FamilyConjunctions,
		FamilyPronouns,
		FamilyPrepositions,
		FamilyAdverbs,
		FamilyNouns,
		FamilyVerbs,
	}
}

// PronounKind subdivides the pronoun family.
type PronounKind string

const (
	PronounDemonstrative PronounKind = "demonstrative"
	PronounInterrogative PronounKind = "interrogative"
	PronounSubject       PronounKind = "subject"
	PronounDirectObject  PronounKind = "direct-object"
)

// AllPronounKinds returns the pronoun subfamilies in display order.
func AllPronounKinds() []PronounKind {
	return []PronounKind{
		PronounDemonstrative,
		PronounInterrogative,
		PronounSubject,
		PronounDirectObject,
	}
}

// PronounSegment is the word-id prefix shared by every pronoun.
const PronounSegment = "pron"

// Segment returns the first dotted word-id segment used by the family,
// e.g. "artcl" for articles. Word ids in a family start with this segment.
func (f Family) Segment() string {
	switch f {
	case FamilyArticles:
		return "artcl"
	case FamilyConjunctions:
		return "conj"
	case FamilyPronouns:
		return PronounSegment
	case FamilyPrepositions:
		return "prep"
	case FamilyAdverbs:
		return "adv"
	case FamilyNouns:
		return "noun"
	case FamilyVerbs:
		return "verb"
	default:
		return string(f)
	}
}

// DisplayName returns a human-readable family name.
func (f Family) DisplayName() string {
	switch f {
	case FamilyArticles:
		return "Articles"
	case FamilyConjunctions:
		return "Conjunctions"
	case FamilyPronouns:
		return "Pronouns"
	case FamilyPrepositions:
		return "Prepositions"
	case FamilyAdverbs:
		return "Adverbs"
	case FamilyNouns:
		return "Nouns"
	case FamilyVerbs:
		return "Verbs"
	default:
		return string(f)
	}
}

// Info returns a one-line description shown alongside the family.
func (f Family) Info() string {
	switch f {
	case FamilyArticles:
		return "Definite and indefinite articles"
	case FamilyConjunctions:
		return "Words joining clauses and phrases"
	case FamilyPronouns:
		return "Words standing in for nouns"
	case FamilyPrepositions:
		return "Words relating a noun to the rest of the sentence"
	case FamilyAdverbs:
		return "Words modifying verbs, adjectives and other adverbs"
	case FamilyNouns:
		return "People, places and things"
	case FamilyVerbs:
		return "Actions and states"
	default:
		return ""
	}
}

// Valid reports whether f is one of the fixed families.
func (f Family) Valid() bool {
	for _, known := range AllFamilies() {
		if f == known {
			return true
		}
	}
	return false
}

// Segment returns the second word-id segment used by the pronoun kind,
// e.g. "subject" in "pron.subject.yo".
func (k PronounKind) Segment() string {
	switch k {
	case PronounDemonstrative:
		return "dem"
	case PronounInterrogative:
		return "interr"
	case PronounSubject:
		return "subject"
	case PronounDirectObject:
		return "dobj"
	default:
		return string(k)
	}
}

// DisplayName returns a human-readable pronoun kind name.
func (k PronounKind) DisplayName() string {
	switch k {
	case PronounDemonstrative:
		return "Demonstrative"
	case PronounInterrogative:
		return "Interrogative"
	case PronounSubject:
		return "Subject"
	case PronounDirectObject:
		return "Direct object"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the fixed pronoun kinds.
func (k PronounKind) Valid() bool {
	for _, known := range AllPronounKinds() {
		if k == known {
			return true
		}
	}
	return false
}
