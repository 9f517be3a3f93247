package taxonomy

import (
	"fmt"
	"strings"
)

// Validate checks the taxonomy for structural issues.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(t *Taxonomy) error {
	if t == nil {
		return fmt.Errorf("taxonomy validation failed:\n  taxonomy is nil")
	}

	var errs []string
	seen := make(map[string]bool, t.WordCount())
	populated := make(map[Family]bool)
	kinds := make(map[PronounKind]bool)

	for gi, g := range t.Groups {
		if !g.Family.Valid() {
			errs = append(errs, fmt.Sprintf("group %d: unknown family %q", gi, g.Family))
			continue
		}
		populated[g.Family] = true

		prefix := g.Family.Segment() + "."
		if g.Family == FamilyPronouns {
			if !g.Kind.Valid() {
				errs = append(errs, fmt.Sprintf("group %d: pronoun group has unknown kind %q", gi, g.Kind))
				continue
			}
			kinds[g.Kind] = true
			prefix = PronounSegment + "." + g.Kind.Segment() + "."
		} else if g.Kind != "" {
			errs = append(errs, fmt.Sprintf("group %d: family %q does not take a kind (got %q)", gi, g.Family, g.Kind))
		}

		for _, w := range g.Words {
			if w.ID == "" {
				errs = append(errs, fmt.Sprintf("group %d: word with empty id", gi))
				continue
			}
			if seen[w.ID] {
				errs = append(errs, fmt.Sprintf("duplicate word ID: %q", w.ID))
			}
			seen[w.ID] = true
			if !strings.HasPrefix(w.ID, prefix) {
				errs = append(errs, fmt.Sprintf("word %q does not start with %q", w.ID, prefix))
			}
		}
	}

	for _, f := range AllFamilies() {
		if !populated[f] {
			errs = append(errs, fmt.Sprintf("family %q has no group", f))
		}
	}
	if populated[FamilyPronouns] {
		for _, k := range AllPronounKinds() {
			if !kinds[k] {
				errs = append(errs, fmt.Sprintf("pronoun kind %q has no group", k))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("taxonomy validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
