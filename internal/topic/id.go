// Package topic defines topic identifiers and derives them from sentences.
package topic

import (
	"fmt"
	"strings"
)

// Namespace is the prefix of a topic id.
type Namespace string

const (
	NamespaceWord  Namespace = "word"  // Exact lexical item
	NamespacePOS   Namespace = "pos"   // Part of speech
	NamespaceGroup Namespace = "group" // Lexical family or pronoun subfamily
)

// ID is a namespaced topic identifier such as "word:artcl.el",
// "pos:verb" or "group:pron.subject".
type ID string

// Word returns the topic id for an exact lexical item.
func Word(wordID string) ID {
	return ID(string(NamespaceWord) + ":" + wordID)
}

// POS returns the topic id for a part-of-speech tag.
func POS(tag string) ID {
	return ID(string(NamespacePOS) + ":" + tag)
}

// Group returns the topic id for a lexical family, joining nested segments
// with dots: Group("pron", "subject") is "group:pron.subject".
func Group(segments ...string) ID {
	return ID(string(NamespaceGroup) + ":" + strings.Join(segments, "."))
}

// Parse splits s into namespace and key, rejecting unknown namespaces and
// empty keys.
func Parse(s string) (Namespace, string, error) {
	ns, key, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", fmt.Errorf("topic %q: missing namespace", s)
	}
	switch Namespace(ns) {
	case NamespaceWord, NamespacePOS, NamespaceGroup:
	default:
		return "", "", fmt.Errorf("topic %q: unknown namespace %q", s, ns)
	}
	if key == "" {
		return "", "", fmt.Errorf("topic %q: empty key", s)
	}
	return Namespace(ns), key, nil
}

// Namespace returns the namespace part of the id, or "" if malformed.
func (id ID) Namespace() Namespace {
	ns, _, err := Parse(string(id))
	if err != nil {
		return ""
	}
	return ns
}

// Key returns the part after the namespace, or "" if malformed.
func (id ID) Key() string {
	_, key, err := Parse(string(id))
	if err != nil {
		return ""
	}
	return key
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IDs converts raw strings to topic ids without validation.
func IDs(ss ...string) []ID {
	out := make([]ID, len(ss))
	for i, s := range ss {
		out[i] = ID(s)
	}
	return out
}
