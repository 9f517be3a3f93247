// Package sample embeds a small Spanish corpus and its taxonomy. It seeds
// fresh databases (import --sample) and serves as a shared test fixture.
package sample

import (
	"embed"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
)

//go:embed data/*.json
var data embed.FS

const (
	corpusFile   = "data/corpus.json"
	taxonomyFile = "data/taxonomy.json"
)

// Lessons returns the embedded corpus.
func Lessons() ([]corpus.Lesson, error) {
	return corpus.LoadFS(data, corpusFile)
}

// Taxonomy returns the embedded taxonomy.
func Taxonomy() (*taxonomy.Taxonomy, error) {
	return taxonomy.LoadFS(data, taxonomyFile)
}

// MustLessons is Lessons for tests and static wiring.
func MustLessons() []corpus.Lesson {
	l, err := Lessons()
	if err != nil {
		panic(err)
	}
	return l
}

// MustTaxonomy is Taxonomy for tests and static wiring.
func MustTaxonomy() *taxonomy.Taxonomy {
	t, err := Taxonomy()
	if err != nil {
		panic(err)
	}
	return t
}
