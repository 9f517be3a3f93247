package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/sample"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestEmptyStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	lessons, err := s.Lessons(ctx)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(lessons) != 0 {
		t.Errorf("got %d lessons, want 0", len(lessons))
	}

	tax, err := s.Taxonomy(ctx)
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	if tax.WordCount() != 0 {
		t.Errorf("got %d words, want 0", tax.WordCount())
	}
}

func TestCorpusRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sample.MustLessons()
	if err := s.ImportCorpus(ctx, want); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := s.Lessons(ctx)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lessons, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title || got[i].Order != want[i].Order {
			t.Errorf("lesson %d: got %+v, want %+v", i, got[i].ID, want[i].ID)
		}
		if len(got[i].Sentences) != len(want[i].Sentences) {
			t.Errorf("lesson %s: got %d sentences, want %d", want[i].ID, len(got[i].Sentences), len(want[i].Sentences))
		}
	}

	// Indexing the stored corpus matches indexing the source.
	a := index.Build(want).Snapshot()
	b := index.Build(got).Snapshot()
	if a.Version != b.Version {
		t.Errorf("version: got %s, want %s", b.Version, a.Version)
	}
	for topic, ids := range a.TopicToSentences {
		if fmt.Sprint(b.TopicToSentences[topic]) != fmt.Sprint(ids) {
			t.Errorf("topic %s: got %v, want %v", topic, b.TopicToSentences[topic], ids)
		}
	}
}

func TestImportCorpus_KeepsMalformedSentences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := 7
	lessons := []corpus.Lesson{{
		ID: "l1",
		Sentences: []corpus.Sentence{
			{ID: &id},
			{Phrases: []corpus.PhraseEntry{{Phrase: "hola", Translation: corpus.TextAnnotation("hi")}}},
			corpus.NewSentence(8),
		},
	}}
	if err := s.ImportCorpus(ctx, lessons); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := s.Lessons(ctx)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	sents := got[0].Sentences
	if len(sents) != 3 {
		t.Fatalf("got %d sentences, want 3", len(sents))
	}
	if sents[0].ID == nil || *sents[0].ID != 7 || sents[0].Phrases != nil {
		t.Errorf("sentence 0: got %+v", sents[0])
	}
	if sents[1].ID != nil || len(sents[1].Phrases) != 1 || sents[1].Phrases[0].Translation.Kind != corpus.AnnotationText {
		t.Errorf("sentence 1: got %+v", sents[1])
	}
	if !sents[2].Valid() || len(sents[2].Phrases) != 0 {
		t.Errorf("sentence 2: got %+v", sents[2])
	}
}

func TestImportCorpus_Replaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ImportCorpus(ctx, sample.MustLessons()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := s.ImportCorpus(ctx, []corpus.Lesson{{ID: "only", Sentences: []corpus.Sentence{corpus.NewSentence(1)}}}); err != nil {
		t.Fatalf("second import: %v", err)
	}

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Lessons != 1 || c.Sentences != 1 {
		t.Errorf("got %+v, want 1 lesson and 1 sentence", c)
	}
}

func TestImportCorpus_RollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ImportCorpus(ctx, sample.MustLessons()); err != nil {
		t.Fatalf("import: %v", err)
	}

	dup := []corpus.Lesson{{ID: "x"}, {ID: "x"}}
	if err := s.ImportCorpus(ctx, dup); err == nil {
		t.Fatal("expected error for duplicate lesson ids")
	}

	lessons, err := s.Lessons(ctx)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(lessons) != 3 {
		t.Errorf("got %d lessons after failed import, want 3", len(lessons))
	}
}

func TestTaxonomyRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sample.MustTaxonomy()
	if err := s.ImportTaxonomy(ctx, want); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := s.Taxonomy(ctx)
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}

	if len(got.Groups) != len(want.Groups) {
		t.Fatalf("got %d groups, want %d", len(got.Groups), len(want.Groups))
	}
	for i := range want.Groups {
		g, w := got.Groups[i], want.Groups[i]
		if g.Family != w.Family || g.Kind != w.Kind {
			t.Errorf("group %d: got %s/%s, want %s/%s", i, g.Family, g.Kind, w.Family, w.Kind)
		}
		if fmt.Sprint(g.Words) != fmt.Sprint(w.Words) {
			t.Errorf("group %d words: got %v, want %v", i, g.Words, w.Words)
		}
	}
	if err := taxonomy.Validate(got); err != nil {
		t.Errorf("stored taxonomy invalid: %v", err)
	}

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Groups != 10 || c.Words != want.WordCount() {
		t.Errorf("counts: got %+v", c)
	}
}

func TestImportTaxonomy_Nil(t *testing.T) {
	s := openTestStore(t)
	if err := s.ImportTaxonomy(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil taxonomy")
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("LINGOQUIZ_DB", filepath.Join(dir, "a", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "a", "custom.db") {
		t.Errorf("got %q", p)
	}

	t.Setenv("LINGOQUIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "lingoquiz", "lingoquiz.db") {
		t.Errorf("got %q", p)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}
