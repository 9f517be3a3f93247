package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoquiz/internal/schema"
)

const sampleDoc = `{
  "lessons": [
    {"id": "l2", "title": "Second", "order": 2, "sentences": [
      {"id": 3, "phrases": [{"phrase": "Yo", "translation": {"id": "pron.subject.yo", "pos": "pronoun"}}]}
    ]},
    {"id": "l1", "title": "First", "order": 1, "sentences": [
      {"id": 1, "phrases": [{"phrase": "El", "translation": {"id": "artcl.el"}}, {"phrase": "gato", "translation": "cat"}]},
      {"id": "abc", "phrases": []},
      {"id": 2},
      "garbage",
      {"id": 4, "phrases": [7, {"phrase": "es", "translation": [{"id": "verb.ser"}]}]}
    ]}
  ]
}`

func TestDecode(t *testing.T) {
	lessons, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	// Sorted by order.
	assert.Equal(t, "l1", lessons[0].ID)
	assert.Equal(t, "l2", lessons[1].ID)

	first := lessons[0].Sentences
	require.Len(t, first, 5)

	assert.True(t, first[0].Valid())
	assert.Equal(t, 1, first[0].SentenceID())
	assert.Equal(t, "El gato", first[0].Text())
	assert.Equal(t, AnnotationWord, first[0].Phrases[0].Translation.Kind)
	assert.Equal(t, AnnotationText, first[0].Phrases[1].Translation.Kind)

	// Non-integer id.
	assert.False(t, first[1].Valid())
	assert.Nil(t, first[1].ID)

	// Missing phrase list.
	assert.False(t, first[2].Valid())
	assert.Equal(t, 2, first[2].SentenceID())

	// Not an object at all.
	assert.False(t, first[3].Valid())

	// Non-object phrase entries are dropped.
	require.True(t, first[4].Valid())
	require.Len(t, first[4].Phrases, 1)
	assert.Equal(t, AnnotationWords, first[4].Phrases[0].Translation.Kind)
}

func TestDecode_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"no lessons", `{}`},
		{"lesson without id", `{"lessons":[{"sentences":[]}]}`},
		{"lesson without sentences", `{"lessons":[{"id":"l1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			var invalid *schema.ErrInvalidDocument
			assert.True(t, errors.As(err, &invalid))
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"corpus.json": {Data: []byte(sampleDoc)}}
	lessons, err := LoadFS(fsys, "corpus.json")
	require.NoError(t, err)
	assert.Len(t, lessons, 2)

	_, err = LoadFS(fsys, "missing.json")
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	lessons, err := FileProvider{Path: path}.Lessons(context.Background())
	require.NoError(t, err)
	assert.Len(t, lessons, 2)
}

func TestSentenceHelpers(t *testing.T) {
	s := NewSentence(9)
	assert.True(t, s.Valid())
	assert.NotNil(t, s.Phrases)
	assert.Equal(t, "", s.Text())

	var zero Sentence
	assert.False(t, zero.Valid())
	assert.Equal(t, 0, zero.SentenceID())
}
