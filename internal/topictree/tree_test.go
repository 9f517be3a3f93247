package topictree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/sample"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
	"github.com/abhisek/lingoquiz/internal/topic"
)

func annotatedSample(t *testing.T) (*Tree, *index.Index) {
	t.Helper()
	idx := index.Build(sample.MustLessons())
	tree := Build(sample.MustTaxonomy())
	require.NoError(t, tree.Annotate(idx))
	return tree, idx
}

func TestBuild_Structure(t *testing.T) {
	tree := Build(sample.MustTaxonomy())
	nodes := tree.Nodes()
	require.Len(t, nodes, len(taxonomy.AllFamilies()))

	var ids []topic.ID
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, topic.IDs(
		"group:artcl", "group:conj", "group:pron", "group:prep",
		"group:adv", "group:noun", "group:verb",
	), ids)

	pron := nodes[2]
	require.Len(t, pron.Children, 4)
	assert.Equal(t, topic.ID("group:pron.dem"), pron.Children[0].ID)
	assert.Equal(t, topic.ID("group:pron.interr"), pron.Children[1].ID)
	assert.Equal(t, topic.ID("group:pron.subject"), pron.Children[2].ID)
	assert.Equal(t, topic.ID("group:pron.dobj"), pron.Children[3].ID)
	assert.Equal(t, "Direct object", pron.Children[3].Label)

	yo := pron.Children[2].Children[0]
	assert.Equal(t, topic.ID("word:pron.subject.yo"), yo.ID)
	assert.Equal(t, "yo", yo.Label)
	assert.Empty(t, yo.Children)

	assert.False(t, tree.Annotated())
	assert.Empty(t, nodes[0].PathLabel)
}

func TestAnnotate_CandidateCounts(t *testing.T) {
	tree, idx := annotatedSample(t)

	for _, row := range tree.Flatten() {
		assert.Equal(t, idx.CandidateCount(row.ID), row.CandidateCount, row.ID)
	}

	el, ok := tree.Lookup(topic.Word("artcl.el"))
	require.True(t, ok)
	assert.Equal(t, len(idx.SentencesFor(topic.Word("artcl.el"))), el.CandidateCount)
	assert.Equal(t, 4, el.CandidateCount)

	subj, ok := tree.Lookup(topic.Group("pron", "subject"))
	require.True(t, ok)
	assert.Equal(t, 5, subj.CandidateCount)

	// A taxonomy word absent from the corpus still appears, with zero.
	una, ok := tree.Lookup(topic.Word("artcl.una"))
	require.True(t, ok)
	assert.Equal(t, 0, una.CandidateCount)

	assert.True(t, tree.Annotated())
	assert.Equal(t, idx.Version(), tree.IndexVersion())
}

func TestAnnotate_PathLabels(t *testing.T) {
	tree, _ := annotatedSample(t)

	n, ok := tree.Lookup(topic.Word("pron.dobj.lo"))
	require.True(t, ok)
	assert.Equal(t, "Pronouns/Direct object/lo", n.PathLabel)

	n, ok = tree.Lookup(topic.Group("verb"))
	require.True(t, ok)
	assert.Equal(t, "Verbs", n.PathLabel)
	assert.Equal(t, "Verbs/ser", n.Children[0].PathLabel)
}

func TestAnnotate_NilIndex(t *testing.T) {
	tree := Build(sample.MustTaxonomy())
	assert.Error(t, tree.Annotate(nil))
}

func TestFlatten_Depths(t *testing.T) {
	tree, _ := annotatedSample(t)
	rows := tree.Flatten()
	require.Len(t, rows, tree.Len())

	assert.Equal(t, topic.ID("group:artcl"), rows[0].ID)
	assert.Equal(t, 0, rows[0].Depth)
	assert.False(t, rows[0].Leaf)
	assert.Equal(t, topic.ID("word:artcl.el"), rows[1].ID)
	assert.Equal(t, 1, rows[1].Depth)
	assert.True(t, rows[1].Leaf)

	for _, r := range rows {
		if r.ID == topic.Word("pron.subject.yo") {
			assert.Equal(t, 2, r.Depth)
		}
	}
}

func TestLabel(t *testing.T) {
	tree, _ := annotatedSample(t)
	assert.Equal(t, "Articles/el", tree.Label(topic.Word("artcl.el")))
	assert.Equal(t, "Part of speech/verb", tree.Label(topic.POS("verb")))
	assert.Equal(t, "ir", tree.Label(topic.Word("verb.ir")))
	assert.Equal(t, "adj", tree.Label(topic.Group("adj")))
	assert.Equal(t, "junk", tree.Label(topic.ID("junk")))
}

func TestBuild_EmptyTaxonomy(t *testing.T) {
	tree := Build(nil)
	nodes := tree.Nodes()
	require.Len(t, nodes, 7)
	assert.Len(t, nodes[2].Children, 4)
	assert.Empty(t, nodes[0].Children)
}

func TestTopicNodeJSON(t *testing.T) {
	tree, _ := annotatedSample(t)
	n, ok := tree.Lookup(topic.Word("verb.ser"))
	require.True(t, ok)

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "word:verb.ser",
		"label": "ser",
		"info": "also es, soy, eres",
		"candidateCount": 5,
		"pathLabel": "Verbs/ser"
	}`, string(raw))
}
