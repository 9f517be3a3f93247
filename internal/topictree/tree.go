// Package topictree projects the taxonomy into a browsable hierarchy
// annotated with live candidate counts from the index.
package topictree

import (
	"errors"
	"strings"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
	"github.com/abhisek/lingoquiz/internal/topic"
)

// pathSep joins ancestor labels in PathLabel.
const pathSep = "/"

// TopicNode is the exported, nested view of a tree node.
type TopicNode struct {
	ID             topic.ID    `json:"id"`
	Label          string      `json:"label"`
	Info           string      `json:"info,omitempty"`
	Children       []TopicNode `json:"children,omitempty"`
	CandidateCount int         `json:"candidateCount"`
	PathLabel      string      `json:"pathLabel"`
}

// Row is one line of the depth-first flattened tree.
type Row struct {
	ID             topic.ID
	Label          string
	Info           string
	PathLabel      string
	CandidateCount int
	Depth          int
	Leaf           bool
}

// node is an arena entry. Parent and children refer to arena positions.
type node struct {
	id       topic.ID
	label    string
	info     string
	parent   int
	children []int

	candidateCount int
	pathLabel      string
}

// Tree is an arena of topic nodes. Internal nodes are group topics and
// leaves are word topics.
type Tree struct {
	nodes     []node
	roots     []int
	byID      map[topic.ID]int
	annotated bool
	version   string
}

// Build creates the tree structure for the fixed families. Candidate
// counts and path labels stay empty until Annotate.
func Build(tax *taxonomy.Taxonomy) *Tree {
	t := &Tree{byID: make(map[topic.ID]int)}

	for _, f := range taxonomy.AllFamilies() {
		root := t.add(-1, topic.Group(f.Segment()), f.DisplayName(), f.Info())

		if f != taxonomy.FamilyPronouns {
			t.addWords(root, tax.Words(f, ""))
			continue
		}
		for _, k := range taxonomy.AllPronounKinds() {
			sub := t.add(root, topic.Group(taxonomy.PronounSegment, k.Segment()), k.DisplayName(), "")
			t.addWords(sub, tax.Words(f, k))
		}
	}
	return t
}

func (t *Tree) addWords(parent int, words []corpus.Word) {
	for _, w := range words {
		if w.ID == "" {
			continue
		}
		info := ""
		if len(w.Alternates) > 0 {
			info = "also " + strings.Join(w.Alternates, ", ")
		}
		t.add(parent, topic.Word(w.ID), WordLabel(w.ID), info)
	}
}

func (t *Tree) add(parent int, id topic.ID, label, info string) int {
	pos := len(t.nodes)
	t.nodes = append(t.nodes, node{id: id, label: label, info: info, parent: parent})
	if parent < 0 {
		t.roots = append(t.roots, pos)
	} else {
		t.nodes[parent].children = append(t.nodes[parent].children, pos)
	}
	// First occurrence wins for lookups when the taxonomy repeats a word.
	if _, ok := t.byID[id]; !ok {
		t.byID[id] = pos
	}
	return pos
}

// WordLabel returns the display label for a word id: its last segment.
func WordLabel(wordID string) string {
	if i := strings.LastIndex(wordID, "."); i >= 0 {
		return wordID[i+1:]
	}
	return wordID
}

// Annotate fills candidate counts and path labels from idx with an
// explicit depth-first walk. It may be called again with a newer index.
func (t *Tree) Annotate(idx *index.Index) error {
	if idx == nil {
		return errors.New("annotate topic tree: index is nil")
	}

	type frame struct {
		pos        int
		parentPath string
	}
	stack := make([]frame, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{pos: t.roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[f.pos]
		n.candidateCount = idx.CandidateCount(n.id)
		if f.parentPath == "" {
			n.pathLabel = n.label
		} else {
			n.pathLabel = f.parentPath + pathSep + n.label
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{pos: n.children[i], parentPath: n.pathLabel})
		}
	}

	t.annotated = true
	t.version = idx.Version()
	return nil
}

// Annotated reports whether Annotate has run.
func (t *Tree) Annotated() bool { return t.annotated }

// IndexVersion returns the version of the index used by the last Annotate.
func (t *Tree) IndexVersion() string { return t.version }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns the nested view of the tree in family order.
func (t *Tree) Nodes() []TopicNode {
	out := make([]TopicNode, 0, len(t.roots))
	for _, r := range t.roots {
		out = append(out, t.export(r))
	}
	return out
}

func (t *Tree) export(pos int) TopicNode {
	n := t.nodes[pos]
	tn := TopicNode{
		ID:             n.id,
		Label:          n.label,
		Info:           n.info,
		CandidateCount: n.candidateCount,
		PathLabel:      n.pathLabel,
	}
	if len(n.children) > 0 {
		tn.Children = make([]TopicNode, 0, len(n.children))
		for _, c := range n.children {
			tn.Children = append(tn.Children, t.export(c))
		}
	}
	return tn
}

// Lookup returns the node for a topic id, including its subtree.
func (t *Tree) Lookup(id topic.ID) (TopicNode, bool) {
	pos, ok := t.byID[id]
	if !ok {
		return TopicNode{}, false
	}
	return t.export(pos), true
}

// Flatten returns the tree as depth-first rows, the order a list view shows.
func (t *Tree) Flatten() []Row {
	rows := make([]Row, 0, len(t.nodes))

	type frame struct{ pos, depth int }
	stack := make([]frame, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{pos: t.roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.pos]
		rows = append(rows, Row{
			ID:             n.id,
			Label:          n.label,
			Info:           n.info,
			PathLabel:      n.pathLabel,
			CandidateCount: n.candidateCount,
			Depth:          f.depth,
			Leaf:           len(n.children) == 0,
		})
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{pos: n.children[i], depth: f.depth + 1})
		}
	}
	return rows
}

// Label resolves a display label for any topic id. Tree topics use their
// path label once annotated; other topics fall back to a readable form
// of the key.
func (t *Tree) Label(id topic.ID) string {
	if pos, ok := t.byID[id]; ok {
		n := t.nodes[pos]
		if n.pathLabel != "" {
			return n.pathLabel
		}
		return n.label
	}
	switch id.Namespace() {
	case topic.NamespaceWord:
		return WordLabel(id.Key())
	case topic.NamespacePOS:
		return "Part of speech" + pathSep + id.Key()
	case topic.NamespaceGroup:
		return id.Key()
	default:
		return string(id)
	}
}
