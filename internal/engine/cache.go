package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
	"github.com/abhisek/lingoquiz/internal/topictree"
)

// CorpusProvider supplies the lessons to index.
type CorpusProvider interface {
	Lessons(ctx context.Context) ([]corpus.Lesson, error)
}

// TaxonomyProvider supplies the grouped word dictionary.
type TaxonomyProvider interface {
	Taxonomy(ctx context.Context) (*taxonomy.Taxonomy, error)
}

// Cache memoizes the index and the annotated topic tree. Concurrent first
// access triggers a single build per structure, detached from the caller
// contexts. Invalidate bumps a
// generation counter so builds that started earlier never publish.
type Cache struct {
	corpus   CorpusProvider
	taxonomy TaxonomyProvider
	log      logrus.FieldLogger

	group singleflight.Group

	mu   sync.Mutex
	gen  uint64
	idx  *index.Index
	tree *topictree.Tree
}

// NewCache creates an empty cache over the given providers.
func NewCache(c CorpusProvider, t TaxonomyProvider, log logrus.FieldLogger) *Cache {
	return &Cache{corpus: c, taxonomy: t, log: log}
}

// Index returns the cached index, building it on first use.
func (c *Cache) Index(ctx context.Context) (*index.Index, error) {
	c.mu.Lock()
	if c.idx != nil {
		idx := c.idx
		c.mu.Unlock()
		return idx, nil
	}
	gen := c.gen
	c.mu.Unlock()

	build := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("index/%d", gen), func() (any, error) {
		if idx := c.published(gen); idx != nil {
			return idx, nil
		}
		lessons, err := c.corpus.Lessons(build)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		idx := index.Build(lessons)
		c.logBuild(idx)

		c.mu.Lock()
		if c.gen == gen && c.idx == nil {
			c.idx = idx
		}
		c.mu.Unlock()
		return idx, nil
	})
	v, err := wait(ctx, ch)
	if err != nil {
		return nil, err
	}
	return v.(*index.Index), nil
}

// Tree returns the cached annotated topic tree, building the index first
// if needed.
func (c *Cache) Tree(ctx context.Context) (*topictree.Tree, error) {
	c.mu.Lock()
	if c.tree != nil {
		tree := c.tree
		c.mu.Unlock()
		return tree, nil
	}
	gen := c.gen
	c.mu.Unlock()

	build := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("tree/%d", gen), func() (any, error) {
		c.mu.Lock()
		if c.gen == gen && c.tree != nil {
			tree := c.tree
			c.mu.Unlock()
			return tree, nil
		}
		c.mu.Unlock()

		idx, err := c.Index(build)
		if err != nil {
			return nil, err
		}
		tax, err := c.taxonomy.Taxonomy(build)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		if err := taxonomy.Validate(tax); err != nil {
			c.log.WithError(err).Warn("taxonomy has structural problems")
		}

		tree := topictree.Build(tax)
		if err := tree.Annotate(idx); err != nil {
			return nil, err
		}
		c.log.WithFields(logrus.Fields{
			"nodes":         tree.Len(),
			"index_version": idx.Version(),
		}).Debug("topic tree built")

		c.mu.Lock()
		if c.gen == gen && c.tree == nil {
			c.tree = tree
		}
		c.mu.Unlock()
		return tree, nil
	})
	v, err := wait(ctx, ch)
	if err != nil {
		return nil, err
	}
	return v.(*topictree.Tree), nil
}

// wait blocks until the shared build finishes or the caller's own ctx is
// done. Builds run detached from any single caller, so one caller giving
// up never fails the others.
func wait(ctx context.Context, ch <-chan singleflight.Result) (any, error) {
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// published returns the index stored for gen, if a flight already
// finished between the caller's check and its own flight.
func (c *Cache) published(gen uint64) *index.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		return c.idx
	}
	return nil
}

// Invalidate discards both cached structures. The next access rebuilds
// from the providers' current state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.idx = nil
	c.tree = nil
}

// Generation returns the number of invalidations so far.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Cache) logBuild(idx *index.Index) {
	st := idx.Stats()
	entry := c.log.WithFields(logrus.Fields{
		"lessons":   st.Lessons,
		"sentences": st.Sentences,
		"topics":    st.Topics,
		"version":   idx.Version(),
	})
	if st.SkippedMalformed > 0 || st.SkippedDuplicates > 0 {
		entry.WithFields(logrus.Fields{
			"skipped_malformed":  st.SkippedMalformed,
			"skipped_duplicates": st.SkippedDuplicates,
		}).Warn("index built with skipped sentences")
		return
	}
	entry.Info("index built")
}
