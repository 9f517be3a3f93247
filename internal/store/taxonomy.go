package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
)

// ImportTaxonomy replaces the stored taxonomy in one transaction.
func (s *Store) ImportTaxonomy(ctx context.Context, t *taxonomy.Taxonomy) error {
	if t == nil {
		return fmt.Errorf("import taxonomy: taxonomy is nil")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := execBuilt(ctx, tx, builder().Delete("taxonomy_words")); err != nil {
			return fmt.Errorf("clear taxonomy words: %w", err)
		}
		if err := execBuilt(ctx, tx, builder().Delete("taxonomy_groups")); err != nil {
			return fmt.Errorf("clear taxonomy groups: %w", err)
		}

		for gi, g := range t.Groups {
			ins := builder().Insert("taxonomy_groups").
				Columns("position", "family", "kind").
				Values(gi, string(g.Family), string(g.Kind))
			if err := execBuilt(ctx, tx, ins); err != nil {
				return fmt.Errorf("insert group %d: %w", gi, err)
			}

			for wi, w := range g.Words {
				alts := w.Alternates
				if alts == nil {
					alts = []string{}
				}
				b, err := json.Marshal(alts)
				if err != nil {
					return fmt.Errorf("marshal alternates of %s: %w", w.ID, err)
				}
				ins := builder().Insert("taxonomy_words").
					Columns("group_position", "position", "word_id", "pos", "alternates").
					Values(gi, wi, w.ID, w.POS, string(b))
				if err := execBuilt(ctx, tx, ins); err != nil {
					return fmt.Errorf("insert word %s: %w", w.ID, err)
				}
			}
		}
		return nil
	})
}

// Taxonomy returns the stored taxonomy. It implements the engine's
// taxonomy provider contract.
func (s *Store) Taxonomy(ctx context.Context) (*taxonomy.Taxonomy, error) {
	q, args := builder().Select("position", "family", "kind").
		From(builder().Table("taxonomy_groups")).
		OrderBy("position").
		Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query taxonomy groups: %w", err)
	}
	defer rows.Close()

	t := &taxonomy.Taxonomy{}
	byPos := make(map[int]int)
	for rows.Next() {
		var (
			pos          int
			family, kind string
		)
		if err := rows.Scan(&pos, &family, &kind); err != nil {
			return nil, fmt.Errorf("scan taxonomy group: %w", err)
		}
		byPos[pos] = len(t.Groups)
		t.Groups = append(t.Groups, taxonomy.Group{
			Family: taxonomy.Family(family),
			Kind:   taxonomy.PronounKind(kind),
			Words:  []corpus.Word{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate taxonomy groups: %w", err)
	}

	q, args = builder().Select("group_position", "word_id", "pos", "alternates").
		From(builder().Table("taxonomy_words")).
		OrderBy("group_position", "position").
		Query()
	wrows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query taxonomy words: %w", err)
	}
	defer wrows.Close()

	for wrows.Next() {
		var (
			gpos int
			w    corpus.Word
			alts string
		)
		if err := wrows.Scan(&gpos, &w.ID, &w.POS, &alts); err != nil {
			return nil, fmt.Errorf("scan taxonomy word: %w", err)
		}
		if err := json.Unmarshal([]byte(alts), &w.Alternates); err != nil {
			return nil, fmt.Errorf("decode alternates of %s: %w", w.ID, err)
		}
		if len(w.Alternates) == 0 {
			w.Alternates = nil
		}
		gi, ok := byPos[gpos]
		if !ok {
			continue
		}
		t.Groups[gi].Words = append(t.Groups[gi].Words, w)
	}
	if err := wrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate taxonomy words: %w", err)
	}
	return t, nil
}
