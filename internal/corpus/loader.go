package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/abhisek/lingoquiz/internal/schema"
)

// Document is the on-disk corpus layout.
type Document struct {
	Lessons []Lesson `json:"lessons"`
}

// Decode validates raw against DocumentSchema and decodes it. Lessons are
// returned sorted by Order (stable, so equal orders keep file order).
func Decode(raw []byte) ([]Lesson, error) {
	if err := schema.Validate(DocumentSchema, raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	sort.SliceStable(doc.Lessons, func(i, j int) bool {
		return doc.Lessons[i].Order < doc.Lessons[j].Order
	})
	return doc.Lessons, nil
}

// LoadFS reads and decodes a corpus document from fsys.
func LoadFS(fsys fs.FS, name string) ([]Lesson, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", name, err)
	}
	lessons, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", name, err)
	}
	return lessons, nil
}

// LoadFile reads and decodes a corpus document from the local filesystem.
func LoadFile(path string) ([]Lesson, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	lessons, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return lessons, nil
}

// FileProvider serves lessons from a JSON file, re-reading it on every call
// so an index reset picks up edits.
type FileProvider struct {
	Path string
}

// Lessons implements the engine's corpus provider contract.
func (p FileProvider) Lessons(_ context.Context) ([]Lesson, error) {
	return LoadFile(p.Path)
}

// StaticProvider serves a fixed set of lessons.
type StaticProvider []Lesson

// Lessons implements the engine's corpus provider contract.
func (p StaticProvider) Lessons(_ context.Context) ([]Lesson, error) {
	return []Lesson(p), nil
}
