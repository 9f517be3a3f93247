package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/lingoquiz/internal/schema"
)

// DocumentSchema describes the taxonomy file layout.
var DocumentSchema = &schema.Schema{
	Name: "taxonomy",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"groups"},
		"properties": map[string]any{
			"groups": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"family", "words"},
					"properties": map[string]any{
						"family": map[string]any{
							"type": "string",
							"enum": familyNames(),
						},
						"kind": map[string]any{
							"type": "string",
							"enum": pronounKindNames(),
						},
						"words": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []string{"id"},
								"properties": map[string]any{
									"id":  map[string]any{"type": "string", "minLength": 1},
									"pos": map[string]any{"type": "string"},
									"alternates": map[string]any{
										"type":  "array",
										"items": map[string]any{"type": "string"},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

func familyNames() []string {
	var out []string
	for _, f := range AllFamilies() {
		out = append(out, string(f))
	}
	return out
}

func pronounKindNames() []string {
	var out []string
	for _, k := range AllPronounKinds() {
		out = append(out, string(k))
	}
	return out
}

// Decode validates raw against DocumentSchema and decodes it.
func Decode(raw []byte) (*Taxonomy, error) {
	if err := schema.Validate(DocumentSchema, raw); err != nil {
		return nil, err
	}
	var t Taxonomy
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	return &t, nil
}

// LoadFS reads and decodes a taxonomy document from fsys.
func LoadFS(fsys fs.FS, name string) (*Taxonomy, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", name, err)
	}
	t, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", name, err)
	}
	return t, nil
}

// LoadFile reads and decodes a taxonomy document from the local filesystem.
func LoadFile(path string) (*Taxonomy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", path, err)
	}
	return t, nil
}

// FileProvider serves the taxonomy from a JSON file, re-reading on every call.
type FileProvider struct {
	Path string
}

// Taxonomy implements the engine's taxonomy provider contract.
func (p FileProvider) Taxonomy(_ context.Context) (*Taxonomy, error) {
	return LoadFile(p.Path)
}

// StaticProvider serves a fixed taxonomy.
type StaticProvider struct {
	T *Taxonomy
}

// Taxonomy implements the engine's taxonomy provider contract.
func (p StaticProvider) Taxonomy(_ context.Context) (*Taxonomy, error) {
	return p.T, nil
}
