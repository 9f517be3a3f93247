package corpus

import "github.com/abhisek/lingoquiz/internal/schema"

// DocumentSchema describes the corpus file layout. Sentence internals are
// deliberately unconstrained: malformed sentences are tolerated and skipped
// at index time rather than rejected here.
var DocumentSchema = &schema.Schema{
	Name: "corpus",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"lessons"},
		"properties": map[string]any{
			"lessons": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "sentences"},
					"properties": map[string]any{
						"id":    map[string]any{"type": "string", "minLength": 1},
						"title": map[string]any{"type": "string"},
						"order": map[string]any{"type": "integer"},
						"sentences": map[string]any{
							"type": "array",
						},
					},
				},
			},
		},
	},
}
