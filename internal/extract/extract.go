// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package extract turns sanitized page text into a TemplateSchema by
// asking the active model to describe the page's layout as a fixed
// JSON shape. The instruction pins section ordering to top-to-bottom
// visual order and element ordering to intra-section layout order —
// that ordering is the contract later generation is matched against.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pagepress/internal/ai"
	"pagepress/internal/article"
	"pagepress/internal/fault"
	"pagepress/internal/models"
)

// DefaultTimeout bounds the extraction call client-side, tighter than
// any execution ceiling the endpoint itself runs under.
const DefaultTimeout = 8 * time.Second

// instruction is the structural-extraction prompt. Every schema field
// is named explicitly with its enumerated options so the response
// parses into models.TemplateSchema without guessing.
const instruction = `Analyze the layout and visual design of the following web article.

Return a single JSON object with exactly these fields:
{
  "name": "short template name (3-5 words)",
  "description": "one sentence on the template's character and best use",
  "style": {
    "primaryColor": "#rrggbb main color",
    "secondaryColor": "#rrggbb background/secondary color",
    "accentColor": "#rrggbb accent color",
    "fontDescription": "description of the typography",
    "overallStyle": "overall feel (e.g. minimal-business / playful / luxury / fresh-natural)"
  },
  "sections": [
    {
      "type": "header|content|list|image-text|cta|contact",
      "elements": [
        { "type": "title", "style": "large|medium|small", "alignment": "left|center|right" },
        { "type": "image", "size": "full|large|medium|small", "position": "top|bottom|left|right" },
        { "type": "text", "style": "paragraph|quote|highlight" },
        { "type": "list", "style": "bullet|number", "items": 3 }
      ]
    }
  ],
  "titleStyle": { "size": "large|medium|small", "weight": "bold|normal", "alignment": "left|center" },
  "listStyle": { "type": "bullet|number", "indentation": "normal|large", "spacing": "compact|normal|spacious" },
  "imageStyle": { "corners": "rounded|square", "shadow": "true|false", "caption": "true|false" }
}

Rules:
- The "sections" array must follow the page's top-to-bottom visual order.
- Each section's "elements" array must follow the layout order of the elements inside that section.
- Element "type" values are limited to title, image, text, list. Describe structure only — never copy actual page content into the schema.
- Note whether images sit above or below their text, their relative size, and any border or shadow treatment.

Return only the JSON object, with no markdown markers.

Page content:
---
%s
---`

// Extractor produces TemplateSchemas from sanitized page text.
type Extractor struct {
	reg     *ai.Registry
	timeout time.Duration
}

// New creates an Extractor using the registry's active provider. A
// non-positive timeout falls back to DefaultTimeout.
func New(reg *ai.Registry, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{reg: reg, timeout: timeout}
}

// Extract analyzes sanitized text and returns the extracted schema.
// Failures surface typed: fault.Timeout when the deadline expires,
// fault.UpstreamStatus on a non-success response, fault.Format when
// the response does not parse as the schema shape.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.TemplateSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	raw, err := e.reg.Generate(ctx, ai.Request{
		System:       "You are a web design analyst. You answer with a single JSON object and nothing else.",
		Parts:        []ai.Part{{Text: fmt.Sprintf(instruction, text)}},
		JSONResponse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract layout: %w", err)
	}
	slog.Debug("layout extraction call finished",
		"elapsed", time.Since(started),
		"response_len", len(raw),
	)

	schema, err := parseSchema(raw)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// parseSchema parses the raw response into a TemplateSchema and
// normalizes it: unknown element kinds are dropped, and a schema with
// no sections is rejected.
func parseSchema(raw string) (*models.TemplateSchema, error) {
	clean := article.StripFences(raw)

	var schema models.TemplateSchema
	if err := json.Unmarshal([]byte(clean), &schema); err != nil {
		return nil, fault.NewFormat("model response is not a template schema", clean)
	}
	if len(schema.Sections) == 0 {
		return nil, fault.NewFormat("extracted schema has no sections", clean)
	}

	for i := range schema.Sections {
		kept := schema.Sections[i].Elements[:0]
		for _, el := range schema.Sections[i].Elements {
			if models.ValidSchemaKind(el.Kind) {
				kept = append(kept, el)
			} else {
				slog.Warn("dropping schema element of unknown kind",
					"section", i, "kind", el.Kind)
			}
		}
		schema.Sections[i].Elements = kept
	}
	return &schema, nil
}
