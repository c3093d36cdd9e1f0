// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt builds generation requests. When a template is
// active, the request encodes the exact structural contract the output
// must satisfy: the resolved colors verbatim, the section count, and
// each section's ordered element-kind sequence with style attributes.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"pagepress/internal/ai"
	"pagepress/internal/models"
)

const (
	// docExcerptLimit caps each reference document's excerpt before
	// concatenation, bounding total request size.
	docExcerptLimit = 4000

	// freeMinSections/freeMaxSections bound the section count when no
	// template constrains generation.
	freeMinSections = 4
	freeMaxSections = 6
)

// systemRole sets the model's writing persona for article generation.
const systemRole = `You are an expert feature-article writer for mobile long-form pages. You produce engaging, emotionally resonant marketing copy with vivid language, and you always answer with pure JSON.`

// Input carries everything one generation request is built from.
type Input struct {
	Intent      string
	Schema      *models.TemplateSchema
	Documents   []models.LibraryDoc
	Attachments []models.Attachment
}

// Build assembles the generation request: the structural instruction
// as the leading text part, followed by one inline part per attached
// image.
func Build(in Input) ai.Request {
	var b strings.Builder

	fmt.Fprintf(&b, "User request: %q\n\n", in.Intent)

	if in.Schema != nil {
		writeSchemaContract(&b, in.Schema)
	}
	if n := len(in.Attachments); n > 0 {
		fmt.Fprintf(&b, "The user attached %d image(s). Study each image's content, mood and palette; write copy grounded in what the images actually show, and interleave the images contextually between the prose rather than grouping them.\n\n", n)
	}
	writeDocuments(&b, in.Documents)
	writeOutputContract(&b, in.Schema)

	parts := []ai.Part{{Text: b.String()}}
	for _, att := range in.Attachments {
		parts = append(parts, ai.Part{Inline: &ai.InlineData{
			MimeType: att.MimeType,
			Data:     att.Data,
		}})
	}

	return ai.Request{
		System:       systemRole,
		Parts:        parts,
		JSONResponse: true,
	}
}

// writeSchemaContract emits the hard structural constraints from the
// active template: verbatim colors and the per-section element layout.
func writeSchemaContract(b *strings.Builder, schema *models.TemplateSchema) {
	b.WriteString("IMPORTANT: generate content that strictly follows the template layout below.\n\n")

	b.WriteString("Color scheme — use these exact values, do not derive your own:\n")
	fmt.Fprintf(b, "- primaryColor: %q\n", schema.Style.PrimaryColor)
	fmt.Fprintf(b, "- secondaryColor: %q\n", schema.Style.SecondaryColor)
	fmt.Fprintf(b, "- accentColor: %q\n\n", schema.Style.AccentColor)

	fmt.Fprintf(b, "Layout structure — the template has exactly %d sections. You must generate exactly %d sections; deviation is not allowed. Each section's element types and their order must match the template:\n\n",
		len(schema.Sections), len(schema.Sections))

	for i, sec := range schema.Sections {
		fmt.Fprintf(b, "Section %d (%s):\n", i+1, sec.Kind)
		for j, el := range sec.Elements {
			fmt.Fprintf(b, "  %d. %s", j+1, el.Kind)
			if el.Style != "" {
				fmt.Fprintf(b, " (%s)", el.Style)
			}
			if el.Size != "" {
				fmt.Fprintf(b, " [%s]", el.Size)
			}
			if el.Alignment != "" {
				fmt.Fprintf(b, " aligned %s", el.Alignment)
			}
			if el.Position != "" {
				fmt.Fprintf(b, " positioned %s", el.Position)
			}
			if el.Items > 0 {
				fmt.Fprintf(b, " with %d items", el.Items)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeStyleHint(b, "Title style", schema.TitleStyle)
	writeStyleHint(b, "List style", schema.ListStyle)
	writeStyleHint(b, "Image style", schema.ImageStyle)
	b.WriteString("Every generated section must include a theme object.\n\n")
}

// writeStyleHint emits an auxiliary presentation hint map in a stable
// order.
func writeStyleHint(b *strings.Builder, label string, hints map[string]string) {
	if len(hints) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:", label)
	for _, key := range sortedKeys(hints) {
		fmt.Fprintf(b, " %s=%s", key, hints[key])
	}
	b.WriteString("\n")
}

// writeDocuments concatenates reference excerpts as labeled context
// blocks, each capped before concatenation.
func writeDocuments(b *strings.Builder, docs []models.LibraryDoc) {
	if len(docs) == 0 {
		return
	}
	b.WriteString("Reference material:\n")
	for _, doc := range docs {
		excerpt := doc.Content
		if len(excerpt) > docExcerptLimit {
			excerpt = excerpt[:docExcerptLimit]
		}
		fmt.Fprintf(b, "[document: %s]\n%s\n\n", doc.Name, excerpt)
	}
}

// writeOutputContract emits the required Article JSON shape and the
// closing rules.
func writeOutputContract(b *strings.Builder, schema *models.TemplateSchema) {
	b.WriteString(`Write a long-form promotional article. Requirements:
- compelling, creative copy with emotional resonance
- images interleaved between the text
- a clear call to action at the end
- no standalone cover section: begin directly with substantive content

Output a JSON array of sections in exactly this shape:
[
  {
    "id": "section-1",
    "type": "content",
    "elements": [
      { "type": "title", "content": "main headline", "style": "large", "alignment": "center" },
      { "type": "image", "url": "https://...", "size": "full", "position": "top" },
      { "type": "text", "content": "opening paragraph...", "style": "paragraph" },
      { "type": "list", "items": ["point 1", "point 2", "point 3"], "style": "bullet" },
      { "type": "cta", "content": "act now" }
    ],
    "theme": { "primaryColor": "#...", "secondaryColor": "#...", "accentColor": "#..." }
  }
]

Rules:
`)
	if schema != nil {
		fmt.Fprintf(b, "- generate exactly %d sections matching the template structure above\n", len(schema.Sections))
		b.WriteString("- use the template's color values verbatim in every theme\n")
	} else {
		fmt.Fprintf(b, "- generate %d-%d sections\n", freeMinSections, freeMaxSections)
	}
	b.WriteString(`- each section's "elements" array lists that section's elements in order
- return a pure JSON array only, with no markdown markers
`)
}

// sortedKeys returns map keys in ascending order so prompts are
// deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
