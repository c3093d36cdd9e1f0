// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package article parses raw model output into an Article, checks it
// against the active template's structural contract, and resolves the
// render theme. Structural mismatches are repaired best-effort rather
// than rejected: the consuming surface is a live preview, so a
// degraded-but-renderable article beats a hard failure. Every repair
// is recorded and returned to the caller.
package article

import (
	"encoding/json"
	"fmt"
	"strings"

	"pagepress/internal/fault"
	"pagepress/internal/models"
)

// RepairKind labels a single repair action applied during structural
// matching.
type RepairKind string

const (
	// RepairDroppedElement — an element of the wrong kind sat at a
	// position the template requires; it was removed.
	RepairDroppedElement RepairKind = "dropped_element"

	// RepairMissingElement — the template requires an element the
	// model never produced for that section.
	RepairMissingElement RepairKind = "missing_element"

	// RepairSynthesizedSection — the model returned fewer sections
	// than the template; an empty one was added in its place.
	RepairSynthesizedSection RepairKind = "synthesized_section"

	// RepairTruncatedSection — the model returned more sections than
	// the template; the surplus was removed.
	RepairTruncatedSection RepairKind = "truncated_section"
)

// Repair records one action taken while forcing the generated article
// into the template's shape.
type Repair struct {
	Kind     RepairKind `json:"kind"`
	Section  int        `json:"section"`
	Position int        `json:"position"`
	Detail   string     `json:"detail"`
}

// StripFences removes a leading/trailing triple-backtick code fence
// (with optional language tag) that models commonly wrap JSON in.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line (e.g. "json").
		first := strings.TrimSpace(s[:i])
		if first == "" || !strings.ContainsAny(first, "{}[]") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Parse turns raw model text into an Article. The wire shape is an
// array of sections; a wrapped {"sections": [...]} object (the
// persisted form) is accepted too. Returns fault.Format with a bounded
// excerpt when neither parses.
func Parse(raw string) (*models.Article, error) {
	clean := StripFences(raw)

	var sections []models.ArticleSection
	if err := json.Unmarshal([]byte(clean), &sections); err == nil && sections != nil {
		return &models.Article{Sections: sections}, nil
	}

	var wrapped models.Article
	if err := json.Unmarshal([]byte(clean), &wrapped); err == nil && wrapped.Sections != nil {
		return &wrapped, nil
	}

	return nil, fault.NewFormat("model response is not a section array", clean)
}

// MatchSchema forces the article into the template's structural
// contract, mutating it in place and returning the repairs applied.
//
// Rules: the section count must equal the template's (missing sections
// are synthesized empty, surplus ones removed); within each section
// the element-kind sequence must match the template's sequence up to
// the template's element count. Wrong-kind elements at required
// positions are dropped; extra trailing elements are kept, letting the
// model add decoration such as a closing CTA.
func MatchSchema(a *models.Article, schema *models.TemplateSchema) []Repair {
	if schema == nil {
		return nil
	}
	var repairs []Repair

	want := len(schema.Sections)
	if len(a.Sections) > want {
		for i := want; i < len(a.Sections); i++ {
			repairs = append(repairs, Repair{
				Kind:    RepairTruncatedSection,
				Section: i,
				Detail:  fmt.Sprintf("template defines %d sections, removed surplus section %d", want, i+1),
			})
		}
		a.Sections = a.Sections[:want]
	}
	for len(a.Sections) < want {
		i := len(a.Sections)
		a.Sections = append(a.Sections, models.ArticleSection{
			ID:   fmt.Sprintf("section-%d", i+1),
			Kind: schema.Sections[i].Kind,
		})
		repairs = append(repairs, Repair{
			Kind:    RepairSynthesizedSection,
			Section: i,
			Detail:  fmt.Sprintf("model omitted section %d, synthesized empty %s section", i+1, schema.Sections[i].Kind),
		})
	}

	for i := range a.Sections {
		repairs = append(repairs, matchSection(&a.Sections[i], schema.Sections[i], i)...)
	}
	return repairs
}

// matchSection aligns one section's elements to the template's
// required kind sequence.
func matchSection(sec *models.ArticleSection, spec models.SectionSpec, index int) []Repair {
	var repairs []Repair
	els := sec.Elements
	out := make([]models.ArticleElement, 0, len(els))
	pos := 0

	for j, required := range spec.ElementKinds() {
		// Locate the next element of the required kind. Elements of
		// other kinds sitting before it are out of position and get
		// dropped; if the kind never appears, nothing is consumed.
		found := -1
		for k := pos; k < len(els); k++ {
			if els[k].Kind == required {
				found = k
				break
			}
		}
		if found == -1 {
			repairs = append(repairs, Repair{
				Kind:     RepairMissingElement,
				Section:  index,
				Position: j,
				Detail:   fmt.Sprintf("template requires %s at position %d, model produced none", required, j+1),
			})
			continue
		}
		for k := pos; k < found; k++ {
			repairs = append(repairs, Repair{
				Kind:     RepairDroppedElement,
				Section:  index,
				Position: k,
				Detail:   fmt.Sprintf("dropped out-of-position %s (template requires %s here)", els[k].Kind, required),
			})
		}
		out = append(out, els[found])
		pos = found + 1
	}

	// Trailing extras beyond the template's element count are
	// tolerated.
	out = append(out, els[pos:]...)
	sec.Elements = out
	return repairs
}
