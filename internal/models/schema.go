// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared across the pipeline:
// the structure-only TemplateSchema extracted from a source page, and
// the content-bearing Article produced by generation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ElementKind identifies the typed units a section can contain.
type ElementKind string

const (
	ElementTitle ElementKind = "title"
	ElementImage ElementKind = "image"
	ElementText  ElementKind = "text"
	ElementList  ElementKind = "list"
	ElementCTA   ElementKind = "cta"
)

// SchemaElementKinds are the kinds a TemplateSchema may declare.
// CTA elements appear only in generated articles, as trailing
// decoration the structural match tolerates.
var SchemaElementKinds = []ElementKind{ElementTitle, ElementImage, ElementText, ElementList}

// ValidSchemaKind reports whether k may appear in an ElementSpec.
func ValidSchemaKind(k ElementKind) bool {
	for _, v := range SchemaElementKinds {
		if k == v {
			return true
		}
	}
	return false
}

// StyleAnalysis holds the color scheme and typography intent extracted
// from a source page. Colors are 6-digit hex strings.
type StyleAnalysis struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	FontDescription string `json:"fontDescription"`
	OverallStyle    string `json:"overallStyle"`
}

// ElementSpec describes one element slot in a section: its kind and
// style attributes, never any content.
type ElementSpec struct {
	Kind      ElementKind `json:"type"`
	Style     string      `json:"style,omitempty"`
	Alignment string      `json:"alignment,omitempty"`
	Size      string      `json:"size,omitempty"`
	Position  string      `json:"position,omitempty"`
	Items     int         `json:"items,omitempty"`
}

// SectionSpec is one layout region of the source page. Element order
// follows intra-section layout order and is semantically meaningful.
type SectionSpec struct {
	Kind     string        `json:"type"`
	Elements []ElementSpec `json:"elements"`
}

// ElementKinds returns the ordered kind sequence of the section's
// elements. This sequence is the structural contract generation must
// reproduce.
func (s SectionSpec) ElementKinds() []ElementKind {
	kinds := make([]ElementKind, len(s.Elements))
	for i, el := range s.Elements {
		kinds[i] = el.Kind
	}
	return kinds
}

// TemplateSchema is the structure-only description of a page's visual
// layout: colors, typography intent, and the ordered section/element
// tree. Section order follows the top-to-bottom reading order of the
// source page. Immutable once stored.
type TemplateSchema struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Style       StyleAnalysis     `json:"style"`
	Sections    []SectionSpec     `json:"sections"`
	TitleStyle  map[string]string `json:"titleStyle,omitempty"`
	ListStyle   map[string]string `json:"listStyle,omitempty"`
	ImageStyle  map[string]string `json:"imageStyle,omitempty"`
}

// Template is the persisted record wrapping an extracted schema,
// owned by the template library.
type Template struct {
	ID        uuid.UUID      `json:"id"`
	FileName  string         `json:"file_name"`
	IsActive  bool           `json:"is_active"`
	Schema    TemplateSchema `json:"schema"`
	CreatedAt time.Time      `json:"created_at"`
}

// LibraryDoc is a reference document whose excerpt is injected as
// labeled context into generation requests.
type LibraryDoc struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
