// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Theme holds the resolved color/typography values a section is
// rendered with. After theme resolution every field is populated.
type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty"`
	AccentColor     string `json:"accentColor,omitempty"`
	FontDescription string `json:"fontDescription,omitempty"`
}

// DefaultTheme returns the system fallback values, applied per field
// when neither an active template nor the generated section provides
// one.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#1e293b",
		SecondaryColor:  "#ffffff",
		AccentColor:     "#3b82f6",
		FontDescription: "system-ui, sans-serif",
	}
}

// ArticleElement is a tagged variant over the element kinds, carrying
// both structural style (mirroring ElementSpec) and realized content.
type ArticleElement struct {
	Kind      ElementKind `json:"type"`
	Content   string      `json:"content,omitempty"`
	URL       string      `json:"url,omitempty"`
	Style     string      `json:"style,omitempty"`
	Alignment string      `json:"alignment,omitempty"`
	Size      string      `json:"size,omitempty"`
	Position  string      `json:"position,omitempty"`
	Items     []string    `json:"items,omitempty"`
}

// rawElement tolerates the aliases models emit in practice: CTA labels
// under "text" and image references under "content".
type rawElement struct {
	Kind      ElementKind `json:"type"`
	Content   string      `json:"content"`
	Text      string      `json:"text"`
	URL       string      `json:"url"`
	Style     string      `json:"style"`
	Alignment string      `json:"alignment"`
	Size      string      `json:"size"`
	Position  string      `json:"position"`
	Items     []string    `json:"items"`
}

// UnmarshalJSON decodes an element, folding the legacy aliases into
// the canonical fields.
func (e *ArticleElement) UnmarshalJSON(data []byte) error {
	var raw rawElement
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ArticleElement{
		Kind:      raw.Kind,
		Content:   raw.Content,
		URL:       raw.URL,
		Style:     raw.Style,
		Alignment: raw.Alignment,
		Size:      raw.Size,
		Position:  raw.Position,
		Items:     raw.Items,
	}
	if e.Kind == ElementCTA && e.Content == "" {
		e.Content = raw.Text
	}
	if e.Kind == ElementImage && e.URL == "" {
		e.URL = raw.Content
	}
	return nil
}

// ArticleSection is one rendered region of an article: an ordered
// element sequence plus the theme it is painted with. QRCode flags a
// decorative QR block appended after the elements; it has no bearing
// on structural matching.
type ArticleSection struct {
	ID       string           `json:"id"`
	Kind     string           `json:"type"`
	Elements []ArticleElement `json:"elements"`
	Theme    Theme            `json:"theme"`
	QRCode   bool             `json:"qrCode,omitempty"`
}

// rawSection covers both section shapes the wire can carry: the
// canonical elements sequence and the legacy flat fields (title, text,
// points, image, cta directly on the section).
type rawSection struct {
	ID       string           `json:"id"`
	Kind     string           `json:"type"`
	Elements []ArticleElement `json:"elements"`
	Theme    Theme            `json:"theme"`
	QRCode   bool             `json:"qrCode"`

	Title  string   `json:"title"`
	Text   string   `json:"text"`
	Points []string `json:"points"`
	Image  string   `json:"image"`
	CTA    string   `json:"cta"`
}

// UnmarshalJSON decodes a section and normalizes the legacy flat shape
// into the canonical elements sequence, so downstream stages only ever
// see one representation.
func (s *ArticleSection) UnmarshalJSON(data []byte) error {
	var raw rawSection
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ArticleSection{
		ID:       raw.ID,
		Kind:     raw.Kind,
		Elements: raw.Elements,
		Theme:    raw.Theme,
		QRCode:   raw.QRCode,
	}
	if len(s.Elements) > 0 {
		return nil
	}
	// Legacy flat section: synthesize elements in the order the flat
	// shape renders them (title, image, text, points, cta).
	if raw.Title != "" {
		s.Elements = append(s.Elements, ArticleElement{Kind: ElementTitle, Content: raw.Title, Style: "large"})
	}
	if raw.Image != "" {
		s.Elements = append(s.Elements, ArticleElement{Kind: ElementImage, URL: raw.Image, Size: "full"})
	}
	if raw.Text != "" {
		s.Elements = append(s.Elements, ArticleElement{Kind: ElementText, Content: raw.Text, Style: "paragraph"})
	}
	if len(raw.Points) > 0 {
		s.Elements = append(s.Elements, ArticleElement{Kind: ElementList, Items: raw.Points, Style: "bullet"})
	}
	if raw.CTA != "" {
		s.Elements = append(s.Elements, ArticleElement{Kind: ElementCTA, Content: raw.CTA})
	}
	return nil
}

// ElementKinds returns the ordered kind sequence of the section.
func (s ArticleSection) ElementKinds() []ElementKind {
	kinds := make([]ElementKind, len(s.Elements))
	for i, el := range s.Elements {
		kinds[i] = el.Kind
	}
	return kinds
}

// Article is an ordered sequence of sections, either freshly generated
// or reloaded from persistence, ready for rendering.
type Article struct {
	Sections []ArticleSection `json:"sections"`
}

// Title returns the article's display title: the first title element
// of the first section, or fallback when none exists.
func (a *Article) Title(fallback string) string {
	if len(a.Sections) > 0 {
		for _, el := range a.Sections[0].Elements {
			if el.Kind == ElementTitle && el.Content != "" {
				return el.Content
			}
		}
	}
	return fallback
}

// PublishedArticle is the persisted, shareable snapshot of an article.
type PublishedArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Article   Article   `json:"article"`
	CreatedAt time.Time `json:"created_at"`
}
