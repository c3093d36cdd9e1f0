// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strings"
	"testing"

	"pagepress/internal/models"
)

func TestNewShareID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewShareID()
		if !strings.HasPrefix(id, "art_") {
			t.Fatalf("share ID %q missing prefix", id)
		}
		if len(id) != len("art_")+12 {
			t.Fatalf("share ID %q has wrong length", id)
		}
		if seen[id] {
			t.Fatalf("duplicate share ID %q", id)
		}
		seen[id] = true
	}
}

func TestPublishedStoreRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewPublishedStore(db)

	article := &models.Article{Sections: []models.ArticleSection{{
		ID:   "section-1",
		Kind: "header",
		Elements: []models.ArticleElement{
			{Kind: models.ElementTitle, Content: "Hello", Style: "large"},
		},
		Theme: models.DefaultTheme(),
	}}}

	created, err := s.Create("Hello", article)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(created.ID) })

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected article, got nil")
	}
	if found.Title != "Hello" {
		t.Errorf("title: got %q", found.Title)
	}
	if len(found.Article.Sections) != 1 || found.Article.Sections[0].Elements[0].Content != "Hello" {
		t.Error("article body did not round-trip")
	}

	// Unknown share IDs resolve to nil, not an error.
	missing, err := s.FindByID("art_000000000000")
	if err != nil {
		t.Fatalf("FindByID missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown share ID")
	}
}

func TestPublishedStoreList(t *testing.T) {
	db := testDB(t)
	s := NewPublishedStore(db)

	article := &models.Article{Sections: []models.ArticleSection{{
		Elements: []models.ArticleElement{{Kind: models.ElementText, Content: "body"}},
		Theme:    models.DefaultTheme(),
	}}}
	created, err := s.Create("Listed", article)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(created.ID) })

	list, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, a := range list {
		if a.ID == created.ID {
			found = true
			if len(a.Article.Sections) != 0 {
				t.Error("listing should not carry article bodies")
			}
		}
	}
	if !found {
		t.Error("created article not in listing")
	}
}
