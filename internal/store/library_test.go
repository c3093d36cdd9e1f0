// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"pagepress/internal/models"
)

func TestLibraryStoreCreateListDelete(t *testing.T) {
	db := testDB(t)
	s := NewLibraryStore(db)

	name := "doc-" + uuid.NewString()[:8]
	created, err := s.Create(&models.LibraryDoc{
		Name:        name,
		Content:     "brand voice: friendly, concise",
		ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(created.ID) })

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	docs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, d := range docs {
		if d.ID == created.ID {
			found = true
			if d.Content != "brand voice: friendly, concise" {
				t.Error("content mismatch")
			}
		}
	}
	if !found {
		t.Error("created doc not in listing")
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(created.ID); err == nil {
		t.Error("expected error deleting missing doc")
	}
}
