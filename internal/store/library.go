// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pagepress/internal/models"
)

// LibraryStore persists reference documents that get folded into
// generation prompts as background material.
type LibraryStore struct {
	db *sql.DB
}

// NewLibraryStore creates a LibraryStore with the given database connection.
func NewLibraryStore(db *sql.DB) *LibraryStore {
	return &LibraryStore{db: db}
}

// List returns all library documents, newest first.
func (s *LibraryStore) List() ([]models.LibraryDoc, error) {
	rows, err := s.db.Query(`
		SELECT id, name, content, content_type, created_at
		FROM library_docs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list library docs: %w", err)
	}
	defer rows.Close()

	var docs []models.LibraryDoc
	for rows.Next() {
		var d models.LibraryDoc
		if err := rows.Scan(&d.ID, &d.Name, &d.Content, &d.ContentType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan library doc: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Create inserts a new library document.
func (s *LibraryStore) Create(d *models.LibraryDoc) (*models.LibraryDoc, error) {
	result := &models.LibraryDoc{}
	err := s.db.QueryRow(`
		INSERT INTO library_docs (name, content, content_type)
		VALUES ($1, $2, $3)
		RETURNING id, name, content, content_type, created_at
	`, d.Name, d.Content, d.ContentType).Scan(
		&result.ID, &result.Name, &result.Content, &result.ContentType, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create library doc: %w", err)
	}
	return result, nil
}

// Delete removes a library document by ID.
func (s *LibraryStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM library_docs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete library doc: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("library doc not found")
	}
	return nil
}
