// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pagepress/internal/models"
)

// TemplateStore persists analyzed layout templates. The extracted
// schema is stored as JSONB so it round-trips exactly as analyzed.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// List returns all templates, newest first.
func (s *TemplateStore) List() ([]models.Template, error) {
	rows, err := s.db.Query(`
		SELECT id, file_name, is_active, schema, created_at
		FROM templates
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRow(`
		SELECT id, file_name, is_active, schema, created_at
		FROM templates WHERE id = $1
	`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindActive returns the currently active template, or nil when no
// template has been activated yet.
func (s *TemplateStore) FindActive() (*models.Template, error) {
	row := s.db.QueryRow(`
		SELECT id, file_name, is_active, schema, created_at
		FROM templates WHERE is_active
	`)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active template: %w", err)
	}
	return t, nil
}

// Create inserts a new template. Newly analyzed templates start
// inactive; activation is an explicit step.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	schema, err := json.Marshal(t.Schema)
	if err != nil {
		return nil, fmt.Errorf("encode template schema: %w", err)
	}
	row := s.db.QueryRow(`
		INSERT INTO templates (file_name, is_active, schema)
		VALUES ($1, FALSE, $2)
		RETURNING id, file_name, is_active, schema, created_at
	`, t.FileName, schema)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return created, nil
}

// Activate makes a template the active one, deactivating whichever was
// active before. Uses a transaction so the single-active invariant
// holds even under concurrent calls.
func (s *TemplateStore) Activate(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT TRUE FROM templates WHERE id = $1`, id).Scan(&exists); err != nil {
		return fmt.Errorf("activate template: %w", err)
	}

	if _, err := tx.Exec(`UPDATE templates SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate templates: %w", err)
	}
	if _, err := tx.Exec(`UPDATE templates SET is_active = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("activate template: %w", err)
	}

	return tx.Commit()
}

// Delete removes a template. Deleting the active template clears the
// active selection.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("template not found")
	}
	return nil
}

// Count returns the total number of stored templates.
func (s *TemplateStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	t := &models.Template{}
	var schema []byte
	if err := row.Scan(&t.ID, &t.FileName, &t.IsActive, &schema, &t.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(schema, &t.Schema); err != nil {
		return nil, fmt.Errorf("decode template schema: %w", err)
	}
	return t, nil
}
