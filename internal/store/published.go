// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pagepress/internal/models"
)

// PublishedStore persists published article snapshots under short
// share IDs. A snapshot is immutable once written; republishing the
// same content mints a new ID.
type PublishedStore struct {
	db *sql.DB
}

// NewPublishedStore creates a PublishedStore with the given database connection.
func NewPublishedStore(db *sql.DB) *PublishedStore {
	return &PublishedStore{db: db}
}

// NewShareID mints a short URL-safe publish identifier.
func NewShareID() string {
	return "art_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Create stores an article snapshot under a fresh share ID and returns
// the stored record.
func (s *PublishedStore) Create(title string, article *models.Article) (*models.PublishedArticle, error) {
	payload, err := json.Marshal(article)
	if err != nil {
		return nil, fmt.Errorf("encode article: %w", err)
	}

	result := &models.PublishedArticle{}
	var raw []byte
	err = s.db.QueryRow(`
		INSERT INTO published_articles (id, title, article)
		VALUES ($1, $2, $3)
		RETURNING id, title, article, created_at
	`, NewShareID(), title, payload).Scan(&result.ID, &result.Title, &raw, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("publish article: %w", err)
	}
	if err := json.Unmarshal(raw, &result.Article); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return result, nil
}

// FindByID retrieves a published article by its share ID. Returns nil
// if not found.
func (s *PublishedStore) FindByID(id string) (*models.PublishedArticle, error) {
	result := &models.PublishedArticle{}
	var raw []byte
	err := s.db.QueryRow(`
		SELECT id, title, article, created_at
		FROM published_articles WHERE id = $1
	`, id).Scan(&result.ID, &result.Title, &raw, &result.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published article: %w", err)
	}
	if err := json.Unmarshal(raw, &result.Article); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return result, nil
}

// List returns published article metadata, newest first, without the
// article bodies.
func (s *PublishedStore) List(limit int) ([]models.PublishedArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, title, created_at
		FROM published_articles
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	defer rows.Close()

	var articles []models.PublishedArticle
	for rows.Next() {
		var a models.PublishedArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan published article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Delete removes a published article by share ID.
func (s *PublishedStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM published_articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete published article: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("published article not found")
	}
	return nil
}
