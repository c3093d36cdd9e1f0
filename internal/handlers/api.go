// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API and the public share-page
// surface. Every API response is JSON; pipeline error classes map to
// HTTP statuses in one place (writeError) so handlers stay thin.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"pagepress/internal/ai"
	"pagepress/internal/cache"
	"pagepress/internal/fault"
	"pagepress/internal/models"
	"pagepress/internal/pipeline"
)

// maxRequestBody caps JSON request bodies. Attachments arrive base64
// encoded, so the cap leaves room for a few downscaled images.
const maxRequestBody = 16 << 20

// TemplateStore is the template persistence the API needs beyond what
// the pipeline already covers.
type TemplateStore interface {
	List() ([]models.Template, error)
	FindByID(id uuid.UUID) (*models.Template, error)
	Activate(id uuid.UUID) error
	Delete(id uuid.UUID) error
}

// LibraryStore lists and deletes reference documents; creation goes
// through the pipeline, which validates.
type LibraryStore interface {
	List() ([]models.LibraryDoc, error)
	Delete(id uuid.UUID) error
}

// PublishedStore reads and deletes published snapshots.
type PublishedStore interface {
	FindByID(id string) (*models.PublishedArticle, error)
	List(limit int) ([]models.PublishedArticle, error)
	Delete(id string) error
}

// API carries the dependencies of every JSON endpoint.
type API struct {
	pipe      *pipeline.Pipeline
	templates TemplateStore
	library   LibraryStore
	published PublishedStore
	shares    *cache.ShareCache
	registry  *ai.Registry
}

// NewAPI creates the API handler set.
func NewAPI(
	pipe *pipeline.Pipeline,
	templates TemplateStore,
	library LibraryStore,
	published PublishedStore,
	shares *cache.ShareCache,
	registry *ai.Registry,
) *API {
	return &API{
		pipe:      pipe,
		templates: templates,
		library:   library,
		published: published,
		shares:    shares,
		registry:  registry,
	}
}

// Health returns a simple JSON health check response.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Providers reports the configured AI providers and which one is active.
func (a *API) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    a.registry.ActiveName(),
		"available": a.registry.Available(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON body into dst with the request size cap
// applied. Returns a fault.Input error on malformed JSON.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fault.NewInput("invalid JSON body: %v", err)
	}
	return nil
}

// writeError maps an error to its HTTP status and a JSON body. Unknown
// errors become a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var (
		input    *fault.Input
		upstream *fault.UpstreamStatus
		timeout  *fault.Timeout
		format   *fault.Format
	)

	switch {
	case errors.Is(err, pipeline.ErrGenerationInProgress):
		writeJSON(w, http.StatusConflict, errBody(err.Error()))
	case errors.As(err, &input):
		writeJSON(w, http.StatusBadRequest, errBody(input.Reason))
	case errors.As(err, &timeout):
		writeJSON(w, http.StatusGatewayTimeout, errBody(err.Error()))
	case errors.As(err, &upstream):
		status := upstream.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errBody(upstream.Message))
	case errors.As(err, &format):
		writeJSON(w, http.StatusBadGateway, errBody(err.Error()))
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errBody("internal error"))
	}
}

func errBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
