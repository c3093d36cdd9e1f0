// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagepress/internal/render"
)

// SharePage serves the public read-only page for a published article.
// Snapshots are immutable, so rendered HTML is cached in Valkey and
// served from there on subsequent hits.
func (a *API) SharePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !strings.HasPrefix(id, "art_") {
		http.NotFound(w, r)
		return
	}

	if html, ok := a.shares.Get(r.Context(), id); ok {
		writeHTML(w, html)
		return
	}

	published, err := a.published.FindByID(id)
	if err != nil {
		slog.Error("share page lookup failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if published == nil {
		http.NotFound(w, r)
		return
	}

	html, err := render.Render(&published.Article, render.Options{
		Title:    published.Title,
		ShareURL: a.pipe.ShareURL(id),
	})
	if err != nil {
		slog.Error("share page render failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.shares.Set(r.Context(), id, html)
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}
