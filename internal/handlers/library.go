// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagepress/internal/fault"
	"pagepress/internal/models"
)

// LibraryList returns the reference documents folded into prompts.
func (a *API) LibraryList(w http.ResponseWriter, r *http.Request) {
	docs, err := a.library.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []models.LibraryDoc{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// LibraryCreate stores a new reference document.
func (a *API) LibraryCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Content     string `json:"content"`
		ContentType string `json:"contentType"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc, err := a.pipe.AddLibraryDoc(req.Name, req.Content, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// LibraryDelete removes a reference document.
func (a *API) LibraryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, fault.NewInput("invalid document id"))
		return
	}
	if err := a.library.Delete(id); err != nil {
		writeJSON(w, http.StatusNotFound, errBody("document not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
