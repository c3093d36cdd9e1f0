// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagepress/internal/fault"
	"pagepress/internal/models"
)

// TemplateAnalyze analyzes uploaded webpage HTML into a layout
// template. Accepts the raw page content plus the source file name.
func (a *API) TemplateAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"fileName"`
		Content  string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, fault.NewInput("content is required"))
		return
	}

	tmpl, err := a.pipe.AnalyzeHTML(r.Context(), req.FileName, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

// TemplateAnalyzeURL fetches a webpage and analyzes it like an upload.
func (a *API) TemplateAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, fault.NewInput("url is required"))
		return
	}

	tmpl, err := a.pipe.AnalyzeURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

// TemplatesList returns all stored templates.
func (a *API) TemplatesList(w http.ResponseWriter, r *http.Request) {
	templates, err := a.templates.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// TemplateActivate makes a template the active generation constraint.
func (a *API) TemplateActivate(w http.ResponseWriter, r *http.Request) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if tmpl, err := a.templates.FindByID(id); err != nil {
		writeError(w, err)
		return
	} else if tmpl == nil {
		writeError(w, fault.NewInput("template not found"))
		return
	}
	if err := a.templates.Activate(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

// TemplatePreview swaps the session article for a deterministic
// preview of the template's layout.
func (a *API) TemplatePreview(w http.ResponseWriter, r *http.Request) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	article, err := a.pipe.Preview(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// TemplateDelete removes a template.
func (a *API) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.templates.Delete(id); err != nil {
		writeError(w, fault.NewInput("template not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func templateID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fault.NewInput("invalid template id")
	}
	return id, nil
}
