// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagepress/internal/fault"
	"pagepress/internal/models"
	"pagepress/internal/pipeline"
)

// maxAttachments caps how many images one generation request may carry.
const maxAttachments = 6

// attachmentPayload is the wire form of one attached image.
type attachmentPayload struct {
	Data     string `json:"data"` // base64
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Generate runs one article generation and returns the normalized
// article together with its repair log.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Intent      string              `json:"intent"`
		TemplateID  string              `json:"templateId"`
		Attachments []attachmentPayload `json:"attachments"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := pipeline.GenerateInput{Intent: req.Intent}
	if req.TemplateID != "" {
		id, err := uuid.Parse(req.TemplateID)
		if err != nil {
			writeError(w, fault.NewInput("invalid template id"))
			return
		}
		in.TemplateID = &id
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		writeError(w, err)
		return
	}
	in.Attachments = attachments

	res, err := a.pipe.Generate(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CurrentArticle returns the session's article and repair log.
func (a *API) CurrentArticle(w http.ResponseWriter, r *http.Request) {
	article, repairs := a.pipe.Current()
	writeJSON(w, http.StatusOK, pipeline.Result{Article: article, Repairs: repairs})
}

// UpdateArticle replaces the session article after manual edits.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var article models.Article
	if err := decodeJSON(r, &article); err != nil {
		writeError(w, err)
		return
	}
	if err := a.pipe.SetCurrent(&article); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Publish snapshots the posted article (or the session article when
// the body is empty) and returns the share locator.
func (a *API) Publish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Article *models.Article `json:"article"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	published, shareURL, err := a.pipe.Publish(r.Context(), req.Article)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       published.ID,
		"title":    published.Title,
		"shareUrl": shareURL,
	})
}

// PublishedList returns published article metadata, newest first.
func (a *API) PublishedList(w http.ResponseWriter, r *http.Request) {
	list, err := a.published.List(50)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []models.PublishedArticle{}
	}
	writeJSON(w, http.StatusOK, list)
}

// PublishedGet returns one published snapshot as JSON.
func (a *API) PublishedGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	article, err := a.published.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if article == nil {
		writeJSON(w, http.StatusNotFound, errBody("article not found"))
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// PublishedDelete removes a snapshot and drops its cached share page.
func (a *API) PublishedDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.published.Delete(id); err != nil {
		writeJSON(w, http.StatusNotFound, errBody("article not found"))
		return
	}
	a.shares.Invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func decodeAttachments(payloads []attachmentPayload) ([]models.Attachment, error) {
	if len(payloads) > maxAttachments {
		return nil, fault.NewInput("too many attachments (max %d)", maxAttachments)
	}
	var attachments []models.Attachment
	for i, p := range payloads {
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fault.NewInput("attachment %d is not valid base64", i+1)
		}
		if p.MimeType == "" {
			p.MimeType = "image/jpeg"
		}
		attachments = append(attachments, models.Attachment{
			ID:       uuid.NewString(),
			Data:     data,
			MimeType: p.MimeType,
			Width:    p.Width,
			Height:   p.Height,
		})
	}
	return attachments, nil
}
