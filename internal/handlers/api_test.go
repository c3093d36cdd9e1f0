// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"pagepress/internal/ai"
	"pagepress/internal/cache"
	"pagepress/internal/extract"
	"pagepress/internal/handlers"
	"pagepress/internal/middleware"
	"pagepress/internal/models"
	"pagepress/internal/pipeline"
	"pagepress/internal/router"
)

// stubProvider returns a scripted response for every model call.
type stubProvider struct {
	mu       sync.Mutex
	response string
	err      error
}

func (s *stubProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

// memStore backs all three store interfaces in memory.
type memStore struct {
	mu        sync.Mutex
	templates map[uuid.UUID]*models.Template
	active    uuid.UUID
	docs      map[uuid.UUID]*models.LibraryDoc
	published map[string]*models.PublishedArticle
}

func newMemStore() *memStore {
	return &memStore{
		templates: map[uuid.UUID]*models.Template{},
		docs:      map[uuid.UUID]*models.LibraryDoc{},
		published: map[string]*models.PublishedArticle{},
	}
}

func (m *memStore) List() ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Template
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memStore) FindByID(id uuid.UUID) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.templates[id], nil
}

func (m *memStore) FindActive() (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[m.active]; ok {
		return t, nil
	}
	return nil, nil
}

func (m *memStore) Create(t *models.Template) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *t
	stored.ID = uuid.New()
	m.templates[stored.ID] = &stored
	return &stored, nil
}

func (m *memStore) Activate(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("template not found")
	}
	m.active = id
	return nil
}

func (m *memStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("template not found")
	}
	delete(m.templates, id)
	return nil
}

type memLibrary struct{ m *memStore }

func (l memLibrary) List() ([]models.LibraryDoc, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	var out []models.LibraryDoc
	for _, d := range l.m.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (l memLibrary) Create(d *models.LibraryDoc) (*models.LibraryDoc, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	stored := *d
	stored.ID = uuid.New()
	l.m.docs[stored.ID] = &stored
	return &stored, nil
}

func (l memLibrary) Delete(id uuid.UUID) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if _, ok := l.m.docs[id]; !ok {
		return fmt.Errorf("doc not found")
	}
	delete(l.m.docs, id)
	return nil
}

type memPublished struct{ m *memStore }

func (p memPublished) Create(title string, a *models.Article) (*models.PublishedArticle, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	rec := &models.PublishedArticle{
		ID:      "art_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Title:   title,
		Article: *a,
	}
	p.m.published[rec.ID] = rec
	return rec, nil
}

func (p memPublished) FindByID(id string) (*models.PublishedArticle, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	return p.m.published[id], nil
}

func (p memPublished) List(limit int) ([]models.PublishedArticle, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []models.PublishedArticle
	for _, rec := range p.m.published {
		out = append(out, models.PublishedArticle{ID: rec.ID, Title: rec.Title, CreatedAt: rec.CreatedAt})
	}
	return out, nil
}

func (p memPublished) Delete(id string) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if _, ok := p.m.published[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(p.m.published, id)
	return nil
}

const generatedJSON = `[
  {"id":"s1","type":"content","elements":[
    {"type":"title","content":"Hello API","style":"large"},
    {"type":"text","content":"generated body","style":"paragraph"}
  ]}
]`

func testServer(t *testing.T, stub *stubProvider) (*httptest.Server, *memStore) {
	t.Helper()

	reg := ai.NewRegistry("", nil)
	reg.Register("stub", stub)

	mem := newMemStore()
	library := memLibrary{mem}
	published := memPublished{mem}

	pipe := pipeline.New(pipeline.Config{
		Registry:  reg,
		Extractor: extract.New(reg, time.Second),
		Templates: mem,
		Library:   library,
		Published: published,
		BaseURL:   "http://example.test",
	})

	api := handlers.NewAPI(pipe, mem, library, published, cache.NewShareCache(nil, 0), reg)
	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(router.New(api, limiter))
	t.Cleanup(srv.Close)
	return srv, mem
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, &stubProvider{})
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	srv, _ := testServer(t, &stubProvider{response: generatedJSON})

	resp := postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": "write about tea"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res pipeline.Result
	decodeBody(t, resp, &res)
	if len(res.Article.Sections) != 1 {
		t.Fatalf("sections = %d", len(res.Article.Sections))
	}
	if res.Article.Sections[0].Elements[0].Content != "Hello API" {
		t.Error("article content mismatch")
	}

	// The session endpoint now returns the same article.
	getResp, err := http.Get(srv.URL + "/api/article")
	if err != nil {
		t.Fatal(err)
	}
	var current pipeline.Result
	decodeBody(t, getResp, &current)
	if current.Article.Sections[0].Elements[0].Content != "Hello API" {
		t.Error("session article mismatch")
	}
}

func TestGenerateValidation(t *testing.T) {
	srv, _ := testServer(t, &stubProvider{response: generatedJSON})

	resp := postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": ""})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty intent: status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/generate", map[string]any{
		"intent": "x", "templateId": "not-a-uuid",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad template id: status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateBadModelOutput(t *testing.T) {
	srv, _ := testServer(t, &stubProvider{response: "sorry, I refuse"})

	resp := postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": "tea"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] == "" {
		t.Error("502 should carry an error message")
	}
}

func TestTemplateLifecycle(t *testing.T) {
	schemaJSON := `{"name":"promo","description":"d",
		"style":{"primaryColor":"#123456","secondaryColor":"#ffffff","accentColor":"#654321"},
		"sections":[{"type":"header","elements":[{"type":"title","style":"large"}]}]}`
	stub := &stubProvider{response: schemaJSON}
	srv, _ := testServer(t, stub)

	// Analyze.
	content := strings.Repeat("<p>webpage content for analysis</p> ", 20)
	resp := postJSON(t, srv.URL+"/api/templates/analyze", map[string]any{
		"fileName": "promo.html", "content": content,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}
	var tmpl models.Template
	decodeBody(t, resp, &tmpl)
	if tmpl.Schema.Name != "promo" {
		t.Errorf("schema name = %q", tmpl.Schema.Name)
	}

	// List.
	listResp, err := http.Get(srv.URL + "/api/templates")
	if err != nil {
		t.Fatal(err)
	}
	var list []models.Template
	decodeBody(t, listResp, &list)
	if len(list) != 1 {
		t.Fatalf("list length = %d", len(list))
	}

	// Activate.
	resp = postJSON(t, srv.URL+"/api/templates/"+tmpl.ID.String()+"/activate", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activate status = %d", resp.StatusCode)
	}

	// Preview.
	resp = postJSON(t, srv.URL+"/api/templates/"+tmpl.ID.String()+"/preview", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d", resp.StatusCode)
	}
	var preview models.Article
	decodeBody(t, resp, &preview)
	if len(preview.Sections) != 1 || preview.Sections[0].Theme.PrimaryColor != "#123456" {
		t.Error("preview should carry the template palette")
	}

	// Delete.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/templates/"+tmpl.ID.String(), nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}

	// Activating a missing template fails.
	resp = postJSON(t, srv.URL+"/api/templates/"+uuid.NewString()+"/activate", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("activate missing: status = %d, want 400", resp.StatusCode)
	}
}

func TestPublishAndSharePage(t *testing.T) {
	stub := &stubProvider{response: generatedJSON}
	srv, _ := testServer(t, stub)

	resp := postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": "tea"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/publish", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("publish status = %d", resp.StatusCode)
	}
	var pub map[string]string
	decodeBody(t, resp, &pub)
	if !strings.HasPrefix(pub["id"], "art_") {
		t.Errorf("id = %q", pub["id"])
	}
	if !strings.HasSuffix(pub["shareUrl"], "/p/"+pub["id"]) {
		t.Errorf("shareUrl = %q", pub["shareUrl"])
	}

	// The share page renders the published article.
	pageResp, err := http.Get(srv.URL + "/p/" + pub["id"])
	if err != nil {
		t.Fatal(err)
	}
	defer pageResp.Body.Close()
	if pageResp.StatusCode != http.StatusOK {
		t.Fatalf("share page status = %d", pageResp.StatusCode)
	}
	if ct := pageResp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	var html bytes.Buffer
	html.ReadFrom(pageResp.Body)
	if !strings.Contains(html.String(), "Hello API") {
		t.Error("share page missing article content")
	}

	// JSON view of the snapshot.
	jsonResp, err := http.Get(srv.URL + "/api/articles/" + pub["id"])
	if err != nil {
		t.Fatal(err)
	}
	var rec models.PublishedArticle
	decodeBody(t, jsonResp, &rec)
	if rec.Title != "Hello API" {
		t.Errorf("title = %q", rec.Title)
	}

	// Unknown share IDs 404 on both surfaces.
	missing, _ := http.Get(srv.URL + "/p/art_000000000000")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing share page status = %d", missing.StatusCode)
	}
	missing, _ = http.Get(srv.URL + "/api/articles/art_000000000000")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing snapshot status = %d", missing.StatusCode)
	}
}

func TestLibraryEndpoints(t *testing.T) {
	srv, _ := testServer(t, &stubProvider{})

	resp := postJSON(t, srv.URL+"/api/library", map[string]any{
		"name": "brand", "content": "voice: warm and direct",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var doc models.LibraryDoc
	decodeBody(t, resp, &doc)

	// Oversized docs are refused.
	resp = postJSON(t, srv.URL+"/api/library", map[string]any{
		"name": "big", "content": strings.Repeat("x", 5001),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized doc status = %d, want 400", resp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/api/library")
	if err != nil {
		t.Fatal(err)
	}
	var docs []models.LibraryDoc
	decodeBody(t, listResp, &docs)
	if len(docs) != 1 {
		t.Fatalf("list length = %d", len(docs))
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/library/"+doc.ID.String(), nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}
}

func TestGenerateRateLimited(t *testing.T) {
	reg := ai.NewRegistry("", nil)
	reg.Register("stub", &stubProvider{response: generatedJSON})
	mem := newMemStore()
	pipe := pipeline.New(pipeline.Config{
		Registry:  reg,
		Extractor: extract.New(reg, time.Second),
		Templates: mem,
		Library:   memLibrary{mem},
		Published: memPublished{mem},
		BaseURL:   "http://example.test",
	})
	api := handlers.NewAPI(pipe, mem, memLibrary{mem}, memPublished{mem}, cache.NewShareCache(nil, 0), reg)
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	srv := httptest.NewServer(router.New(api, limiter))
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": "tea"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/generate", map[string]any{"intent": "tea"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", resp.StatusCode)
	}
}
