// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline orchestrates the article generation flow: analyze a
// webpage into a layout template, generate an article constrained by
// that template, and publish the result under a share ID. It also owns
// the editing session: the current article, its repair log, and the
// at-most-one-concurrent-generation gate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pagepress/internal/ai"
	"pagepress/internal/article"
	"pagepress/internal/extract"
	"pagepress/internal/fault"
	"pagepress/internal/fetch"
	"pagepress/internal/models"
	"pagepress/internal/prompt"
	"pagepress/internal/sanitize"
)

// ErrGenerationInProgress is returned when a generation is requested
// while another one is still running. Only one generation may run at a
// time.
var ErrGenerationInProgress = errors.New("a generation is already in progress")

// DefaultGenerateTimeout bounds a single article generation end to end.
const DefaultGenerateTimeout = 60 * time.Second

// maxLibraryDocChars caps the size of a reference document accepted
// into the library.
const maxLibraryDocChars = 5000

// TemplateSource is the template persistence the pipeline needs.
type TemplateSource interface {
	FindActive() (*models.Template, error)
	FindByID(id uuid.UUID) (*models.Template, error)
	Create(t *models.Template) (*models.Template, error)
}

// DocSource lists the reference documents folded into prompts.
type DocSource interface {
	List() ([]models.LibraryDoc, error)
	Create(d *models.LibraryDoc) (*models.LibraryDoc, error)
}

// Publisher persists article snapshots under share IDs.
type Publisher interface {
	Create(title string, a *models.Article) (*models.PublishedArticle, error)
}

// Pipeline wires the analysis, generation and publishing flows
// together and tracks the editing session.
type Pipeline struct {
	reg       *ai.Registry
	extractor *extract.Extractor
	fetcher   *fetch.Fetcher
	templates TemplateSource
	library   DocSource
	published Publisher

	baseURL    string
	genTimeout time.Duration

	generating atomic.Bool

	mu      sync.Mutex
	current *models.Article
	repairs []article.Repair
}

// Config collects the pipeline's collaborators.
type Config struct {
	Registry  *ai.Registry
	Extractor *extract.Extractor
	Fetcher   *fetch.Fetcher
	Templates TemplateSource
	Library   DocSource
	Published Publisher

	// BaseURL is the public origin used to build share URLs.
	BaseURL string

	// GenerateTimeout bounds one generation. Zero means the default.
	GenerateTimeout time.Duration
}

// New creates a Pipeline. The session starts on the welcome article so
// the editor is never empty.
func New(cfg Config) *Pipeline {
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	return &Pipeline{
		reg:        cfg.Registry,
		extractor:  cfg.Extractor,
		fetcher:    cfg.Fetcher,
		templates:  cfg.Templates,
		library:    cfg.Library,
		published:  cfg.Published,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		genTimeout: cfg.GenerateTimeout,
		current:    WelcomeArticle(),
	}
}

// AnalyzeHTML sanitizes raw webpage HTML, extracts its layout schema
// and persists it as a new template named after the source file.
func (p *Pipeline) AnalyzeHTML(ctx context.Context, fileName, raw string) (*models.Template, error) {
	text, err := sanitize.Clean(raw)
	if err != nil {
		return nil, err
	}

	schema, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	if fileName == "" {
		fileName = "untitled.html"
	}

	created, err := p.templates.Create(&models.Template{FileName: fileName, Schema: *schema})
	if err != nil {
		return nil, fmt.Errorf("persist template: %w", err)
	}
	slog.Info("template analyzed", "file", fileName, "sections", len(schema.Sections))
	return created, nil
}

// AnalyzeURL fetches a webpage and analyzes it like an uploaded file.
// The template is named after the page's host and path.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*models.Template, error) {
	body, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeHTML(ctx, templateNameFromURL(rawURL), body)
}

// GenerateInput carries one generation request.
type GenerateInput struct {
	// Intent is the user's description of the article to write.
	Intent string

	// TemplateID selects a specific template. Nil means the active
	// template, and free-form generation when none is active.
	TemplateID *uuid.UUID

	// Attachments are downscaled images to weave into the article.
	Attachments []models.Attachment
}

// Result is a finished generation: the normalized article plus the
// record of every structural repair that was applied to reach it.
type Result struct {
	Article *models.Article  `json:"article"`
	Repairs []article.Repair `json:"repairs"`
}

// Generate runs one article generation. Only one may run at a time;
// concurrent calls fail fast with ErrGenerationInProgress. On failure
// the session keeps the previous article.
func (p *Pipeline) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	if strings.TrimSpace(in.Intent) == "" {
		return nil, fault.NewInput("intent is required")
	}

	if !p.generating.CompareAndSwap(false, true) {
		return nil, ErrGenerationInProgress
	}
	defer p.generating.Store(false)

	tmpl, err := p.resolveTemplate(in.TemplateID)
	if err != nil {
		return nil, err
	}

	docs, err := p.library.List()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	var schema *models.TemplateSchema
	if tmpl != nil {
		schema = &tmpl.Schema
	}
	req := prompt.Build(prompt.Input{
		Intent:      in.Intent,
		Schema:      schema,
		Documents:   docs,
		Attachments: in.Attachments,
	})

	genCtx, cancel := context.WithTimeout(ctx, p.genTimeout)
	defer cancel()

	start := time.Now()
	raw, err := p.reg.Generate(genCtx, req)
	if err != nil {
		slog.Warn("generation failed", "provider", p.reg.ActiveName(), "error", err)
		return nil, err
	}

	a, err := article.Parse(raw)
	if err != nil {
		return nil, err
	}
	repairs := article.MatchSchema(a, schema)
	article.ResolveThemes(a, schema)

	p.mu.Lock()
	p.current = a
	p.repairs = repairs
	p.mu.Unlock()

	slog.Info("article generated",
		"provider", p.reg.ActiveName(),
		"sections", len(a.Sections),
		"repairs", len(repairs),
		"elapsed", time.Since(start))
	return &Result{Article: a, Repairs: repairs}, nil
}

// Current returns the session's article and the repairs recorded when
// it was produced.
func (p *Pipeline) Current() (*models.Article, []article.Repair) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.repairs
}

// SetCurrent replaces the session article, e.g. after manual edits.
func (p *Pipeline) SetCurrent(a *models.Article) error {
	if a == nil || len(a.Sections) == 0 {
		return fault.NewInput("article must have at least one section")
	}
	p.mu.Lock()
	p.current = a
	p.repairs = nil
	p.mu.Unlock()
	return nil
}

// Preview replaces the session article with a deterministic preview
// built from a template's schema, without calling the model.
func (p *Pipeline) Preview(id uuid.UUID) (*models.Article, error) {
	tmpl, err := p.templates.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, fault.NewInput("template not found")
	}
	a := PreviewArticle(&tmpl.Schema)
	p.mu.Lock()
	p.current = a
	p.repairs = nil
	p.mu.Unlock()
	return a, nil
}

// Publish snapshots an article under a fresh share ID and returns the
// stored record plus its share URL. A nil article publishes the
// session's current one.
func (p *Pipeline) Publish(ctx context.Context, a *models.Article) (*models.PublishedArticle, string, error) {
	if a == nil {
		a, _ = p.Current()
	}
	if a == nil || len(a.Sections) == 0 {
		return nil, "", fault.NewInput("nothing to publish")
	}

	published, err := p.published.Create(a.Title("Untitled"), a)
	if err != nil {
		return nil, "", err
	}
	shareURL := p.ShareURL(published.ID)
	slog.Info("article published", "id", published.ID)
	return published, shareURL, nil
}

// ShareURL builds the public locator for a share ID.
func (p *Pipeline) ShareURL(id string) string {
	return p.baseURL + "/p/" + id
}

// AddLibraryDoc validates and stores a reference document.
func (p *Pipeline) AddLibraryDoc(name, content, contentType string) (*models.LibraryDoc, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(content) == "" {
		return nil, fault.NewInput("document name and content are required")
	}
	if len([]rune(content)) > maxLibraryDocChars {
		return nil, fault.NewInput("document is too long (max %d characters)", maxLibraryDocChars)
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	return p.library.Create(&models.LibraryDoc{Name: name, Content: content, ContentType: contentType})
}

func (p *Pipeline) resolveTemplate(id *uuid.UUID) (*models.Template, error) {
	if id != nil {
		tmpl, err := p.templates.FindByID(*id)
		if err != nil {
			return nil, err
		}
		if tmpl == nil {
			return nil, fault.NewInput("template not found")
		}
		return tmpl, nil
	}
	tmpl, err := p.templates.FindActive()
	if err != nil {
		return nil, err
	}
	return tmpl, nil // nil template means free-form generation
}

func templateNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "untitled.html"
	}
	name := u.Host
	if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
		name += "-" + base
	}
	return name + ".html"
}
