// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the generative-model
// endpoints the pipeline calls (Gemini, OpenAI-compatible). Each
// provider handles its own HTTP communication and response parsing;
// the Registry selects the active one by name. Rate-limited calls are
// retried with linearly increasing backoff; any other failure returns
// immediately.
package ai

import (
	"context"
	"fmt"
	"sync"
)

// InlineData is a raw image attachment embedded in a request.
type InlineData struct {
	MimeType string
	Data     []byte
}

// Part is one piece of a multimodal request: text or inline image
// bytes, never both.
type Part struct {
	Text   string
	Inline *InlineData
}

// Request is a single generation call. When JSONResponse is set the
// provider asks the model for a JSON-typed response, though the output
// is still treated as free-form text downstream.
type Request struct {
	System       string
	Parts        []Part
	JSONResponse bool
}

// TextRequest builds a text-only request.
func TextRequest(system, user string) Request {
	return Request{System: system, Parts: []Part{{Text: user}}}
}

// Provider defines the interface all model endpoints implement.
type Provider interface {
	// Generate sends a request to the model and returns the raw
	// generated text. The context deadline bounds the call.
	Generate(ctx context.Context, req Request) (string, error)

	// Name returns the provider identifier (e.g., "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates a registry and initialises providers for every
// config with a non-empty API key. Providers without keys are skipped.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}
	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		}
	}
	return r
}

// Generate calls the active provider.
func (r *Registry) Generate(ctx context.Context, req Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the names of all providers with valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider and makes it active when the
// registry has none. Used to inject stub providers in tests.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[name] = p
	if r.active == "" {
		r.active = name
	}
}
