// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fault defines the error classes the generation pipeline can
// produce. Handlers map each class to an HTTP status and a user-facing
// message, so every failure mode stays distinguishable at the surface:
// bad input is not retryable, a timeout suggests "try again / shorten
// input", and a format error carries a bounded excerpt for diagnosis.
package fault

import "fmt"

// excerptLimit bounds how much raw model output a Format error may
// carry. The full payload is never attached to an error.
const excerptLimit = 200

// Input indicates user-correctable input (missing, too short,
// invalid). Never retried.
type Input struct {
	Reason string
}

func (e *Input) Error() string { return e.Reason }

// NewInput creates an Input error with a formatted reason.
func NewInput(format string, args ...any) *Input {
	return &Input{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamStatus indicates a non-2xx response from an external call,
// surfaced with the upstream status code and message.
type UpstreamStatus struct {
	Status  int
	Message string
}

func (e *UpstreamStatus) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// Timeout indicates a client-side deadline expired before the external
// call completed. Surfaced distinctly from generic network failure.
type Timeout struct {
	Op string
}

func (e *Timeout) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// Format indicates a response that did not parse as the expected
// shape. Excerpt holds a truncated view of the offending text.
type Format struct {
	Reason  string
	Excerpt string
}

func (e *Format) Error() string {
	if e.Excerpt == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Excerpt)
}

// NewFormat creates a Format error, truncating raw to the excerpt limit.
func NewFormat(reason, raw string) *Format {
	return &Format{Reason: reason, Excerpt: Excerpt(raw)}
}

// Excerpt truncates raw text to the bounded excerpt length.
func Excerpt(raw string) string {
	if len(raw) > excerptLimit {
		return raw[:excerptLimit]
	}
	return raw
}
