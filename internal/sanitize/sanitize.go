// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize strips markup noise from raw fetched HTML so the
// layout extractor analyzes content, not boilerplate. The operations
// run in a fixed order and the whole chain is idempotent: sanitizing
// already-sanitized text yields the same text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"pagepress/internal/fault"
)

const (
	// MaxLen bounds the sanitized text sent downstream, keeping the
	// extraction request within the model's useful context.
	MaxLen = 8000

	// MinLen is the threshold below which the content carries too
	// little structure to analyze.
	MinLen = 100
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	styleAttrRe  = regexp.MustCompile(`(?i)\s*style\s*=\s*["'][^"']*["']`)
	classAttrRe  = regexp.MustCompile(`(?i)\s*class\s*=\s*["'][^"']*["']`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the five common HTML entities. &amp; is
// decoded last so entity-encoded entities do not double-decode.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&amp;", "&",
)

// Clean applies the sanitizing chain to raw markup and truncates the
// result to MaxLen. Returns a fault.Input error when the remaining
// text is below MinLen.
func Clean(raw string) (string, error) {
	text := scriptRe.ReplaceAllString(raw, "")
	text = styleRe.ReplaceAllString(text, "")
	text = commentRe.ReplaceAllString(text, "")
	text = styleAttrRe.ReplaceAllString(text, "")
	text = classAttrRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > MaxLen {
		cut := MaxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		// Re-trim so a cut that lands on a space stays idempotent.
		text = strings.TrimRight(text[:cut], " ")
	}
	if len(text) < MinLen {
		return "", fault.NewInput("content too short to analyze after cleaning (%d chars, need %d)", len(text), MinLen)
	}
	return text, nil
}
