// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"pagepress/internal/fault"
)

const samplePage = `<html><head>
<script type="text/javascript">var tracker = "noise";</script>
<style>.hero { color: red; }</style>
</head><body>
<!-- layout comment -->
<div class="hero" style="background: blue">
  <h1 class="title">Spring Travel Guide</h1>
  <p>Plan your next getaway with our curated destinations &amp; tips.
  Every itinerary balances culture, food &nbsp;and nature so you spend
  less time planning and more time exploring the open road.</p>
</div>
</body></html>`

func TestCleanStripsMarkupNoise(t *testing.T) {
	got, err := Clean(samplePage)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	for _, banned := range []string{"<script", "<style", "tracker", "<!--", "class=", "style="} {
		if strings.Contains(got, banned) {
			t.Errorf("output still contains %q: %s", banned, got)
		}
	}
	if !strings.Contains(got, "destinations & tips") {
		t.Errorf("entities not decoded: %s", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	once, err := Clean(samplePage)
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	twice, err := Clean(once)
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	if once != twice {
		t.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestCleanTruncatesToMaxLen(t *testing.T) {
	raw := "<p>" + strings.Repeat("long paragraph text ", 1000) + "</p>"
	got, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(got) > MaxLen {
		t.Errorf("length %d exceeds max %d", len(got), MaxLen)
	}

	// A second pass over the truncated output must be stable.
	again, err := Clean(got)
	if err != nil {
		t.Fatalf("Clean on truncated: %v", err)
	}
	if got != again {
		t.Error("truncated output not idempotent")
	}
}

func TestCleanTruncationKeepsValidUTF8(t *testing.T) {
	raw := strings.Repeat("春季旅游促销活动内容介绍 ", 800)
	got, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func TestCleanRejectsShortContent(t *testing.T) {
	cases := []string{
		"",
		"<p>tiny</p>",
		"<script>var everything = 'gone';</script>",
	}
	for _, raw := range cases {
		_, err := Clean(raw)
		var inputErr *fault.Input
		if !errors.As(err, &inputErr) {
			t.Errorf("Clean(%q): want fault.Input, got %v", raw, err)
		}
	}
}
