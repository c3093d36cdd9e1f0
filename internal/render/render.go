// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render maps a validated Article into an HTML document. It is
// a pure transformation: no network, no storage, deterministic layout
// rules per element kind. Themes are assumed fully resolved before an
// article reaches the renderer.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pagepress/internal/models"
)

// Options adjusts presentation-only aspects of a render.
type Options struct {
	// Title becomes the document <title>.
	Title string

	// ShareURL, when set, is encoded into the QR block of
	// qrCode-flagged sections. Without it the QR block renders a
	// neutral placeholder.
	ShareURL string
}

// md renders inline markdown inside generated text elements (models
// habitually emit **bold** and the like). GFM only, no raw HTML
// pass-through: generated copy is untrusted.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render produces the HTML document for an article.
func Render(a *models.Article, opts Options) ([]byte, error) {
	view := documentView{Title: opts.Title}
	if view.Title == "" {
		view.Title = a.Title("Untitled article")
	}
	for _, sec := range a.Sections {
		view.Sections = append(view.Sections, buildSection(sec, opts))
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render article: %w", err)
	}
	return buf.Bytes(), nil
}

// ---------- view construction ----------

type documentView struct {
	Title    string
	Sections []sectionView
}

type sectionView struct {
	Style    template.CSS
	Elements []elementView
	QR       *qrView
}

type qrView struct {
	Style   template.CSS
	DataURI template.URL
}

type elementView struct {
	Kind    models.ElementKind
	Tag     string
	Style   template.CSS
	Content template.HTML
	URL     string
	Items   []itemView
}

type itemView struct {
	Marker      string
	MarkerStyle template.CSS
	Text        string
	Dot         bool
}

func buildSection(sec models.ArticleSection, opts Options) sectionView {
	th := sec.Theme
	view := sectionView{
		Style: css("background-color:%s;font-family:%s;padding:24px",
			th.SecondaryColor, th.FontDescription),
	}
	for _, el := range sec.Elements {
		view.Elements = append(view.Elements, buildElement(el, th))
	}
	if sec.QRCode {
		view.QR = buildQR(th, opts.ShareURL)
	}
	return view
}

func buildElement(el models.ArticleElement, th models.Theme) elementView {
	switch el.Kind {
	case models.ElementTitle:
		return elementView{
			Kind: el.Kind,
			Style: css("font-size:%s;font-weight:bold;text-align:%s;color:%s;margin:0 0 16px",
				titleSize(el.Style), alignment(el.Alignment), th.PrimaryColor),
			Content: template.HTML(template.HTMLEscapeString(el.Content)),
		}

	case models.ElementImage:
		width, centered := imageWidth(el.Size)
		style := fmt.Sprintf("width:%s;max-height:%s;object-fit:cover;border-radius:8px;margin:0 0 16px", width, imageMaxHeight(el.Size))
		if centered {
			style += ";display:block;margin-left:auto;margin-right:auto"
		}
		return elementView{Kind: el.Kind, Style: template.CSS(style), URL: el.URL}

	case models.ElementText:
		return elementView{
			Kind:    el.Kind,
			Style:   textStyle(el.Style, th),
			Content: inlineMarkdown(el.Content),
		}

	case models.ElementList:
		view := elementView{Kind: el.Kind, Style: css("margin:0 0 16px;padding-left:8px")}
		for i, item := range el.Items {
			iv := itemView{Text: item}
			if el.Style == "number" {
				iv.Marker = fmt.Sprintf("%d.", i+1)
				iv.MarkerStyle = css("color:%s;font-weight:bold;margin-right:8px", th.AccentColor)
			} else {
				iv.Dot = true
				iv.MarkerStyle = css("background-color:%s", th.AccentColor)
			}
			view.Items = append(view.Items, iv)
		}
		return view

	case models.ElementCTA:
		return elementView{
			Kind: el.Kind,
			Style: css("display:block;width:100%%;background-color:%s;color:#ffffff;font-weight:bold;padding:12px 24px;border:none;border-radius:8px;margin-top:16px",
				th.AccentColor),
			Content: template.HTML(template.HTMLEscapeString(el.Content)),
		}
	}
	return elementView{Kind: el.Kind}
}

// buildQR produces the decorative block appended to qrCode-flagged
// sections. With a share URL it carries a scannable code; otherwise a
// fixed placeholder square.
func buildQR(th models.Theme, shareURL string) *qrView {
	view := &qrView{
		Style: css("background-color:%s", th.PrimaryColor),
	}
	if shareURL != "" {
		if png, err := qrcode.Encode(shareURL, qrcode.Medium, 160); err == nil {
			view.DataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		}
	}
	return view
}

// ---------- layout scales ----------

func titleSize(style string) string {
	switch style {
	case "medium":
		return "1.375rem"
	case "small":
		return "1.125rem"
	default: // large
		return "1.75rem"
	}
}

func alignment(a string) string {
	switch a {
	case "center", "right":
		return a
	default:
		return "left"
	}
}

func imageWidth(size string) (width string, centered bool) {
	switch size {
	case "medium":
		return "75%", true
	case "small":
		return "50%", true
	default: // full, large
		return "100%", false
	}
}

func imageMaxHeight(size string) string {
	switch size {
	case "medium":
		return "250px"
	case "small":
		return "150px"
	default:
		return "400px"
	}
}

func textStyle(style string, th models.Theme) template.CSS {
	base := "font-size:1rem;line-height:1.6;color:#475569;margin:0 0 16px"
	switch style {
	case "quote":
		return css("%s;border-left:4px solid %s;padding:8px 0 8px 16px;font-style:italic;color:#64748b", base, th.PrimaryColor)
	case "highlight":
		return template.CSS(base + ";background-color:#fefce8;border-left:4px solid #facc15;padding:8px 0 8px 16px;font-style:italic")
	default: // paragraph
		return template.CSS(base)
	}
}

// inlineMarkdown converts generated copy to HTML, stripping the outer
// <p> wrapper goldmark adds around a single paragraph.
func inlineMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

func css(format string, args ...any) template.CSS {
	return template.CSS(fmt.Sprintf(format, args...))
}

// page is the document template. View models arrive with styles
// precomputed, so the template only lays out structure.
var page = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>body{margin:0;background:#f1f5f9}main{max-width:480px;margin:0 auto;background:#fff}</style>
</head>
<body>
<main>
{{- range .Sections}}
<section style="{{.Style}}">
{{- range .Elements}}
{{- if eq .Kind "title"}}
  <h2 style="{{.Style}}">{{.Content}}</h2>
{{- else if eq .Kind "image"}}
  <img src="{{.URL}}" alt="" style="{{.Style}}">
{{- else if eq .Kind "text"}}
  <p style="{{.Style}}">{{.Content}}</p>
{{- else if eq .Kind "list"}}
  <ul style="{{.Style}};list-style:none">
  {{- range .Items}}
    <li style="display:flex;align-items:flex-start;gap:8px;margin-bottom:8px">
    {{- if .Dot}}<span style="width:8px;height:8px;margin-top:8px;border-radius:50%;flex-shrink:0;{{.MarkerStyle}}"></span>
    {{- else}}<span style="{{.MarkerStyle}}">{{.Marker}}</span>{{end -}}
    <span style="font-size:0.875rem;color:#475569">{{.Text}}</span></li>
  {{- end}}
  </ul>
{{- else if eq .Kind "cta"}}
  <button style="{{.Style}}">{{.Content}}</button>
{{- end}}
{{- end}}
{{- if .QR}}
  <div style="display:flex;flex-direction:column;align-items:center;margin-top:24px;padding:24px;border-radius:12px;{{.QR.Style}}">
    <div style="background:#fff;padding:12px;border-radius:8px">
    {{- if .QR.DataURI}}<img src="{{.QR.DataURI}}" alt="QR code" width="96" height="96">
    {{- else}}<div style="width:96px;height:96px;background:repeating-conic-gradient(#0f172a 0% 25%,#fff 0% 50%) 0 0/16px 16px"></div>{{end}}
    </div>
  </div>
{{- end}}
</section>
{{- end}}
</main>
</body>
</html>
`))
