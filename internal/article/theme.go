// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package article

import "pagepress/internal/models"

// ResolveThemes fills every section's theme field by field, so no
// missing value reaches the renderer. Precedence per field, highest
// first: the active template's style, the section's own generated
// theme, the system default. The merge is per field — a section may
// inherit the template's primary color while keeping a model-chosen
// accent when the template provided no accent.
func ResolveThemes(a *models.Article, tmpl *models.TemplateSchema) {
	var style models.StyleAnalysis
	if tmpl != nil {
		style = tmpl.Style
	}
	def := models.DefaultTheme()

	for i := range a.Sections {
		th := &a.Sections[i].Theme
		th.PrimaryColor = firstOf(style.PrimaryColor, th.PrimaryColor, def.PrimaryColor)
		th.SecondaryColor = firstOf(style.SecondaryColor, th.SecondaryColor, def.SecondaryColor)
		th.AccentColor = firstOf(style.AccentColor, th.AccentColor, def.AccentColor)
		th.FontDescription = firstOf(style.FontDescription, th.FontDescription, def.FontDescription)
	}
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
