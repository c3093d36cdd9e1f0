// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"fmt"

	"pagepress/internal/models"
)

// previewImageURL is the stock image used for image placeholders in
// template previews.
const previewImageURL = "https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?q=80&w=1000&auto=format&fit=crop"

// WelcomeArticle returns the article every session starts on. It
// explains the workflow and shows a themed section before any
// generation has run.
func WelcomeArticle() *models.Article {
	return &models.Article{Sections: []models.ArticleSection{{
		ID:   "welcome",
		Kind: "content",
		Elements: []models.ArticleElement{
			{Kind: models.ElementTitle, Content: "欢迎使用 PagePress", Style: "large", Alignment: "center"},
			{Kind: models.ElementText, Content: "输入您想要创作的内容主题，我们将为您生成精美的微信公众号风格文章。", Style: "paragraph"},
			{Kind: models.ElementText, Content: "您也可以先在模板库中添加模板，生成的文章将完全匹配模板的布局结构。", Style: "paragraph"},
		},
		Theme: models.Theme{
			PrimaryColor:   "#10b981",
			SecondaryColor: "#f0fdf4",
			AccentColor:    "#059669",
		},
	}}}
}

// PreviewArticle builds a deterministic article from a template schema
// so a template can be inspected without spending a model call. Each
// schema element becomes a placeholder of the same kind, carrying the
// template's own palette so the preview shows the style it enforces.
func PreviewArticle(schema *models.TemplateSchema) *models.Article {
	theme := models.Theme{
		PrimaryColor:    schema.Style.PrimaryColor,
		SecondaryColor:  schema.Style.SecondaryColor,
		AccentColor:     schema.Style.AccentColor,
		FontDescription: schema.Style.FontDescription,
	}

	name := schema.Name
	if name == "" {
		name = "模板预览"
	}

	a := &models.Article{}
	for i, spec := range schema.Sections {
		sec := models.ArticleSection{
			ID:    fmt.Sprintf("preview-%d", i+1),
			Kind:  spec.Kind,
			Theme: theme,
		}
		for _, el := range spec.Elements {
			sec.Elements = append(sec.Elements, previewElement(el, name, schema))
		}
		a.Sections = append(a.Sections, sec)
	}
	return a
}

func previewElement(spec models.ElementSpec, name string, schema *models.TemplateSchema) models.ArticleElement {
	el := models.ArticleElement{
		Kind:      spec.Kind,
		Style:     spec.Style,
		Alignment: spec.Alignment,
		Size:      spec.Size,
	}
	switch spec.Kind {
	case models.ElementTitle:
		el.Content = name
	case models.ElementImage:
		el.URL = previewImageURL
	case models.ElementText:
		el.Content = "这是使用该模板风格生成的内容页面预览。"
	case models.ElementList:
		count := spec.Items
		if count <= 0 {
			count = 4
		}
		items := []string{
			"主色调: " + orUndefined(schema.Style.PrimaryColor),
			"辅助色: " + orUndefined(schema.Style.SecondaryColor),
			"强调色: " + orUndefined(schema.Style.AccentColor),
			"字体: " + orUndefined(schema.Style.FontDescription),
		}
		if count < len(items) {
			items = items[:count]
		}
		el.Items = items
	case models.ElementCTA:
		el.Content = "立即行动"
	}
	return el
}

func orUndefined(v string) string {
	if v == "" {
		return "未定义"
	}
	return v
}
