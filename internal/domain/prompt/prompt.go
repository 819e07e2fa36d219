package prompt

import (
	"fmt"
	"strings"
)

// DefaultCopyTemplate is the product copy prompt used when none is configured.
const DefaultCopyTemplate = "Please make a brief product description; at most two sentences. " +
	"Product Title: {title} " +
	"Product Caption: {caption} " +
	"Product Category: {category}"

// MaxTemplateLength bounds user-supplied templates.
const MaxTemplateLength = 4096

// Template is a product copy prompt with {title}, {caption} and {category} placeholders.
type Template struct {
	text string
}

// Default returns the built-in copy template.
func Default() Template {
	return Template{text: DefaultCopyTemplate}
}

// New validates a template. Empty text falls back to DefaultCopyTemplate.
func New(text string) (Template, error) {
	if strings.TrimSpace(text) == "" {
		return Default(), nil
	}
	if len(text) > MaxTemplateLength {
		return Template{}, fmt.Errorf("prompt too long (max %d chars)", MaxTemplateLength)
	}
	return Template{text: text}, nil
}

// Text returns the raw template.
func (t Template) Text() string {
	if t.text == "" {
		return DefaultCopyTemplate
	}
	return t.text
}

// Render substitutes every placeholder occurrence.
func (t Template) Render(title, caption, category string) string {
	r := strings.NewReplacer(
		"{title}", title,
		"{caption}", caption,
		"{category}", category,
	)
	return r.Replace(t.Text())
}

// Model is a selectable completion model.
type Model struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// DefaultModels mirrors the serving endpoints the dashboard offers.
func DefaultModels() []Model {
	return []Model{
		{Label: "DBRX", Value: "databricks-dbrx-instruct"},
		{Label: "Llama 2 70b", Value: "databricks-llama-2-70b-chat"},
		{Label: "Mixtral 8x7b", Value: "databricks-mixtral-8x7b-instruct"},
	}
}
