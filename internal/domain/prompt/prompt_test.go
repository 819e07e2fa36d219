package prompt

import (
	"strings"
	"testing"
)

func TestNew_EmptyFallsBackToDefault(t *testing.T) {
	tpl, err := New("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Text() != DefaultCopyTemplate {
		t.Errorf("Text() = %q", tpl.Text())
	}
}

func TestDefault(t *testing.T) {
	if got := Default().Text(); got != DefaultCopyTemplate {
		t.Errorf("Default().Text() = %q", got)
	}
}

func TestNew_TooLong(t *testing.T) {
	if _, err := New(strings.Repeat("x", MaxTemplateLength+1)); err == nil {
		t.Fatal("expected error for oversized template")
	}
}

func TestRender_DefaultTemplate(t *testing.T) {
	var tpl Template
	got := tpl.Render("Trail Shoe", "a blue shoe on a rock", "Footwear")
	want := "Please make a brief product description; at most two sentences. " +
		"Product Title: Trail Shoe Product Caption: a blue shoe on a rock Product Category: Footwear"
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_RepeatedPlaceholders(t *testing.T) {
	tpl, _ := New("{title} / {title} ({category})")
	if got := tpl.Render("Mug", "", "Kitchen"); got != "Mug / Mug (Kitchen)" {
		t.Errorf("Render() = %q", got)
	}
}

func TestDefaultModels(t *testing.T) {
	models := DefaultModels()
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}
	if models[0].Value != "databricks-dbrx-instruct" {
		t.Errorf("first model = %q", models[0].Value)
	}
}
