package assistant

import (
	"strings"
	"testing"
)

func TestExtractSourcesNoMarker(t *testing.T) {
	sources, failures := ExtractSources(`just a normal reply with [brackets] and "quotes"`)
	if sources != nil || failures != 0 {
		t.Errorf("got %v, %d; want nil, 0", sources, failures)
	}
}

func TestExtractSourcesObjectItems(t *testing.T) {
	content := `thinking... <AdditionalContextFromRag> [` +
		`{"id":"https://example.com/a","metadata":{"text":"alpha snippet"}},` +
		`{"url":"https://example.com/b","text":"beta snippet"}` +
		`] trailing text`

	sources, failures := ExtractSources(content)
	if failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].URL != "https://example.com/a" || sources[0].Snippet != "alpha snippet" {
		t.Errorf("first source = %+v", sources[0])
	}
	if sources[1].URL != "https://example.com/b" || sources[1].Snippet != "beta snippet" {
		t.Errorf("second source = %+v", sources[1])
	}
}

func TestExtractSourcesStringItems(t *testing.T) {
	content := `<AdditionalContextFromRag> ["see https://example.com/doc and https://example.com/ref for details","no links here"]`

	sources, failures := ExtractSources(content)
	if failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2 (one per URL, link-free strings skipped)", len(sources))
	}
	if sources[0].URL != "https://example.com/doc" {
		t.Errorf("first URL = %q", sources[0].URL)
	}
	if sources[1].URL != "https://example.com/ref" {
		t.Errorf("second URL = %q", sources[1].URL)
	}
}

func TestExtractSourcesNestedAndQuotedBrackets(t *testing.T) {
	// brackets inside string literals and a nested array must not break the
	// depth scan
	content := `<AdditionalContextFromRag> [{"id":"https://example.com/x","metadata":{"text":"contains ] and [ in text \" escaped"}}]`

	sources, failures := ExtractSources(content)
	if failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}
	if len(sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(sources))
	}
	if !strings.Contains(sources[0].Snippet, "] and [") {
		t.Errorf("snippet lost quoted brackets: %q", sources[0].Snippet)
	}
}

func TestExtractSourcesMultipleMarkers(t *testing.T) {
	content := `<AdditionalContextFromRag> [{"id":"https://a.example.com"}]` +
		` middle text ` +
		`<AdditionalContextFromRag> [{"id":"https://b.example.com"}]`

	sources, failures := ExtractSources(content)
	if failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
}

func TestExtractSourcesMalformedCountsFailure(t *testing.T) {
	content := `<AdditionalContextFromRag> [this is not json] ` +
		`<AdditionalContextFromRag> [{"id":"https://good.example.com"}]`

	sources, failures := ExtractSources(content)
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
	if len(sources) != 1 || sources[0].URL != "https://good.example.com" {
		t.Errorf("good fragment not recovered: %+v", sources)
	}
}

func TestExtractSourcesUnbalancedArray(t *testing.T) {
	content := `<AdditionalContextFromRag> [{"id":"https://example.com"`

	sources, failures := ExtractSources(content)
	if len(sources) != 0 {
		t.Errorf("sources = %v, want none for unterminated array", sources)
	}
	if failures != 0 {
		t.Errorf("failures = %d; unterminated input is skipped, not counted", failures)
	}
}

func TestExtractSourcesItemsWithoutURL(t *testing.T) {
	content := `<AdditionalContextFromRag> [{"text":"no id or url"},42,null]`

	sources, failures := ExtractSources(content)
	if failures != 0 {
		t.Errorf("failures = %d, want 0", failures)
	}
	if len(sources) != 0 {
		t.Errorf("sources = %+v, want none", sources)
	}
}

func TestTruncatePreservesRunes(t *testing.T) {
	long := strings.Repeat("я", maxSnippetLen) // 2 bytes per rune
	got := truncate(long, maxSnippetLen)
	if len(got) > maxSnippetLen {
		t.Errorf("len = %d, want <= %d", len(got), maxSnippetLen)
	}
	for _, r := range got {
		if r != 'я' {
			t.Fatalf("rune split produced %q", r)
		}
	}

	short := "fits"
	if truncate(short, maxSnippetLen) != short {
		t.Error("short string was modified")
	}
}
