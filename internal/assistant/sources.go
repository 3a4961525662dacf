package assistant

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Source is a citation candidate extracted from the assistant transcript.
type Source struct {
	URL     string
	Title   string
	Snippet string
}

// contextMarker delimits the retrieval-context block the assistant embeds
// into message content. Each marker is followed by a JSON array of source
// records, nested inside otherwise free-form text.
const contextMarker = "<AdditionalContextFromRag>"

const maxSnippetLen = 800

var urlPattern = regexp.MustCompile(`https?://[^\s"')]+`)

// ExtractSources scans free-text message content for embedded source arrays
// and returns every citation it can recover plus the number of fragments
// that failed to parse. It is total: malformed input yields fewer sources,
// never an error.
func ExtractSources(content string) ([]Source, int) {
	if !strings.Contains(content, contextMarker) {
		return nil, 0
	}

	var sources []Source
	failures := 0
	for _, blob := range extractArrays(content) {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(blob), &items); err != nil {
			failures++
			continue
		}
		for _, item := range items {
			sources = append(sources, sourcesFromItem(item)...)
		}
	}
	return sources, failures
}

// extractArrays finds each context marker and captures the bracket-balanced
// array that follows it. The scan tracks string literals and escapes so that
// brackets inside quoted text do not affect the depth count.
func extractArrays(content string) []string {
	var arrays []string
	searchPos := 0
	for {
		tagPos := strings.Index(content[searchPos:], contextMarker)
		if tagPos == -1 {
			break
		}
		tagPos += searchPos

		openRel := strings.IndexByte(content[tagPos:], '[')
		if openRel == -1 {
			searchPos = tagPos + 1
			continue
		}
		openPos := tagPos + openRel

		depth := 0
		inString := false
		escape := false
		endPos := -1
		for i := openPos; i < len(content); i++ {
			ch := content[i]
			if escape {
				escape = false
				continue
			}
			switch {
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = !inString
			case inString:
			case ch == '[':
				depth++
			case ch == ']':
				depth--
				if depth == 0 {
					endPos = i
				}
			}
			if endPos != -1 {
				break
			}
		}

		if endPos == -1 {
			// unbalanced; skip past the marker and keep scanning
			searchPos = tagPos + 1
			continue
		}
		arrays = append(arrays, content[openPos:endPos+1])
		searchPos = endPos + 1
	}
	return arrays
}

func sourcesFromItem(item json.RawMessage) []Source {
	var str string
	if err := json.Unmarshal(item, &str); err == nil {
		var sources []Source
		for _, u := range urlPattern.FindAllString(str, -1) {
			sources = append(sources, Source{URL: u, Snippet: truncate(str, maxSnippetLen)})
		}
		return sources
	}

	var obj struct {
		ID       string `json:"id"`
		URL      string `json:"url"`
		Text     string `json:"text"`
		Metadata struct {
			Text string `json:"text"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return nil
	}
	url := obj.ID
	if url == "" {
		url = obj.URL
	}
	if url == "" {
		return nil
	}
	text := obj.Metadata.Text
	if text == "" {
		text = obj.Text
	}
	return []Source{{URL: url, Snippet: truncate(text, maxSnippetLen)}}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// do not split a multi-byte rune
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut
}
