// Package ingredients derives an ordered ingredient list from raw OCR text.
// The text rarely contains an explicit array, so extraction leans on
// structural cues: bracketed arrays, an "ingredients" heading, or plain
// delimiter splitting.
package ingredients

import (
	"encoding/json"
	"regexp"
	"strings"
)

var listMarkerRe = regexp.MustCompile(`^\s*(?:\d+\.|[-*•·])\s*`)

// Extract returns the ingredient strings found in text, in order of
// appearance. Strategies are tried in priority order:
//
//  1. an explicit bracketed JSON array anywhere in the text,
//  2. the lines following an "ingredient" heading,
//  3. a plain comma/newline split.
//
// Tokens shorter than two characters or restating "ingredient"/"list" are
// extraction artifacts and are dropped.
func Extract(text string) []string {
	if items, ok := fromBracketedArray(text); ok {
		return items
	}
	if items, ok := fromHeading(text); ok {
		return items
	}
	return fromDelimiters(text)
}

func fromBracketedArray(text string) ([]string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, false
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if cleaned, ok := clean(item); ok {
			items = append(items, cleaned)
		}
	}
	return items, true
}

func fromHeading(text string) ([]string, bool) {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "ingredient")
	if idx == -1 {
		return nil, false
	}

	lines := strings.Split(text[idx:], "\n")
	if len(lines) < 2 {
		// Heading and items share one line: "Ingredients: water, sugar".
		rest := lines[0]
		if colon := strings.Index(rest, ":"); colon != -1 {
			return fromDelimiters(rest[colon+1:]), true
		}
		return nil, true
	}

	// Each non-empty line below the heading is one ingredient.
	var items []string
	for _, line := range lines[1:] {
		line = listMarkerRe.ReplaceAllString(line, "")
		if cleaned, ok := clean(line); ok {
			items = append(items, cleaned)
		}
	}
	if len(items) > 0 {
		return items, true
	}

	// Heading present but nothing below it; the items may sit on the
	// heading line itself.
	if colon := strings.Index(lines[0], ":"); colon != -1 {
		return fromDelimiters(lines[0][colon+1:]), true
	}
	return items, true
}

func fromDelimiters(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarkerRe.ReplaceAllString(line, "")
		for _, token := range strings.Split(line, ",") {
			if cleaned, ok := clean(token); ok {
				items = append(items, cleaned)
			}
		}
	}
	return items
}

// clean trims a token and reports whether it is a plausible ingredient.
func clean(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if len(token) < 2 {
		return "", false
	}
	lower := strings.ToLower(token)
	if strings.Contains(lower, "ingredient") || strings.Contains(lower, "list") {
		return "", false
	}
	return token, true
}
