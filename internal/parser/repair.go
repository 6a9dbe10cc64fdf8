package parser

import (
	"regexp"
	"strings"
)

// The repair heuristics are deliberately pure string surgery, kept apart from
// JSON decoding so they can be tested against a corpus of known-bad LLM
// completions.

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_-]*)\s*:`)
)

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
)

// ExtractObject returns the largest {...} span in text, or "" when the text
// contains no balanced object at all.
func ExtractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// Repair applies syntactic fixes for the malformations LLMs most commonly
// emit: stray typographic quotes, unquoted property names and trailing commas
// before a closing bracket. The output is not guaranteed to be valid JSON,
// only closer to it.
func Repair(text string) string {
	text = smartQuoteReplacer.Replace(text)
	text = unquotedKeyRe.ReplaceAllString(text, `$1"$2":`)
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	return text
}
