// Package extraction sends product images (or follow-up prompts) to a text
// extraction backend and returns the raw completion. One text in, one text
// out; parsing the result is the caller's problem.
package extraction

import "context"

// TextExtractor is the OCR/LLM boundary. Implementations make at most one
// outbound call per Extract and never retry; a failed call surfaces to the
// caller. Callers needing bounded latency wrap ctx with a deadline.
type TextExtractor interface {
	Extract(ctx context.Context, input string, prompt Prompt) (string, error)
}
