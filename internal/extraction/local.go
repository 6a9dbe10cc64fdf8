package extraction

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	apperrors "go-ecoscan/internal/errors"
	"go-ecoscan/internal/imagecodec"
)

// LocalExtractor runs Tesseract on the image bytes instead of calling the
// remote provider. It only understands data URI input; prompt instructions
// are ignored because plain OCR cannot follow them.
type LocalExtractor struct{}

// NewLocalExtractor creates a Tesseract-backed extractor.
func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

// Extract decodes the data URI and returns the recognized text.
func (l *LocalExtractor) Extract(ctx context.Context, input string, _ Prompt) (string, error) {
	if !strings.HasPrefix(input, "data:") {
		return "", apperrors.NewValidationError("local extraction requires a data URI input", nil)
	}

	data, _, err := imagecodec.Decode(imagecodec.EncodedImage(input))
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", apperrors.NewProcessingError("failed to load image into OCR engine", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", apperrors.NewProcessingError("local OCR failed", err)
	}
	return text, nil
}
