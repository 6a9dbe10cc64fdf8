// Package imagecodec converts raw image bytes to and from the self-describing
// data URI form used between the client, the blob store and the OCR provider.
package imagecodec

import (
	"encoding/base64"
	"fmt"
	"strings"

	apperrors "go-ecoscan/internal/errors"
)

// EncodedImage is a data URI embedding the MIME type and a base64 payload,
// e.g. "data:image/jpeg;base64,...". Decoding reproduces the exact original
// bytes.
type EncodedImage string

const defaultMIMEType = "image/jpeg"

// Encode wraps raw bytes into a data URI. It never fails for valid binary
// input; an empty MIME type falls back to image/jpeg.
func Encode(data []byte, mimeType string) EncodedImage {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return EncodedImage(fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)))
}

// Decode reverses Encode, returning the original bytes and MIME type.
func Decode(enc EncodedImage) ([]byte, string, error) {
	s := string(enc)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", apperrors.NewValidationError("encoded image lacks data URI prefix", nil)
	}
	rest := s[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", apperrors.NewValidationError("encoded image lacks base64 marker", nil)
	}
	mimeType := rest[:sep]
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return nil, "", apperrors.NewValidationError(fmt.Sprintf("invalid MIME type %q in encoded image", mimeType), nil)
	}
	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return nil, "", apperrors.NewValidationError("encoded image payload is not valid base64", err)
	}
	return data, mimeType, nil
}

// Normalize accepts either a full data URI or a bare base64 string (assumed
// JPEG) and returns a data URI. Bare payloads arrive from clients that strip
// the prefix before upload.
func Normalize(image string) EncodedImage {
	if strings.HasPrefix(image, "data:") {
		return EncodedImage(image)
	}
	return EncodedImage("data:" + defaultMIMEType + ";base64," + image)
}
