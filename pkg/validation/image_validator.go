package validation

import (
	"encoding/base64"
	"strings"

	apperrors "go-ecoscan/internal/errors"
)

// ImageValidator checks incoming image payloads before the pipeline touches
// them. A payload may be a data URI or a bare base64 string.
type ImageValidator struct {
	allowedMIMETypes []string
	maxDecodedBytes  int64
}

// NewImageValidator creates an image validator with default settings
func NewImageValidator() *ImageValidator {
	return &ImageValidator{
		allowedMIMETypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		maxDecodedBytes:  10 * 1024 * 1024,
	}
}

// NewImageValidatorWithOptions creates an image validator with custom options
func NewImageValidatorWithOptions(mimeTypes []string, maxDecodedBytes int64) *ImageValidator {
	return &ImageValidator{
		allowedMIMETypes: mimeTypes,
		maxDecodedBytes:  maxDecodedBytes,
	}
}

// ValidateImagePayload validates if the provided payload is acceptable for
// analysis
func (v *ImageValidator) ValidateImagePayload(payload string) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return apperrors.NewValidationError("image payload cannot be empty", nil)
	}

	if strings.HasPrefix(payload, "data:") {
		return v.validateDataURI(payload)
	}
	return v.validateBase64(payload)
}

func (v *ImageValidator) validateDataURI(payload string) error {
	rest := strings.TrimPrefix(payload, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return apperrors.NewValidationError("data URI has no payload section", nil)
	}

	meta := rest[:comma]
	mimeType := meta
	if semi := strings.Index(meta, ";"); semi >= 0 {
		mimeType = meta[:semi]
		if !strings.Contains(meta[semi:], "base64") {
			return apperrors.NewValidationError("data URI must be base64 encoded", nil)
		}
	}

	if !v.isMIMETypeAllowed(mimeType) {
		return apperrors.NewValidationError("unsupported image type: "+mimeType, nil)
	}

	return v.validateBase64(rest[comma+1:])
}

func (v *ImageValidator) validateBase64(encoded string) error {
	if encoded == "" {
		return apperrors.NewValidationError("image payload cannot be empty", nil)
	}

	decodedLen := base64.StdEncoding.DecodedLen(len(encoded))
	if int64(decodedLen) > v.maxDecodedBytes {
		return apperrors.NewValidationError("image exceeds maximum allowed size", nil)
	}

	if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
		return apperrors.NewValidationError("image payload is not valid base64", err)
	}

	return nil
}

func (v *ImageValidator) isMIMETypeAllowed(mimeType string) bool {
	for _, allowed := range v.allowedMIMETypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}
