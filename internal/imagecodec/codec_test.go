package imagecodec

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
	}{
		{
			name:     "JPEG bytes",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			mimeType: "image/jpeg",
		},
		{
			name:     "PNG signature",
			data:     []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
			mimeType: "image/png",
		},
		{
			name:     "single byte",
			data:     []byte{0x00},
			mimeType: "image/webp",
		},
		{
			name:     "empty MIME type defaults to jpeg",
			data:     []byte("payload"),
			mimeType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := Encode(tt.data, tt.mimeType)

			data, mimeType, err := Decode(enc)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("Round-trip bytes mismatch: got %v, want %v", data, tt.data)
			}

			want := tt.mimeType
			if want == "" {
				want = "image/jpeg"
			}
			if mimeType != want {
				t.Errorf("Round-trip MIME type mismatch: got %q, want %q", mimeType, want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		enc  string
	}{
		{name: "empty string", enc: ""},
		{name: "missing data prefix", enc: "image/jpeg;base64,AAAA"},
		{name: "missing base64 marker", enc: "data:image/jpeg,AAAA"},
		{name: "empty MIME type", enc: "data:;base64,AAAA"},
		{name: "MIME type without slash", enc: "data:jpeg;base64,AAAA"},
		{name: "invalid base64 payload", enc: "data:image/jpeg;base64,!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(EncodedImage(tt.enc)); err == nil {
				t.Errorf("Decode(%q) succeeded, expected error", tt.enc)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	dataURI := "data:image/png;base64,AAAA"
	if got := Normalize(dataURI); string(got) != dataURI {
		t.Errorf("Normalize changed an existing data URI: %q", got)
	}

	if got := Normalize("AAAA"); string(got) != "data:image/jpeg;base64,AAAA" {
		t.Errorf("Normalize did not wrap bare base64: %q", got)
	}
}
