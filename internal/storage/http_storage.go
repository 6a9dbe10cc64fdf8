package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Bucket size limit applied when the bucket is auto-provisioned.
const bucketFileSizeLimit = 10 * 1024 * 1024

// HTTPBlobStore talks to a Supabase-compatible object storage REST API.
type HTTPBlobStore struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
}

// NewHTTPBlobStore creates a blob store client for the given storage
// endpoint. The API key authenticates both uploads and bucket provisioning.
func NewHTTPBlobStore(baseURL, apiKey, bucket string) *HTTPBlobStore {
	return &HTTPBlobStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
			},
			Timeout: 30 * time.Second,
		},
	}
}

// EnsureBucket creates the bucket as public and size-limited. An "already
// exists" response is treated as success.
func (s *HTTPBlobStore) EnsureBucket(ctx context.Context) error {
	payload, err := json.Marshal(map[string]any{
		"id":              s.bucket,
		"name":            s.bucket,
		"public":          true,
		"file_size_limit": bucketFileSizeLimit,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/storage/v1/bucket", s.baseURL), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("bucket provisioning failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated ||
		resp.StatusCode == http.StatusConflict {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("bucket provisioning failed: status %d: %s", resp.StatusCode, body)
}

// Upload stores data under filename with upsert semantics and returns the
// public URL as the image reference.
func (s *HTTPBlobStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (ImageReference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filename), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image upload failed: status %d: %s", resp.StatusCode, body)
	}

	return ImageReference(s.PublicURL(filename)), nil
}

// PublicURL returns the unauthenticated URL of a stored object.
func (s *HTTPBlobStore) PublicURL(filename string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, filename)
}

func (s *HTTPBlobStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
}
