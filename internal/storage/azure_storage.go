package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBlobStore stores images in an Azure blob container.
type AzureBlobStore struct {
	client      *azblob.Client
	accountName string
	container   string
}

// NewAzureBlobStore creates a blob store backed by the given storage account.
func NewAzureBlobStore(accountName, accountKey, container string) (*AzureBlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureBlobStore{
		client:      client,
		accountName: accountName,
		container:   container,
	}, nil
}

// EnsureBucket creates the container, tolerating one that already exists.
func (s *AzureBlobStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return fmt.Errorf("container provisioning failed: %w", err)
	}
	return nil
}

// Upload writes the blob and returns its public URL.
func (s *AzureBlobStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (ImageReference, error) {
	_, err := s.client.UploadBuffer(ctx, s.container, filename, data, nil)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	return ImageReference(s.PublicURL(filename)), nil
}

// PublicURL returns the blob URL in the storage account.
func (s *AzureBlobStore) PublicURL(filename string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.accountName, s.container, filename)
}
