// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/digital-directions/stagegate/pkg/lifecycle"
)

// MaxListCap bounds the page size for blob list operations.
const MaxListCap int32 = 500

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the body.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// Find returns metadata for the blob at the given key.
	// Returns ErrNotFound if the blob does not exist.
	Find(ctx context.Context, key string) (*BlobMetadata, error)
	// List pages through blobs under the given prefix. marker continues a
	// previous page; maxResults caps the page size.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error)
}

// DownloadResult carries a blob stream with its content headers.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// BlobMetadata describes a stored blob without its content.
type BlobMetadata struct {
	Key           string     `json:"key"`
	ContentType   string     `json:"content_type"`
	ContentLength int64      `json:"content_length"`
	LastModified  *time.Time `json:"last_modified"`
}

// ListResult is one page of blob metadata.
type ListResult struct {
	Items      []BlobMetadata `json:"items"`
	NextMarker string         `json:"next_marker,omitempty"`
}

// ParseMaxResults parses a page size parameter, falling back to the
// configured default and clamping to MaxListCap.
func ParseMaxResults(raw string, fallback int32) (int32, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max_results: %q", raw)
	}
	return min(int32(n), MaxListCap), nil
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates a storage system from the given configuration.
// It validates the connection string and creates the Azure client
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	result := &DownloadResult{Body: resp.Body}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		result.ContentLength = *resp.ContentLength
	}
	return result, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

func (a *azure) Find(ctx context.Context, key string) (*BlobMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob properties %s: %w", key, err)
	}

	meta := &BlobMetadata{Key: key, LastModified: props.LastModified}
	if props.ContentType != nil {
		meta.ContentType = *props.ContentType
	}
	if props.ContentLength != nil {
		meta.ContentLength = *props.ContentLength
	}
	return meta, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	opts := &azblob.ListBlobsFlatOptions{
		MaxResults: &maxResults,
	}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)

	result := &ListResult{Items: make([]BlobMetadata, 0, maxResults)}
	if !pager.More() {
		return result, nil
	}

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}
		meta := BlobMetadata{Key: *item.Name}
		if item.Properties != nil {
			meta.LastModified = item.Properties.LastModified
			if item.Properties.ContentType != nil {
				meta.ContentType = *item.Properties.ContentType
			}
			if item.Properties.ContentLength != nil {
				meta.ContentLength = *item.Properties.ContentLength
			}
		}
		result.Items = append(result.Items, meta)
	}

	if page.NextMarker != nil && *page.NextMarker != "" {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
