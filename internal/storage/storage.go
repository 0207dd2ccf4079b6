// Package storage uploads user images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"prodash/internal/config"
	"prodash/internal/uuid"
)

// MaxImageBytes caps a decoded upload.
const MaxImageBytes = 5 << 20

var (
	ErrInvalidDataURL      = errors.New("storage: invalid base64 image")
	ErrUnsupportedImage    = errors.New("storage: unsupported image type")
	ErrImageTooLarge       = errors.New("storage: image exceeds size limit")
	ErrStorageUnconfigured = errors.New("storage: no object store configured")
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageStore persists an image and returns the URL it can be fetched from.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Client stores images in a single minio bucket.
type Client struct {
	client    *minio.Client
	bucket    string
	baseURL   string
	newObject func() string
}

// New creates a client for cfg. It does not contact the server.
func New(cfg config.StorageConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageUnconfigured
	}

	// minio-go expects host:port
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}

	return &Client{client: mc, bucket: cfg.Bucket, baseURL: baseURL, newObject: uuid.New}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.bucket, err)
		}
	}
	return nil
}

// Upload stores data under a fresh key and returns its public URL.
func (c *Client) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	key := c.objectKey(ext)
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return c.objectURL(key), nil
}

func (c *Client) objectKey(ext string) string {
	return fmt.Sprintf("images/%s.%s", c.newObject(), ext)
}

func (c *Client) objectURL(key string) string {
	return c.baseURL + "/" + key
}

// DecodeDataURL parses "data:image/png;base64,<payload>". A bare base64
// payload is accepted and sniffed as PNG, JPEG, GIF or WebP.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	contentType := ""
	payload := s

	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, body, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", ErrInvalidDataURL
		}
		mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
		if !isBase64 {
			return nil, "", ErrInvalidDataURL
		}
		contentType = strings.ToLower(mediaType)
		payload = body
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, "", ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", ErrInvalidDataURL
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	if contentType == "" {
		contentType = sniffImage(data)
	}
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, "", ErrUnsupportedImage
	}
	return data, contentType, nil
}

func sniffImage(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	}
	return ""
}
