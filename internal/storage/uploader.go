package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader stores an image in an external object store and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// GCSUploader uploads lesson images into a Google Cloud Storage bucket under
// a fixed folder, keyed by random UUIDs.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

const imageFolder = "lesson-images"

func NewGCSUploader(ctx context.Context, bucket, credentialsFile string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("object storage bucket not configured")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, contentType string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s/%s%s", imageFolder, uuid.NewString(), extensionFor(contentType))

	w := u.client.Bucket(u.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, name), nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
