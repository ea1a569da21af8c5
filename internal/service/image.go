package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/xodiumx/foodgram/config"
)

// ImageStore persists decoded image bytes and returns a retrievable URL.
type ImageStore interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
}

// ImageService resolves recipe image submissions to stored URLs. Clients may
// send a plain URL or an inline "data:image/...;base64," payload.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Resolve passes regular URLs through unchanged and uploads inline base64
// images to the store.
func (s *ImageService) Resolve(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:image") {
		return image, nil
	}
	if s.store == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}

	meta, encoded, found := strings.Cut(image, ";base64,")
	if !found {
		return "", fmt.Errorf("malformed image data URL")
	}
	contentType := strings.TrimPrefix(meta, "data:")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	return s.store.Store(ctx, data, contentType)
}

// S3ImageStore uploads images to the configured bucket and returns the
// public object URL.
type S3ImageStore struct {
	s3 *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3: s3Config}
}

func (s *S3ImageStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := "png"
	if _, sub, found := strings.Cut(contentType, "/"); found && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)

	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key), nil
}
