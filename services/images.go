package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/errs"
)

// BlobStore writes an image blob and returns a resolvable URL for it.
type BlobStore interface {
	Put(key string, contentType string, data []byte) (string, error)
}

// ImageService decodes data-URI image payloads ("data:image/png;base64,...")
// and writes them through a BlobStore.
type ImageService struct {
	logger zerolog.Logger
	store  BlobStore
}

func NewImageService(store BlobStore) *ImageService {
	return &ImageService{
		logger: log.With().Str("serviceName", "images").Logger(),
		store:  store,
	}
}

// SaveDataURI validates and decodes the payload, then stores it under a
// fresh uuid-based key.
func (s *ImageService) SaveDataURI(payload string) (string, error) {
	data, contentType, ext, err := ParseDataURI(payload)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New(), ext)
	url, err := s.store.Put(key, contentType, data)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("image stored")
	return url, nil
}

// ParseDataURI splits a "data:<mime>;base64,<payload>" string into the
// decoded bytes, content type and file extension.
func ParseDataURI(payload string) (data []byte, contentType, ext string, err error) {
	if payload == "" {
		return nil, "", "", errs.NewMissingImageError()
	}
	if !strings.HasPrefix(payload, "data:") {
		return nil, "", "", errs.NewInvalidImageError("expected a data URI")
	}
	header, encoded, found := strings.Cut(payload[len("data:"):], ";base64,")
	if !found {
		return nil, "", "", errs.NewInvalidImageError("expected a base64-encoded payload")
	}
	if !strings.HasPrefix(header, "image/") {
		return nil, "", "", errs.NewInvalidImageError("expected an image content type")
	}
	data, decodeErr := base64.StdEncoding.DecodeString(encoded)
	if decodeErr != nil {
		return nil, "", "", errs.NewInvalidImageError("payload is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", "", errs.NewInvalidImageError("payload is empty")
	}
	ext = header[strings.LastIndex(header, "/")+1:]
	return data, header, ext, nil
}

// S3BlobStore writes blobs to an S3 bucket.
type S3BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3BlobStore(client *s3.Client, bucket, baseURL string) *S3BlobStore {
	return &S3BlobStore{client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *S3BlobStore) Put(key string, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// DiskBlobStore writes blobs under a media root on local disk, for
// development setups without S3.
type DiskBlobStore struct {
	root    string
	baseURL string
}

func NewDiskBlobStore(root, baseURL string) *DiskBlobStore {
	return &DiskBlobStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DiskBlobStore) Put(key string, _ string, data []byte) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}
