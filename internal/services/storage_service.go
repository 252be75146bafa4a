// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/config"
)

// ImageUpload is one file received with an uploadImage mutation.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// ImageStorage persists product image bytes and returns where they live.
type ImageStorage interface {
	StoreImage(ctx context.Context, productID uuid.UUID, file ImageUpload) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type StorageService struct {
	s3Client      s3iface.S3API
	bucket        string
	cloudFrontURL string
	region        string
	localPath     string
	publicBaseURL string
	maxSize       int64
	now           func() time.Time
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.AWS.S3Bucket,
		cloudFrontURL: strings.TrimRight(cfg.AWS.CloudFrontURL, "/"),
		region:        cfg.AWS.Region,
		localPath:     cfg.Storage.LocalPath,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		maxSize:       cfg.Storage.MaxImageSize,
		now:           time.Now,
	}

	if cfg.Storage.Driver != "s3" {
		return s, nil
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	s.s3Client = s3.New(sess)

	return s, nil
}

// NewS3StorageService builds a storage service around an existing client.
func NewS3StorageService(client s3iface.S3API, bucket, publicURL string, maxSize int64) *StorageService {
	return &StorageService{
		s3Client:      client,
		bucket:        bucket,
		cloudFrontURL: strings.TrimRight(publicURL, "/"),
		maxSize:       maxSize,
		now:           time.Now,
	}
}

// StoreImage checks the file's size and sniffed content type, then writes
// it to S3 or the local upload directory.
func (s *StorageService) StoreImage(ctx context.Context, productID uuid.UUID, file ImageUpload) (*UploadResult, error) {
	if file.Content == nil {
		return nil, newError(KindInvalidArgument, "Uploaded file %s is empty", file.Filename)
	}

	limit := s.maxSize
	reader := file.Content
	if limit > 0 {
		reader = io.LimitReader(file.Content, limit+1)
	}

	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, newError(KindInvalidArgument, "Uploaded file %s is empty", file.Filename)
	}
	if limit > 0 && int64(len(fileBytes)) > limit {
		return nil, newError(KindInvalidArgument, "File %s exceeds the maximum size of %d bytes", file.Filename, limit)
	}

	mimeType := http.DetectContentType(fileBytes)
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, newError(KindInvalidArgument, "File type %s is not allowed", mimeType)
	}

	key := s.generateKey(productID, ext)

	if s.s3Client != nil {
		return s.uploadToS3(ctx, fileBytes, key, mimeType)
	}
	return s.uploadToLocal(fileBytes, key, mimeType)
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	target := filepath.Join(s.localPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      s.publicBaseURL + "/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		err := os.Remove(filepath.Join(s.localPath, filepath.FromSlash(key)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete local file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	logrus.WithField("key", key).Debug("Deleted stored image")
	return nil
}

// generateKey yields images/<product>/<date>_<rand><ext>.
func (s *StorageService) generateKey(productID uuid.UUID, ext string) string {
	id := uuid.New()
	timestamp := s.now().Format("20060102")
	return path.Join("images", productID.String(), fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext))
}

func (s *StorageService) getS3URL(key string) string {
	if s.cloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
