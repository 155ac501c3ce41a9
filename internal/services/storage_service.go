// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/farmlink/market-backend/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Upload folders. Keys are prefixed so bucket policies can differ per kind.
const (
	FolderProducts     = "products"
	FolderProfiles     = "profiles"
	FolderVerification = "verification"
)

const maxUploadSize = 10 << 20 // 10 MB

var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedDocumentTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

type StorageService struct {
	config *config.Config
	s3     *s3.S3
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		config: cfg,
		s3:     s3.New(sess),
	}, nil
}

// UploadImage stores a product or profile image and returns its public URL.
func (s *StorageService) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	return s.upload(file, folder, allowedImageTypes)
}

// UploadDocument stores a verification document. Documents are not served
// publicly; the returned key is stored on the farmer profile for staff
// review.
func (s *StorageService) UploadDocument(file *multipart.FileHeader) (string, error) {
	return s.upload(file, FolderVerification, allowedDocumentTypes)
}

func (s *StorageService) upload(file *multipart.FileHeader, folder string, allowed map[string]bool) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file size %d exceeds maximum of %d bytes", file.Size, maxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("file type %s is not allowed", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	_, err = s.s3.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(ext)),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to upload file to S3")
		return "", fmt.Errorf("%w: s3 upload", ErrExternalService)
	}

	return s.publicURL(key), nil
}

// Delete removes an object by its public URL. Missing objects are not an
// error.
func (s *StorageService) Delete(fileURL string) error {
	key := s.keyFromURL(fileURL)
	if key == "" {
		return nil
	}

	_, err := s.s3.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete file from S3")
	}
	return nil
}

func (s *StorageService) publicURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.AWS.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) keyFromURL(fileURL string) string {
	for _, prefix := range []string{FolderProducts, FolderProfiles, FolderVerification} {
		if idx := strings.Index(fileURL, prefix+"/"); idx >= 0 {
			return fileURL[idx:]
		}
	}
	return ""
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
