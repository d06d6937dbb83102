// Package photostore handles member profile photos: incoming uploads are
// re-encoded to JPEG on local disk together with a fixed-width thumbnail,
// with an optional archive copy pushed to S3-compatible storage.
package photostore

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

const (
	// ThumbnailWidth is the width of the desk-view thumbnail. Height
	// follows the source aspect ratio.
	ThumbnailWidth = 256

	// MaxPhotoWidth caps the stored original; phone uploads are resized
	// down to this.
	MaxPhotoWidth = 1280
)

// Store saves member photos locally and optionally archives them to S3.
type Store struct {
	config   *Config
	s3Client *s3.Client
}

// NewStore creates a photo store from the given configuration. The S3
// client is only constructed when the archive is enabled.
func NewStore(cfg *Config) (*Store, error) {
	store := &Store{config: cfg}

	if cfg.ArchiveEnabled {
		awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		store.s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.EndpointURL)
				o.UsePathStyle = true
			}
		})
		log.Infof("[PhotoStore] S3 archive enabled for bucket: %s", cfg.BucketName)
	}

	return store, nil
}

// NewStoreFromEnv creates a photo store configured from the environment.
func NewStoreFromEnv() (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewStore(cfg)
}

// PhotoPath returns the on-disk path for a member's photo.
func (s *Store) PhotoPath(memberCode string) string {
	return filepath.Join(s.config.LocalDir, memberCode+".jpg")
}

// ThumbPath returns the on-disk path for a member's thumbnail.
func (s *Store) ThumbPath(memberCode string) string {
	return filepath.Join(s.config.LocalDir, memberCode+"_thumb.jpg")
}

// Save decodes the uploaded image and writes two JPEGs under the local
// photo directory: the original (capped at MaxPhotoWidth) and a
// ThumbnailWidth thumbnail. When the S3 archive is enabled the original is
// also uploaded; an archive failure is logged but does not fail the save.
func (s *Store) Save(memberCode string, r io.Reader) (photoPath, thumbPath string, err error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode photo: %w", err)
	}

	if err := os.MkdirAll(s.config.LocalDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	photoPath = s.PhotoPath(memberCode)
	if err := imaging.Save(capWidth(img, MaxPhotoWidth), photoPath, imaging.JPEGQuality(90)); err != nil {
		return "", "", fmt.Errorf("failed to save photo: %w", err)
	}

	thumbPath = s.ThumbPath(memberCode)
	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	if s.s3Client != nil {
		if err := s.archive(memberCode, photoPath); err != nil {
			log.Warnf("[PhotoStore] Archive upload failed for %s: %v", memberCode, err)
		}
	}

	return photoPath, thumbPath, nil
}

// Delete removes a member's photo and thumbnail from local storage.
func (s *Store) Delete(memberCode string) error {
	for _, path := range []string{s.PhotoPath(memberCode), s.ThumbPath(memberCode)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
	}
	return nil
}

func capWidth(img image.Image, maxWidth int) image.Image {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

func (s *Store) archive(memberCode, localPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open photo for archive: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat photo: %w", err)
	}

	now := time.Now()
	objectKey := s.config.GetObjectKey(memberCode, now.Year(), int(now.Month()))

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          file,
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(fileInfo.Size()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[PhotoStore] Archived photo: s3://%s/%s", s.config.BucketName, objectKey)
	return nil
}
