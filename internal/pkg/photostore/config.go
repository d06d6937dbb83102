package photostore

import (
	"errors"
	"fmt"

	"github.com/RamilOcampo/GymDesk/internal/pkg/env"
)

// Config holds photo storage configuration. Photos always land on local
// disk; the S3 archive is optional and off by default.
type Config struct {
	LocalDir        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	ArchiveEnabled  bool
}

// LoadConfig loads photo storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		LocalDir:        env.GetEnv("PHOTO_DIR", "uploads/members"),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "ap-southeast-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		ArchiveEnabled:  env.GetEnv("S3_ARCHIVE_ENABLED", "false") == "true",
	}

	if config.ArchiveEnabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the S3 archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the S3 archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the S3 archive is enabled")
		}
	}

	return config, nil
}

// GetObjectKey generates a standardized S3 object key for a member photo.
// Format: members/YYYY/MM/<memberCode>.jpg
func (c *Config) GetObjectKey(memberCode string, year, month int) string {
	return fmt.Sprintf("members/%04d/%02d/%s.jpg", year, month, memberCode)
}
