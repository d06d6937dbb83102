package photostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectKey(t *testing.T) {
	cfg := &Config{BucketName: "gymdesk-photos"}

	key := cfg.GetObjectKey("rey-001", 2025, 11)
	assert.Equal(t, "members/2025/11/rey-001.jpg", key)

	key = cfg.GetObjectKey("ana-042", 2026, 3)
	assert.Equal(t, "members/2026/03/ana-042.jpg", key)
}

func TestLocalPaths(t *testing.T) {
	store := &Store{config: &Config{LocalDir: "uploads/members"}}

	assert.Equal(t, "uploads/members/rey-001.jpg", store.PhotoPath("rey-001"))
	assert.Equal(t, "uploads/members/rey-001_thumb.jpg", store.ThumbPath("rey-001"))
}

func TestLoadConfig_ArchiveValidation(t *testing.T) {
	t.Setenv("S3_ARCHIVE_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET_NAME", "gymdesk-photos")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.True(t, cfg.ArchiveEnabled)
}

func TestLoadConfig_DisabledByDefault(t *testing.T) {
	t.Setenv("S3_ARCHIVE_ENABLED", "")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, "uploads/members", cfg.LocalDir)
}
