package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("MONGODB_DBNAME=from_file\nRATE_LIMIT_MAX=5\n"), 0o600))

	// Biến môi trường đã có được ưu tiên hơn file
	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := NewConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.MongoDB_DBName)
	assert.Equal(t, 7, cfg.RateLimit_Max)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "permissions", cfg.MongoDB_ColPermission)
}

func TestNewConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
