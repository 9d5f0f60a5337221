package app

import (
	"context"
	"path/filepath"
	"testing"

	"gitlite/pkg/config"
	"gitlite/pkg/core"
	"gitlite/pkg/repo"
	"gitlite/pkg/storage/badger"
	"gitlite/pkg/storage/disk"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".git")
	_, err := repo.Init(root)
	require.NoError(t, err)

	viper.Reset()
	viper.Set(config.KeyRepoPath, root)
	viper.Set(config.KeyCompressionLevel, -1)
	return root
}

func TestNewApp_Disk(t *testing.T) {
	setupRepo(t)
	viper.Set(config.KeyStorageType, "disk")

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &disk.Adapter{}, a.Store)

	id, err := a.Objects.Put(context.Background(), core.TypeBlob, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0", id.String())
}

func TestNewApp_Badger(t *testing.T) {
	root := setupRepo(t)
	viper.Set(config.KeyStorageType, "badger")

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &badger.Adapter{}, a.Store)
	assert.DirExists(t, filepath.Join(root, "badger"))
	assert.NoError(t, a.Close())
}

func TestNewApp_NotRepository(t *testing.T) {
	viper.Reset()
	viper.Set(config.KeyRepoPath, filepath.Join(t.TempDir(), ".git"))

	_, err := NewApp(context.Background())
	assert.ErrorIs(t, err, repo.ErrNotRepository)
}

func TestInitStore_S3_MissingBucket(t *testing.T) {
	setupRepo(t)
	viper.Set(config.KeyStorageType, "s3")
	// 故意不设置 bucket

	_, err := NewApp(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestInitStore_UnknownType(t *testing.T) {
	setupRepo(t)
	viper.Set(config.KeyStorageType, "ftp") // 不支持的类型

	_, err := NewApp(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestNewCodec_InvalidLevel(t *testing.T) {
	viper.Reset()
	viper.Set(config.KeyCompressionLevel, 42)

	_, err := NewCodec()
	assert.ErrorContains(t, err, "invalid codec config")
}
