// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gitlite/pkg/config"
	"gitlite/pkg/core"
	"gitlite/pkg/objects"
	"gitlite/pkg/refs"
	"gitlite/pkg/repo"
	"gitlite/pkg/storage"
	"gitlite/pkg/storage/badger"
	"gitlite/pkg/storage/cache"
	"gitlite/pkg/storage/disk"
	"gitlite/pkg/storage/s3"

	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
type App struct {
	Repo    *repo.Layout
	Store   storage.Store
	Objects *objects.Store
	Refs    *refs.Manager

	closers []io.Closer
}

// NewApp 按 Viper 配置组装依赖, 它不知道具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	// 1. 仓库根路径 (Single Source of Truth)
	repoPath := viper.GetString(config.KeyRepoPath)
	if repoPath == "" {
		return nil, errors.New("repository path not set")
	}
	layout, err := repo.Open(repoPath)
	if err != nil {
		return nil, err
	}

	// 2. 编码器
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}

	// 3. 存储层
	a := &App{Repo: layout, Refs: refs.NewManager(layout.Root)}
	store, err := a.initStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store
	a.Objects = objects.New(store, codec)

	return a, nil
}

// NewCodec 根据 core.* 配置创建 Codec
func NewCodec() (*core.Codec, error) {
	codec, err := core.NewCodec(
		core.WithLevel(viper.GetInt(config.KeyCompressionLevel)),
		core.WithStrictSize(viper.GetBool(config.KeyStrictSize)),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid codec config: %w", err)
	}
	return codec, nil
}

// initStore 根据 storage.type 选择后端, 可选地包一层 Redis 缓存
func (a *App) initStore(ctx context.Context) (storage.Store, error) {
	var backend storage.Store

	switch t := viper.GetString(config.KeyStorageType); t {
	case "disk", "":
		d, err := disk.NewAdapter(a.Repo.ObjectsDir())
		if err != nil {
			return nil, fmt.Errorf("failed to init disk storage: %w", err)
		}
		backend = d

	case "s3":
		s, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        viper.GetString(config.KeyS3Endpoint),
			Region:          viper.GetString(config.KeyS3Region),
			Bucket:          viper.GetString(config.KeyS3Bucket),
			AccessKeyID:     viper.GetString(config.KeyS3AccessKey),
			SecretAccessKey: viper.GetString(config.KeyS3SecretKey),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		backend = s

	case "badger":
		path := viper.GetString(config.KeyBadgerPath)
		if path == "" {
			path = filepath.Join(a.Repo.Root, "badger")
		}
		b, err := badger.NewAdapter(path)
		if err != nil {
			return nil, fmt.Errorf("failed to init badger storage: %w", err)
		}
		a.closers = append(a.closers, b)
		backend = b

	default:
		return nil, fmt.Errorf("unsupported storage type: %q", t)
	}

	redisURL := viper.GetString(config.KeyRedisURL)
	if redisURL == "" {
		return backend, nil
	}
	cached, err := cache.NewCachedStore(backend, cache.Config{
		RedisURL: redisURL,
		TTL:      viper.GetDuration(config.KeyCacheTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}
	a.closers = append(a.closers, cached)
	return cached, nil
}

// Close 释放后端资源 (badger 文件锁, redis 连接)
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
