package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 配置键
const (
	KeyRepoPath         = "repo.path"
	KeyStorageType      = "storage.type"
	KeyS3Endpoint       = "storage.s3.endpoint"
	KeyS3Region         = "storage.s3.region"
	KeyS3Bucket         = "storage.s3.bucket"
	KeyS3AccessKey      = "storage.s3.access_key"
	KeyS3SecretKey      = "storage.s3.secret_key"
	KeyBadgerPath       = "storage.badger.path"
	KeyRedisURL         = "cache.redis_url"
	KeyCacheTTL         = "cache.ttl"
	KeyStrictSize       = "core.strict_size"
	KeyCompressionLevel = "core.compression_level"
	KeyHashWorkers      = "hash.workers"
	KeyLogLevel         = "log.level"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 搜索顺序：当前目录 -> ./.gitlite -> $HOME/.gitlite
		viper.AddConfigPath(".")
		viper.AddConfigPath(".gitlite")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".gitlite"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("gitlite")
	}

	// 3. 读取环境变量 (GITLITE_STORAGE_TYPE 等)
	viper.SetEnvPrefix("GITLITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	// 没找到配置文件不算错 (可能全靠默认值/环境变量)，格式错才是错
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("fatal error config file: %w", err)
		}
		slog.Debug("no config file found, using defaults/env vars")
	} else {
		slog.Debug("using config file", slog.String("path", viper.ConfigFileUsed()))
	}

	return nil
}

func setDefaults() {
	// 仓库默认位于当前目录的 .git
	wd, _ := os.Getwd()
	viper.SetDefault(KeyRepoPath, filepath.Join(wd, ".git"))

	// 存储默认值
	viper.SetDefault(KeyStorageType, "disk")
	viper.SetDefault(KeyS3Region, "us-east-1")
	viper.SetDefault(KeyBadgerPath, "")

	// 缓存默认关闭 (redis_url 为空)
	viper.SetDefault(KeyRedisURL, "")
	viper.SetDefault(KeyCacheTTL, 24*time.Hour)

	viper.SetDefault(KeyStrictSize, false)
	viper.SetDefault(KeyCompressionLevel, -1) // zlib default
	viper.SetDefault(KeyHashWorkers, 4)
	viper.SetDefault(KeyLogLevel, "info")
}

// LogLevel parses log.level into a slog level.
func LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString(KeyLogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	return level, nil
}
