package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitlite/pkg/core"
	"gitlite/pkg/storage"
	"gitlite/pkg/types"
)

// Adapter 实现了 storage.Store 接口, 目录布局与 git 的 loose objects 一致
type Adapter struct {
	rootPath string // 比如: /home/user/project/.git/objects
}

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(root string) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("%w: create object root: %w", storage.ErrIO, err)
	}
	return &Adapter{rootPath: root}, nil
}

func (s *Adapter) Root() string { return s.rootPath }

// layout 返回哈希对应的物理路径
// 策略：使用前 2 个字符作为子目录 (Sharding)
// Example: hash "aabbcc..." -> root/aa/bbcc...
func (s *Adapter) layout(hash types.Hash) string {
	dir, file := hash.Shard()
	return filepath.Join(s.rootPath, dir, file)
}

func (s *Adapter) Put(ctx context.Context, obj core.Object) error {
	hash := obj.ID()
	targetPath := s.layout(hash)

	// 1. 检查是否存在 (幂等性)
	// same id means byte-identical content, so an existing file is never rewritten
	if _, err := os.Stat(targetPath); err == nil {
		slog.Debug("object already stored", slog.String("id", hash.String()))
		return nil
	}

	// 2. 准备目录
	// MkdirAll treats an existing shard directory as success, which keeps
	// two writers racing on the same prefix safe.
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create shard dir: %w", storage.ErrIO, err)
	}

	// 3. 原子写入 (Atomic Write)
	// 先写到一个临时文件，然后 Rename。
	// 这样保证要么文件不存在，要么文件是完整的。
	tempFile, err := os.CreateTemp(dir, "tmp_obj_*")
	if err != nil {
		return fmt.Errorf("%w: create temp object: %w", storage.ErrIO, err)
	}
	// 如果成功 Rename 了，这个删除会失败，无害
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(obj.Bytes()); err != nil {
		tempFile.Close()
		return fmt.Errorf("%w: write object %s: %w", storage.ErrIO, hash, err)
	}
	if err := tempFile.Close(); err != nil { // 必须先关闭才能 Rename
		return fmt.Errorf("%w: close object %s: %w", storage.ErrIO, hash, err)
	}
	// loose objects are read-only, as git leaves them
	if err := os.Chmod(tempFile.Name(), 0444); err != nil {
		return fmt.Errorf("%w: chmod object %s: %w", storage.ErrIO, hash, err)
	}

	// 4. 移动到最终位置
	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		return fmt.Errorf("%w: rename object %s: %w", storage.ErrIO, hash, err)
	}

	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	targetPath := s.layout(hash)

	f, err := os.Open(targetPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open object %s: %w", storage.ErrIO, hash, err)
	}
	return f, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	targetPath := s.layout(hash)
	_, err := os.Stat(targetPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat object %s: %w", storage.ErrIO, hash, err)
}

// ExpandHash 在对应的 shard 目录里查找唯一匹配前缀的对象
func (s *Adapter) ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	if !prefix.IsValid() {
		return "", fmt.Errorf("%w: hash prefix too short or not hex: %q", types.ErrInvalidHash, prefix)
	}
	p := string(prefix)

	entries, err := os.ReadDir(filepath.Join(s.rootPath, p[:2]))
	if errors.Is(err, fs.ErrNotExist) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: read shard dir: %w", storage.ErrIO, err)
	}

	var match types.Hash
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), p[2:]) {
			continue
		}
		candidate := types.Hash(p[:2] + e.Name())
		if !candidate.IsValid() {
			continue // 临时文件等
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", storage.ErrAmbiguousHash, prefix)
		}
		match = candidate
	}

	if match == "" {
		return "", storage.ErrNotFound
	}
	return match, nil
}
