// Package objects is the object database: it turns payloads into stored,
// content-addressed objects and reads them back.
package objects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gitlite/pkg/core"
	"gitlite/pkg/storage"
	"gitlite/pkg/types"
)

// Store 组合 Codec 和存储后端
// Callers only ever deal in ids; paths and keys stay inside the backend.
type Store struct {
	backend storage.Store
	codec   *core.Codec
}

// New 创建 Store; codec 为 nil 时使用 core.DefaultCodec
func New(backend storage.Store, codec *core.Codec) *Store {
	if codec == nil {
		codec = core.DefaultCodec
	}
	return &Store{backend: backend, codec: codec}
}

// Seal encodes payload without writing it (hash-object without -w).
func (s *Store) Seal(kind core.ObjectType, payload []byte) (*core.Sealed, error) {
	return s.codec.Seal(kind, payload)
}

// Put 编码并写入对象，返回对象 ID。重复写入相同内容是幂等的。
func (s *Store) Put(ctx context.Context, kind core.ObjectType, payload []byte) (types.Hash, error) {
	sealed, err := s.codec.Seal(kind, payload)
	if err != nil {
		return "", err
	}
	if err := s.Write(ctx, sealed); err != nil {
		return "", err
	}
	return sealed.ID(), nil
}

// Write stores an already sealed object.
func (s *Store) Write(ctx context.Context, obj core.Object) error {
	if err := s.backend.Put(ctx, obj); err != nil {
		return fmt.Errorf("write object %s: %w", obj.ID(), err)
	}
	slog.Debug("object written",
		slog.String("id", obj.ID().String()),
		slog.String("type", obj.Type().String()),
		slog.Int("stored_bytes", len(obj.Bytes())),
	)
	return nil
}

// Get 读取并解码对象
// hash must be a full 40-character id; use Resolve for abbreviations.
func (s *Store) Get(ctx context.Context, hash types.Hash) (*core.Content, error) {
	if !hash.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidHash, hash)
	}

	rc, err := s.backend.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("object %s: %w", hash, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", hash, err)
	}
	defer rc.Close()

	// 先完整读出, 读失败属于 IO 错误, 解码失败才是 malformed
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read object %s: %w", storage.ErrIO, hash, err)
	}

	content, err := s.codec.Open(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}

	slog.Debug("object read",
		slog.String("id", hash.String()),
		slog.String("type", content.Type.String()),
		slog.Int64("size", content.Size),
	)
	return content, nil
}

// Has reports whether the object is stored.
func (s *Store) Has(ctx context.Context, hash types.Hash) (bool, error) {
	if !hash.IsValid() {
		return false, fmt.Errorf("%w: %q", types.ErrInvalidHash, hash)
	}
	return s.backend.Has(ctx, hash)
}

// Resolve 将用户输入 (完整 ID 或至少 4 位的缩写) 解析为完整 ID
func (s *Store) Resolve(ctx context.Context, ref string) (types.Hash, error) {
	if h, err := types.ParseHash(ref); err == nil {
		return h, nil
	}

	prefix := types.HashPrefix(strings.ToLower(strings.TrimSpace(ref)))
	if !prefix.IsValid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidHash, ref)
	}
	h, err := s.backend.ExpandHash(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", ref, err)
	}
	return h, nil
}
