package storage

import (
	"context"
	"errors"
	"io"

	"gitlite/pkg/core"
	"gitlite/pkg/types"
)

var (
	ErrNotFound      = errors.New("object not found")
	ErrAmbiguousHash = errors.New("ambiguous object prefix")
	// ErrIO 包装所有底层存储访问失败 (权限、磁盘满、网络)
	ErrIO = errors.New("storage i/o error")
)

// Store defines the interface for a storage backend.
// Implementations can be local disk, an embedded KV store, or S3.
// Backends only move the already-compressed bytes; encoding lives in core.
type Store interface {
	// Put 将一个编码好的对象持久化。对象已存在时直接返回 nil (CAS)
	Put(ctx context.Context, obj core.Object) error

	// Get 根据 Hash 读取存储的原始 (压缩) 字节
	Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error)

	// Has 检查对象是否存在
	Has(ctx context.Context, hash types.Hash) (bool, error)

	// ExpandHash 将缩写 ID 扩展为完整 ID
	ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error)
}

// Key returns the backend-neutral key for hash: "objects/xx/<38 hex>".
// Key-value backends use it as-is; the disk adapter joins the same parts.
func Key(hash types.Hash) string {
	dir, file := hash.Shard()
	return "objects/" + dir + "/" + file
}

// PrefixKey is the key prefix that matches every object whose id starts with prefix.
func PrefixKey(prefix types.HashPrefix) string {
	p := string(prefix)
	return "objects/" + p[:2] + "/" + p[2:]
}

// HashFromKey is the inverse of Key.
func HashFromKey(key string) (types.Hash, bool) {
	const root = "objects/"
	if len(key) != len(root)+types.HashLength+1 || key[:len(root)] != root || key[len(root)+2] != '/' {
		return "", false
	}
	h := types.Hash(key[len(root):len(root)+2] + key[len(root)+3:])
	return h, h.IsValid()
}
