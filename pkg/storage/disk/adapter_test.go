package disk

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gitlite/pkg/core"
	"gitlite/pkg/storage"
	"gitlite/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 模拟一个简单的 Object 实现，用于测试
type mockObject struct {
	id   types.Hash
	data []byte
}

func (m mockObject) ID() types.Hash        { return m.id }
func (m mockObject) Bytes() []byte         { return m.data }
func (m mockObject) Type() core.ObjectType { return core.TypeBlob }

func TestDiskAdapter(t *testing.T) {
	// 1. 创建临时测试目录
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)

	ctx := context.Background()

	// hash of "blob 5\x00hello"
	obj := mockObject{
		id:   "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0",
		data: []byte("compressed bytes"),
	}

	// 2. 测试 Put
	err = store.Put(ctx, obj)
	assert.NoError(t, err)

	// 验证文件是否真的存在于物理磁盘
	// 路径应该是 tmpDir/b6/fc4c...
	expectedPath := filepath.Join(tmpDir, "b6", "fc4c620b67d95f953a5c1c1230aaab5db5a1b0")
	info, err := os.Stat(expectedPath)
	require.NoError(t, err, "object must live in its shard directory")
	assert.Equal(t, os.FileMode(0444), info.Mode().Perm())

	// 3. 测试 Has
	exists, err := store.Has(ctx, obj.id)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Has(ctx, types.Hash(strings.Repeat("f", 40))) // 不存在的
	assert.NoError(t, err)
	assert.False(t, exists)

	// 4. 测试 Get
	reader, err := store.Get(ctx, obj.id)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, []byte("compressed bytes"), content)

	// 5. no temp files left behind
	entries, err := os.ReadDir(filepath.Join(tmpDir, "b6"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDiskAdapter_GetMissing(t *testing.T) {
	store, err := NewAdapter(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), types.Hash(strings.Repeat("a", 40)))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDiskAdapter_PutIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)
	ctx := context.Background()

	obj := mockObject{id: types.Hash(strings.Repeat("1", 40)), data: []byte("first")}
	require.NoError(t, store.Put(ctx, obj))
	// 同 ID 第二次写入是 no-op
	require.NoError(t, store.Put(ctx, mockObject{id: obj.id, data: []byte("second")}))

	reader, err := store.Get(ctx, obj.id)
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), content)
}

func TestDiskAdapter_ConcurrentShardCreation(t *testing.T) {
	store, err := NewAdapter(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	// 所有对象共享 "ab" shard，目录创建必须是幂等的
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := types.Hash("ab" + strings.Repeat(string("0123456789abcdef"[i]), 38))
			errs[i] = store.Put(ctx, mockObject{id: id, data: []byte{byte(i)}})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}
}

func TestDiskAdapter_PutIOError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)

	require.NoError(t, os.Chmod(tmpDir, 0555))
	t.Cleanup(func() { os.Chmod(tmpDir, 0755) })

	err = store.Put(context.Background(), mockObject{id: types.Hash(strings.Repeat("c", 40)), data: []byte("x")})
	assert.ErrorIs(t, err, storage.ErrIO)
}

func TestDiskAdapter_ExpandHash(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)
	ctx := context.Background()

	// 准备数据: 构造两个 Hash 前缀相似的对象
	objA := mockObject{id: "1111aaaa00000000000000000000000000000000", data: []byte("A")}
	objB := mockObject{id: "1111bbbb00000000000000000000000000000000", data: []byte("B")}
	objC := mockObject{id: "2222cccc00000000000000000000000000000000", data: []byte("C")}

	require.NoError(t, store.Put(ctx, objA))
	require.NoError(t, store.Put(ctx, objB))
	require.NoError(t, store.Put(ctx, objC))

	// a stray temp file in the shard must not count as a match
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "22", "tmp_obj_1"), []byte("junk"), 0644))

	tests := []struct {
		name     string
		input    string
		wantHash types.Hash
		wantErr  error
	}{
		{"Exact match", string(objC.id), objC.id, nil},
		{"Unique prefix (4 chars)", "2222", objC.id, nil},
		{"Unique prefix (long)", "2222cccc", objC.id, nil},
		{"Ambiguous prefix", "1111", "", storage.ErrAmbiguousHash}, // 1111 同时匹配 A 和 B
		{"Not found in shard", "1111cccc", "", storage.ErrNotFound},
		{"Missing shard", "ffff", "", storage.ErrNotFound},
		{"Too short", "123", "", types.ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ExpandHash(ctx, types.HashPrefix(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHash, got)
		})
	}
}
