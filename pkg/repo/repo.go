// Package repo creates and locates the on-disk repository skeleton:
//
//	<root>/HEAD      "ref: refs/heads/main\n"
//	<root>/objects/  loose objects, see storage/disk
//	<root>/refs/     empty
package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gitlite/pkg/refs"
	"gitlite/pkg/storage"
)

var (
	ErrAlreadyExists = errors.New("repository already exists")
	ErrNotRepository = errors.New("not a repository")
)

// Layout 描述仓库内各个路径
type Layout struct {
	Root string
}

func (l Layout) ObjectsDir() string { return filepath.Join(l.Root, "objects") }
func (l Layout) RefsDir() string    { return filepath.Join(l.Root, "refs") }
func (l Layout) HeadFile() string   { return filepath.Join(l.Root, "HEAD") }

// Init 创建仓库骨架。
// Re-init is strict: if any target already exists nothing is created and
// ErrAlreadyExists is returned.
func Init(root string) (*Layout, error) {
	l := &Layout{Root: root}

	// 1. 前置检查, 在动文件系统之前完成
	for _, p := range []string{l.Root, l.ObjectsDir(), l.RefsDir(), l.HeadFile()} {
		_, err := os.Lstat(p)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, p)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: stat %s: %w", storage.ErrIO, p, err)
		}
	}

	// 2. 创建目录结构
	if err := os.MkdirAll(filepath.Dir(l.Root), 0755); err != nil {
		return nil, fmt.Errorf("%w: create parent dir: %w", storage.ErrIO, err)
	}
	// Mkdir (not MkdirAll) so a root created since the check still reports a collision
	if err := os.Mkdir(l.Root, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, l.Root)
		}
		return nil, fmt.Errorf("%w: create repo dir: %w", storage.ErrIO, err)
	}
	for _, dir := range []string{l.ObjectsDir(), l.RefsDir()} {
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", storage.ErrIO, dir, err)
		}
	}

	// 3. 写入 HEAD
	if err := refs.NewManager(l.Root).WriteSymbolic(refs.DefaultBranchRef); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrIO, err)
	}

	return l, nil
}

// Open 验证 root 是一个已初始化的仓库
func Open(root string) (*Layout, error) {
	l := &Layout{Root: root}
	info, err := os.Stat(l.ObjectsDir())
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s (run 'gitlite init' first)", ErrNotRepository, root)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", storage.ErrIO, l.ObjectsDir(), err)
	}
	return l, nil
}
