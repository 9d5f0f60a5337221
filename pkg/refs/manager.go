package refs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBranchRef 是新仓库 HEAD 指向的分支
const DefaultBranchRef = "refs/heads/main"

const symbolicPrefix = "ref: "

var (
	ErrNoHead      = errors.New("HEAD not found")
	ErrNotSymbolic = errors.New("HEAD is not a symbolic ref")
)

// Manager 负责管理引用 (Refs)，目前只有 HEAD
type Manager struct {
	rootPath string
}

func NewManager(rootPath string) *Manager {
	return &Manager{rootPath: rootPath}
}

// headPath 返回 <repo>/HEAD 的物理路径
func (m *Manager) headPath() string {
	return filepath.Join(m.rootPath, "HEAD")
}

// ReadHead 返回 HEAD 的内容 (去掉换行)
func (m *Manager) ReadHead() (string, error) {
	data, err := os.ReadFile(m.headPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoHead
	}
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SymbolicTarget returns the ref HEAD points at, e.g. "refs/heads/main".
func (m *Manager) SymbolicTarget() (string, error) {
	head, err := m.ReadHead()
	if err != nil {
		return "", err
	}
	target, ok := strings.CutPrefix(head, symbolicPrefix)
	if !ok || target == "" {
		return "", fmt.Errorf("%w: %q", ErrNotSymbolic, head)
	}
	return target, nil
}

// WriteSymbolic 把 HEAD 写成 "ref: <target>\n"
// 直接覆盖; 没有并发写入者
func (m *Manager) WriteSymbolic(target string) error {
	if err := os.WriteFile(m.headPath(), []byte(symbolicPrefix+target+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write HEAD: %w", err)
	}
	return nil
}
