package exporter

import (
	"context"
	"fmt"
	"io"

	"gitlite/pkg/objects"
)

// Exporter 读取对象并按 cat-file 的模式输出
type Exporter struct {
	store *objects.Store
}

func NewExporter(store *objects.Store) *Exporter {
	return &Exporter{store: store}
}

// PrintObject 解析 ref (完整或缩写 ID)，读取对象并写入 writer
func (e *Exporter) PrintObject(ctx context.Context, ref string, mode Mode, writer io.Writer) error {
	// 1. 解析 ID
	hash, err := e.store.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	// 2. 读取并解码
	content, err := e.store.Get(ctx, hash)
	if err != nil {
		return err
	}

	// 3. 输出
	if err := Print(writer, content, mode); err != nil {
		return fmt.Errorf("print %s: %w", hash, err)
	}
	return nil
}

// Exists 只检查对象是否存在 (cat-file -e)
func (e *Exporter) Exists(ctx context.Context, ref string) (bool, error) {
	hash, err := e.store.Resolve(ctx, ref)
	if err != nil {
		return false, err
	}
	return e.store.Has(ctx, hash)
}
