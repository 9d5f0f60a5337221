package core

import (
	"fmt"

	"gitlite/pkg/types"
)

// ObjectType 定义了对象类型 (canonical header 里的 kind 名字)
type ObjectType string

const (
	TypeBlob ObjectType = "blob" // 原始文件内容
)

// knownTypes 是 Codec 接受的全部类型。
// 新增 tree/commit 只需要在这里注册，存储层的寻址逻辑不关心类型。
var knownTypes = map[ObjectType]struct{}{
	TypeBlob: {},
}

func (t ObjectType) String() string { return string(t) }

// IsKnown reports whether t is a registered object type.
func (t ObjectType) IsKnown() bool {
	_, ok := knownTypes[t]
	return ok
}

// ParseObjectType maps a header kind name to its ObjectType.
func ParseObjectType(name string) (ObjectType, error) {
	t := ObjectType(name)
	if !t.IsKnown() {
		return "", fmt.Errorf("unknown object type %q", name)
	}
	return t, nil
}

// Object 是已经编码好、可以直接落盘的对象
type Object interface {
	// Type 返回对象类型
	Type() ObjectType

	// ID 返回对象的哈希值 (over the canonical form, not the compressed bytes)
	ID() types.Hash

	// Bytes 返回压缩后的存储数据
	Bytes() []byte
}

// Content 是解码后的逻辑对象
type Content struct {
	Type ObjectType
	// Size 是 header 中声明的长度
	Size    int64
	Payload []byte
}
