package core

import (
	"crypto/sha1"
	"encoding/hex"

	"gitlite/pkg/types"
)

// CalculateHash 计算规范序列化数据的对象 ID (SHA-1, 小写 hex)
// Any input is valid, including an empty slice.
func CalculateHash(canonical []byte) types.Hash {
	sum := sha1.Sum(canonical)
	return types.Hash(hex.EncodeToString(sum[:]))
}
