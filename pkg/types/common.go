// pkg/types/common.go
package types

import (
	"errors"
	"fmt"
	"strings"
)

// HashLength 是十六进制对象 ID 的长度 (SHA-1, 20 bytes)
const HashLength = 40

// MinPrefixLength 是缩写 ID 允许的最短长度
const MinPrefixLength = 4

var ErrInvalidHash = errors.New("invalid object identifier")

// Hash 代表对象的唯一标识符 (SHA-1 Hex String)
// This is a value object and should be treated as immutable.
type Hash string

func (h Hash) String() string { return string(h) }

func (h Hash) IsZero() bool  { return h == "" }
func (h Hash) IsValid() bool { return len(h) == HashLength && isHex(string(h)) }

// Shard splits the id into its directory prefix and file name.
// Callers must validate first; Shard panics on ids shorter than 2 characters.
func (h Hash) Shard() (dir, file string) {
	return string(h[:2]), string(h[2:])
}

// ParseHash normalizes user input (case, surrounding whitespace) and validates it.
func ParseHash(s string) (Hash, error) {
	h := Hash(strings.ToLower(strings.TrimSpace(s)))
	if !h.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	return h, nil
}

type HashPrefix string

func (p HashPrefix) String() string { return string(p) }

// IsValid reports whether p is usable for abbreviated lookups.
func (p HashPrefix) IsValid() bool {
	return len(p) >= MinPrefixLength && len(p) <= HashLength && isHex(string(p))
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
