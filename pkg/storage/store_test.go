package storage

import (
	"testing"

	"gitlite/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	h := types.Hash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0")
	key := Key(h)
	assert.Equal(t, "objects/b6/fc4c620b67d95f953a5c1c1230aaab5db5a1b0", key)

	back, ok := HashFromKey(key)
	assert.True(t, ok)
	assert.Equal(t, h, back)

	assert.Equal(t, "objects/b6/fc4c", PrefixKey("b6fc4c"))
}

func TestHashFromKey_Rejects(t *testing.T) {
	for _, key := range []string{
		"",
		"objects/b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0",
		"objects/b6/fc4c620b67d95f953a5c1c1230aaab5db5a1b",
		"refs/b6/fc4c620b67d95f953a5c1c1230aaab5db5a1b0",
		"objects/b6/tmp_obj_1234567890123456789012345678901",
	} {
		_, ok := HashFromKey(key)
		assert.False(t, ok, "key %q", key)
	}
}
