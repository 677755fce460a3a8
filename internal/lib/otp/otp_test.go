package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode_Format(t *testing.T) {
	for range 1000 {
		code := NewCode()
		require.Len(t, code, CodeLength)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNewCode_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		seen[NewCode()] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
