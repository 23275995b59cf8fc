package types

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	want := common.HexToAddress("0x1804c8AB1F12E6bbf3894d4083f33e07309d1f38")

	got, err := ParseAddress("0x1804c8AB1F12E6bbf3894d4083f33e07309d1f38")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseAddress("1804c8ab1f12e6bbf3894d4083f33e07309d1f38")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestParseHash(t *testing.T) {
	raw := strings.Repeat("ab", 32)

	got, err := ParseHash("0x" + raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(raw), got)

	got, err = ParseHash(raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(raw), got)

	_, err = ParseHash("0xabcd")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = ParseHash("0xzz")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
