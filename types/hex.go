package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrInvalidAddress is returned for malformed 20-byte addresses.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidHash is returned for malformed 32-byte hashes.
	ErrInvalidHash = errors.New("invalid hash")
)

// ParseAddress parses a hex address with or without the 0x prefix.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseHash parses a 32-byte hex value with or without the 0x prefix.
func ParseHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %q: %w", ErrInvalidHash, s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidHash, common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
