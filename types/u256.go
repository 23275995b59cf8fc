package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// ErrInvalidU256 is returned when a value does not fit into 256 bits or is not
// a number.
var ErrInvalidU256 = errors.New("invalid 256-bit unsigned integer")

// U256 is a 256-bit unsigned integer.
type U256 struct {
	v uint256.Int
}

// NewU256 returns a U256 holding n.
func NewU256(n uint64) U256 {
	var u U256
	u.v.SetUint64(n)
	return u
}

// ParseU256 parses a decimal or 0x-prefixed hex string.
func ParseU256(s string) (U256, error) {
	var u U256
	s = strings.TrimSpace(s)
	if s == "" {
		return u, fmt.Errorf("%w: empty value", ErrInvalidU256)
	}
	b, ok := math.ParseBig256(s)
	if !ok {
		return u, fmt.Errorf("%w: %q", ErrInvalidU256, s)
	}
	if b.Sign() < 0 {
		return u, fmt.Errorf("%w: %q is negative", ErrInvalidU256, s)
	}
	if overflow := u.v.SetFromBig(b); overflow {
		return u, fmt.Errorf("%w: %q overflows", ErrInvalidU256, s)
	}
	return u, nil
}

// MustParseU256 is like ParseU256 but panics on error. It is meant for
// package level defaults.
func MustParseU256(s string) U256 {
	u, err := ParseU256(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Int returns a copy of the underlying integer.
func (u U256) Int() *uint256.Int {
	return new(uint256.Int).Set(&u.v)
}

// Cmp compares u and o and returns -1, 0 or +1.
func (u U256) Cmp(o U256) int {
	return u.v.Cmp(&o.v)
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool {
	return u.v.IsZero()
}

// String returns the 0x-prefixed hex form.
func (u U256) String() string {
	return u.v.Hex()
}

// Dec returns the decimal form.
func (u U256) Dec() string {
	return u.v.ToBig().String()
}

// MarshalText implements encoding.TextMarshaler.
func (u U256) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *U256) UnmarshalText(text []byte) error {
	parsed, err := ParseU256(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
