package evmargs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"github.com/rollkit/evmopts/types"
)

// optionalValue is a pflag.Value filling a nil-able field. The field stays nil
// until the flag is set, so "not given" and "given as zero" stay apart.
type optionalValue[T any] struct {
	dst   **T
	parse func(string) (T, error)
	typ   string
}

func (o *optionalValue[T]) Set(s string) error {
	v, err := o.parse(s)
	if err != nil {
		return err
	}
	*o.dst = &v
	return nil
}

func (o *optionalValue[T]) String() string {
	if *o.dst == nil {
		return ""
	}
	return fmt.Sprint(**o.dst)
}

func (o *optionalValue[T]) Type() string {
	return o.typ
}

// boolValue is a flag that is true when present, and accepts an explicit
// --flag=false.
type boolValue struct {
	dst *bool
}

func (b *boolValue) Set(s string) error {
	if s == "" {
		*b.dst = true
		return nil
	}
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return fmt.Errorf("invalid boolean value: %s", s)
	}
	*b.dst = v
	return nil
}

func (b *boolValue) String() string {
	return strconv.FormatBool(*b.dst)
}

func (b *boolValue) Type() string {
	return "bool"
}

// countValue increments on every occurrence (-v, -vv, -vvv) or takes an
// explicit level (--verbosity=3).
type countValue struct {
	dst *uint8
}

func (c *countValue) Set(s string) error {
	if s == "+1" {
		if *c.dst == ^uint8(0) {
			return fmt.Errorf("verbosity overflows")
		}
		*c.dst++
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid count value: %s", s)
	}
	*c.dst = uint8(v)
	return nil
}

func (c *countValue) String() string {
	return strconv.FormatUint(uint64(*c.dst), 10)
}

func (c *countValue) Type() string {
	return "count"
}

func parseString(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty value")
	}
	return s, nil
}

func parseUint64(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// newValue wraps the field pointed to by ptr in the matching pflag.Value, and
// returns the NoOptDefVal the flag needs, if any.
func newValue(ptr any) (pflag.Value, string) {
	switch p := ptr.(type) {
	case **string:
		return &optionalValue[string]{dst: p, parse: parseString, typ: "string"}, ""
	case **uint64:
		return &optionalValue[uint64]{dst: p, parse: parseUint64, typ: "uint64"}, ""
	case **common.Address:
		return &optionalValue[common.Address]{dst: p, parse: types.ParseAddress, typ: "address"}, ""
	case **common.Hash:
		return &optionalValue[common.Hash]{dst: p, parse: types.ParseHash, typ: "hash"}, ""
	case **types.U256:
		return &optionalValue[types.U256]{dst: p, parse: types.ParseU256, typ: "u256"}, ""
	case **types.Chain:
		return &optionalValue[types.Chain]{dst: p, parse: types.ParseChain, typ: "chain"}, ""
	case *bool:
		return &boolValue{dst: p}, "true"
	case *uint8:
		return &countValue{dst: p}, "+1"
	default:
		panic(fmt.Sprintf("evmargs: unsupported flag field %T", ptr))
	}
}
