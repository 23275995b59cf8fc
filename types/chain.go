package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidChain is returned when a chain identifier cannot be parsed.
var ErrInvalidChain = errors.New("invalid chain")

// Chain is an EVM chain id. It can be written either as a number or as the
// name of a well known network.
type Chain uint64

// Well known chains.
const (
	ChainMainnet  Chain = 1
	ChainGoerli   Chain = 5
	ChainOptimism Chain = 10
	ChainBSC      Chain = 56
	ChainGnosis   Chain = 100
	ChainPolygon  Chain = 137
	ChainBase     Chain = 8453
	ChainHolesky  Chain = 17000
	ChainAnvil    Chain = 31337
	ChainArbitrum Chain = 42161
	ChainMumbai   Chain = 80001
	ChainSepolia  Chain = 11155111
)

var chainNames = map[Chain]string{
	ChainMainnet:  "mainnet",
	ChainGoerli:   "goerli",
	ChainOptimism: "optimism",
	ChainBSC:      "bsc",
	ChainGnosis:   "gnosis",
	ChainPolygon:  "polygon",
	ChainBase:     "base",
	ChainHolesky:  "holesky",
	ChainAnvil:    "anvil",
	ChainArbitrum: "arbitrum",
	ChainMumbai:   "mumbai",
	ChainSepolia:  "sepolia",
}

// chainAliases maps every accepted name (lower case) to its chain.
var chainAliases = func() map[string]Chain {
	m := map[string]Chain{
		"ethereum": ChainMainnet,
		"dev":      ChainAnvil,
		"xdai":     ChainGnosis,
		"matic":    ChainPolygon,
	}
	for id, name := range chainNames {
		m[name] = id
	}
	return m
}()

// ParseChain parses a decimal id, a 0x-prefixed hex id or a network name.
func ParseChain(s string) (Chain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidChain)
	}
	if c, ok := chainAliases[strings.ToLower(s)]; ok {
		return c, nil
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	id, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither a chain id nor a known network", ErrInvalidChain, s)
	}
	return Chain(id), nil
}

// ID returns the numeric chain id.
func (c Chain) ID() uint64 {
	return uint64(c)
}

// Named reports the network name, if the chain is a well known one.
func (c Chain) Named() (string, bool) {
	name, ok := chainNames[c]
	return name, ok
}

// String returns the network name for well known chains and the decimal id
// otherwise.
func (c Chain) String() string {
	if name, ok := c.Named(); ok {
		return name
	}
	return strconv.FormatUint(uint64(c), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (c Chain) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chain) UnmarshalText(text []byte) error {
	parsed, err := ParseChain(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
