// Package evmargs declares the command line options of the EVM and turns them
// into a configuration overlay.
//
// All options are opt-in: their defaults live in config.DefaultConfig, and an
// EvmArgs only carries what the user typed. The expected workflow is
//  1. parse the flags into an EvmArgs
//  2. merge it into a config.Loader
//  3. load or extract the typed configuration from the loader
//
//	cfg, err := config.NewLoader().Merge(args).Load()
package evmargs

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollkit/evmopts/pkg/config"
	"github.com/rollkit/evmopts/types"
)

// ProviderName names the overlay in loader logs and errors.
const ProviderName = "Evm Opts Provider"

var (
	// ErrMissingField is returned when an option a command depends on was not given.
	ErrMissingField = errors.New("missing required field")
	// ErrMalformedOverlay is returned when the options cannot be turned into overrides.
	ErrMalformedOverlay = errors.New("malformed overlay")
)

// EvmArgs holds the EVM options given on the command line. It takes the
// highest precedence when merged into a config.Loader.
type EvmArgs struct {
	// Fetch state over a remote endpoint instead of starting from an empty state.
	ForkURL *string
	// Fetch state from a specific block number over the fork endpoint.
	ForkBlockNumber *uint64
	// Initial retry backoff on encountering fork endpoint errors.
	ForkRetryBackoff *uint64
	// Read all storage slots from the fork endpoint, bypassing the RPC cache.
	NoStorageCaching bool

	// Initial balance of deployed test contracts.
	InitialBalance *types.U256
	// Address executing tests.
	Sender *common.Address
	// Enables the FFI cheatcode.
	FFI bool
	// Verbosity of the EVM, one level per repetition of -v.
	//
	// Verbosity levels:
	// - 2: Print logs for all tests
	// - 3: Print execution traces for failing tests
	// - 4: Print execution traces for all tests, and setup traces for failing tests
	// - 5: Print execution and setup traces for all tests
	Verbosity uint8

	// Executor environment
	Env EnvArgs

	// Assumed compute units per second of the fork provider.
	ComputeUnitsPerSecond *uint64
	// Disables rate limiting of the fork provider.
	NoRPCRateLimit bool
}

// EnvArgs configures the executor environment.
type EnvArgs struct {
	GasLimit      *uint64
	CodeSizeLimit *uint64
	ChainID       *types.Chain
	GasPrice      *uint64
	// Base fee of the block.
	BlockBaseFeePerGas *uint64
	TxOrigin           *common.Address
	BlockCoinbase      *common.Address
	BlockTimestamp     *uint64
	BlockNumber        *uint64
	BlockDifficulty    *uint64
	// Before the merge this was the mix hash.
	BlockPrevrandao *common.Hash
	BlockGasLimit   *uint64
	// Memory limit of the EVM in bytes.
	MemoryLimit *uint64
}

// EnsureForkURL returns the fork URL, or ErrMissingField if none was given.
func (a *EvmArgs) EnsureForkURL() (string, error) {
	if a.ForkURL == nil {
		return "", fmt.Errorf("%w `--%s`", ErrMissingField, FlagForkURL)
	}
	return *a.ForkURL, nil
}

// Override is a single configuration value set by the overlay.
type Override struct {
	Key   string
	Value any
}

// Overrides lists, in flag table order, every option that participates in
// the overlay together with its config value. Optional values participate
// when set, switches when true and the verbosity counter when positive.
func (a *EvmArgs) Overrides() ([]Override, error) {
	var overrides []Override
	seen := make(map[string]string, len(flagSpecs))
	for _, spec := range flagSpecs {
		value, ok, err := participate(spec.field(a))
		if err != nil {
			return nil, fmt.Errorf("%w: --%s: %w", ErrMalformedOverlay, spec.name, err)
		}
		if !ok {
			continue
		}
		if prev, dup := seen[spec.key]; dup {
			return nil, fmt.Errorf("%w: key %s written by both --%s and --%s", ErrMalformedOverlay, spec.key, prev, spec.name)
		}
		seen[spec.key] = spec.name
		overrides = append(overrides, Override{Key: spec.key, Value: value})
	}
	return overrides, nil
}

// Metadata implements config.Provider.
func (a *EvmArgs) Metadata() config.Metadata {
	return config.Metadata{Name: ProviderName}
}

// Data implements config.Provider. The overrides are scoped to the selected
// profile.
func (a *EvmArgs) Data() (map[config.Profile]map[string]any, error) {
	overrides, err := a.Overrides()
	if err != nil {
		return nil, err
	}
	dict := make(map[string]any, len(overrides))
	for _, o := range overrides {
		dict[o.Key] = o.Value
	}
	return map[config.Profile]map[string]any{config.SelectedProfile(): dict}, nil
}

// participate decides whether the field pointed to by ptr is part of the
// overlay and converts it to the plain value stored in the configuration.
func participate(ptr any) (any, bool, error) {
	switch p := ptr.(type) {
	case **string:
		if *p == nil {
			return nil, false, nil
		}
		return **p, true, nil
	case **uint64:
		if *p == nil {
			return nil, false, nil
		}
		return **p, true, nil
	case **common.Address:
		if *p == nil {
			return nil, false, nil
		}
		return (*p).Hex(), true, nil
	case **common.Hash:
		if *p == nil {
			return nil, false, nil
		}
		return (*p).Hex(), true, nil
	case **types.U256:
		if *p == nil {
			return nil, false, nil
		}
		text, err := (*p).MarshalText()
		if err != nil {
			return nil, false, err
		}
		return string(text), true, nil
	case **types.Chain:
		if *p == nil {
			return nil, false, nil
		}
		return (*p).ID(), true, nil
	case *bool:
		return *p, *p, nil
	case *uint8:
		return *p, *p > 0, nil
	default:
		return nil, false, fmt.Errorf("unsupported field type %T", ptr)
	}
}
