package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"

	"github.com/rollkit/evmopts/types"
)

const (
	// Fork configuration keys

	// KeyEthRPCURL is the key of the remote endpoint used for forking
	KeyEthRPCURL = "eth_rpc_url"
	// KeyForkBlockNumber is the key of the block to fork from
	KeyForkBlockNumber = "fork_block_number"
	// KeyForkRetryBackoff is the key of the initial retry backoff of the fork provider
	KeyForkRetryBackoff = "fork_retry_backoff"
	// KeyNoStorageCaching is the key disabling RPC storage caching
	KeyNoStorageCaching = "no_storage_caching"
	// KeyComputeUnitsPerSecond is the key of the assumed provider compute units per second
	KeyComputeUnitsPerSecond = "compute_units_per_second"
	// KeyNoRPCRateLimit is the key disabling provider rate limiting
	KeyNoRPCRateLimit = "no_rpc_rate_limit"

	// Execution identity keys

	// KeySender is the key of the address executing calls
	KeySender = "sender"
	// KeyInitialBalance is the key of the initial balance of deployed contracts
	KeyInitialBalance = "initial_balance"
	// KeyFFI is the key enabling the FFI cheatcode
	KeyFFI = "ffi"
	// KeyVerbosity is the key of the EVM verbosity level
	KeyVerbosity = "verbosity"

	// Executor environment keys

	// KeyGasLimit is the key of the transaction gas limit
	KeyGasLimit = "gas_limit"
	// KeyCodeSizeLimit is the key of the contract code size limit (EIP-170)
	KeyCodeSizeLimit = "code_size_limit"
	// KeyChainID is the key of the chain id
	KeyChainID = "chain_id"
	// KeyGasPrice is the key of the gas price
	KeyGasPrice = "gas_price"
	// KeyBlockBaseFeePerGas is the key of the block base fee
	KeyBlockBaseFeePerGas = "block_base_fee_per_gas"
	// KeyTxOrigin is the key of the transaction origin
	KeyTxOrigin = "tx_origin"
	// KeyBlockCoinbase is the key of the block coinbase
	KeyBlockCoinbase = "block_coinbase"
	// KeyBlockTimestamp is the key of the block timestamp
	KeyBlockTimestamp = "block_timestamp"
	// KeyBlockNumber is the key of the block number
	KeyBlockNumber = "block_number"
	// KeyBlockDifficulty is the key of the block difficulty
	KeyBlockDifficulty = "block_difficulty"
	// KeyBlockPrevrandao is the key of the block prevrandao (mix hash before the merge)
	KeyBlockPrevrandao = "block_prevrandao"
	// KeyBlockGasLimit is the key of the block gas limit
	KeyBlockGasLimit = "block_gas_limit"
	// KeyMemoryLimit is the key of the EVM memory limit in bytes
	KeyMemoryLimit = "memory_limit"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved EVM configuration of a profile. Optional values are
// nil when neither the defaults nor any layer sets them.
type Config struct {
	// Profile the values were resolved for
	Profile Profile `mapstructure:"-" yaml:"-" toml:"-"`

	// Fork configuration
	EthRPCURL             *string `mapstructure:"eth_rpc_url" yaml:"eth_rpc_url,omitempty" toml:"eth_rpc_url,omitempty" comment:"Remote endpoint to fetch state from instead of starting from an empty state"`
	ForkBlockNumber       *uint64 `mapstructure:"fork_block_number" yaml:"fork_block_number,omitempty" toml:"fork_block_number,omitempty" comment:"Block number to fork from. Requires eth_rpc_url"`
	ForkRetryBackoff      *uint64 `mapstructure:"fork_retry_backoff" yaml:"fork_retry_backoff,omitempty" toml:"fork_retry_backoff,omitempty" comment:"Initial retry backoff on fork provider errors. Requires eth_rpc_url"`
	NoStorageCaching      bool    `mapstructure:"no_storage_caching" yaml:"no_storage_caching" toml:"no_storage_caching" comment:"Read all storage slots from the endpoint instead of the RPC cache"`
	ComputeUnitsPerSecond *uint64 `mapstructure:"compute_units_per_second" yaml:"compute_units_per_second,omitempty" toml:"compute_units_per_second,omitempty" comment:"Assumed compute units per second of the fork provider (330 when unset)"`
	NoRPCRateLimit        bool    `mapstructure:"no_rpc_rate_limit" yaml:"no_rpc_rate_limit" toml:"no_rpc_rate_limit" comment:"Disable rate limiting of the fork provider"`

	// Execution identity
	Sender         *common.Address `mapstructure:"sender" yaml:"sender,omitempty" toml:"sender,omitempty" comment:"Address executing tests"`
	InitialBalance *types.U256     `mapstructure:"initial_balance" yaml:"initial_balance,omitempty" toml:"initial_balance,omitempty" comment:"Initial balance of deployed test contracts"`
	FFI            bool            `mapstructure:"ffi" yaml:"ffi" toml:"ffi" comment:"Enable the FFI cheatcode"`
	Verbosity      uint8           `mapstructure:"verbosity" yaml:"verbosity" toml:"verbosity" comment:"Verbosity of the EVM, levels above 5 behave like 5"`

	// Executor environment
	GasLimit           *uint64         `mapstructure:"gas_limit" yaml:"gas_limit,omitempty" toml:"gas_limit,omitempty" comment:"Transaction gas limit"`
	CodeSizeLimit      *uint64         `mapstructure:"code_size_limit" yaml:"code_size_limit,omitempty" toml:"code_size_limit,omitempty" comment:"Contract code size limit in bytes (EIP-170, 0x6000 when unset)"`
	ChainID            *types.Chain    `mapstructure:"chain_id" yaml:"chain_id,omitempty" toml:"chain_id,omitempty" comment:"Chain id, numeric or a network name"`
	GasPrice           *uint64         `mapstructure:"gas_price" yaml:"gas_price,omitempty" toml:"gas_price,omitempty" comment:"Gas price"`
	BlockBaseFeePerGas *uint64         `mapstructure:"block_base_fee_per_gas" yaml:"block_base_fee_per_gas,omitempty" toml:"block_base_fee_per_gas,omitempty" comment:"Base fee of the block"`
	TxOrigin           *common.Address `mapstructure:"tx_origin" yaml:"tx_origin,omitempty" toml:"tx_origin,omitempty" comment:"Transaction origin"`
	BlockCoinbase      *common.Address `mapstructure:"block_coinbase" yaml:"block_coinbase,omitempty" toml:"block_coinbase,omitempty" comment:"Coinbase of the block"`
	BlockTimestamp     *uint64         `mapstructure:"block_timestamp" yaml:"block_timestamp,omitempty" toml:"block_timestamp,omitempty" comment:"Timestamp of the block"`
	BlockNumber        *uint64         `mapstructure:"block_number" yaml:"block_number,omitempty" toml:"block_number,omitempty" comment:"Number of the block"`
	BlockDifficulty    *uint64         `mapstructure:"block_difficulty" yaml:"block_difficulty,omitempty" toml:"block_difficulty,omitempty" comment:"Difficulty of the block"`
	BlockPrevrandao    *common.Hash    `mapstructure:"block_prevrandao" yaml:"block_prevrandao,omitempty" toml:"block_prevrandao,omitempty" comment:"Prevrandao of the block (mix hash before the merge)"`
	BlockGasLimit      *uint64         `mapstructure:"block_gas_limit" yaml:"block_gas_limit,omitempty" toml:"block_gas_limit,omitempty" comment:"Gas limit of the block"`
	MemoryLimit        *uint64         `mapstructure:"memory_limit" yaml:"memory_limit,omitempty" toml:"memory_limit,omitempty" comment:"Memory limit of the EVM in bytes"`
}

// forkScopedKeys only make sense together with eth_rpc_url.
var forkScopedKeys = []string{
	KeyForkBlockNumber,
	KeyForkRetryBackoff,
	KeyComputeUnitsPerSecond,
	KeyNoRPCRateLimit,
}

// Keys returns every configuration key in declaration order.
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := fieldKey(t.Field(i)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// IsFork reports whether a fork endpoint is configured.
func (c Config) IsFork() bool {
	return c.EthRPCURL != nil && *c.EthRPCURL != ""
}

// Validate checks the preconditions consumers rely on and reports every
// violation at once.
func (c Config) Validate() error {
	var errs error

	if !c.IsFork() {
		set := map[string]bool{
			KeyForkBlockNumber:       c.ForkBlockNumber != nil,
			KeyForkRetryBackoff:      c.ForkRetryBackoff != nil,
			KeyComputeUnitsPerSecond: c.ComputeUnitsPerSecond != nil,
			KeyNoRPCRateLimit:        c.NoRPCRateLimit,
		}
		for _, key := range forkScopedKeys {
			if set[key] {
				errs = multierror.Append(errs, fmt.Errorf("%s requires %s", key, KeyEthRPCURL))
			}
		}
	}
	if c.GasLimit != nil && *c.GasLimit == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must be greater than zero", KeyGasLimit))
	}
	if c.MemoryLimit != nil && *c.MemoryLimit == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must be greater than zero", KeyMemoryLimit))
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}
