package evmargs

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rollkit/evmopts/pkg/config"
)

const (
	// FlagForkURL is the flag for the fork endpoint
	FlagForkURL = "fork-url"
	// FlagForkBlockNumber is the flag for the fork block number
	FlagForkBlockNumber = "fork-block-number"
	// FlagForkRetryBackoff is the flag for the fork retry backoff
	FlagForkRetryBackoff = "fork-retry-backoff"
	// FlagNoStorageCaching is the flag disabling RPC storage caching
	FlagNoStorageCaching = "no-storage-caching"
	// FlagInitialBalance is the flag for the initial balance of test contracts
	FlagInitialBalance = "initial-balance"
	// FlagSender is the flag for the address executing tests
	FlagSender = "sender"
	// FlagFFI is the flag enabling the FFI cheatcode
	FlagFFI = "ffi"
	// FlagVerbosity is the flag for the EVM verbosity
	FlagVerbosity = "verbosity"
	// FlagComputeUnitsPerSecond is the flag for the provider compute units per second
	FlagComputeUnitsPerSecond = "compute-units-per-second"
	// FlagNoRPCRateLimit is the flag disabling provider rate limiting
	FlagNoRPCRateLimit = "no-rpc-rate-limit"

	// FlagGasLimit is the flag for the transaction gas limit
	FlagGasLimit = "gas-limit"
	// FlagCodeSizeLimit is the flag for the contract code size limit
	FlagCodeSizeLimit = "code-size-limit"
	// FlagChainID is the flag for the chain id
	FlagChainID = "chain-id"
	// FlagGasPrice is the flag for the gas price
	FlagGasPrice = "gas-price"
	// FlagBlockBaseFeePerGas is the flag for the block base fee
	FlagBlockBaseFeePerGas = "block-base-fee-per-gas"
	// FlagTxOrigin is the flag for the transaction origin
	FlagTxOrigin = "tx-origin"
	// FlagBlockCoinbase is the flag for the block coinbase
	FlagBlockCoinbase = "block-coinbase"
	// FlagBlockTimestamp is the flag for the block timestamp
	FlagBlockTimestamp = "block-timestamp"
	// FlagBlockNumber is the flag for the block number
	FlagBlockNumber = "block-number"
	// FlagBlockDifficulty is the flag for the block difficulty
	FlagBlockDifficulty = "block-difficulty"
	// FlagBlockPrevrandao is the flag for the block prevrandao
	FlagBlockPrevrandao = "block-prevrandao"
	// FlagBlockGasLimit is the flag for the block gas limit
	FlagBlockGasLimit = "block-gas-limit"
	// FlagMemoryLimit is the flag for the EVM memory limit
	FlagMemoryLimit = "memory-limit"
)

// ErrMissingRequiredFlag is returned when a flag is given without a flag it
// depends on.
var ErrMissingRequiredFlag = fmt.Errorf("%w: required flag not provided", ErrMissingField)

// flagSpec binds one EvmArgs field to its flag and configuration key.
type flagSpec struct {
	name      string
	shorthand string
	aliases   []string
	// requires names a flag that must be given together with this one
	requires string
	key      string
	usage    string
	// field returns a pointer to the bound EvmArgs field
	field func(a *EvmArgs) any
}

var flagSpecs = []flagSpec{
	{
		name: FlagForkURL, shorthand: "f", aliases: []string{"rpc-url"}, key: config.KeyEthRPCURL,
		usage: "Fetch state over a remote endpoint instead of starting from an empty state. See --fork-block-number to pin the block",
		field: func(a *EvmArgs) any { return &a.ForkURL },
	},
	{
		name: FlagForkBlockNumber, requires: FlagForkURL, key: config.KeyForkBlockNumber,
		usage: "Fetch state from a specific block number over the fork endpoint",
		field: func(a *EvmArgs) any { return &a.ForkBlockNumber },
	},
	{
		name: FlagForkRetryBackoff, requires: FlagForkURL, key: config.KeyForkRetryBackoff,
		usage: "Initial retry backoff on encountering fork endpoint errors",
		field: func(a *EvmArgs) any { return &a.ForkRetryBackoff },
	},
	{
		name: FlagNoStorageCaching, key: config.KeyNoStorageCaching,
		usage: "Explicitly disable RPC caching; all storage slots are read from the endpoint. Overrides the config file",
		field: func(a *EvmArgs) any { return &a.NoStorageCaching },
	},
	{
		name: FlagInitialBalance, key: config.KeyInitialBalance,
		usage: "Initial balance of deployed test contracts (decimal or 0x hex)",
		field: func(a *EvmArgs) any { return &a.InitialBalance },
	},
	{
		name: FlagSender, key: config.KeySender,
		usage: "Address which will be executing tests",
		field: func(a *EvmArgs) any { return &a.Sender },
	},
	{
		name: FlagFFI, key: config.KeyFFI,
		usage: "Enable the FFI cheatcode",
		field: func(a *EvmArgs) any { return &a.FFI },
	},
	{
		name: FlagVerbosity, shorthand: "v", key: config.KeyVerbosity,
		usage: "Verbosity of the EVM, pass multiple times to increase it (e.g. -v, -vv, -vvv)",
		field: func(a *EvmArgs) any { return &a.Verbosity },
	},
	{
		name: FlagComputeUnitsPerSecond, aliases: []string{"cups"}, requires: FlagForkURL, key: config.KeyComputeUnitsPerSecond,
		usage: fmt.Sprintf("Assumed compute units per second of the fork provider (default %d)", config.DefaultComputeUnitsPerSecond),
		field: func(a *EvmArgs) any { return &a.ComputeUnitsPerSecond },
	},
	{
		name: FlagNoRPCRateLimit, aliases: []string{"no-rate-limit"}, requires: FlagForkURL, key: config.KeyNoRPCRateLimit,
		usage: "Disable rate limiting of the fork provider",
		field: func(a *EvmArgs) any { return &a.NoRPCRateLimit },
	},

	// Executor environment
	{
		name: FlagGasLimit, key: config.KeyGasLimit,
		usage: "Transaction gas limit",
		field: func(a *EvmArgs) any { return &a.Env.GasLimit },
	},
	{
		name: FlagCodeSizeLimit, key: config.KeyCodeSizeLimit,
		usage: fmt.Sprintf("EIP-170 contract code size limit in bytes (default %#x)", config.DefaultCodeSizeLimit),
		field: func(a *EvmArgs) any { return &a.Env.CodeSizeLimit },
	},
	{
		name: FlagChainID, aliases: []string{"chain"}, key: config.KeyChainID,
		usage: "Chain id, numeric or a network name (e.g. mainnet, goerli)",
		field: func(a *EvmArgs) any { return &a.Env.ChainID },
	},
	{
		name: FlagGasPrice, key: config.KeyGasPrice,
		usage: "Gas price",
		field: func(a *EvmArgs) any { return &a.Env.GasPrice },
	},
	{
		name: FlagBlockBaseFeePerGas, aliases: []string{"base-fee"}, key: config.KeyBlockBaseFeePerGas,
		usage: "Base fee of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockBaseFeePerGas },
	},
	{
		name: FlagTxOrigin, key: config.KeyTxOrigin,
		usage: "Transaction origin",
		field: func(a *EvmArgs) any { return &a.Env.TxOrigin },
	},
	{
		name: FlagBlockCoinbase, key: config.KeyBlockCoinbase,
		usage: "Coinbase of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockCoinbase },
	},
	{
		name: FlagBlockTimestamp, key: config.KeyBlockTimestamp,
		usage: "Timestamp of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockTimestamp },
	},
	{
		name: FlagBlockNumber, key: config.KeyBlockNumber,
		usage: "Number of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockNumber },
	},
	{
		name: FlagBlockDifficulty, key: config.KeyBlockDifficulty,
		usage: "Difficulty of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockDifficulty },
	},
	{
		name: FlagBlockPrevrandao, key: config.KeyBlockPrevrandao,
		usage: "Prevrandao of the block. Before the merge this was the mix hash",
		field: func(a *EvmArgs) any { return &a.Env.BlockPrevrandao },
	},
	{
		name: FlagBlockGasLimit, key: config.KeyBlockGasLimit,
		usage: "Gas limit of the block",
		field: func(a *EvmArgs) any { return &a.Env.BlockGasLimit },
	},
	{
		name: FlagMemoryLimit, key: config.KeyMemoryLimit,
		usage: fmt.Sprintf("Memory limit of the EVM in bytes (default %d)", config.DefaultMemoryLimit),
		field: func(a *EvmArgs) any { return &a.Env.MemoryLimit },
	},
}

// flagAliases maps every alias to its flag name.
var flagAliases = func() map[string]string {
	m := make(map[string]string)
	for _, spec := range flagSpecs {
		for _, alias := range spec.aliases {
			m[alias] = spec.name
		}
	}
	return m
}()

// NormalizeFlagName resolves flag aliases, e.g. --chain to --chain-id.
func NormalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		return pflag.NormalizedName(canonical)
	}
	return pflag.NormalizedName(name)
}

// AddFlags registers the EVM options on fs, bound to args, and installs the
// alias normalization.
func AddFlags(fs *pflag.FlagSet, args *EvmArgs) {
	fs.SetNormalizeFunc(NormalizeFlagName)
	for _, spec := range flagSpecs {
		value, noOptDefVal := newValue(spec.field(args))
		usage := spec.usage
		if len(spec.aliases) > 0 {
			usage = fmt.Sprintf("%s (alias: --%s)", usage, strings.Join(spec.aliases, ", --"))
		}
		if spec.requires != "" {
			usage = fmt.Sprintf("%s. Requires --%s", usage, spec.requires)
		}
		flag := fs.VarPF(value, spec.name, spec.shorthand, usage)
		flag.NoOptDefVal = noOptDefVal
	}
}

// ValidateFlags checks that every flag given on fs comes with the flags it
// requires. All violations are reported.
func ValidateFlags(fs *pflag.FlagSet) error {
	var errs error
	for _, spec := range flagSpecs {
		if spec.requires == "" || !fs.Changed(spec.name) || fs.Changed(spec.requires) {
			continue
		}
		errs = multierror.Append(errs, fmt.Errorf("%w: --%s requires --%s", ErrMissingRequiredFlag, spec.name, spec.requires))
	}
	return errs
}

// NewFlagSet returns a flag set holding only the EVM options.
func NewFlagSet(name string, args *EvmArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	AddFlags(fs, args)
	return fs
}

// Parse parses argv (without the program name) into a new EvmArgs.
func Parse(argv []string) (*EvmArgs, error) {
	args := &EvmArgs{}
	fs := NewFlagSet("evm", args)
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if err := ValidateFlags(fs); err != nil {
		return nil, err
	}
	return args, nil
}

// AddCommandFlags registers the EVM options on cmd and chains the flag
// dependency check in front of its PreRunE.
func AddCommandFlags(cmd *cobra.Command, args *EvmArgs) {
	AddFlags(cmd.Flags(), args)

	next := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, argv []string) error {
		if err := ValidateFlags(cmd.Flags()); err != nil {
			return err
		}
		if next != nil {
			return next(cmd, argv)
		}
		return nil
	}
}
