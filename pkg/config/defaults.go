package config

import (
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollkit/evmopts/types"
)

const (
	// DefaultDirPerm is the default permissions used when creating directories.
	DefaultDirPerm = 0750

	// Version is the current evmopts version
	Version = "0.1.0"

	// DefaultComputeUnitsPerSecond is what consumers assume when compute_units_per_second is unset
	DefaultComputeUnitsPerSecond = 330
	// DefaultCodeSizeLimit is the EIP-170 contract code size limit
	DefaultCodeSizeLimit = 0x6000
	// DefaultMemoryLimit is the default memory limit of the EVM (32 MiB)
	DefaultMemoryLimit = 1 << 25
	// DefaultGasLimit is the default transaction gas limit (max int64)
	DefaultGasLimit = 1<<63 - 1
	// MaxVerbosity is the highest verbosity level with its own output; higher
	// counts are accepted and behave like it
	MaxVerbosity = 5

	// DefaultLogLevel is the default log level for the application
	DefaultLogLevel = "info"
)

var (
	// DefaultSender is the address used to execute tests
	DefaultSender = common.HexToAddress("0x1804c8AB1F12E6bbf3894d4083f33e07309d1f38")
	// DefaultInitialBalance is the initial balance of deployed test contracts
	DefaultInitialBalance = types.MustParseU256("0xffffffffffffffffffffffff")
)

// DefaultRootDir returns the directory the config file search starts from.
func DefaultRootDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// DefaultConfig returns the base configuration every layer is merged onto.
func DefaultConfig() Config {
	var (
		gasLimit      uint64 = DefaultGasLimit
		memoryLimit   uint64 = DefaultMemoryLimit
		baseFee       uint64
		timestamp     uint64 = 1
		blockNumber   uint64 = 1
		difficulty    uint64
		chainID              = types.ChainAnvil
		sender               = DefaultSender
		origin               = DefaultSender
		coinbase             = common.Address{}
		prevrandao           = common.Hash{}
		balance              = DefaultInitialBalance
	)

	return Config{
		Profile:            DefaultProfile,
		Sender:             &sender,
		InitialBalance:     &balance,
		GasLimit:           &gasLimit,
		ChainID:            &chainID,
		BlockBaseFeePerGas: &baseFee,
		TxOrigin:           &origin,
		BlockCoinbase:      &coinbase,
		BlockTimestamp:     &timestamp,
		BlockNumber:        &blockNumber,
		BlockDifficulty:    &difficulty,
		BlockPrevrandao:    &prevrandao,
		MemoryLimit:        &memoryLimit,
	}
}
