package evmargs

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollkit/evmopts/types"
)

func TestAddFlags(t *testing.T) {
	fs := NewFlagSet("test", &EvmArgs{})

	count := 0
	fs.VisitAll(func(*pflag.Flag) { count++ })
	assert.Equal(t, len(flagSpecs), count, "every table row registers exactly one flag")

	fork := fs.Lookup(FlagForkURL)
	require.NotNil(t, fork)
	assert.Equal(t, "f", fork.Shorthand)
	assert.Contains(t, fork.Usage, "--rpc-url")

	verbosity := fs.ShorthandLookup("v")
	require.NotNil(t, verbosity)
	assert.Equal(t, FlagVerbosity, verbosity.Name)
	assert.Equal(t, "count", verbosity.Value.Type())

	blockNumber := fs.Lookup(FlagForkBlockNumber)
	require.NotNil(t, blockNumber)
	assert.Contains(t, blockNumber.Usage, "Requires --fork-url")
	assert.Equal(t, "", blockNumber.DefValue)
}

func TestFlagAliases(t *testing.T) {
	cases := []struct {
		name  string
		argv  []string
		check func(t *testing.T, a *EvmArgs)
	}{
		{
			name: "rpc-url",
			argv: []string{"--rpc-url", "http://rpc"},
			check: func(t *testing.T, a *EvmArgs) {
				assert.Equal(t, ptr("http://rpc"), a.ForkURL)
			},
		},
		{
			name: "short fork url",
			argv: []string{"-f", "http://rpc"},
			check: func(t *testing.T, a *EvmArgs) {
				assert.Equal(t, ptr("http://rpc"), a.ForkURL)
			},
		},
		{
			name: "base-fee",
			argv: []string{"--base-fee", "7"},
			check: func(t *testing.T, a *EvmArgs) {
				assert.Equal(t, ptr(uint64(7)), a.Env.BlockBaseFeePerGas)
			},
		},
		{
			name: "cups",
			argv: []string{"--fork-url", "http://rpc", "--cups", "100"},
			check: func(t *testing.T, a *EvmArgs) {
				assert.Equal(t, ptr(uint64(100)), a.ComputeUnitsPerSecond)
			},
		},
		{
			name: "no-rate-limit",
			argv: []string{"--fork-url", "http://rpc", "--no-rate-limit"},
			check: func(t *testing.T, a *EvmArgs) {
				assert.True(t, a.NoRPCRateLimit)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := Parse(tc.argv)
			require.NoError(t, err)
			tc.check(t, args)
		})
	}
}

func TestParseAllFlags(t *testing.T) {
	args, err := Parse([]string{
		"--fork-url", "http://localhost:8545",
		"--fork-block-number", "100",
		"--fork-retry-backoff", "0x10",
		"--no-storage-caching",
		"--initial-balance", "0xff",
		"--sender", "0x00000000000000000000000000000000000000aa",
		"--ffi",
		"-vv",
		"--compute-units-per-second", "500",
		"--no-rpc-rate-limit",
		"--gas-limit", "30000000",
		"--code-size-limit", "49152",
		"--chain-id", "10",
		"--gas-price", "1",
		"--block-base-fee-per-gas", "2",
		"--tx-origin", "00000000000000000000000000000000000000bb",
		"--block-coinbase", "0x00000000000000000000000000000000000000cc",
		"--block-timestamp", "1700000000",
		"--block-number", "42",
		"--block-difficulty", "3",
		"--block-prevrandao", "0x0000000000000000000000000000000000000000000000000000000000000001",
		"--block-gas-limit", "60000000",
		"--memory-limit", "1024",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", *args.ForkURL)
	assert.Equal(t, uint64(100), *args.ForkBlockNumber)
	assert.Equal(t, uint64(16), *args.ForkRetryBackoff)
	assert.True(t, args.NoStorageCaching)
	assert.Equal(t, "255", args.InitialBalance.Dec())
	assert.Equal(t, common.HexToAddress("0xaa"), *args.Sender)
	assert.True(t, args.FFI)
	assert.Equal(t, uint8(2), args.Verbosity)
	assert.Equal(t, uint64(500), *args.ComputeUnitsPerSecond)
	assert.True(t, args.NoRPCRateLimit)

	env := args.Env
	assert.Equal(t, uint64(30000000), *env.GasLimit)
	assert.Equal(t, uint64(49152), *env.CodeSizeLimit)
	assert.Equal(t, types.ChainOptimism, *env.ChainID)
	assert.Equal(t, uint64(1), *env.GasPrice)
	assert.Equal(t, uint64(2), *env.BlockBaseFeePerGas)
	assert.Equal(t, common.HexToAddress("0xbb"), *env.TxOrigin)
	assert.Equal(t, common.HexToAddress("0xcc"), *env.BlockCoinbase)
	assert.Equal(t, uint64(1700000000), *env.BlockTimestamp)
	assert.Equal(t, uint64(42), *env.BlockNumber)
	assert.Equal(t, uint64(3), *env.BlockDifficulty)
	assert.Equal(t, common.HexToHash("0x01"), *env.BlockPrevrandao)
	assert.Equal(t, uint64(60000000), *env.BlockGasLimit)
	assert.Equal(t, uint64(1024), *env.MemoryLimit)

	overrides, err := args.Overrides()
	require.NoError(t, err)
	assert.Len(t, overrides, len(flagSpecs))
}

func TestParseInvalidValues(t *testing.T) {
	for _, argv := range [][]string{
		{"--sender", "0x1234"},
		{"--block-prevrandao", "0x01"},
		{"--chain-id", "notachain"},
		{"--initial-balance", "-1"},
		{"--gas-limit", "lots"},
		{"--fork-url", ""},
		{"--ffi=maybe"},
	} {
		_, err := Parse(argv)
		assert.Error(t, err, "argv %v", argv)
	}
}

func TestValidateFlags(t *testing.T) {
	_, err := Parse([]string{"--fork-block-number", "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredFlag)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "--fork-block-number requires --fork-url")

	_, err = Parse([]string{"--fork-retry-backoff", "1", "--cups", "10", "--no-rate-limit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fork-retry-backoff requires --fork-url")
	assert.Contains(t, err.Error(), "--compute-units-per-second requires --fork-url")
	assert.Contains(t, err.Error(), "--no-rpc-rate-limit requires --fork-url")

	_, err = Parse([]string{"--rpc-url", "http://rpc", "--fork-block-number", "1"})
	assert.NoError(t, err)
}

func TestAddCommandFlags(t *testing.T) {
	var (
		args    EvmArgs
		ran     bool
		chained bool
	)
	cmd := &cobra.Command{
		Use: "test",
		PreRunE: func(*cobra.Command, []string) error {
			chained = true
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			ran = true
			return nil
		},
	}
	AddCommandFlags(cmd, &args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"--chain", "sepolia", "-vvvv"})
	require.NoError(t, cmd.Execute())
	assert.True(t, ran)
	assert.True(t, chained)
	assert.Equal(t, types.ChainSepolia, *args.Env.ChainID)
	assert.Equal(t, uint8(4), args.Verbosity)

	ran = false
	cmd.SetArgs([]string{"--fork-block-number", "1"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredFlag)
	assert.False(t, ran)
}
