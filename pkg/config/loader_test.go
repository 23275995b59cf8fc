package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollkit/evmopts/pkg/log"
	"github.com/rollkit/evmopts/types"
)

const testToml = `
[profile.default]
chain_id = 1
memory_limit = 1000
sender = "0x00000000000000000000000000000000000000aa"
initial_balance = "0x100"

[profile.ci]
verbosity = 4
chain_id = "sepolia"
block_prevrandao = "0x0000000000000000000000000000000000000000000000000000000000000002"
`

func writeTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	return dir
}

type failingProvider struct{}

func (failingProvider) Metadata() Metadata { return Metadata{Name: "broken"} }

func (failingProvider) Data() (map[Profile]map[string]any, error) {
	return nil, errors.New("boom")
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader(WithRoot(t.TempDir()), WithProfile(DefaultProfile)).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderConfigFile(t *testing.T) {
	dir := writeTestConfig(t, ConfigToml, testToml)

	t.Run("default profile", func(t *testing.T) {
		cfg, err := NewLoader(WithRoot(dir), WithProfile(DefaultProfile), WithLogger(log.NewTestLogger(t))).Load()
		require.NoError(t, err)
		assert.Equal(t, types.ChainMainnet, *cfg.ChainID)
		assert.Equal(t, uint64(1000), *cfg.MemoryLimit)
		assert.Equal(t, common.HexToAddress("0xaa"), *cfg.Sender)
		assert.Equal(t, "256", cfg.InitialBalance.Dec())
		assert.Equal(t, uint8(0), cfg.Verbosity)
		// untouched defaults
		assert.Equal(t, uint64(1), *cfg.BlockNumber)
	})

	t.Run("selected profile inherits default", func(t *testing.T) {
		cfg, err := NewLoader(WithRoot(dir), WithProfile("ci")).Load()
		require.NoError(t, err)
		assert.Equal(t, Profile("ci"), cfg.Profile)
		assert.Equal(t, types.ChainSepolia, *cfg.ChainID)
		assert.Equal(t, uint8(4), cfg.Verbosity)
		assert.Equal(t, uint64(1000), *cfg.MemoryLimit)
		assert.Equal(t, common.HexToHash("0x02"), *cfg.BlockPrevrandao)
	})

	t.Run("profile from environment", func(t *testing.T) {
		t.Setenv(ProfileEnv, "ci")
		loader := NewLoader(WithRoot(dir))
		assert.Equal(t, Profile("ci"), loader.Profile())
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, uint8(4), cfg.Verbosity)
	})

	t.Run("unknown profile falls back to default", func(t *testing.T) {
		cfg, err := NewLoader(WithRoot(dir), WithProfile("nope")).Load()
		require.NoError(t, err)
		assert.Equal(t, types.ChainMainnet, *cfg.ChainID)
	})

	t.Run("found from a nested directory", func(t *testing.T) {
		nested := filepath.Join(dir, "src", "test")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		cfg, err := NewLoader(WithRoot(nested), WithProfile(DefaultProfile)).Load()
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), *cfg.MemoryLimit)
	})
}

func TestLoaderYamlFile(t *testing.T) {
	dir := writeTestConfig(t, "evm.yaml", `
profile:
  default:
    chain_id: goerli
    gas_price: 7
`)
	cfg, err := NewLoader(WithRoot(dir), WithProfile(DefaultProfile)).Load()
	require.NoError(t, err)
	assert.Equal(t, types.ChainGoerli, *cfg.ChainID)
	assert.Equal(t, uint64(7), *cfg.GasPrice)
}

func TestLoaderExplicitConfigFile(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "missing.toml"))).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadConfig)

	dir := writeTestConfig(t, "custom.toml", testToml)
	cfg, err := NewLoader(WithConfigFile(filepath.Join(dir, "custom.toml")), WithProfile(DefaultProfile)).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), *cfg.MemoryLimit)
}

func TestLoaderPrecedence(t *testing.T) {
	dir := writeTestConfig(t, ConfigToml, testToml)
	t.Setenv(ProfileEnv, "")

	// env beats the file
	t.Setenv("EVM_CHAIN_ID", "goerli")
	t.Setenv("EVM_FFI", "true")
	t.Setenv("EVM_SENDER", "0x00000000000000000000000000000000000000bb")
	t.Setenv("EVM_BLOCK_GAS_LIMIT", "30000000")

	cfg, err := NewLoader(WithRoot(dir)).Load()
	require.NoError(t, err)
	assert.Equal(t, types.ChainGoerli, *cfg.ChainID)
	assert.True(t, cfg.FFI)
	assert.Equal(t, common.HexToAddress("0xbb"), *cfg.Sender)
	assert.Equal(t, uint64(30000000), *cfg.BlockGasLimit)

	// providers beat env, later providers beat earlier ones
	first := MapProvider{Name: "first", Values: map[Profile]map[string]any{
		DefaultProfile: {KeyChainID: uint64(10), KeyMemoryLimit: uint64(5)},
	}}
	second := MapProvider{Name: "second", Values: map[Profile]map[string]any{
		DefaultProfile: {KeyChainID: uint64(137)},
		"other":        {KeyMemoryLimit: uint64(6)},
	}}
	cfg, err = NewLoader(WithRoot(dir)).Merge(first).Merge(second).Load()
	require.NoError(t, err)
	assert.Equal(t, types.ChainPolygon, *cfg.ChainID)
	assert.Equal(t, uint64(5), *cfg.MemoryLimit)
}

func TestLoaderProviderProfiles(t *testing.T) {
	t.Setenv(ProfileEnv, "ci")

	p := MapProvider{Name: "scoped", Values: map[Profile]map[string]any{
		DefaultProfile: {KeyMemoryLimit: uint64(5), KeyGasPrice: uint64(1)},
		"ci":           {KeyMemoryLimit: uint64(6)},
		"prod":         {KeyGasPrice: uint64(7)},
		"other":        {KeyCodeSizeLimit: uint64(8)},
	}}

	cfg, err := NewLoader(WithRoot(t.TempDir()), WithProfile(DefaultProfile)).Merge(p).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), *cfg.MemoryLimit)
	assert.Equal(t, uint64(1), *cfg.GasPrice)
	assert.Nil(t, cfg.CodeSizeLimit)

	// the loader's own profile is applied last
	cfg, err = NewLoader(WithRoot(t.TempDir()), WithProfile("prod")).Merge(p).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), *cfg.MemoryLimit)
	assert.Equal(t, uint64(7), *cfg.GasPrice)
	assert.Equal(t, Profile("prod"), cfg.Profile)
}

func TestLoaderProviderError(t *testing.T) {
	_, err := NewLoader(WithRoot(t.TempDir())).Merge(failingProvider{}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `provider "broken"`)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoaderDecodeErrors(t *testing.T) {
	cases := map[string]any{
		KeyChainID:        "notachain",
		KeySender:         "0x1234",
		KeyInitialBalance: -1,
		KeyBlockPrevrandao: "0x01",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			p := MapProvider{Name: "bad", Values: map[Profile]map[string]any{DefaultProfile: {key: value}}}
			_, err := NewLoader(WithRoot(t.TempDir()), WithProfile(DefaultProfile)).Merge(p).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unable to decode configuration")
		})
	}
}

func TestExtract(t *testing.T) {
	type forkOpts struct {
		URL         string `mapstructure:"eth_rpc_url"`
		BlockNumber uint64 `mapstructure:"fork_block_number"`
		ChainID     types.Chain
	}

	p := MapProvider{Name: "fork", Values: map[Profile]map[string]any{DefaultProfile: {
		KeyEthRPCURL:       "http://localhost:8545",
		KeyForkBlockNumber: uint64(12),
		"ChainID":          "optimism",
	}}}

	var opts forkOpts
	require.NoError(t, NewLoader(WithRoot(t.TempDir()), WithProfile(DefaultProfile)).Merge(p).Extract(&opts))
	assert.Equal(t, "http://localhost:8545", opts.URL)
	assert.Equal(t, uint64(12), opts.BlockNumber)
	assert.Equal(t, types.ChainOptimism, opts.ChainID)
}
