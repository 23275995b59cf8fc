package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChain(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    Chain
		wantErr bool
	}{
		{"decimal id", "5", ChainGoerli, false},
		{"hex id", "0x5", ChainGoerli, false},
		{"name", "goerli", ChainGoerli, false},
		{"name is case insensitive", "Mainnet", ChainMainnet, false},
		{"alias", "dev", ChainAnvil, false},
		{"unknown id", "424242", Chain(424242), false},
		{"padded", " sepolia ", ChainSepolia, false},
		{"empty", "", 0, true},
		{"unknown name", "notachain", 0, true},
		{"negative", "-1", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseChain(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidChain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChainText(t *testing.T) {
	assert.Equal(t, "goerli", ChainGoerli.String())
	assert.Equal(t, "424242", Chain(424242).String())

	var c Chain
	require.NoError(t, c.UnmarshalText([]byte("anvil")))
	assert.Equal(t, uint64(31337), c.ID())

	text, err := Chain(424242).MarshalText()
	require.NoError(t, err)
	require.NoError(t, c.UnmarshalText(text))
	assert.Equal(t, Chain(424242), c)

	assert.Error(t, c.UnmarshalText([]byte("bogus")))
}
