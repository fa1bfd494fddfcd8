package config

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("EVMFIXTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load[FixtureConfig](newViper(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EVMFIXTURE_NODE_URL", "http://node:8545")
	t.Setenv("EVMFIXTURE_FORK_URL", "https://archive.example/v1")
	t.Setenv("EVMFIXTURE_FORK_BLOCK_NUMBER", "17000000")
	t.Setenv("EVMFIXTURE_ACQUISITION_RECEIPT_TIMEOUT", "2m")

	cfg, err := Load[FixtureConfig](newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "http://node:8545", cfg.NodeURL)
	assert.Equal(t, "https://archive.example/v1", cfg.Fork.URL)
	assert.EqualValues(t, 17_000_000, cfg.Fork.BlockNumber)
	assert.Equal(t, "2m", cfg.Acquisition.ReceiptTimeout)
}

func TestLoadFromFile(t *testing.T) {
	v := newViper(t)
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
node_url = "http://10.0.0.2:8545"

[fork]
url = "https://archive.example"
block_number = 19000000

[acquisition]
gas_allowance_ether = 2
`)))

	cfg, err := Load[FixtureConfig](v)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:8545", cfg.NodeURL)
	assert.EqualValues(t, 19_000_000, cfg.Fork.BlockNumber)
	assert.EqualValues(t, 2, cfg.Acquisition.GasAllowanceEther)
	// unset keys keep their defaults
	assert.Equal(t, DefaultReceiptTimeout.String(), cfg.Acquisition.ReceiptTimeout)
}

func TestValidate(t *testing.T) {
	t.Run("reports every failing field", func(t *testing.T) {
		cfg := Default()
		cfg.NodeURL = ""
		cfg.Fork.URL = "not a url"
		cfg.Acquisition.GasAllowanceEther = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FixtureConfig.NodeURL is required")
		assert.Contains(t, err.Error(), "FixtureConfig.Fork.URL must be a url")
		assert.Contains(t, err.Error(), "GasAllowanceEther")
	})

	t.Run("fork url is optional", func(t *testing.T) {
		cfg := Default()
		cfg.Fork.URL = ""
		require.NoError(t, cfg.Validate())
	})

	t.Run("addresses", func(t *testing.T) {
		type args struct {
			Source string `validate:"required,eth_addr"`
		}
		require.NoError(t, Validate(args{Source: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}))
		err := Validate(args{Source: "0x1234"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a 0x-prefixed 20 byte hex address")
	})
}

func TestToFixtureOptions(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := Default()
		cfg.Fork.URL = "https://archive.example"
		cfg.Acquisition.GasAllowanceEther = 3
		cfg.Acquisition.ReceiptTimeout = "45s"

		opts, err := cfg.ToFixtureOptions()
		require.NoError(t, err)
		assert.Equal(t, "https://archive.example", opts.ForkURL)
		assert.Equal(t, 45*time.Second, opts.ReceiptTimeout)
		assert.Equal(t, 0, opts.GasAllowance.Cmp(new(big.Int).Mul(big.NewInt(3), big.NewInt(params.Ether))))
	})

	t.Run("invalid duration returns error", func(t *testing.T) {
		cfg := Default()
		cfg.Acquisition.ReceiptTimeout = "soon"
		_, err := cfg.ToFixtureOptions()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "receipt_timeout")
	})

	t.Run("negative duration returns error", func(t *testing.T) {
		cfg := Default()
		cfg.Acquisition.ReceiptTimeout = "-1s"
		_, err := cfg.ToFixtureOptions()
		require.Error(t, err)
	})
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Fork.URL = "https://archive.example"
	cfg.Fork.BlockNumber = 42

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteTOML(&buf))
	assert.Contains(t, buf.String(), `node_url = "http://127.0.0.1:8545"`)

	v := newViper(t)
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(&buf))
	loaded, err := Load[FixtureConfig](v)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
