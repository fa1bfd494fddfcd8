package config

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/params"

	"github.com/storacha/evmfixture/pkg/fixture"
)

type FixtureConfig struct {
	// NodeURL is the JSON-RPC endpoint of the Hardhat compatible node.
	NodeURL     string            `mapstructure:"node_url" validate:"required,url" flag:"node-url" toml:"node_url"`
	Fork        ForkConfig        `mapstructure:"fork" toml:"fork"`
	Acquisition AcquisitionConfig `mapstructure:"acquisition" toml:"acquisition"`
}

type ForkConfig struct {
	// URL is the archive endpoint forks are taken from. Without it the
	// fork operation is unavailable.
	URL string `mapstructure:"url" validate:"omitempty,url" flag:"fork-url" toml:"url"`
	// BlockNumber, when set, is the block pinned at startup and the block
	// used by the fork command when none is given.
	BlockNumber uint64 `mapstructure:"block_number" toml:"block_number,omitempty"`
}

type AcquisitionConfig struct {
	// GasAllowanceEther is the native balance, in whole ether, written to a
	// token holder before it transfers.
	GasAllowanceEther uint64 `mapstructure:"gas_allowance_ether" validate:"min=1" toml:"gas_allowance_ether"`
	// ReceiptTimeout accepts Go duration strings (e.g. "30s", "2m").
	ReceiptTimeout string `mapstructure:"receipt_timeout" validate:"required" toml:"receipt_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() FixtureConfig {
	return FixtureConfig{
		NodeURL: DefaultNodeURL,
		Acquisition: AcquisitionConfig{
			GasAllowanceEther: DefaultGasAllowanceEther,
			ReceiptTimeout:    DefaultReceiptTimeout.String(),
		},
	}
}

func (c FixtureConfig) Validate() error {
	return validateConfig(c)
}

// ToFixtureOptions converts the file representation into fixture.Options.
func (c FixtureConfig) ToFixtureOptions() (fixture.Options, error) {
	timeout, err := time.ParseDuration(c.Acquisition.ReceiptTimeout)
	if err != nil {
		return fixture.Options{}, fmt.Errorf("invalid receipt_timeout %q: %w", c.Acquisition.ReceiptTimeout, err)
	}
	if timeout <= 0 {
		return fixture.Options{}, fmt.Errorf("invalid receipt_timeout %q: must be positive", c.Acquisition.ReceiptTimeout)
	}

	allowance := new(big.Int).Mul(
		new(big.Int).SetUint64(c.Acquisition.GasAllowanceEther),
		big.NewInt(params.Ether),
	)
	return fixture.Options{
		ForkURL:        c.Fork.URL,
		GasAllowance:   allowance,
		ReceiptTimeout: timeout,
	}, nil
}

// WriteTOML writes c in the format read back by Load.
func (c FixtureConfig) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
