package flags

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/storacha/evmfixture/pkg/config"
)

// SetupNodeFlags registers the flags naming the node and the fork source.
func SetupNodeFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String(
		"node-url",
		config.DefaultNodeURL,
		"JSON-RPC url of the Hardhat compatible node",
	)
	fs.String(
		"fork-url",
		"",
		"Archive node url forks are taken from",
	)
	fs.Uint64(
		"fork-block",
		0,
		"Block used by `fork` when none is given",
	)

	bindings := []FlagBinding{
		// also read from HARDHAT_NODE_URL
		{"node-url", string(config.NodeURL), "HARDHAT_NODE_URL"},
		{"fork-url", string(config.ForkURL), ""},
		{"fork-block", string(config.ForkBlockNumber), ""},
	}

	return AddAndBindFlags(v, fs, bindings)
}

// AcquisitionBindings maps the flags added by AddAcquisitionFlags to their
// configuration keys. Several commands carry these flags, so each binds them
// in its PreRunE rather than at construction.
var AcquisitionBindings = []FlagBinding{
	{"gas-allowance", string(config.GasAllowanceEther), ""},
	{"receipt-timeout", string(config.ReceiptTimeout), ""},
}

// AddAcquisitionFlags registers the flags tuning token acquisition.
func AddAcquisitionFlags(fs *pflag.FlagSet) {
	fs.Uint64(
		"gas-allowance",
		config.DefaultGasAllowanceEther,
		"Native balance in ether written to the token holder before it transfers",
	)
	fs.String(
		"receipt-timeout",
		config.DefaultReceiptTimeout.String(),
		"How long to wait for the transfer to be mined (e.g. 30s, 2m)",
	)
}
