package config

import (
	"time"

	"github.com/spf13/viper"
)

// Key is a configuration key path used with Viper.
type Key string

const (
	NodeURL         Key = "node_url"
	ForkURL         Key = "fork.url"
	ForkBlockNumber Key = "fork.block_number"
)

// Token acquisition
const (
	GasAllowanceEther Key = "acquisition.gas_allowance_ether"
	ReceiptTimeout    Key = "acquisition.receipt_timeout"
)

const (
	DefaultNodeURL           = "http://127.0.0.1:8545"
	DefaultGasAllowanceEther = 10
	DefaultReceiptTimeout    = 30 * time.Second
)

var defaultValues = map[Key]any{
	NodeURL:           DefaultNodeURL,
	ForkURL:           "",
	ForkBlockNumber:   uint64(0),
	GasAllowanceEther: DefaultGasAllowanceEther,
	ReceiptTimeout:    DefaultReceiptTimeout.String(),
}

// SetDefaults registers the default of every key on v.
// Called before Load so unset keys decode to usable values. Every key needs
// an entry, or Unmarshal will not see it in the environment.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaultValues {
		v.SetDefault(string(k), val)
	}
}
