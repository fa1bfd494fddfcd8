package config

import (
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/viper"
)

var log = logging.Logger("config")

type Validatable interface {
	Validate() error
}

// Load decodes the settings held by v into T and validates the result.
// Defaults must already be registered on v.
func Load[T Validatable](v *viper.Viper) (T, error) {
	var out T
	if err := v.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("decoding config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return out, err
	}
	log.Debugw("loaded config", "file", v.ConfigFileUsed())
	return out, nil
}
