package configmanager

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "ksync"
	// ConfigType is the format of the configuration file.
	ConfigType = "yaml"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "KSYNC"
)

// InitializeViper creates a Viper instance that reads ksync.yaml from the
// working directory or $HOME/.config/ksync and honours KSYNC_* variables.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType(ConfigType)
	viperInstance.AddConfigPath(".")
	viperInstance.AddConfigPath("$HOME/.config/ksync")

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	return viperInstance
}
