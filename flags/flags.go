// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName    = "config"
	ConfigURLFlagName = "config-url"
	NameFlagName      = "name"
)

// BindFlags registers the persistent flags shared by every command and binds
// them into viper
func BindFlags(rootCMD *cobra.Command) {
	flagSet := rootCMD.PersistentFlags()
	bindString(flagSet, ConfigFlagName, ".", "Path to JSON configuration file or `env` to read configuration from environment")
	bindString(flagSet, ConfigURLFlagName, "", "URL of shared domain configuration")
	bindString(flagSet, NameFlagName, "", "engine instance name")
}

func bindString(flagSet *pflag.FlagSet, name, value, usage string) {
	flagSet.String(name, value, usage)
	_ = viper.BindPFlag(name, flagSet.Lookup(name))
}
