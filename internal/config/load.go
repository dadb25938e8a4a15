package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults for every configuration key. Flags bound through viper.BindPFlag
// override these, and so do BLOGTOOLS_* environment variables.
var Defaults = map[string]any{
	"verbose":                false,
	"log_file":               "",
	"report.output_root":     "local",
	"report.baseline_prefix": "std::",
	"report.strict":          false,
	"chart.renderer":         "wcchart",
	"chart.wcchart_path":     "../wcchart/build/wcchart",
	"history.enabled":        false,
	"history.type":           "sqlite",
	"history.dsn":            "local/benchhistory.db",
	"metrics.file":           "",
	"hashgen.seed":           1337,
	"hashgen.length":         16,
	"hashgen.alphabet":       "abcdefghijklmnopqrstuvwxyz",
	"hashgen.algorithm":      "mt19937",
}

// SetDefaults registers Defaults with viper.
func SetDefaults() {
	for key, value := range Defaults {
		viper.SetDefault(key, value)
	}
}

// Load initializes the configuration from file and environment variables.
// A missing config.yaml is not an error; an explicit cfgFile that cannot be
// read is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("BLOGTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}
