package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envAliases lists environment names that do not follow the flag name.
var envAliases = map[string][]string{
	"domain":         {"DNS_DOMAIN", "DOMAIN"},
	"listen-address": {"LISTEN_ADDRESS", "WEBHOOK_LISTEN_ADDRESS"},
}

func initConfig() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded configuration from .env file")
	}

	if opts.configFile != "" {
		viper.SetConfigFile(opts.configFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: Failed to read config file %s: %v", opts.configFile, err)
		}
	}

	configureEnv(viper.GetViper())

	// Bind viper values to flags not set on the command line
	applyViper(viper.GetViper(), rootCmd.PersistentFlags())
	applyViper(viper.GetViper(), rootCmd.Flags())
	applyViper(viper.GetViper(), serveCmd.Flags())
}

// configureEnv lets every flag be set through its upper-cased, underscored
// environment variable, e.g. --tailscale-api-key from TAILSCALE_API_KEY.
func configureEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			log.Printf("Warning: Failed to bind environment for %s: %v", key, err)
		}
	}
}

func applyViper(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if s, ok := val.([]any); ok {
				parts := make([]string, 0, len(s))
				for _, p := range s {
					parts = append(parts, fmt.Sprint(p))
				}
				val = strings.Join(parts, ",")
			}
			if err := flags.Set(f.Name, fmt.Sprint(val)); err != nil {
				log.Printf("Warning: Failed to set flag %s from configuration: %v", f.Name, err)
			}
		}
	})
}
