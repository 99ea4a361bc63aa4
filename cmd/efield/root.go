package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"efield/internal/config"
	"efield/internal/observability"
)

// newRootCmd wires every subcommand to one viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	var cfgFile string

	root := &cobra.Command{
		Use:           "efield",
		Short:         "Monte-Carlo charge relaxation on conductor surfaces",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(v, cfgFile); err != nil {
				return err
			}
			var lc config.LoggerConfig
			if err := v.UnmarshalKey("logger", &lc); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "efield"})
				return fmt.Errorf("failed to decode logger config: %w", err)
			}
			observability.InitializeLogger(lc)
			observability.GetLogger().Debug("starting", zap.String("version", version), zap.String("command", cmd.Name()))
			return nil
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	_ = v.BindPFlag("logger.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("logger.format", pf.Lookup("log-format"))

	root.AddCommand(newRunCmd(v), newSelfTestCmd(), newFieldCmd(), newVersionCmd())
	return root
}

// initializeConfig reads the config file, if any, and the EFIELD_ environment.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("efield")
	}

	v.SetEnvPrefix("EFIELD")
	v.SetEnvKeyReplacer(config.EnvKeyReplacer())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
