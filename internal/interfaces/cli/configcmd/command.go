// Package configcmd implements "dealerdocs config" for checking and printing
// the effective configuration.
package configcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ntwoods/dealerdocs/internal/infrastructure/config"
	sharedConfig "github.com/ntwoods/dealerdocs/internal/shared/config"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment override for server.mode")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Fail if a required value is missing",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(env)
				if err != nil {
					return err
				}
				return Check(cmd.OutOrStdout(), cfg)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the configuration as YAML with secrets masked",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(env)
				if err != nil {
					return err
				}
				return Show(cmd.OutOrStdout(), cfg)
			},
		},
	)

	return cmd
}

// Check reports whether every required value is present.
func Check(w io.Writer, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "configuration OK")
	return err
}

// Show writes cfg as YAML with secrets masked.
func Show(w io.Writer, cfg *config.Config) error {
	masked := *cfg
	masked.Google.ClientSecret = sharedConfig.MaskSecret(cfg.Google.ClientSecret)
	masked.Redis.Password = sharedConfig.MaskSecret(cfg.Redis.Password)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&masked); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return enc.Close()
}
