package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change sqlscore settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getHomeRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return NewCLIError("cannot read config", "Fix or delete .sqlscore/config.yaml", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long:  "Change one setting. Keys: backend.url, backend.timeout, backend.max_attempts.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getHomeRoot()
		if err != nil {
			return err
		}
		cfg, err := config.LoadFile(root)
		if err != nil {
			return NewCLIError("cannot read config", "Fix or delete .sqlscore/config.yaml", err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			e := NewCLIError("invalid setting", "Run 'sqlscore config set --help' for valid keys", err)
			e.ExitCode = ExitUsage
			return e
		}
		if err := config.Save(root, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	RootCmd.AddCommand(configCmd)
}
