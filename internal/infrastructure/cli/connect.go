package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	connectConn connectionFlags
	connectJSON bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Test a database connection through the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		conn, err := connectConn.resolve(services.Sources)
		if err != nil {
			return MapError(err)
		}

		meta, err := services.Analysis.TestConnection(commandContext(cmd), conn)
		if err != nil {
			return MapError(err)
		}

		if connectJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		}
		renderMeta(cmd.OutOrStdout(), meta)
		return nil
	},
}

func init() {
	connectConn.bind(connectCmd)
	connectCmd.Flags().BoolVar(&connectJSON, "json", false, "Print the database metadata as JSON")
	RootCmd.AddCommand(connectCmd)
}
