package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Structure a saved analysis report without contacting the backend",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			report string
			err    error
		)
		if len(args) == 0 || args[0] == "-" {
			report, err = readAll(cmd.InOrStdin())
		} else {
			var data []byte
			data, err = os.ReadFile(args[0])
			if err != nil {
				return NewCLIError("cannot read report file", "Check the file path", err)
			}
			report = string(data)
		}
		if err != nil {
			return err
		}

		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		return printOutcome(cmd.OutOrStdout(), services.Analysis.ParseReport(report), false)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the parsed report as JSON")
	RootCmd.AddCommand(parseCmd)
}
