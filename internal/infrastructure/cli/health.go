package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis backend is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		status, err := services.Analysis.Health(commandContext(cmd))
		if err != nil {
			return MapError(err)
		}
		w := cmd.OutOrStdout()
		if status != http.StatusOK {
			fmt.Fprintf(w, "%s analysis engine reported status %d at %s\n",
				gradePoorStyle.Render("DOWN"), status, services.Gateway.BaseURL())
			return &CLIError{Message: fmt.Sprintf("backend unhealthy (status %d)", status), ExitCode: ExitUnreachable}
		}
		fmt.Fprintf(w, "%s %s\n", gradeGoodStyle.Render("OK"), services.Gateway.BaseURL())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(healthCmd)
}
