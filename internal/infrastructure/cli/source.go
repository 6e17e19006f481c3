package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

var (
	sourceName     string
	sourceURL      string
	sourceUsername string
	sourcePassword string
	sourceJSON     bool
	sourceReveal   bool
)

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"sources", "ds"},
	Short:   "Manage saved data sources",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		sources, err := services.Sources.List()
		if err != nil {
			return MapError(err)
		}

		if sourceJSON {
			masked := make([]datasource.DataSource, 0, len(sources))
			for _, ds := range sources {
				masked = append(masked, ds.Masked())
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(masked)
		}

		var last *datasource.Connection
		if conn, err := services.Sources.Last(); err == nil {
			last = &conn
		}
		renderSources(cmd.OutOrStdout(), sources, last)
		return nil
	},
}

var sourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new data source",
	Example: `  sqlscore source add --name shop --url jdbc:mysql://localhost:3306/shop -u app -p secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		ds, err := services.Sources.Add(sourceName, datasource.Connection{
			URL:      sourceURL,
			Username: sourceUsername,
			Password: sourcePassword,
		})
		if err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved data source %s (%s)\n", ds.Name, ds.ID)
		return nil
	},
}

var sourceEditCmd = &cobra.Command{
	Use:   "edit <id-or-name>",
	Short: "Change fields of a saved data source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}

		var patch application.DataSourcePatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &sourceName
		}
		if flags.Changed("url") {
			patch.URL = &sourceURL
		}
		if flags.Changed("username") {
			patch.Username = &sourceUsername
		}
		if flags.Changed("password") {
			patch.Password = &sourcePassword
		}
		if patch == (application.DataSourcePatch{}) {
			return NewCLIError("nothing to change", "Pass at least one of --name, --url, --username, --password", nil)
		}

		ds, err := services.Sources.Update(args[0], patch)
		if err != nil {
			return MapError(notFoundError(services.Sources, args[0], err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated data source %s\n", ds.Name)
		return nil
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:     "rm <id-or-name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a saved data source",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		ds, err := services.Sources.Remove(args[0])
		if err != nil {
			return MapError(notFoundError(services.Sources, args[0], err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed data source %s\n", ds.Name)
		return nil
	},
}

var sourceUseCmd = &cobra.Command{
	Use:   "use <id-or-name>",
	Short: "Make a data source the default connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		ds, err := services.Sources.Select(args[0])
		if err != nil {
			return MapError(notFoundError(services.Sources, args[0], err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Using data source %s\n", ds.Name)
		return nil
	},
}

var sourceShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show one data source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		ds, err := services.Sources.Resolve(args[0])
		if err != nil {
			return MapError(notFoundError(services.Sources, args[0], err))
		}
		if !sourceReveal {
			ds = ds.Masked()
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:       %s\n", ds.ID)
		fmt.Fprintf(w, "Name:     %s\n", ds.Name)
		fmt.Fprintf(w, "URL:      %s\n", ds.URL)
		fmt.Fprintf(w, "Username: %s\n", ds.Username)
		fmt.Fprintf(w, "Password: %s\n", ds.Password)
		return nil
	},
}

// notFoundError adds close name matches to a not-found error.
func notFoundError(sources *application.DataSourceService, key string, err error) error {
	if !errors.Is(err, datasource.ErrNotFound) {
		return err
	}
	list, listErr := sources.List()
	if listErr != nil {
		return err
	}
	names := make([]string, 0, len(list))
	for _, ds := range list {
		names = append(names, ds.Name)
	}
	suggestions := suggestNames(key, names)
	if len(suggestions) == 0 {
		return err
	}
	return NewCLIError(
		fmt.Sprintf("data source %q not found", key),
		"Did you mean: "+strings.Join(suggestions, ", ")+"?",
		err,
	)
}

// suggestNames returns up to three names that fuzzily match key, best first.
func suggestNames(key string, names []string) []string {
	matches := fuzzy.Find(strings.ToLower(key), lowerAll(names))
	out := make([]string, 0, 3)
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) == 3 {
			break
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func init() {
	for _, c := range []*cobra.Command{sourceAddCmd, sourceEditCmd} {
		c.Flags().StringVar(&sourceName, "name", "", "Data source name")
		c.Flags().StringVar(&sourceURL, "url", "", "JDBC URL, e.g. jdbc:mysql://localhost:3306/shop")
		c.Flags().StringVarP(&sourceUsername, "username", "u", "", "Database user")
		c.Flags().StringVarP(&sourcePassword, "password", "p", "", "Database password")
	}
	sourceListCmd.Flags().BoolVar(&sourceJSON, "json", false, "Print as JSON (passwords masked)")
	sourceShowCmd.Flags().BoolVar(&sourceReveal, "reveal", false, "Show the password")

	sourceCmd.AddCommand(sourceListCmd, sourceAddCmd, sourceEditCmd, sourceRemoveCmd, sourceUseCmd, sourceShowCmd)
	RootCmd.AddCommand(sourceCmd)
}
