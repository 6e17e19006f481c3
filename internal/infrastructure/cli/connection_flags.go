package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

// connectionFlags selects the database a command runs against.
type connectionFlags struct {
	source   string
	url      string
	username string
	password string
}

func (f *connectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Saved data source ID or name")
	cmd.Flags().StringVar(&f.url, "url", "", "JDBC URL, e.g. jdbc:mysql://localhost:3306/shop")
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Database user")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Database password")
}

func (f *connectionFlags) reset() {
	*f = connectionFlags{}
}

// resolve returns the connection named by the flags. With no flags the zero
// connection is returned, which the analysis service replaces with the last one used.
func (f *connectionFlags) resolve(sources *application.DataSourceService) (datasource.Connection, error) {
	if key := strings.TrimSpace(f.source); key != "" {
		ds, err := sources.Resolve(key)
		if err != nil {
			return datasource.Connection{}, notFoundError(sources, key, err)
		}
		return ds.Connection(), nil
	}
	return datasource.Connection{URL: f.url, Username: f.username, Password: f.password}, nil
}
