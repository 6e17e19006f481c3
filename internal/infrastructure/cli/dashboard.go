package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Pick and test saved data sources interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("SQLSCORE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		p := tea.NewProgram(initialModel(commandContext(cmd), services))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		if m, ok := final.(model); ok && m.selected != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Using data source %s\n", m.selected.Name)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

// connTestMsg carries the result of a background connection test.
type connTestMsg struct {
	name string
	meta *analysis.DatabaseMeta
	err  error
}

type model struct {
	ctx      context.Context
	services *wiring.AppServices
	table    table.Model
	sources  []datasource.DataSource
	status   string
	selected *datasource.DataSource
	err      error
}

func initialModel(ctx context.Context, services *wiring.AppServices) model {
	sources, err := services.Sources.List()
	if err != nil {
		return model{err: err}
	}

	var last *datasource.Connection
	if conn, err := services.Sources.Last(); err == nil {
		last = &conn
	}

	columns := []table.Column{
		{Title: "", Width: 1},
		{Title: "Name", Width: 18},
		{Title: "URL", Width: 44},
		{Title: "Username", Width: 14},
	}
	rows := make([]table.Row, 0, len(sources))
	for _, ds := range sources {
		marker := ""
		if last != nil && *last == ds.Connection() {
			marker = "*"
		}
		rows = append(rows, table.Row{marker, ds.Name, ds.URL, ds.Username})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return model{
		ctx:      ctx,
		services: services,
		table:    t,
		sources:  sources,
		status:   "enter: use · t: test connection · q: quit",
	}
}

func (m model) current() (datasource.DataSource, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sources) {
		return datasource.DataSource{}, false
	}
	return m.sources[i], true
}

func (m model) testConnection(ds datasource.DataSource) tea.Cmd {
	return func() tea.Msg {
		meta, err := m.services.Analysis.TestConnection(m.ctx, ds.Connection())
		return connTestMsg{name: ds.Name, meta: meta, err: err}
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			ds, ok := m.current()
			if !ok {
				return m, nil
			}
			if _, err := m.services.Sources.Select(ds.ID); err != nil {
				m.status = statusErr.Render("Could not select: " + err.Error())
				return m, nil
			}
			m.selected = &ds
			return m, tea.Quit
		case "t":
			ds, ok := m.current()
			if !ok {
				return m, nil
			}
			m.status = fmt.Sprintf("Testing %s...", ds.Name)
			return m, m.testConnection(ds)
		}
	case connTestMsg:
		if msg.err != nil {
			m.status = statusErr.Render(fmt.Sprintf("%s: %v", msg.name, MapError(msg.err)))
		} else {
			m.status = statusOK.Render(fmt.Sprintf("%s: %s %s reachable", msg.name, msg.meta.DatabaseProductName, msg.meta.DatabaseVersion))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	statusOK  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErr = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading dashboard: %v\nPress q to quit.", m.err)
	}
	if len(m.sources) == 0 {
		return "No data sources saved. Add one with 'sqlscore source add'.\nPress q to quit.\n"
	}
	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("sqlscore data sources"),
			m.table.View(),
			m.status,
		),
	) + "\n"
}
