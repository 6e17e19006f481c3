package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

// Styles
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var (
	gradeGoodStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	gradeWarningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	gradePoorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	bonusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	penaltyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	borderStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func gradeStyle(g analysis.Grade) lipgloss.Style {
	switch g {
	case analysis.GradeGood:
		return gradeGoodStyle
	case analysis.GradeWarning:
		return gradeWarningStyle
	default:
		return gradePoorStyle
	}
}

// renderOutcome writes the score card, or the raw report when it could not be parsed.
func renderOutcome(w io.Writer, out *application.Outcome, showExplain bool) {
	if !out.Parsed() {
		fmt.Fprintln(w, warnStyle.Render("Report could not be structured; showing it as returned by the backend."))
		fmt.Fprintln(w, out.Raw)
		if showExplain && len(out.Explain) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, renderExplainTable(out.Explain))
		}
		return
	}

	res := out.Result
	grade := res.Grade()

	title := "SQL analysis"
	if id := res.ID(); id != "" {
		title += " · " + id
	}
	fmt.Fprintln(w, headerStyle.Render(title))
	fmt.Fprintf(w, "Score: %s  %s\n",
		gradeStyle(grade).Render(strconv.Itoa(res.Score)),
		gradeStyle(grade).Render("("+grade.Label()+")"))

	if len(res.Rules) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No rules matched."))
	} else {
		fmt.Fprintf(w, "\nMatched rules (%d):\n", len(res.Rules))
		for i, r := range res.Rules {
			fmt.Fprintf(w, "%2d. %s %s\n", i+1, rulePoints(r), r.Reason)
			if r.Suggestion != "" {
				fmt.Fprintf(w, "    %s %s\n", dimStyle.Render("→"), r.Suggestion)
			}
		}
	}

	if showExplain && len(out.Explain) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "EXPLAIN:")
		fmt.Fprintln(w, renderExplainTable(out.Explain))
	}
}

func rulePoints(r analysis.RuleResult) string {
	if !r.HasScore() {
		return dimStyle.Render("[   ]")
	}
	text := fmt.Sprintf("[%+d]", r.Points())
	if r.IsBonus() {
		return bonusStyle.Render(text)
	}
	return penaltyStyle.Render(text)
}

func renderExplainTable(rows []analysis.ExplainRow) string {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("id", "select_type", "table", "type", "possible_keys", "key", "key_len", "ref", "rows", "filtered", "Extra")
	for _, r := range rows {
		t.Row(strconv.FormatInt(r.ID, 10), r.SelectType, r.Table, r.Type, r.PossibleKeys,
			r.Key, r.KeyLen, r.Ref, r.Rows, r.FilteredText(), r.Extra)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
		if row == ltable.HeaderRow {
			return style.Bold(true)
		}
		if col == 3 && row >= 0 && row < len(rows) && rows[row].FullScan() {
			return style.Foreground(lipgloss.Color("196"))
		}
		return style
	})
	return t.String()
}

func renderExplainGuide(w io.Writer) {
	columns, types := analysis.ExplainGuide()
	fmt.Fprintln(w, headerStyle.Render("Reading EXPLAIN output"))
	for _, c := range columns {
		name := c.Name
		if c.Important {
			name = warnStyle.Render(name + " *")
		}
		fmt.Fprintf(w, "%-16s %s\n", name, c.Help)
	}
	fmt.Fprintln(w, "\nAccess types, best to worst:")
	for _, c := range types {
		fmt.Fprintf(w, "  %-8s %s\n", c.Name, c.Help)
	}
}

func renderMeta(w io.Writer, meta *analysis.DatabaseMeta) {
	fmt.Fprintln(w, gradeGoodStyle.Render("Connection OK"))
	pairs := [][2]string{
		{"Database", strings.TrimSpace(meta.DatabaseProductName + " " + meta.DatabaseVersion)},
		{"Driver", strings.TrimSpace(meta.DriverName + " " + meta.DriverVersion)},
		{"User", meta.UserName},
		{"URL", meta.ConnectionURL},
		{"Transactions", strconv.FormatBool(meta.TransactionSupported)},
	}
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %-13s %s\n", p[0]+":", p[1])
	}
}

func renderSources(w io.Writer, sources []datasource.DataSource, last *datasource.Connection) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "No data sources saved. Add one with 'sqlscore source add'.")
		return
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("", "NAME", "URL", "USERNAME", "PASSWORD", "ID")
	for _, ds := range sources {
		marker := ""
		if last != nil && *last == ds.Connection() {
			marker = "*"
		}
		m := ds.Masked()
		t.Row(marker, m.Name, m.URL, m.Username, m.Password, m.ID)
	}
	fmt.Fprintln(w, t.String())
}
