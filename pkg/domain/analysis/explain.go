package analysis

import (
	"fmt"
	"strings"
)

// ExplainRow is one row of the EXPLAIN plan as returned by the backend.
// Nullable columns decode to "".
type ExplainRow struct {
	ID           int64   `json:"id"`
	SelectType   string  `json:"selectType"`
	Table        string  `json:"table"`
	Partitions   string  `json:"partitions"`
	Type         string  `json:"type"`
	PossibleKeys string  `json:"possibleKeys"`
	Key          string  `json:"key"`
	KeyLen       string  `json:"keyLen"`
	Ref          string  `json:"ref"`
	Rows         string  `json:"rows"`
	Filtered     float64 `json:"filtered"`
	Extra        string  `json:"extra"`
}

// FullScan reports whether the row scans the whole table.
func (r ExplainRow) FullScan() bool {
	return strings.EqualFold(r.Type, "ALL")
}

// FilteredText renders the filtered column as a percentage.
func (r ExplainRow) FilteredText() string {
	return fmt.Sprintf("%g%%", r.Filtered)
}

// DatabaseMeta describes the database behind a successful connection test.
type DatabaseMeta struct {
	DatabaseProductName  string `json:"databaseProductName"`
	DatabaseVersion      string `json:"databaseVersion"`
	DriverName           string `json:"driverName"`
	DriverVersion        string `json:"driverVersion"`
	UserName             string `json:"userName"`
	ConnectionURL        string `json:"connectionUrl"`
	TransactionSupported bool   `json:"transactionSupported"`
}

// ExplainColumn documents one EXPLAIN output column.
type ExplainColumn struct {
	Name      string
	Important bool
	Help      string
}

// ExplainGuide returns the reading guide for EXPLAIN output, column by column,
// followed by the access types from best to worst.
func ExplainGuide() ([]ExplainColumn, []ExplainColumn) {
	columns := []ExplainColumn{
		{Name: "id", Help: "Execution order identifier; higher runs first. Simple queries have id 1, subqueries and UNIONs add more."},
		{Name: "select_type", Important: true, Help: "Query kind such as SIMPLE, PRIMARY or SUBQUERY."},
		{Name: "table", Help: "Table the row reads from."},
		{Name: "type", Important: true, Help: "Access method; from best to worst: const > eq_ref > ref > range > index > ALL."},
		{Name: "possible_keys", Help: "Indexes the optimizer could use."},
		{Name: "key", Important: true, Help: "Index actually used."},
		{Name: "key_len", Help: "Length of the index prefix used."},
		{Name: "ref", Help: "Columns or constants compared against the index."},
		{Name: "rows", Important: true, Help: "Estimated rows to examine; smaller is better."},
		{Name: "filtered", Help: "Percentage of rows kept by the conditions; higher means more selective."},
		{Name: "Extra", Important: true, Help: "Using index (covering), Using where, Using temporary, Using filesort."},
	}
	types := []ExplainColumn{
		{Name: "system", Help: "The table has exactly one row."},
		{Name: "const", Help: "At most one matching row via a primary or unique key compared to a constant."},
		{Name: "eq_ref", Help: "One row read per row of the previous table, through a primary or unique key."},
		{Name: "ref", Help: "Non-unique index lookup."},
		{Name: "range", Help: "Index range scan (BETWEEN, >, <, >=, <=)."},
		{Name: "index", Help: "Full scan of the index instead of the table."},
		{Name: "ALL", Important: true, Help: "Full table scan; the slowest access type."},
	}
	return columns, types
}
