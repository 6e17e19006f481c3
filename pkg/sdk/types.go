package sdk

// Rule is one matched rule of an analysis report.
type Rule struct {
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
	Score      *int   `json:"score,omitempty"`
}

// Result is the structured form of an analysis report.
type Result struct {
	SQLID *string `json:"sqlId"`
	Score int     `json:"score"`
	Rules []Rule  `json:"rules"`
}

// ExplainRow is one row of the EXPLAIN plan returned by the backend.
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

// Outcome is what sqlscore_analyze and sqlscore_parse_report return.
// Result is nil when the report could not be structured; Raw always holds
// the report text.
type Outcome struct {
	SQL        string       `json:"sql,omitempty"`
	Parsed     bool         `json:"parsed"`
	Grade      string       `json:"grade,omitempty"`
	GradeLabel string       `json:"grade_label,omitempty"`
	Result     *Result      `json:"result,omitempty"`
	ParseError string       `json:"parse_error,omitempty"`
	Raw        string       `json:"raw"`
	Explain    []ExplainRow `json:"explain,omitempty"`
}

// DatabaseMeta describes the database behind a tested connection.
type DatabaseMeta struct {
	DatabaseProductName  string `json:"databaseProductName"`
	DatabaseVersion      string `json:"databaseVersion"`
	DriverName           string `json:"driverName"`
	DriverVersion        string `json:"driverVersion"`
	UserName             string `json:"userName"`
	ConnectionURL        string `json:"connectionUrl"`
	TransactionSupported bool   `json:"transactionSupported"`
}

// DataSource is a saved connection. Password is always masked.
type DataSource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Health reports the backend status code.
type Health struct {
	Status  int  `json:"status"`
	Healthy bool `json:"healthy"`
}

// ExplainGuide documents the EXPLAIN columns and access types.
type ExplainGuide struct {
	Columns     []ExplainEntry `json:"columns"`
	AccessTypes []ExplainEntry `json:"access_types"`
}

type ExplainEntry struct {
	Name      string `json:"name"`
	Important bool   `json:"important,omitempty"`
	Help      string `json:"help"`
}

// Connection selects what to run against: a saved source by ID or name,
// explicit credentials, or nothing for the last-used connection.
type Connection struct {
	Source   string
	URL      string
	Username string
	Password string
}

func (c Connection) args() map[string]any {
	args := map[string]any{}
	if c.Source != "" {
		args["source"] = c.Source
	}
	if c.URL != "" {
		args["url"] = c.URL
	}
	if c.Username != "" {
		args["username"] = c.Username
	}
	if c.Password != "" {
		args["password"] = c.Password
	}
	return args
}

// AnalyzeRequest provides typed parameters for Analyze.
type AnalyzeRequest struct {
	SQL string
	Connection
}
