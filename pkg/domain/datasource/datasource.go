// Package datasource models saved database connection profiles.
package datasource

import (
	"regexp"
	"strings"
)

// urlPattern accepts MySQL JDBC URLs of the form jdbc:mysql://host[:port]/db[?params].
var urlPattern = regexp.MustCompile(`^jdbc:mysql://([\w.-]+)(:\d+)?/[\w-]+(\?.*)?$`)

// Connection is the credential triple sent to the analysis backend.
type Connection struct {
	URL      string `json:"url" yaml:"url"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Validate checks that every field is present and the URL is a MySQL JDBC URL.
func (c Connection) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if !urlPattern.MatchString(c.URL) {
		return &ValidationError{Field: "url", Message: "URL must look like jdbc:mysql://host:port/dbname"}
	}
	if strings.TrimSpace(c.Username) == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if strings.TrimSpace(c.Password) == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

// IsZero reports whether no field is set.
func (c Connection) IsZero() bool {
	return c.URL == "" && c.Username == "" && c.Password == ""
}

// DataSource is a named, saved connection.
type DataSource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Connection returns the credential triple of the data source.
func (d DataSource) Connection() Connection {
	return Connection{URL: d.URL, Username: d.Username, Password: d.Password}
}

// Validate checks the name and the connection fields.
func (d DataSource) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return d.Connection().Validate()
}

// Masked returns a copy with the password hidden, for listings.
func (d DataSource) Masked() DataSource {
	d.Password = MaskPassword(d.Password)
	return d
}

// MaskPassword replaces every character of a password with '*'.
func MaskPassword(p string) string {
	if p == "" {
		return ""
	}
	return strings.Repeat("*", len([]rune(p)))
}

// Catalog is the persisted list of data sources plus the last-used connection.
type Catalog struct {
	Sources []DataSource `json:"data_sources"`
	Last    *Connection  `json:"last,omitempty"`
}

// Find returns the data source whose ID or name equals key.
// IDs are matched before names.
func (c *Catalog) Find(key string) (DataSource, bool) {
	for _, s := range c.Sources {
		if s.ID == key {
			return s, true
		}
	}
	for _, s := range c.Sources {
		if strings.EqualFold(s.Name, key) {
			return s, true
		}
	}
	return DataSource{}, false
}

// indexOf returns the position of the data source with the given ID, or -1.
func (c *Catalog) indexOf(id string) int {
	for i, s := range c.Sources {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether another data source (not exceptID) uses name.
func (c *Catalog) nameTaken(name, exceptID string) bool {
	for _, s := range c.Sources {
		if s.ID != exceptID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// Add appends a validated data source with a unique name.
func (c *Catalog) Add(ds DataSource) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if ds.ID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if c.indexOf(ds.ID) >= 0 || c.nameTaken(ds.Name, "") {
		return ErrDuplicateName
	}
	c.Sources = append(c.Sources, ds)
	return nil
}

// Replace overwrites the data source with the same ID, keeping its position.
func (c *Catalog) Replace(ds DataSource) error {
	i := c.indexOf(ds.ID)
	if i < 0 {
		return ErrNotFound
	}
	if err := ds.Validate(); err != nil {
		return err
	}
	if c.nameTaken(ds.Name, ds.ID) {
		return ErrDuplicateName
	}
	c.Sources[i] = ds
	return nil
}

// Remove deletes the data source with the given ID.
func (c *Catalog) Remove(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	c.Sources = append(c.Sources[:i], c.Sources[i+1:]...)
	return nil
}
