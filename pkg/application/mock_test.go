package application_test

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

type MockRepo struct {
	Catalog   *datasource.Catalog
	Saves     int
	LoadError error
	SaveError error
}

func (m *MockRepo) LoadCatalog() (*datasource.Catalog, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Catalog == nil {
		return &datasource.Catalog{}, nil
	}
	// Hand out a copy so unsaved mutations never leak.
	cp := *m.Catalog
	cp.Sources = append([]datasource.DataSource(nil), m.Catalog.Sources...)
	if m.Catalog.Last != nil {
		last := *m.Catalog.Last
		cp.Last = &last
	}
	return &cp, nil
}

func (m *MockRepo) SaveCatalog(c *datasource.Catalog) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	m.Catalog = c
	return nil
}

type MockGateway struct {
	Meta      *analysis.DatabaseMeta
	Response  *analysis.AnalyzeResponse
	Status    int
	Err       error
	Requests  []analysis.AnalyzeRequest
	Connected []datasource.Connection
}

func (g *MockGateway) TestConnection(_ context.Context, conn datasource.Connection) (*analysis.DatabaseMeta, error) {
	g.Connected = append(g.Connected, conn)
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Meta, nil
}

func (g *MockGateway) Analyze(_ context.Context, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	g.Requests = append(g.Requests, req)
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Response, nil
}

func (g *MockGateway) Health(context.Context) (int, error) {
	return g.Status, g.Err
}

var errBackendDown = errors.New("backend down")

var validConn = datasource.Connection{
	URL:      "jdbc:mysql://db.local:3306/shop",
	Username: "app",
	Password: "s3cret",
}
