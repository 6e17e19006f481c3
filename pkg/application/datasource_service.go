package application

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

// DataSourceService manages the saved data-source catalog.
type DataSourceService struct {
	repo  datasource.Repository
	mu    sync.Mutex
	newID func() string
}

func NewDataSourceService(repo datasource.Repository) *DataSourceService {
	return &DataSourceService{
		repo:  repo,
		newID: func() string { return uuid.New().String() },
	}
}

// DataSourcePatch carries the fields to change on Update. Nil fields are kept.
type DataSourcePatch struct {
	Name     *string
	URL      *string
	Username *string
	Password *string
}

// List returns the saved data sources in insertion order.
func (s *DataSourceService) List() ([]datasource.DataSource, error) {
	cat, err := s.repo.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load data sources: %w", err)
	}
	out := make([]datasource.DataSource, len(cat.Sources))
	copy(out, cat.Sources)
	return out, nil
}

// Resolve finds a data source by ID or name.
func (s *DataSourceService) Resolve(key string) (datasource.DataSource, error) {
	cat, err := s.repo.LoadCatalog()
	if err != nil {
		return datasource.DataSource{}, fmt.Errorf("load data sources: %w", err)
	}
	return find(cat, key)
}

// Add saves a new data source under a fresh ID.
func (s *DataSourceService) Add(name string, conn datasource.Connection) (datasource.DataSource, error) {
	ds := datasource.DataSource{
		ID:       s.newID(),
		Name:     strings.TrimSpace(name),
		URL:      strings.TrimSpace(conn.URL),
		Username: strings.TrimSpace(conn.Username),
		Password: conn.Password,
	}
	err := s.mutate(func(cat *datasource.Catalog) error {
		return cat.Add(ds)
	})
	if err != nil {
		return datasource.DataSource{}, err
	}
	return ds, nil
}

// Update applies patch to the data source identified by key.
func (s *DataSourceService) Update(key string, patch DataSourcePatch) (datasource.DataSource, error) {
	var updated datasource.DataSource
	err := s.mutate(func(cat *datasource.Catalog) error {
		ds, err := find(cat, key)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			ds.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.URL != nil {
			ds.URL = strings.TrimSpace(*patch.URL)
		}
		if patch.Username != nil {
			ds.Username = strings.TrimSpace(*patch.Username)
		}
		if patch.Password != nil {
			ds.Password = *patch.Password
		}
		if err := cat.Replace(ds); err != nil {
			return err
		}
		updated = ds
		return nil
	})
	return updated, err
}

// Remove deletes the data source identified by key.
func (s *DataSourceService) Remove(key string) (datasource.DataSource, error) {
	var removed datasource.DataSource
	err := s.mutate(func(cat *datasource.Catalog) error {
		ds, err := find(cat, key)
		if err != nil {
			return err
		}
		removed = ds
		return cat.Remove(ds.ID)
	})
	return removed, err
}

// Select makes the data source identified by key the last-used connection.
func (s *DataSourceService) Select(key string) (datasource.DataSource, error) {
	var selected datasource.DataSource
	err := s.mutate(func(cat *datasource.Catalog) error {
		ds, err := find(cat, key)
		if err != nil {
			return err
		}
		conn := ds.Connection()
		cat.Last = &conn
		selected = ds
		return nil
	})
	return selected, err
}

// Last returns the last-used connection, or ErrNoConnection if there is none.
func (s *DataSourceService) Last() (datasource.Connection, error) {
	cat, err := s.repo.LoadCatalog()
	if err != nil {
		return datasource.Connection{}, fmt.Errorf("load data sources: %w", err)
	}
	if cat.Last == nil || cat.Last.IsZero() {
		return datasource.Connection{}, datasource.ErrNoConnection
	}
	return *cat.Last, nil
}

// Remember stores conn as the last-used connection.
func (s *DataSourceService) Remember(conn datasource.Connection) error {
	return s.mutate(func(cat *datasource.Catalog) error {
		if cat.Last != nil && *cat.Last == conn {
			return errUnchanged
		}
		cat.Last = &conn
		return nil
	})
}

// errUnchanged lets a mutation skip the write.
var errUnchanged = errors.New("unchanged")

func (s *DataSourceService) mutate(fn func(*datasource.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.repo.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load data sources: %w", err)
	}
	if err := fn(cat); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	if err := s.repo.SaveCatalog(cat); err != nil {
		return fmt.Errorf("save data sources: %w", err)
	}
	return nil
}

func find(cat *datasource.Catalog, key string) (datasource.DataSource, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return datasource.DataSource{}, fmt.Errorf("%w: empty name", datasource.ErrNotFound)
	}
	ds, ok := cat.Find(key)
	if !ok {
		return datasource.DataSource{}, fmt.Errorf("%w: %s", datasource.ErrNotFound, key)
	}
	return ds, nil
}
