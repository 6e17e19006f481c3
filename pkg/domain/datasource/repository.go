package datasource

// Repository loads and saves the catalog. Implementations own the storage
// location; callers never reach for it directly.
type Repository interface {
	LoadCatalog() (*Catalog, error)
	SaveCatalog(c *Catalog) error
}
