package repository

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileRepo reads the catalog from a YAML fixture, for local development
// without a spreadsheet:
//
//	products:
//	  - tenant: Warung A
//	    name: Nasi Goreng
//	    price: 15000
type FileRepo struct {
	path string
}

type catalogFile struct {
	Products []struct {
		Tenant interface{} `yaml:"tenant"`
		Name   interface{} `yaml:"name"`
		Price  interface{} `yaml:"price"`
	} `yaml:"products"`
}

// NewFileRepo creates a catalog repository over the YAML file at path.
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

// Compile-time check that FileRepo implements Repository.
var _ Repository = (*FileRepo)(nil)

// FetchCatalog re-reads the file on every call; caching is the service's job.
func (r *FileRepo) FetchCatalog(_ context.Context) (Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseYAML(data)
}

// Source names the upstream for logging.
func (r *FileRepo) Source() string {
	return "file:" + r.path
}

// ParseYAML parses a catalog fixture with the same row rules as ParseTable.
func ParseYAML(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}

	catalog := Catalog{Products: make([]Product, 0, len(file.Products))}
	for _, row := range file.Products {
		tenant := CellString(row.Tenant)
		name := CellString(row.Name)
		if tenant == "" || name == "" {
			catalog.SkippedRows++
			continue
		}
		catalog.Products = append(catalog.Products, Product{
			Tenant:           tenant,
			Name:             name,
			DefaultUnitPrice: ParsePrice(row.Price),
		})
	}
	return catalog, nil
}
