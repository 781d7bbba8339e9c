package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

var (
	// ErrNotFound is returned when a product id is absent from the catalog.
	ErrNotFound = errors.New("product not in catalog")
	// ErrImportFormat indicates persisted catalog data could not be read or parsed.
	ErrImportFormat = errors.New("catalog import format error")
	// ErrAccessDenied is returned for any attempt to mutate the catalog outside Load.
	ErrAccessDenied = errors.New("catalog is read-only")
)

// Catalog holds products indexed by id. It can be loaded from and saved to a JSON array.
type Catalog struct {
	products map[string]*Product
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{products: make(map[string]*Product)}
}

// ProductByID returns the product stored under id.
func (c *Catalog) ProductByID(id string) (*Product, error) {
	if c != nil {
		if p, ok := c.products[id]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.products[id]
	return ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Products lists every product ordered by id.
func (c *Catalog) Products() []*Product {
	if c == nil {
		return nil
	}
	out := make([]*Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Put always fails: products only enter the catalog through Load.
func (c *Catalog) Put(id string, _ *Product) error {
	return fmt.Errorf("set product %s: %w", id, ErrAccessDenied)
}

// Remove always fails: products are never unset once loaded.
func (c *Catalog) Remove(id string) error {
	return fmt.Errorf("unset product %s: %w", id, ErrAccessDenied)
}

// LoadFile reads products from path. See Load.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: could not open %s: %v", ErrImportFormat, path, err)
	}
	defer f.Close()
	return c.load(f, path)
}

// Load reads a JSON array of product records. Previously loaded products are kept,
// but a record with a conflicting id replaces the existing product.
// Nothing is imported when any record is invalid.
func (c *Catalog) Load(r io.Reader) error {
	return c.load(r, "input")
}

func (c *Catalog) load(r io.Reader, source string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrImportFormat, source, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return fmt.Errorf("%w: %s does not contain valid JSON array", ErrImportFormat, source)
	}

	imported := make([]*Product, 0, len(raw))
	for i, entry := range raw {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("%w: object expected at position #%d in %s", ErrImportFormat, i, source)
		}
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return fmt.Errorf("%w: position #%d in %s: %v", ErrImportFormat, i, source, err)
		}
		p, err := NewProduct(rec)
		if err != nil {
			return fmt.Errorf("position #%d in %s: %w", i, source, err)
		}
		imported = append(imported, p)
	}

	if c.products == nil {
		c.products = make(map[string]*Product, len(imported))
	}
	for _, p := range imported {
		c.products[p.ID()] = p
	}
	return nil
}

// Save writes every product as a pretty-printed JSON array ordered by id.
func (c *Catalog) Save(w io.Writer) error {
	products := c.Products()
	records := make([]Record, 0, len(products))
	for _, p := range products {
		records = append(records, p.Record())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// SaveFile writes the catalog to path, replacing any existing file.
func (c *Catalog) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
