package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

// ProductFile stores the catalog as a JSON array in a single file. Every
// mutation is a read-modify-write of the whole file under one lock.
type ProductFile struct {
	mu   sync.Mutex
	path string
}

func NewProductFile(path string) *ProductFile {
	return &ProductFile{path: path}
}

func (f *ProductFile) List(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *ProductFile) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	products, err := f.read()
	if err != nil {
		return domain.Product{}, err
	}
	var maxID int64
	for _, existing := range products {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	products = append(products, p)
	if err := f.write(products); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (f *ProductFile) Update(_ context.Context, id int64, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	products, err := f.read()
	if err != nil {
		return domain.Product{}, err
	}
	for i := range products {
		if products[i].ID == id {
			p.ID = id
			products[i] = p
			if err := f.write(products); err != nil {
				return domain.Product{}, err
			}
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *ProductFile) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	products, err := f.read()
	if err != nil {
		return err
	}
	next := products[:0]
	for _, p := range products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(products) {
		return domain.ErrProductNotFound
	}
	return f.write(next)
}

// read treats a missing file as an empty catalog.
func (f *ProductFile) read() ([]domain.Product, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("products file is not a JSON array: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (f *ProductFile) write(products []domain.Product) error {
	raw, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create products dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write products file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
