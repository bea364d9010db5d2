package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrBadSeed = errors.New("bad catalog seed")

type Store interface {
	Ping(ctx context.Context) error
	ListSortedByID(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Categories(ctx context.Context) ([]Category, error)
}

//go:embed seed/products.yaml
var seedYAML []byte

type seedFile struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// LoadSeed parses the embedded mock catalog.
func LoadSeed() ([]Category, []Product, error) {
	return parseSeed(seedYAML)
}

func parseSeed(raw []byte) ([]Category, []Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}

	known := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		known[c.Slug] = struct{}{}
	}

	seen := make(map[string]struct{}, len(f.Products))
	for _, p := range f.Products {
		if p.ID == "" {
			return nil, nil, fmt.Errorf("%w: product without id", ErrBadSeed)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate product id %q", ErrBadSeed, p.ID)
		}
		seen[p.ID] = struct{}{}

		if _, ok := known[p.Category]; !ok {
			return nil, nil, fmt.Errorf("%w: product %q has unknown category %q", ErrBadSeed, p.ID, p.Category)
		}
	}

	// Get resolves ids and slugs in one namespace.
	slugs := make(map[string]string, len(f.Products))
	for _, p := range f.Products {
		if p.Slug == "" {
			continue
		}
		if owner, dup := slugs[p.Slug]; dup {
			return nil, nil, fmt.Errorf("%w: products %q and %q share slug %q", ErrBadSeed, owner, p.ID, p.Slug)
		}
		if _, clash := seen[p.Slug]; clash && p.Slug != p.ID {
			return nil, nil, fmt.Errorf("%w: slug %q of product %q is another product's id", ErrBadSeed, p.Slug, p.ID)
		}
		slugs[p.Slug] = p.ID
	}

	return f.Categories, f.Products, nil
}
