package comparison

import "ClimaStore/internal/catalog"

// MaxItems is the capacity of a comparison set.
const MaxItems = 4

// Product is a snapshot of a catalog product taken when it was added to the
// comparison set. Later catalog edits do not change it.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Image          string            `json:"image"`
	Specifications map[string]string `json:"specifications"`
	Rating         float64           `json:"rating"`
	Features       []string          `json:"features"`
}

// Snapshot flattens every spec group into one attribute map; a later group
// overrides an attribute of the same name in an earlier one.
func Snapshot(p catalog.Product) Product {
	specs := make(map[string]string)
	for _, g := range p.SpecGroups {
		for _, s := range g.Specs {
			specs[s.Name] = s.Value
		}
	}

	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, f.Title)
	}

	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Category:       p.Category,
		Price:          p.Price,
		Image:          p.Image,
		Specifications: specs,
		Rating:         p.Rating,
		Features:       features,
	}
}

func (p Product) clone() Product {
	out := p
	if p.Specifications != nil {
		out.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			out.Specifications[k] = v
		}
	}
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	return out
}
