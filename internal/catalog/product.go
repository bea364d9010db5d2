package catalog

type Spec struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type SpecGroup struct {
	Title string `json:"title" yaml:"title"`
	Specs []Spec `json:"specs" yaml:"specs"`
}

type Feature struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
}

type Product struct {
	ID          string      `json:"id" yaml:"id"`
	Slug        string      `json:"slug" yaml:"slug"`
	Name        string      `json:"name" yaml:"name"`
	Brand       string      `json:"brand" yaml:"brand"`
	Category    string      `json:"category" yaml:"category"`
	Price       float64     `json:"price" yaml:"price"`
	OldPrice    float64     `json:"old_price,omitempty" yaml:"old_price"`
	Image       string      `json:"image" yaml:"image"`
	Images      []string    `json:"images,omitempty" yaml:"images"`
	Rating      float64     `json:"rating" yaml:"rating"`
	Reviews     int         `json:"reviews" yaml:"reviews"`
	InStock     bool        `json:"in_stock" yaml:"in_stock"`
	CapacityKW  float64     `json:"capacity_kw,omitempty" yaml:"capacity_kw"`
	AreaM2      int         `json:"area_m2,omitempty" yaml:"area_m2"`
	Inverter    bool        `json:"inverter" yaml:"inverter"`
	Description string      `json:"description" yaml:"description"`
	SpecGroups  []SpecGroup `json:"spec_groups" yaml:"spec_groups"`
	Features    []Feature   `json:"features" yaml:"features"`
}

type Category struct {
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`
}

// Summary is the card-sized view used by listings and search suggestions.
type Summary struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	OldPrice float64 `json:"old_price,omitempty"`
	Image    string  `json:"image"`
	Rating   float64 `json:"rating"`
	InStock  bool    `json:"in_stock"`
}

func (p Product) Summary() Summary {
	return Summary{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price,
		OldPrice: p.OldPrice,
		Image:    p.Image,
		Rating:   p.Rating,
		InStock:  p.InStock,
	}
}
