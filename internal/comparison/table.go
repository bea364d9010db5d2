package comparison

import (
	"sort"
	"strconv"
	"strings"
)

const (
	missingValue = "-"
	specSuffix   = " (spec)"
)

// fixedRows are labels of rows built from product fields rather than specs.
var fixedRows = []string{"Price", "Rating", "Brand", "Category", "Features"}

type Column struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Brand  string  `json:"brand"`
	Image  string  `json:"image"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

type Row struct {
	Attribute string   `json:"attribute"`
	Values    []string `json:"values"`
	Differs   bool     `json:"differs"`
}

// Table is the side-by-side view: one column per product, one row per
// attribute. Values[i] belongs to Products[i].
type Table struct {
	Products []Column `json:"products"`
	Rows     []Row    `json:"rows"`
}

func BuildTable(items []Product) Table {
	t := Table{
		Products: make([]Column, 0, len(items)),
		Rows:     []Row{},
	}
	if len(items) == 0 {
		return t
	}

	for _, p := range items {
		t.Products = append(t.Products, Column{
			ID:     p.ID,
			Name:   p.Name,
			Brand:  p.Brand,
			Image:  p.Image,
			Price:  p.Price,
			Rating: p.Rating,
		})
	}

	t.Rows = append(t.Rows,
		row("Price", items, func(p Product) string { return formatNumber(p.Price) }),
		row("Rating", items, func(p Product) string { return formatNumber(p.Rating) }),
		row("Brand", items, func(p Product) string { return p.Brand }),
		row("Category", items, func(p Product) string { return p.Category }),
	)

	for _, attr := range attributes(items) {
		t.Rows = append(t.Rows, row(specLabel(attr), items, func(p Product) string {
			if v, ok := p.Specifications[attr]; ok {
				return v
			}
			return missingValue
		}))
	}

	t.Rows = append(t.Rows, row("Features", items, func(p Product) string {
		if len(p.Features) == 0 {
			return missingValue
		}
		return strings.Join(p.Features, ", ")
	}))

	return t
}

func row(attr string, items []Product, value func(Product) string) Row {
	r := Row{Attribute: attr, Values: make([]string, 0, len(items))}
	for _, p := range items {
		v := value(p)
		if v == "" {
			v = missingValue
		}
		r.Values = append(r.Values, v)
	}
	for _, v := range r.Values[1:] {
		if v != r.Values[0] {
			r.Differs = true
			break
		}
	}
	return r
}

func attributes(items []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range items {
		for k := range p.Specifications {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// specLabel keeps spec rows distinguishable from the fixed rows.
func specLabel(attr string) string {
	for _, f := range fixedRows {
		if strings.EqualFold(strings.TrimSpace(attr), f) {
			return attr + specSuffix
		}
	}
	return attr
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
