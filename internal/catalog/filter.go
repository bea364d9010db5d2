package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 48

	SortDefault   = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
)

var ErrBadFilter = errors.New("bad filter")

type Filter struct {
	Category    string
	Brands      []string
	MinPrice    float64
	MaxPrice    float64
	MinCapacity float64
	MaxCapacity float64
	Inverter    *bool
	InStock     bool
	Query       string
	Sort        string
	Page        int
	PerPage     int
}

type Page struct {
	Items   []Summary `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// ParseFilter maps listing query parameters onto a Filter.
// brand may repeat or be comma separated.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Query:    strings.TrimSpace(q.Get("q")),
		Sort:     q.Get("sort"),
		Page:     1,
		PerPage:  DefaultPerPage,
	}

	for _, raw := range q["brand"] {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				f.Brands = append(f.Brands, b)
			}
		}
	}

	var err error
	if f.MinPrice, err = parseFloat(q, "min_price"); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parseFloat(q, "max_price"); err != nil {
		return Filter{}, err
	}
	if f.MinCapacity, err = parseFloat(q, "min_capacity"); err != nil {
		return Filter{}, err
	}
	if f.MaxCapacity, err = parseFloat(q, "max_capacity"); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return Filter{}, fmt.Errorf("%w: min_price > max_price", ErrBadFilter)
	}
	if f.MaxCapacity > 0 && f.MinCapacity > f.MaxCapacity {
		return Filter{}, fmt.Errorf("%w: min_capacity > max_capacity", ErrBadFilter)
	}

	if v := q.Get("inverter"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: inverter", ErrBadFilter)
		}
		f.Inverter = &b
	}
	if v := q.Get("in_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: in_stock", ErrBadFilter)
		}
		f.InStock = b
	}

	switch f.Sort {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRating, SortName:
	default:
		return Filter{}, fmt.Errorf("%w: sort %q", ErrBadFilter, f.Sort)
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Filter{}, fmt.Errorf("%w: page", ErrBadFilter)
		}
		f.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Filter{}, fmt.Errorf("%w: per_page", ErrBadFilter)
		}
		f.PerPage = min(n, MaxPerPage)
	}

	return f, nil
}

func parseFloat(q url.Values, key string) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s", ErrBadFilter, key)
	}
	return n, nil
}

// Apply filters, sorts and paginates products. Input order is taken as the
// default order.
func Apply(products []Product, f Filter) Page {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, f.Sort)

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := max(f.Page, 1)

	start := min((page-1)*perPage, len(matched))
	end := min(start+perPage, len(matched))

	items := make([]Summary, 0, end-start)
	for _, p := range matched[start:end] {
		items = append(items, p.Summary())
	}

	return Page{Items: items, Total: len(matched), Page: page, PerPage: perPage}
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.Brands) > 0 && !containsFold(f.Brands, p.Brand) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinCapacity > 0 && p.CapacityKW < f.MinCapacity {
		return false
	}
	if f.MaxCapacity > 0 && p.CapacityKW > f.MaxCapacity {
		return false
	}
	if f.Inverter != nil && p.Inverter != *f.Inverter {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	if f.Query != "" && !matchesTerms(p, terms(f.Query)) {
		return false
	}
	return true
}

func sortProducts(ps []Product, mode string) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	case SortName:
		sort.SliceStable(ps, func(i, j int) bool {
			return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name)
		})
	}
}

// Brands lists distinct brand names in alphabetical order.
func Brands(products []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Brand]; ok || p.Brand == "" {
			continue
		}
		seen[p.Brand] = struct{}{}
		out = append(out, p.Brand)
	}
	sort.Strings(out)
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func terms(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

func matchesTerms(p Product, ts []string) bool {
	hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category)
	for _, t := range ts {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}
