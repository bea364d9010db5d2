package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	siteName          = "ClimaStore"
	maxMetaDescRunes  = 160
	metaEllipsis      = "…"
	canonicalProducts = "/products/"
)

type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Canonical   string `json:"canonical"`
	Image       string `json:"image,omitempty"`
}

func BuildMeta(p Product) Meta {
	slug := p.Slug
	if slug == "" {
		slug = p.ID
	}
	return Meta{
		Title:       fmt.Sprintf("%s | %s", p.Name, siteName),
		Description: truncateRunes(strings.TrimSpace(p.Description), maxMetaDescRunes),
		Canonical:   canonicalProducts + slug,
		Image:       p.Image,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + metaEllipsis
}
