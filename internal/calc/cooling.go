// Package calc holds the site calculators. Formulas are fixed rules of thumb
// used by the vendor's sales team, not an engineering load calculation.
package calc

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"ClimaStore/internal/catalog"
)

const (
	ExposureLow    = "low"
	ExposureMedium = "medium"
	ExposureHigh   = "high"

	defaultCeilingM  = 2.7
	defaultOccupants = 1
	kWPerOccupant    = 0.1
	btuPerKW         = 3412.14

	maxSuggestions  = 3
	suggestionRange = 2.0
)

var ErrBadInput = errors.New("bad calculator input")

// watts of heat gain per cubic metre
var exposureFactor = map[string]float64{
	ExposureLow:    30,
	ExposureMedium: 35,
	ExposureHigh:   40,
}

var standardSizesKW = []float64{2.0, 2.5, 3.5, 5.0, 7.0, 10.0}

type CoolingInput struct {
	AreaM2         float64 `json:"area_m2"`
	CeilingHeightM float64 `json:"ceiling_height_m"`
	Occupants      *int    `json:"occupants"`
	SunExposure    string  `json:"sun_exposure"`
	EquipmentKW    float64 `json:"equipment_kw"`
}

type CoolingResult struct {
	RequiredKW    float64           `json:"required_kw"`
	BTUPerHour    float64           `json:"btu_per_hour"`
	RecommendedKW float64           `json:"recommended_kw"`
	Suggestions   []catalog.Summary `json:"suggestions"`
}

func (in CoolingInput) normalized() (CoolingInput, error) {
	if in.CeilingHeightM == 0 {
		in.CeilingHeightM = defaultCeilingM
	}
	if in.SunExposure == "" {
		in.SunExposure = ExposureMedium
	}
	if in.Occupants == nil {
		n := defaultOccupants
		in.Occupants = &n
	}

	switch {
	case in.AreaM2 < 1 || in.AreaM2 > 500:
		return in, fmt.Errorf("%w: area_m2 must be between 1 and 500", ErrBadInput)
	case in.CeilingHeightM < 2 || in.CeilingHeightM > 6:
		return in, fmt.Errorf("%w: ceiling_height_m must be between 2 and 6", ErrBadInput)
	case *in.Occupants < 0 || *in.Occupants > 50:
		return in, fmt.Errorf("%w: occupants must be between 0 and 50", ErrBadInput)
	case in.EquipmentKW < 0 || in.EquipmentKW > 20:
		return in, fmt.Errorf("%w: equipment_kw must be between 0 and 20", ErrBadInput)
	}
	if _, ok := exposureFactor[in.SunExposure]; !ok {
		return in, fmt.Errorf("%w: sun_exposure must be low, medium or high", ErrBadInput)
	}
	return in, nil
}

// Cooling sizes an air conditioner for a room.
func Cooling(in CoolingInput) (CoolingResult, error) {
	in, err := in.normalized()
	if err != nil {
		return CoolingResult{}, err
	}

	kw := in.AreaM2*in.CeilingHeightM*exposureFactor[in.SunExposure]/1000 +
		float64(*in.Occupants)*kWPerOccupant +
		in.EquipmentKW
	kw = round(kw, 2)

	return CoolingResult{
		RequiredKW:    kw,
		BTUPerHour:    math.Round(kw * btuPerKW),
		RecommendedKW: RecommendedSize(kw),
		Suggestions:   []catalog.Summary{},
	}, nil
}

// RecommendedSize rounds up to the next standard unit size.
func RecommendedSize(kw float64) float64 {
	for _, s := range standardSizesKW {
		if kw <= s {
			return s
		}
	}
	return math.Ceil(kw)
}

// SuggestUnits picks in-stock products rated for at least recommendedKW but
// not oversized, cheapest first.
func SuggestUnits(products []catalog.Product, recommendedKW float64) []catalog.Summary {
	fit := make([]catalog.Product, 0)
	for _, p := range products {
		if !p.InStock || p.CapacityKW <= 0 {
			continue
		}
		if p.CapacityKW >= recommendedKW && p.CapacityKW < recommendedKW+suggestionRange {
			fit = append(fit, p)
		}
	}
	sort.SliceStable(fit, func(i, j int) bool { return fit[i].Price < fit[j].Price })

	out := make([]catalog.Summary, 0, maxSuggestions)
	for _, p := range fit {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, p.Summary())
	}
	return out
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
