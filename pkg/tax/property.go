// Package tax implements the property tax and single tax calculators.
package tax

import (
	"fmt"
	"math"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/mathutil"
)

// PropertyType is the kind of residential property being taxed.
type PropertyType string

const (
	Apartment PropertyType = "apartment"
	House     PropertyType = "house"
)

// ParsePropertyType validates a property type name; empty selects an apartment.
func ParsePropertyType(name string) (PropertyType, error) {
	switch PropertyType(name) {
	case "":
		return Apartment, nil
	case Apartment, House:
		return PropertyType(name), nil
	}
	return "", fmt.Errorf("unknown property type %q", name)
}

// BenefitArea returns the tax-free area for the property type.
func (p PropertyType) BenefitArea() float64 {
	if p == House {
		return constants.HouseBenefitArea
	}
	return constants.ApartmentBenefitArea
}

// PropertyInput holds the property tax form values. RatePerSqm is the local
// rate in KGS per square meter.
type PropertyInput struct {
	TotalArea    float64      `json:"totalArea"`
	RatePerSqm   float64      `json:"ratePerSqm"`
	PropertyType PropertyType `json:"propertyType"`
	ApplyBenefit bool         `json:"applyBenefit"`
	City         string       `json:"city,omitempty"`
}

// PropertyResult holds the property tax breakdown.
type PropertyResult struct {
	TotalArea   float64 `json:"totalArea"`
	BenefitArea float64 `json:"benefitArea"`
	TaxableArea float64 `json:"taxableArea"`
	TaxRate     float64 `json:"taxRate"`
	TaxAmount   float64 `json:"taxAmount"`
}

// CalculateProperty computes the annual property tax. A negative area or rate,
// or a tax that overflows, yields a zero tax that still echoes both inputs.
func CalculateProperty(in PropertyInput) PropertyResult {
	if in.TotalArea < 0 || in.RatePerSqm < 0 {
		return PropertyResult{TotalArea: in.TotalArea, TaxRate: in.RatePerSqm}
	}

	var benefit float64
	if in.ApplyBenefit {
		benefit = in.PropertyType.BenefitArea()
	}
	taxable := math.Max(0, in.TotalArea-benefit)
	if !mathutil.IsFinite(taxable * in.RatePerSqm) {
		return PropertyResult{TotalArea: in.TotalArea, TaxRate: in.RatePerSqm}
	}

	return PropertyResult{
		TotalArea:   in.TotalArea,
		BenefitArea: benefit,
		TaxableArea: taxable,
		TaxRate:     in.RatePerSqm,
		TaxAmount:   taxable * in.RatePerSqm,
	}
}

// City is a locality offered on the property tax form.
type City struct {
	ID   string      `json:"id"`
	Name format.Text `json:"name"`
}

var cities = []City{
	{ID: "bishkek", Name: format.Text{Ru: "Бишкек", Ky: "Бишкек"}},
	{ID: "osh", Name: format.Text{Ru: "Ош", Ky: "Ош"}},
	{ID: "jalal-abad", Name: format.Text{Ru: "Джалал-Абад", Ky: "Жалал-Абад"}},
	{ID: "karakol", Name: format.Text{Ru: "Каракол", Ky: "Каракол"}},
	{ID: "tokmok", Name: format.Text{Ru: "Токмок", Ky: "Токмок"}},
	{ID: "naryn", Name: format.Text{Ru: "Нарын", Ky: "Нарын"}},
	{ID: "talas", Name: format.Text{Ru: "Талас", Ky: "Талас"}},
	{ID: "batken", Name: format.Text{Ru: "Баткен", Ky: "Баткен"}},
	{ID: "other", Name: format.Text{Ru: "Другой населённый пункт", Ky: "Башка калк конуш"}},
}

// Cities returns the localities offered on the form, Bishkek first.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// ValidateCity checks that id names a known city. An empty id is accepted.
func ValidateCity(id string) error {
	if id == "" {
		return nil
	}
	for _, c := range cities {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("unknown city %q", id)
}
