package tax

import (
	"fmt"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/mathutil"
)

// Activity is a business activity eligible for the single tax regime.
type Activity struct {
	ID          string      `json:"id"`
	RatePercent float64     `json:"ratePercent"`
	Name        format.Text `json:"name"`
}

var activities = []Activity{
	{ID: "trade", RatePercent: 4, Name: format.Text{Ru: "Торговля товарами", Ky: "Товар соодасы"}},
	{ID: "production", RatePercent: 4, Name: format.Text{Ru: "Производство", Ky: "Өндүрүш"}},
	{ID: "services", RatePercent: 6, Name: format.Text{Ru: "Услуги", Ky: "Кызмат көрсөтүү"}},
	{ID: "catering", RatePercent: 6, Name: format.Text{Ru: "Общественное питание", Ky: "Коомдук тамактануу"}},
}

// LookupActivity returns the activity with the given id.
func LookupActivity(id string) (Activity, error) {
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, fmt.Errorf("unknown activity %q", id)
}

// SingleResult holds the single tax breakdown.
type SingleResult struct {
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
	AnnualRevenue   float64 `json:"annualRevenue"`
	TaxRate         float64 `json:"taxRate"`
	MonthlyTax      float64 `json:"monthlyTax"`
	AnnualTax       float64 `json:"annualTax"`
	CanUseSingleTax bool    `json:"canUseSingleTax"`
	NetIncome       float64 `json:"netIncome"`
}

// CalculateSingle computes the single tax for an activity. A revenue that is
// not positive gives an all-zero result that remains eligible for the regime.
// An annual revenue above the turnover limit is flagged through
// CanUseSingleTax but still calculated; one that overflows is not eligible
// and gives an otherwise zero result.
func CalculateSingle(revenue float64, activity Activity) SingleResult {
	if revenue <= 0 {
		return SingleResult{CanUseSingleTax: true}
	}

	annualRevenue := revenue * constants.MonthsPerYear
	monthlyTax := mathutil.ApplyPercentage(revenue, activity.RatePercent)
	if !mathutil.IsFinite(annualRevenue, monthlyTax*constants.MonthsPerYear) {
		return SingleResult{}
	}

	return SingleResult{
		MonthlyRevenue:  revenue,
		AnnualRevenue:   annualRevenue,
		TaxRate:         activity.RatePercent,
		MonthlyTax:      monthlyTax,
		AnnualTax:       monthlyTax * constants.MonthsPerYear,
		CanUseSingleTax: annualRevenue <= constants.SingleTaxTurnoverLimit,
		NetIncome:       revenue - monthlyTax,
	}
}

// RateRow is one line of the published rate table.
type RateRow struct {
	Activity  Activity `json:"activity"`
	TaxOn100K float64  `json:"taxOn100k"`
	TaxOn500K float64  `json:"taxOn500k"`
}

// RateTable returns the monthly tax on 100 000 and 500 000 KGS of revenue for
// every activity.
func RateTable() []RateRow {
	rows := make([]RateRow, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, RateRow{
			Activity:  a,
			TaxOn100K: mathutil.ApplyPercentage(100000, a.RatePercent),
			TaxOn500K: mathutil.ApplyPercentage(500000, a.RatePercent),
		})
	}
	return rows
}
