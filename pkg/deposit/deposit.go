// Package deposit projects the growth of a bank deposit under simple or
// monthly compounded interest.
package deposit

import (
	"fmt"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/mathutil"
)

// InterestType selects how interest is accrued.
type InterestType string

const (
	// Simple interest is paid once at the end of the term.
	Simple InterestType = "simple"
	// Compound interest is capitalised every month.
	Compound InterestType = "compound"
)

// ParseInterestType validates an interest type name. An empty name selects
// compound interest, the form's default.
func ParseInterestType(name string) (InterestType, error) {
	switch InterestType(name) {
	case "":
		return Compound, nil
	case Simple, Compound:
		return InterestType(name), nil
	}
	return "", fmt.Errorf("unknown interest type %q", name)
}

// Input holds the deposit form values.
type Input struct {
	Principal         float64      `json:"principal" yaml:"principal"`
	AnnualRatePercent float64      `json:"annualRatePercent" yaml:"annualRatePercent"`
	TermMonths        int          `json:"termMonths" yaml:"termMonths"`
	InterestType      InterestType `json:"interestType" yaml:"interestType"`
	Currency          string       `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Growth is one month of the balance trace.
type Growth struct {
	Month         int     `json:"month" yaml:"month"`
	Balance       float64 `json:"balance" yaml:"balance"`
	InterestAdded float64 `json:"interestAdded" yaml:"interestAdded"`
}

// Result holds the deposit projection.
type Result struct {
	Principal      float64  `json:"principal" yaml:"principal"`
	InterestEarned float64  `json:"interestEarned" yaml:"interestEarned"`
	FinalAmount    float64  `json:"finalAmount" yaml:"finalAmount"`
	MonthlyGrowth  []Growth `json:"monthlyGrowth" yaml:"monthlyGrowth"`
	Currency       string   `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Calculate projects the deposit. When the principal, rate or term is not
// positive, the term is above constants.MaxTermMonths or the balance
// overflows, the result earns nothing, echoes the principal and has an empty
// trace.
func Calculate(in Input) Result {
	if in.Principal <= 0 || in.AnnualRatePercent <= 0 || in.TermMonths <= 0 || in.TermMonths > constants.MaxTermMonths {
		return unearned(in)
	}

	var result Result
	if in.InterestType == Simple {
		result = simple(in)
	} else {
		result = compound(in)
	}
	if !mathutil.IsFinite(result.InterestEarned, result.FinalAmount) {
		return unearned(in)
	}
	return result
}

func unearned(in Input) Result {
	return Result{
		Principal:     in.Principal,
		FinalAmount:   in.Principal,
		MonthlyGrowth: []Growth{},
		Currency:      in.Currency,
	}
}

// simple accrues the whole interest at term end. The trace keeps the balance at
// the principal until the last month.
func simple(in Input) Result {
	interest := mathutil.ApplyPercentage(in.Principal, in.AnnualRatePercent) * float64(in.TermMonths) / 12

	growth := make([]Growth, 0, in.TermMonths)
	for month := 1; month < in.TermMonths; month++ {
		growth = append(growth, Growth{Month: month, Balance: in.Principal})
	}
	growth = append(growth, Growth{Month: in.TermMonths, Balance: in.Principal + interest, InterestAdded: interest})

	return Result{
		Principal:      in.Principal,
		InterestEarned: interest,
		FinalAmount:    in.Principal + interest,
		MonthlyGrowth:  growth,
		Currency:       in.Currency,
	}
}

func compound(in Input) Result {
	rate := mathutil.MonthlyRate(in.AnnualRatePercent)
	balance := in.Principal
	var earned float64

	growth := make([]Growth, 0, in.TermMonths)
	for month := 1; month <= in.TermMonths; month++ {
		interest := balance * rate
		balance += interest
		earned += interest
		growth = append(growth, Growth{Month: month, Balance: balance, InterestAdded: interest})
	}

	return Result{
		Principal:      in.Principal,
		InterestEarned: earned,
		FinalAmount:    balance,
		MonthlyGrowth:  growth,
		Currency:       in.Currency,
	}
}

// Comparison shows the same deposit under both interest types.
type Comparison struct {
	Simple     Result  `json:"simple"`
	Compound   Result  `json:"compound"`
	Difference float64 `json:"difference"`
}

// Compare projects the deposit with simple and with compound interest.
// Difference is the extra interest earned by capitalisation.
func Compare(in Input) Comparison {
	in.InterestType = Simple
	s := Calculate(in)
	in.InterestType = Compound
	c := Calculate(in)
	return Comparison{Simple: s, Compound: c, Difference: c.InterestEarned - s.InterestEarned}
}
