// Package loans provides annuity loan calculations for the auto loan, loan and
// mortgage calculators.
package loans

import (
	"math"
	"time"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/datetime"
	"github.com/calk-kg/calk/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanInput holds the auto loan form values. Principal is the purchase price
// before the down payment.
type LoanInput struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	DownPayment       float64 `json:"downPayment" yaml:"downPayment"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
}

// LoanResult holds the derived auto loan values.
type LoanResult struct {
	LoanAmount     float64 `json:"loanAmount" yaml:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	Overpayment    float64 `json:"overpayment" yaml:"overpayment"`
	TotalCost      float64 `json:"totalCost" yaml:"totalCost"`
}

// CreditInput holds the general loan form values.
type CreditInput struct {
	Amount            float64 `json:"amount" yaml:"amount"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
}

// CreditResult holds the derived general loan values. EffectiveRate is the
// overpayment as a percentage of the amount borrowed.
type CreditResult struct {
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalAmount    float64 `json:"totalAmount" yaml:"totalAmount"`
	Overpayment    float64 `json:"overpayment" yaml:"overpayment"`
	EffectiveRate  float64 `json:"effectiveRate" yaml:"effectiveRate"`
}

// MortgageInput holds the mortgage form values; the term is in years.
type MortgageInput struct {
	PropertyValue     float64 `json:"propertyValue" yaml:"propertyValue"`
	DownPayment       float64 `json:"downPayment" yaml:"downPayment"`
	TermYears         int     `json:"termYears" yaml:"termYears"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
}

// MortgageResult holds the derived mortgage values.
type MortgageResult struct {
	LoanAmount     float64 `json:"loanAmount" yaml:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalAmount    float64 `json:"totalAmount" yaml:"totalAmount"`
	Overpayment    float64 `json:"overpayment" yaml:"overpayment"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// The caller guarantees termMonths > 0.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	loanAmount := principal - downPayment
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return loanAmount / float64(termMonths)
	}

	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return loanAmount * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualInterestRate)
}

// validTerm reports whether a term in months is one the calculators accept.
func validTerm(termMonths int) bool {
	return termMonths > 0 && termMonths <= constants.MaxTermMonths
}

// Calculate computes the auto loan result. Out-of-domain input, including a
// term above constants.MaxTermMonths or a result that overflows, yields a zero
// result whose TotalCost echoes the purchase price.
func Calculate(in LoanInput) LoanResult {
	if in.Principal <= 0 || in.DownPayment < 0 || in.DownPayment >= in.Principal || !validTerm(in.TermMonths) || in.AnnualRatePercent < 0 {
		return LoanResult{TotalCost: in.Principal}
	}

	loanAmount := in.Principal - in.DownPayment
	monthlyPayment := CalculateMonthlyPayment(in.Principal, in.DownPayment, in.AnnualRatePercent, in.TermMonths)
	overpayment := monthlyPayment*float64(in.TermMonths) - loanAmount
	if !mathutil.IsFinite(monthlyPayment, overpayment, in.Principal+overpayment) {
		return LoanResult{TotalCost: in.Principal}
	}

	return LoanResult{
		LoanAmount:     loanAmount,
		MonthlyPayment: monthlyPayment,
		Overpayment:    overpayment,
		TotalCost:      in.Principal + overpayment,
	}
}

// CalculateCredit computes the general loan result. Out-of-domain input yields
// an all-zero result, as does a result that overflows.
func CalculateCredit(in CreditInput) CreditResult {
	if in.Amount <= 0 || !validTerm(in.TermMonths) || in.AnnualRatePercent < 0 {
		return CreditResult{}
	}

	monthlyPayment := CalculateMonthlyPayment(in.Amount, 0, in.AnnualRatePercent, in.TermMonths)
	totalAmount := monthlyPayment * float64(in.TermMonths)
	overpayment := totalAmount - in.Amount
	if !mathutil.IsFinite(monthlyPayment, totalAmount, overpayment) {
		return CreditResult{}
	}

	return CreditResult{
		MonthlyPayment: monthlyPayment,
		TotalAmount:    totalAmount,
		Overpayment:    overpayment,
		EffectiveRate:  mathutil.CalculatePercentage(overpayment, in.Amount),
	}
}

// CalculateMortgage computes the mortgage result. Out-of-domain input yields
// an all-zero result, as does a result that overflows.
func CalculateMortgage(in MortgageInput) MortgageResult {
	if in.PropertyValue <= 0 || in.DownPayment < 0 || in.DownPayment >= in.PropertyValue ||
		in.TermYears <= 0 || in.TermYears > constants.MaxTermYears || in.AnnualRatePercent < 0 {
		return MortgageResult{}
	}

	termMonths := in.TermYears * constants.MonthsPerYear
	loanAmount := in.PropertyValue - in.DownPayment
	monthlyPayment := CalculateMonthlyPayment(in.PropertyValue, in.DownPayment, in.AnnualRatePercent, termMonths)
	totalAmount := monthlyPayment * float64(termMonths)
	if !mathutil.IsFinite(monthlyPayment, totalAmount) {
		return MortgageResult{}
	}

	return MortgageResult{
		LoanAmount:     loanAmount,
		MonthlyPayment: monthlyPayment,
		TotalAmount:    totalAmount,
		Overpayment:    totalAmount - loanAmount,
	}
}

// DownPaymentPercent returns the down payment as a percentage of the price.
func DownPaymentPercent(price, downPayment float64) float64 {
	if price <= 0 || downPayment < 0 {
		return 0
	}
	return mathutil.CalculatePercentage(downPayment, price)
}

// DownPaymentAmount returns the down payment amount for a percentage of the price.
func DownPaymentAmount(price, percent float64) float64 {
	if price <= 0 || percent < 0 {
		return 0
	}
	return mathutil.ApplyPercentage(price, percent)
}

// Payment holds the values for a given month of a payment schedule.
type Payment struct {
	Month     int     `json:"month" yaml:"month"`
	Date      string  `json:"date" yaml:"date"`
	Payment   float64 `json:"payment" yaml:"payment"`
	Principal float64 `json:"principal" yaml:"principal"`
	Interest  float64 `json:"interest" yaml:"interest"`
	Balance   float64 `json:"balance" yaml:"balance"`
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the month-by-month schedule for an annuity loan.
// The first payment falls in the month after start. The balance is clamped at
// zero; an empty schedule is returned when there is nothing to repay or the
// term is above constants.MaxTermMonths.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loanAmount, monthlyPayment float64, termMonths int,
	annualInterestRate float64, start time.Time) []Payment {
	if loanAmount <= 0 || monthlyPayment <= 0 || !validTerm(termMonths) ||
		!mathutil.IsFinite(loanAmount, monthlyPayment, annualInterestRate) {
		return []Payment{}
	}

	schedule := make([]Payment, 0, termMonths)
	remaining := loanAmount
	for month := 1; month <= termMonths; month++ {
		interest := CalculateInterestPayment(remaining, annualInterestRate)
		principal := monthlyPayment - interest
		remaining = math.Max(0, remaining-principal)

		schedule = append(schedule, Payment{
			Month:     month,
			Date:      datetime.MonthLabel(start, month),
			Payment:   monthlyPayment,
			Principal: principal,
			Interest:  interest,
			Balance:   remaining,
		})
	}

	if !mathutil.IsZero(remaining) {
		g.logger.Debug("schedule finished with a residual balance",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("residual", remaining),
			zap.Int("termMonths", termMonths),
		)
	}

	return schedule
}
