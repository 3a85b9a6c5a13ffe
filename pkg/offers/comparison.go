package offers

import (
	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/loans"
)

// Flags marks how an offer compares to the rate the user entered.
type Flags struct {
	Better bool `json:"better"`
	Worse  bool `json:"worse"`
}

// costFlags compares borrowing rates: a lower offer rate is better.
func costFlags(offerRate, userRate float64) Flags {
	return Flags{Better: offerRate < userRate, Worse: offerRate > userRate}
}

// yieldFlags compares deposit rates: a higher offer rate is better.
func yieldFlags(offerRate, userRate float64) Flags {
	return Flags{Better: offerRate > userRate, Worse: offerRate < userRate}
}

// AutoLoanRow is one bank in the car loan comparison.
type AutoLoanRow struct {
	Bank          string  `json:"bank"`
	BankName      string  `json:"bankName"`
	Rate          float64 `json:"rate"`
	MaxTermMonths int     `json:"maxTermMonths"`
	TermMonths    int     `json:"termMonths"`
	loans.LoanResult
	Flags
}

// AutoLoanRows prices the user's car loan at every bank. A bank's term is the
// user's term capped at the bank's longest term.
func (c *Catalog) AutoLoanRows(in loans.LoanInput, lang string) []AutoLoanRow {
	rows := make([]AutoLoanRow, 0, len(c.AutoLoan))
	for _, o := range c.AutoLoan {
		term := min(in.TermMonths, o.MaxTermMonths)
		rows = append(rows, AutoLoanRow{
			Bank:          o.Bank,
			BankName:      c.BankName(o.Bank, lang),
			Rate:          o.Rate,
			MaxTermMonths: o.MaxTermMonths,
			TermMonths:    term,
			LoanResult: loans.Calculate(loans.LoanInput{
				Principal:         in.Principal,
				DownPayment:       in.DownPayment,
				TermMonths:        term,
				AnnualRatePercent: o.Rate,
			}),
			Flags: costFlags(o.Rate, in.AnnualRatePercent),
		})
	}
	return rows
}

// LoanRow is one bank in the consumer loan comparison.
type LoanRow struct {
	Bank     string  `json:"bank"`
	BankName string  `json:"bankName"`
	Rate     float64 `json:"rate"`
	loans.CreditResult
	Flags
}

// LoanRows prices the user's loan at every bank over the user's term.
func (c *Catalog) LoanRows(in loans.CreditInput, lang string) []LoanRow {
	rows := make([]LoanRow, 0, len(c.Loan))
	for _, o := range c.Loan {
		rows = append(rows, LoanRow{
			Bank:     o.Bank,
			BankName: c.BankName(o.Bank, lang),
			Rate:     o.Rate,
			CreditResult: loans.CalculateCredit(loans.CreditInput{
				Amount:            in.Amount,
				TermMonths:        in.TermMonths,
				AnnualRatePercent: o.Rate,
			}),
			Flags: costFlags(o.Rate, in.AnnualRatePercent),
		})
	}
	return rows
}

// MortgageRow is one bank in the mortgage comparison, priced at the bank's
// lowest rate.
type MortgageRow struct {
	Bank         string  `json:"bank"`
	BankName     string  `json:"bankName"`
	MinRate      float64 `json:"minRate"`
	MaxRate      float64 `json:"maxRate"`
	MaxTermYears int     `json:"maxTermYears"`
	TermYears    int     `json:"termYears"`
	loans.MortgageResult
	Flags
}

// MortgageRows prices the user's mortgage at every bank's lowest rate with the
// term capped at the bank's longest term.
func (c *Catalog) MortgageRows(in loans.MortgageInput, lang string) []MortgageRow {
	rows := make([]MortgageRow, 0, len(c.Mortgage))
	for _, o := range c.Mortgage {
		term := min(in.TermYears, o.MaxTermYears)
		rows = append(rows, MortgageRow{
			Bank:         o.Bank,
			BankName:     c.BankName(o.Bank, lang),
			MinRate:      o.MinRate,
			MaxRate:      o.MaxRate,
			MaxTermYears: o.MaxTermYears,
			TermYears:    term,
			MortgageResult: loans.CalculateMortgage(loans.MortgageInput{
				PropertyValue:     in.PropertyValue,
				DownPayment:       in.DownPayment,
				TermYears:         term,
				AnnualRatePercent: o.MinRate,
			}),
			Flags: costFlags(o.MinRate, in.AnnualRatePercent),
		})
	}
	return rows
}

// DepositRow is one bank in the deposit comparison, projected at the bank's
// highest rate with monthly capitalisation.
type DepositRow struct {
	Bank           string  `json:"bank"`
	BankName       string  `json:"bankName"`
	MinRate        float64 `json:"minRate"`
	MaxRate        float64 `json:"maxRate"`
	InterestEarned float64 `json:"interestEarned"`
	FinalAmount    float64 `json:"finalAmount"`
	Flags
}

// DepositRows projects the user's deposit at every bank that accepts its
// currency. An empty currency means som.
func (c *Catalog) DepositRows(in deposit.Input, lang string) []DepositRow {
	currency := in.Currency
	if currency == "" {
		currency = constants.CurrencyKGS
	}

	rows := make([]DepositRow, 0, len(c.Deposit))
	for _, o := range c.Deposit {
		if !acceptsCurrency(o, currency) {
			continue
		}
		result := deposit.Calculate(deposit.Input{
			Principal:         in.Principal,
			AnnualRatePercent: o.MaxRate,
			TermMonths:        in.TermMonths,
			InterestType:      deposit.Compound,
			Currency:          currency,
		})
		rows = append(rows, DepositRow{
			Bank:           o.Bank,
			BankName:       c.BankName(o.Bank, lang),
			MinRate:        o.MinRate,
			MaxRate:        o.MaxRate,
			InterestEarned: result.InterestEarned,
			FinalAmount:    result.FinalAmount,
			Flags:          yieldFlags(o.MaxRate, in.AnnualRatePercent),
		})
	}
	return rows
}

// Example pairs a preset input with its computed result.
type Example[I, R any] struct {
	Input  I `json:"input"`
	Result R `json:"result"`
}

// ExampleSet holds every preset with its result.
type ExampleSet struct {
	AutoLoan []Example[loans.LoanInput, loans.LoanResult]         `json:"autoLoan"`
	Loan     []Example[loans.CreditInput, loans.CreditResult]     `json:"loan"`
	Mortgage []Example[loans.MortgageInput, loans.MortgageResult] `json:"mortgage"`
	Deposit  []Example[deposit.Input, deposit.Result]             `json:"deposit"`
}

// ComputedExamples evaluates the popular scenarios.
func (c *Catalog) ComputedExamples() ExampleSet {
	return ExampleSet{
		AutoLoan: evaluate(c.Examples.AutoLoan, loans.Calculate),
		Loan:     evaluate(c.Examples.Loan, loans.CalculateCredit),
		Mortgage: evaluate(c.Examples.Mortgage, loans.CalculateMortgage),
		Deposit:  evaluate(c.Examples.Deposit, deposit.Calculate),
	}
}

func evaluate[I, R any](inputs []I, calc func(I) R) []Example[I, R] {
	out := make([]Example[I, R], 0, len(inputs))
	for _, in := range inputs {
		out = append(out, Example[I, R]{Input: in, Result: calc(in)})
	}
	return out
}
