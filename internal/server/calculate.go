package server

import (
	"fmt"
	"net/http"

	"github.com/calk-kg/calk/internal/site"
	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/loans"
	"github.com/calk-kg/calk/pkg/offers"
	"github.com/calk-kg/calk/pkg/output"
	"github.com/calk-kg/calk/pkg/tax"
	"github.com/calk-kg/calk/pkg/validation"
	"go.uber.org/zap"
)

// fieldParser parses form fields and keeps the first error.
type fieldParser struct {
	err error
}

func (p *fieldParser) amount(name string, n validation.Numeric) float64 {
	if p.err != nil {
		return 0
	}
	v, err := n.Float()
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

// downPayment reads the down payment amount, falling back to a percentage of
// price when no amount was sent.
func (p *fieldParser) downPayment(price float64, amount, percent validation.Numeric) float64 {
	if amount != "" || percent == "" {
		return p.amount("downPayment", amount)
	}
	return loans.DownPaymentAmount(price, p.amount("downPaymentPercent", percent))
}

// term reads a whole number of periods no larger than limit.
func (p *fieldParser) term(name string, n validation.Numeric, limit int) int {
	if p.err != nil {
		return 0
	}
	v, err := n.Int()
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return 0
	}
	if v > limit {
		p.err = fmt.Errorf("%s must not exceed %d", name, limit)
		return 0
	}
	return v
}

// autoLoanRequest takes the down payment either as an amount or, when the
// amount is empty, as a percentage of the price.
type autoLoanRequest struct {
	Principal          validation.Numeric `json:"principal"`
	DownPayment        validation.Numeric `json:"downPayment"`
	DownPaymentPercent validation.Numeric `json:"downPaymentPercent"`
	TermMonths         validation.Numeric `json:"termMonths"`
	AnnualRate         validation.Numeric `json:"annualRatePercent"`
}

type autoLoanResponse struct {
	Input              loans.LoanInput      `json:"input"`
	Result             loans.LoanResult     `json:"result"`
	DownPaymentPercent float64              `json:"downPaymentPercent"`
	Schedule           []loans.Payment      `json:"schedule"`
	Offers             []offers.AutoLoanRow `json:"offers"`
}

type loanRequest struct {
	Amount     validation.Numeric `json:"amount"`
	TermMonths validation.Numeric `json:"termMonths"`
	AnnualRate validation.Numeric `json:"annualRatePercent"`
}

type loanResponse struct {
	Input    loans.CreditInput  `json:"input"`
	Result   loans.CreditResult `json:"result"`
	Schedule []loans.Payment    `json:"schedule"`
	Offers   []offers.LoanRow   `json:"offers"`
}

type mortgageRequest struct {
	PropertyValue      validation.Numeric `json:"propertyValue"`
	DownPayment        validation.Numeric `json:"downPayment"`
	DownPaymentPercent validation.Numeric `json:"downPaymentPercent"`
	TermYears          validation.Numeric `json:"termYears"`
	AnnualRate         validation.Numeric `json:"annualRatePercent"`
}

type mortgageResponse struct {
	Input              loans.MortgageInput  `json:"input"`
	Result             loans.MortgageResult `json:"result"`
	DownPaymentPercent float64              `json:"downPaymentPercent"`
	Schedule           []loans.Payment      `json:"schedule"`
	Offers             []offers.MortgageRow `json:"offers"`
}

type depositRequest struct {
	Principal    validation.Numeric `json:"principal"`
	AnnualRate   validation.Numeric `json:"annualRatePercent"`
	TermMonths   validation.Numeric `json:"termMonths"`
	InterestType string             `json:"interestType"`
	Currency     string             `json:"currency"`
}

type depositResponse struct {
	Input      deposit.Input       `json:"input"`
	Result     deposit.Result      `json:"result"`
	Comparison deposit.Comparison  `json:"comparison"`
	Offers     []offers.DepositRow `json:"offers"`
}

type propertyTaxRequest struct {
	TotalArea    validation.Numeric `json:"totalArea"`
	RatePerSqm   validation.Numeric `json:"ratePerSqm"`
	PropertyType string             `json:"propertyType"`
	ApplyBenefit bool               `json:"applyBenefit"`
	City         string             `json:"city"`
}

type propertyTaxResponse struct {
	Input  tax.PropertyInput  `json:"input"`
	Result tax.PropertyResult `json:"result"`
}

type singleTaxRequest struct {
	MonthlyRevenue validation.Numeric `json:"monthlyRevenue"`
	ActivityType   string             `json:"activityType"`
}

type singleTaxResponse struct {
	Activity tax.Activity     `json:"activity"`
	Result   tax.SingleResult `json:"result"`
}

func (h *handler) handleAutoLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAutoLoan"

	export, err := exportFormat(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var req autoLoanRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	in := loans.LoanInput{
		Principal:         p.amount("principal", req.Principal),
		TermMonths:        p.term("termMonths", req.TermMonths, constants.MaxTermMonths),
		AnnualRatePercent: p.amount("annualRatePercent", req.AnnualRate),
	}
	in.DownPayment = p.downPayment(in.Principal, req.DownPayment, req.DownPaymentPercent)
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	result := loans.Calculate(in)
	response := autoLoanResponse{
		Input:              in,
		Result:             result,
		DownPaymentPercent: loans.DownPaymentPercent(in.Principal, in.DownPayment),
		Schedule: h.schedules.GenerateSchedule(result.LoanAmount, result.MonthlyPayment,
			in.TermMonths, in.AnnualRatePercent, h.now()),
		Offers: h.offers.AutoLoanRows(in, site.Negotiate(r)),
	}

	h.recordCalculation(r, "auto-loan", op)
	if export != "" {
		h.writeTable(w, r, "auto-loan-schedule", export, output.ScheduleTable(response.Schedule, site.Negotiate(r), export), op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"

	export, err := exportFormat(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var req loanRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	in := loans.CreditInput{
		Amount:            p.amount("amount", req.Amount),
		TermMonths:        p.term("termMonths", req.TermMonths, constants.MaxTermMonths),
		AnnualRatePercent: p.amount("annualRatePercent", req.AnnualRate),
	}
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	result := loans.CalculateCredit(in)
	response := loanResponse{
		Input:  in,
		Result: result,
		Schedule: h.schedules.GenerateSchedule(in.Amount, result.MonthlyPayment,
			in.TermMonths, in.AnnualRatePercent, h.now()),
		Offers: h.offers.LoanRows(in, site.Negotiate(r)),
	}

	h.recordCalculation(r, "loan", op)
	if export != "" {
		h.writeTable(w, r, "loan-schedule", export, output.ScheduleTable(response.Schedule, site.Negotiate(r), export), op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleMortgage(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMortgage"

	export, err := exportFormat(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var req mortgageRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	in := loans.MortgageInput{
		PropertyValue:     p.amount("propertyValue", req.PropertyValue),
		TermYears:         p.term("termYears", req.TermYears, constants.MaxTermYears),
		AnnualRatePercent: p.amount("annualRatePercent", req.AnnualRate),
	}
	in.DownPayment = p.downPayment(in.PropertyValue, req.DownPayment, req.DownPaymentPercent)
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	result := loans.CalculateMortgage(in)
	response := mortgageResponse{
		Input:              in,
		Result:             result,
		DownPaymentPercent: loans.DownPaymentPercent(in.PropertyValue, in.DownPayment),
		Schedule: h.schedules.GenerateSchedule(result.LoanAmount, result.MonthlyPayment,
			in.TermYears*constants.MonthsPerYear, in.AnnualRatePercent, h.now()),
		Offers: h.offers.MortgageRows(in, site.Negotiate(r)),
	}

	h.recordCalculation(r, "mortgage", op)
	if export != "" {
		h.writeTable(w, r, "mortgage-schedule", export, output.ScheduleTable(response.Schedule, site.Negotiate(r), export), op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeposit"

	export, err := exportFormat(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var req depositRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	in := deposit.Input{
		Principal:         p.amount("principal", req.Principal),
		AnnualRatePercent: p.amount("annualRatePercent", req.AnnualRate),
		TermMonths:        p.term("termMonths", req.TermMonths, constants.MaxTermMonths),
		Currency:          req.Currency,
	}
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	interestType, err := deposit.ParseInterestType(req.InterestType)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	in.InterestType = interestType

	if in.Currency == "" {
		in.Currency = constants.CurrencyKGS
	}
	if err := validation.ValidateCurrency(in.Currency); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	response := depositResponse{
		Input:      in,
		Result:     deposit.Calculate(in),
		Comparison: deposit.Compare(in),
		Offers:     h.offers.DepositRows(in, site.Negotiate(r)),
	}

	h.recordCalculation(r, "deposit", op)
	if export != "" {
		h.writeTable(w, r, "deposit-growth", export, output.GrowthTable(response.Result.MonthlyGrowth, site.Negotiate(r), export), op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handlePropertyTax(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePropertyTax"

	var req propertyTaxRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	in := tax.PropertyInput{
		TotalArea:    p.amount("totalArea", req.TotalArea),
		RatePerSqm:   p.amount("ratePerSqm", req.RatePerSqm),
		ApplyBenefit: req.ApplyBenefit,
		City:         req.City,
	}
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	propertyType, err := tax.ParsePropertyType(req.PropertyType)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	in.PropertyType = propertyType

	if err := tax.ValidateCity(in.City); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.recordCalculation(r, "property-tax", op)
	h.writeJSON(w, http.StatusOK, propertyTaxResponse{
		Input:  in,
		Result: tax.CalculateProperty(in),
	})
}

func (h *handler) handleSingleTax(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSingleTax"

	var req singleTaxRequest
	if status, err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	var p fieldParser
	revenue := p.amount("monthlyRevenue", req.MonthlyRevenue)
	if p.err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, p.err.Error(), op)
		return
	}

	activity, err := tax.LookupActivity(req.ActivityType)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.recordCalculation(r, "single-tax", op)
	h.writeJSON(w, http.StatusOK, singleTaxResponse{
		Activity: activity,
		Result:   tax.CalculateSingle(revenue, activity),
	})
}

// exportFormat reads the optional ?format= parameter. An empty format means
// the JSON response is served.
func exportFormat(r *http.Request) (output.Format, error) {
	name := r.URL.Query().Get("format")
	if name == "" || name == "json" {
		return "", nil
	}
	return output.ParseFormat(name)
}

func (h *handler) writeTable(w http.ResponseWriter, r *http.Request, name string, f output.Format, t output.Table, op string) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+f.Extension()))
	w.WriteHeader(http.StatusOK)
	if err := t.Write(w, f); err != nil {
		LoggerFromContext(r.Context(), h.logger).Error("failed to write table",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) recordCalculation(r *http.Request, calculator, op string) {
	h.metrics.calculations.WithLabelValues(calculator).Inc()
	LoggerFromContext(r.Context(), h.logger).Debug("calculation served",
		zap.String("op", op),
		zap.String("calculator", calculator),
	)
}
