package offers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/loans"
	"github.com/calk-kg/calk/pkg/testutil"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		name     string
		got      int
		expected int
	}{
		{"auto loan offers", len(c.AutoLoan), 8},
		{"loan offers", len(c.Loan), 8},
		{"mortgage offers", len(c.Mortgage), 8},
		{"deposit offers", len(c.Deposit), 8},
		{"deposit terms", len(c.DepositTerms), 6},
		{"auto loan examples", len(c.Examples.AutoLoan), 3},
		{"loan examples", len(c.Examples.Loan), 3},
		{"mortgage examples", len(c.Examples.Mortgage), 3},
		{"deposit examples", len(c.Examples.Deposit), 3},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, tt.got)
		}
	}

	if c.Examples.AutoLoan[0] != (loans.LoanInput{Principal: 1500000, DownPayment: 300000, TermMonths: 36, AnnualRatePercent: 18}) {
		t.Errorf("unexpected first auto loan example %+v", c.Examples.AutoLoan[0])
	}
	if c.Examples.Deposit[1].Currency != "USD" || c.Examples.Deposit[1].InterestType != deposit.Compound {
		t.Errorf("unexpected second deposit example %+v", c.Examples.Deposit[1])
	}
}

func TestLoadRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "Unknown field",
			data:    "banks: [{id: a, name: {ru: A}}]\nloans: []\n",
			wantErr: "decode",
		},
		{
			name:    "Unknown bank",
			data:    "banks: [{id: a, name: {ru: A}}]\nloan: [{bank: b, rate: 10}]\n",
			wantErr: "unknown bank",
		},
		{
			name:    "Duplicate bank",
			data:    "banks: [{id: a, name: {ru: A}}, {id: a, name: {ru: B}}]\n",
			wantErr: "duplicate",
		},
		{
			name:    "Inverted mortgage range",
			data:    "banks: [{id: a, name: {ru: A}}]\nmortgage: [{bank: a, minRate: 16, maxRate: 14, maxTermYears: 10}]\n",
			wantErr: "minRate",
		},
		{
			name:    "Zero auto loan term",
			data:    "banks: [{id: a, name: {ru: A}}]\nautoLoan: [{bank: a, rate: 16}]\n",
			wantErr: "maxTermMonths",
		},
		{
			name:    "Unsupported currency",
			data:    "banks: [{id: a, name: {ru: A}}]\ndeposit: [{bank: a, minRate: 1, maxRate: 2, currencies: [GBP]}]\n",
			wantErr: "GBP",
		},
		{
			name:    "Negative deposit term",
			data:    "banks: [{id: a, name: {ru: A}}]\ndepositTerms: [6, -1]\n",
			wantErr: "positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offers.yaml")
	data := "banks: [{id: demo, name: {ru: Демо, ky: Демо}}]\nloan: [{bank: demo, rate: 12.5}]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write offers file: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(c.Loan) != 1 || c.Loan[0].Rate != 12.5 {
		t.Errorf("unexpected loan offers %+v", c.Loan)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	builtIn, err := LoadFile("")
	if err != nil || len(builtIn.AutoLoan) == 0 {
		t.Errorf("LoadFile(\"\") should return the built-in catalog, err = %v", err)
	}
}

func TestBankName(t *testing.T) {
	c := mustDefault(t)
	if got := c.BankName("asia", "ky"); got != "Азия Банкы" {
		t.Errorf("BankName(asia, ky) = %q", got)
	}
	if got := c.BankName("asia", "ru"); got != "Банк Азии" {
		t.Errorf("BankName(asia, ru) = %q", got)
	}
	if got := c.BankName("nobank", "ru"); got != "nobank" {
		t.Errorf("BankName(nobank) = %q, expected id fallback", got)
	}
}

func TestTable(t *testing.T) {
	c := mustDefault(t)
	for _, kind := range []string{"auto-loan", "loan", "mortgage", "deposit"} {
		if _, err := c.Table(kind); err != nil {
			t.Errorf("Table(%q) error = %v", kind, err)
		}
	}
	if _, err := c.Table("leasing"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

var (
	autoLoanBank = func(r AutoLoanRow) string { return r.Bank }
	loanBank     = func(r LoanRow) string { return r.Bank }
	mortgageBank = func(r MortgageRow) string { return r.Bank }
	depositBank  = func(r DepositRow) string { return r.Bank }
)

func TestAutoLoanRows(t *testing.T) {
	c := mustDefault(t)
	in := loans.LoanInput{Principal: 1500000, DownPayment: 300000, TermMonths: 60, AnnualRatePercent: 18}
	rows := c.AutoLoanRows(in, "ru")

	if len(rows) != len(c.AutoLoan) {
		t.Fatalf("expected %d rows, got %d", len(c.AutoLoan), len(rows))
	}

	bta := testutil.FindByName(rows, autoLoanBank, "bta")
	if bta == nil {
		t.Fatal("expected a bta row")
	}
	if bta.TermMonths != 36 {
		t.Errorf("expected term capped at 36 months, got %d", bta.TermMonths)
	}
	expected := loans.Calculate(loans.LoanInput{Principal: 1500000, DownPayment: 300000, TermMonths: 36, AnnualRatePercent: 20})
	testutil.AssertClose(t, "bta MonthlyPayment", bta.MonthlyPayment, expected.MonthlyPayment, 1e-9)
	if bta.Better || !bta.Worse {
		t.Errorf("expected 20%% to be worse than 18%%, got %+v", bta.Flags)
	}

	ayil := testutil.FindByName(rows, autoLoanBank, "ayil")
	if ayil == nil || ayil.TermMonths != 60 || !ayil.Better {
		t.Errorf("unexpected ayil row %+v", ayil)
	}

	fkur := testutil.FindByName(rows, autoLoanBank, "fkur")
	if fkur == nil || fkur.Better || fkur.Worse {
		t.Errorf("expected equal rate to be neither better nor worse, got %+v", fkur)
	}
}

func TestLoanRows(t *testing.T) {
	c := mustDefault(t)
	rows := c.LoanRows(loans.CreditInput{Amount: 1000000, TermMonths: 36, AnnualRatePercent: 20}, "ru")

	cbk := testutil.FindByName(rows, loanBank, "cbk")
	if cbk == nil {
		t.Fatal("expected a cbk row")
	}
	if cbk.Better || cbk.Worse {
		t.Errorf("expected equal rate flags to be clear, got %+v", cbk.Flags)
	}
	expected := loans.CalculateCredit(loans.CreditInput{Amount: 1000000, TermMonths: 36, AnnualRatePercent: 20})
	testutil.AssertClose(t, "cbk Overpayment", cbk.Overpayment, expected.Overpayment, 1e-9)
	if cbk.BankName == "" || cbk.BankName == "cbk" {
		t.Errorf("expected display name, got %q", cbk.BankName)
	}
}

func TestMortgageRows(t *testing.T) {
	c := mustDefault(t)
	in := loans.MortgageInput{PropertyValue: 8000000, DownPayment: 2000000, TermYears: 25, AnnualRatePercent: 14.5}
	rows := c.MortgageRows(in, "ru")

	optima := testutil.FindByName(rows, mortgageBank, "optima")
	if optima == nil {
		t.Fatal("expected an optima row")
	}
	if optima.TermYears != 15 {
		t.Errorf("expected term capped at 15 years, got %d", optima.TermYears)
	}
	expected := loans.CalculateMortgage(loans.MortgageInput{PropertyValue: 8000000, DownPayment: 2000000, TermYears: 15, AnnualRatePercent: 14})
	testutil.AssertClose(t, "optima MonthlyPayment", optima.MonthlyPayment, expected.MonthlyPayment, 1e-9)
	if !optima.Better {
		t.Errorf("expected 14%% minimum rate to beat 14.5%%")
	}

	rsk := testutil.FindByName(rows, mortgageBank, "rsk")
	if rsk == nil || rsk.TermYears != 25 {
		t.Errorf("unexpected rsk row %+v", rsk)
	}
}

func TestDepositRows(t *testing.T) {
	c := mustDefault(t)

	usd := c.DepositRows(deposit.Input{Principal: 5000, AnnualRatePercent: 13.5, TermMonths: 18, Currency: "USD"}, "ru")
	if len(usd) != 5 {
		t.Fatalf("expected 5 banks accepting USD, got %d", len(usd))
	}
	if testutil.FindByName(usd, depositBank, "mbank") != nil {
		t.Error("mbank does not accept USD")
	}

	asia := testutil.FindByName(usd, depositBank, "asia")
	if asia == nil || asia.Better || asia.Worse {
		t.Errorf("expected asia at the user's rate, got %+v", asia)
	}
	bakay := testutil.FindByName(usd, depositBank, "bakay")
	if bakay == nil || !bakay.Better {
		t.Errorf("expected bakay's 14%% to beat 13.5%%, got %+v", bakay)
	}
	expected := deposit.Calculate(deposit.Input{Principal: 5000, AnnualRatePercent: 14, TermMonths: 18, InterestType: deposit.Compound})
	testutil.AssertClose(t, "bakay FinalAmount", bakay.FinalAmount, expected.FinalAmount, 1e-9)

	kgs := c.DepositRows(deposit.Input{Principal: 100000, AnnualRatePercent: 20, TermMonths: 12}, "ru")
	if len(kgs) != 8 {
		t.Errorf("expected every bank to accept KGS, got %d", len(kgs))
	}
	for _, row := range kgs {
		if !row.Worse {
			t.Errorf("%s: expected every rate below 20%% to be worse", row.Bank)
		}
	}

	if rub := c.DepositRows(deposit.Input{Principal: 1000, AnnualRatePercent: 5, TermMonths: 6, Currency: "RUB"}, "ru"); len(rub) != 0 {
		t.Errorf("expected no banks for RUB, got %d", len(rub))
	}
}

func TestComputedExamples(t *testing.T) {
	c := mustDefault(t)
	set := c.ComputedExamples()

	if len(set.AutoLoan) != 3 || len(set.Loan) != 3 || len(set.Mortgage) != 3 || len(set.Deposit) != 3 {
		t.Fatalf("unexpected example counts %d/%d/%d/%d", len(set.AutoLoan), len(set.Loan), len(set.Mortgage), len(set.Deposit))
	}

	first := set.AutoLoan[0]
	if first.Result.LoanAmount != 1200000 {
		t.Errorf("expected loan amount 1200000, got %.2f", first.Result.LoanAmount)
	}
	if first.Result.MonthlyPayment < 43380 || first.Result.MonthlyPayment > 43390 {
		t.Errorf("expected monthly payment around 43 383, got %.2f", first.Result.MonthlyPayment)
	}
	if set.Deposit[0].Result.FinalAmount <= set.Deposit[0].Input.Principal {
		t.Errorf("expected deposit example to grow, got %+v", set.Deposit[0].Result)
	}
}
