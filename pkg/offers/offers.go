// Package offers holds the reference bank rates and builds the comparison
// tables shown next to each calculator.
package offers

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/loans"
	"github.com/calk-kg/calk/pkg/validation"
	"gopkg.in/yaml.v3"
)

//go:embed offers.yaml
var defaultData []byte

// Bank names a bank that appears in the offer tables.
type Bank struct {
	ID   string      `yaml:"id" json:"id"`
	Name format.Text `yaml:"name" json:"name"`
}

// AutoLoanOffer is a bank's car loan rate and longest term.
type AutoLoanOffer struct {
	Bank          string  `yaml:"bank" json:"bank"`
	Rate          float64 `yaml:"rate" json:"rate"`
	MaxTermMonths int     `yaml:"maxTermMonths" json:"maxTermMonths"`
}

// LoanOffer is a bank's consumer loan rate.
type LoanOffer struct {
	Bank string  `yaml:"bank" json:"bank"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// MortgageOffer is a bank's mortgage rate range and longest term.
type MortgageOffer struct {
	Bank         string  `yaml:"bank" json:"bank"`
	MinRate      float64 `yaml:"minRate" json:"minRate"`
	MaxRate      float64 `yaml:"maxRate" json:"maxRate"`
	MaxTermYears int     `yaml:"maxTermYears" json:"maxTermYears"`
}

// DepositOffer is a bank's deposit rate range and accepted currencies.
type DepositOffer struct {
	Bank       string   `yaml:"bank" json:"bank"`
	MinRate    float64  `yaml:"minRate" json:"minRate"`
	MaxRate    float64  `yaml:"maxRate" json:"maxRate"`
	Currencies []string `yaml:"currencies" json:"currencies"`
}

// Examples are the popular scenarios offered as one-click presets.
type Examples struct {
	AutoLoan []loans.LoanInput     `yaml:"autoLoan" json:"autoLoan"`
	Loan     []loans.CreditInput   `yaml:"loan" json:"loan"`
	Mortgage []loans.MortgageInput `yaml:"mortgage" json:"mortgage"`
	Deposit  []deposit.Input       `yaml:"deposit" json:"deposit"`
}

// Catalog is the full set of reference offers.
type Catalog struct {
	Banks        []Bank          `yaml:"banks" json:"banks"`
	AutoLoan     []AutoLoanOffer `yaml:"autoLoan" json:"autoLoan"`
	Loan         []LoanOffer     `yaml:"loan" json:"loan"`
	Mortgage     []MortgageOffer `yaml:"mortgage" json:"mortgage"`
	Deposit      []DepositOffer  `yaml:"deposit" json:"deposit"`
	DepositTerms []int           `yaml:"depositTerms" json:"depositTerms"`
	Examples     Examples        `yaml:"examples" json:"examples"`
}

// Load decodes and validates a catalog. Unknown keys are rejected so that a
// misspelt field in a hand-edited file is not silently ignored.
func Load(r io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var c Catalog
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a catalog from path. An empty path selects the built-in data.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open offers file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog built into the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
}

// Validate checks that every offer references a known bank and carries
// usable rates and terms.
func (c *Catalog) Validate() error {
	known := make(map[string]bool, len(c.Banks))
	for i, b := range c.Banks {
		if b.ID == "" {
			return fmt.Errorf("bank %d: missing id", i)
		}
		if known[b.ID] {
			return fmt.Errorf("bank %s: duplicate id", b.ID)
		}
		if b.Name.Ru == "" {
			return fmt.Errorf("bank %s: missing name", b.ID)
		}
		known[b.ID] = true
	}

	checkBank := func(kind, id string) error {
		if !known[id] {
			return fmt.Errorf("%s offer: unknown bank %q", kind, id)
		}
		return nil
	}

	for _, o := range c.AutoLoan {
		if err := checkBank("autoLoan", o.Bank); err != nil {
			return err
		}
		if o.Rate < 0 || o.MaxTermMonths <= 0 {
			return fmt.Errorf("autoLoan offer %s: rate must be >= 0 and maxTermMonths > 0", o.Bank)
		}
	}
	for _, o := range c.Loan {
		if err := checkBank("loan", o.Bank); err != nil {
			return err
		}
		if o.Rate < 0 {
			return fmt.Errorf("loan offer %s: rate must be >= 0", o.Bank)
		}
	}
	for _, o := range c.Mortgage {
		if err := checkBank("mortgage", o.Bank); err != nil {
			return err
		}
		if o.MinRate < 0 || o.MaxRate < o.MinRate || o.MaxTermYears <= 0 {
			return fmt.Errorf("mortgage offer %s: expected 0 <= minRate <= maxRate and maxTermYears > 0", o.Bank)
		}
	}
	for _, o := range c.Deposit {
		if err := checkBank("deposit", o.Bank); err != nil {
			return err
		}
		if o.MinRate < 0 || o.MaxRate < o.MinRate {
			return fmt.Errorf("deposit offer %s: expected 0 <= minRate <= maxRate", o.Bank)
		}
		if len(o.Currencies) == 0 {
			return fmt.Errorf("deposit offer %s: no currencies", o.Bank)
		}
		for _, cur := range o.Currencies {
			if err := validation.ValidateCurrency(cur); err != nil {
				return fmt.Errorf("deposit offer %s: %w", o.Bank, err)
			}
		}
	}
	for _, term := range c.DepositTerms {
		if term <= 0 {
			return fmt.Errorf("deposit term %d must be positive", term)
		}
	}
	return nil
}

// BankName returns the display name of a bank, or its id when unknown.
func (c *Catalog) BankName(id, lang string) string {
	for _, b := range c.Banks {
		if b.ID == id {
			return b.Name.In(lang)
		}
	}
	return id
}

// Table returns the raw offers of one kind: auto-loan, loan, mortgage or
// deposit.
func (c *Catalog) Table(kind string) (any, error) {
	switch kind {
	case "auto-loan":
		return c.AutoLoan, nil
	case "loan":
		return c.Loan, nil
	case "mortgage":
		return c.Mortgage, nil
	case "deposit":
		return c.Deposit, nil
	}
	return nil, fmt.Errorf("unknown offer kind %q", kind)
}

func acceptsCurrency(o DepositOffer, currency string) bool {
	return slices.Contains(o.Currencies, currency)
}
