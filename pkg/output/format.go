// Package output renders payment schedules and deposit traces as downloadable
// CSV or as a plain-text table.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/calk-kg/calk/pkg/deposit"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/loans"
)

// Format selects how a table is rendered.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatPretty Format = "pretty"
)

// ParseFormat validates an output format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatCSV, FormatPretty:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown output format %q, expected csv or pretty", name)
}

// ContentType returns the media type served for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension used for downloads in f.
func (f Format) Extension() string {
	if f == FormatCSV {
		return "csv"
	}
	return "txt"
}

var (
	scheduleHeaders = []format.Text{
		{Ru: "Месяц", Ky: "Ай"},
		{Ru: "Дата", Ky: "Күнү"},
		{Ru: "Платёж", Ky: "Төлөм"},
		{Ru: "Основной долг", Ky: "Негизги карыз"},
		{Ru: "Проценты", Ky: "Пайыздар"},
		{Ru: "Остаток", Ky: "Калдык"},
	}
	growthHeaders = []format.Text{
		{Ru: "Месяц", Ky: "Ай"},
		{Ru: "Начислено", Ky: "Кошулду"},
		{Ru: "Баланс", Ky: "Баланс"},
	}
)

// Table is a header row plus data rows ready to render.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ScheduleTable lays out a payment schedule with headers in lang. Machine
// readable tables keep plain decimals so spreadsheets can parse them.
func ScheduleTable(schedule []loans.Payment, lang string, f Format) Table {
	t := Table{Headers: localize(scheduleHeaders, lang), Rows: make([][]string, 0, len(schedule))}
	for _, p := range schedule {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(p.Month),
			p.Date,
			amount(p.Payment, f),
			amount(p.Principal, f),
			amount(p.Interest, f),
			amount(p.Balance, f),
		})
	}
	return t
}

// GrowthTable lays out a deposit's monthly balance trace with headers in lang.
func GrowthTable(growth []deposit.Growth, lang string, f Format) Table {
	t := Table{Headers: localize(growthHeaders, lang), Rows: make([][]string, 0, len(growth))}
	for _, g := range growth {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(g.Month),
			amount(g.InterestAdded, f),
			amount(g.Balance, f),
		})
	}
	return t
}

// Write renders the table to w in format f.
func (t Table) Write(w io.Writer, f Format) error {
	if f == FormatCSV {
		return t.writeCSV(w)
	}
	return t.writePretty(w)
}

func (t Table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// writePretty outputs a human-readable rather than machine-readable table.
func (t Table) writePretty(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if n := len([]rune(cell)); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow := func(cells []string) error {
		for i, cell := range cells {
			sep := " | "
			if i == len(cells)-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%*s%s", widths[i], cell, sep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(t.Headers); err != nil {
		return fmt.Errorf("failed to write table header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writeRow(row); err != nil {
			return fmt.Errorf("failed to write table row: %w", err)
		}
	}
	return nil
}

func localize(texts []format.Text, lang string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = t.In(lang)
	}
	return out
}

func amount(v float64, f Format) string {
	if f == FormatCSV {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return format.Number(v, 2)
}
