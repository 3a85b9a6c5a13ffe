package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/calk-kg/calk/internal/site"
	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/offers"
	"github.com/calk-kg/calk/pkg/schema"
	"github.com/calk-kg/calk/pkg/tax"
	"go.uber.org/zap"
)

var labels = map[string]format.Text{
	"bank":           {Ru: "Банк", Ky: "Банк"},
	"rate":           {Ru: "Ставка", Ky: "Чен"},
	"rates":          {Ru: "Ставки", Ky: "Чендер"},
	"maxTerm":        {Ru: "Макс. срок", Ky: "Макс. мөөнөт"},
	"currencies":     {Ru: "Валюты", Ky: "Валюталар"},
	"offers":         {Ru: "Предложения банков", Ky: "Банктардын сунуштары"},
	"examples":       {Ru: "Популярные примеры", Ky: "Популярдуу мисалдар"},
	"amount":         {Ru: "Сумма", Ky: "Сумма"},
	"price":          {Ru: "Стоимость", Ky: "Баасы"},
	"downPayment":    {Ru: "Первоначальный взнос", Ky: "Алгачкы төгүм"},
	"term":           {Ru: "Срок", Ky: "Мөөнөт"},
	"monthlyPayment": {Ru: "Ежемесячный платёж", Ky: "Айлык төлөм"},
	"overpayment":    {Ru: "Переплата", Ky: "Ашыкча төлөм"},
	"interest":       {Ru: "Доход", Ky: "Киреше"},
	"finalAmount":    {Ru: "Итоговая сумма", Ky: "Жыйынтык сумма"},
	"activity":       {Ru: "Вид деятельности", Ky: "Иш түрү"},
	"taxOn100k":      {Ru: "Налог со 100 000 сом", Ky: "100 000 сомдон салык"},
	"taxOn500k":      {Ru: "Налог с 500 000 сом", Ky: "500 000 сомдон салык"},
	"cities":         {Ru: "Населённые пункты", Ky: "Калктуу конуштар"},
	"city":           {Ru: "Город", Ky: "Шаар"},
	"benefit":        {Ru: "Льготная площадь", Ky: "Жеңилдетилген аянт"},
	"apartment":      {Ru: "Квартира", Ky: "Батир"},
	"house":          {Ru: "Дом", Ky: "Үй"},
	"faq":            {Ru: "Частые вопросы", Ky: "Көп берилүүчү суроолор"},
	"allPages":       {Ru: "Все страницы", Ky: "Бардык барактар"},
	"months":         {Ru: "мес.", Ky: "ай"},
	"years":          {Ru: "лет", Ky: "жыл"},
	"sqm":            {Ru: "м²", Ky: "м²"},
	"otherLanguage":  {Ru: "Кыргызча", Ky: "Русский"},
}

func label(key, lang string) string {
	return labels[key].In(lang)
}

type link struct {
	Label string
	URL   string
}

type navCategory struct {
	Name  string
	Links []link
}

type table struct {
	Caption string
	Headers []string
	Rows    [][]string
}

type faqView struct {
	Question string
	Answer   string
}

type pageView struct {
	Lang          string
	SiteName      string
	Title         string
	Description   string
	Canonical     string
	Alternates    []site.Alternate
	JSONLD        template.JS
	Breadcrumbs   []schema.Crumb
	Navigation    []navCategory
	OtherLanguage link
	Calculator    string
	API           string
	Tables        []table
	FAQ           []faqView
	FAQTitle      string
	Links         []link
	LinksTitle    string
	Year          int
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePage"

	page, lang, ok := h.catalog.Resolve(r.URL.Path)
	if !ok {
		h.handleNotFound(w, r)
		return
	}

	// Page URLs are canonical per language; an explicit ?lang=ky on a Russian
	// URL is sent to the Kyrgyz page.
	if lang == constants.LanguageRussian && r.URL.Query().Get("lang") == constants.LanguageKyrgyz {
		http.Redirect(w, r, h.catalog.Path(page, constants.LanguageKyrgyz), http.StatusFound)
		return
	}

	key := fmt.Sprintf("page:%s:%d:%s", lang, page.Kind, page.ID)
	data, err := h.cached(key, func() ([]byte, error) {
		return h.renderPage(page, lang)
	})
	if err != nil {
		LoggerFromContext(r.Context(), h.logger).Error("failed to render page",
			zap.String("op", op),
			zap.String("page", page.ID),
			zap.String("lang", lang),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		LoggerFromContext(r.Context(), h.logger).Debug("failed to write page", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) renderPage(page site.Page, lang string) ([]byte, error) {
	jsonLD, err := schema.Marshal(h.catalog.Schemas(h.schema, page, lang)...)
	if err != nil {
		return nil, err
	}

	other := constants.LanguageKyrgyz
	if lang == constants.LanguageKyrgyz {
		other = constants.LanguageRussian
	}

	view := pageView{
		Lang:          lang,
		SiteName:      h.siteName,
		Title:         page.Title.In(lang),
		Description:   page.Description.In(lang),
		Canonical:     h.catalog.URL(page, lang),
		Alternates:    h.catalog.Alternates(page),
		JSONLD:        template.JS(jsonLD),
		Breadcrumbs:   h.catalog.Breadcrumbs(page, lang),
		Navigation:    h.navigation(lang),
		OtherLanguage: link{Label: label("otherLanguage", lang), URL: h.catalog.Path(page, other)},
		Year:          h.now().Year(),
	}

	switch page.Kind {
	case site.Calculator:
		view.Calculator = page.ID
		view.API = "/api/calculate/" + page.ID
		view.Tables = h.calculatorTables(page.ID, lang)
		for _, f := range page.FAQ {
			view.FAQ = append(view.FAQ, faqView{Question: f.Question.In(lang), Answer: f.Answer.In(lang)})
		}
		if len(view.FAQ) > 0 {
			view.FAQTitle = label("faq", lang)
		}
	case site.Static:
		if page.ID == "sitemap" {
			view.LinksTitle = label("allPages", lang)
			for _, p := range h.catalog.Pages() {
				view.Links = append(view.Links, link{Label: p.Title.In(lang), URL: h.catalog.Path(p, lang)})
			}
		}
	}

	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "page.html", view); err != nil {
		return nil, fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *handler) navigation(lang string) []navCategory {
	var nav []navCategory
	for _, c := range h.catalog.Categories() {
		category := navCategory{Name: c.Name.In(lang)}
		for _, p := range h.catalog.Calculators() {
			if p.Category == c.ID {
				category.Links = append(category.Links, link{Label: p.Title.In(lang), URL: h.catalog.Path(p, lang)})
			}
		}
		nav = append(nav, category)
	}
	return nav
}

// calculatorTables returns the reference tables shown under a calculator: the
// bank offers and the popular scenarios, or the rate and city lists for the
// tax calculators.
func (h *handler) calculatorTables(id, lang string) []table {
	examples := h.offers.ComputedExamples()

	switch id {
	case "auto-loan":
		offerRows := make([][]string, 0, len(h.offers.AutoLoan))
		for _, o := range h.offers.AutoLoan {
			offerRows = append(offerRows, []string{h.offers.BankName(o.Bank, lang), format.Percent(o.Rate), months(o.MaxTermMonths, lang)})
		}
		exampleRows := make([][]string, 0, len(examples.AutoLoan))
		for _, e := range examples.AutoLoan {
			exampleRows = append(exampleRows, []string{
				format.Amount(e.Input.Principal, ""),
				format.Amount(e.Input.DownPayment, ""),
				months(e.Input.TermMonths, lang),
				format.Percent(e.Input.AnnualRatePercent),
				format.Amount(e.Result.MonthlyPayment, ""),
				format.Amount(e.Result.Overpayment, ""),
			})
		}
		return []table{
			{Caption: label("offers", lang), Headers: headers(lang, "bank", "rate", "maxTerm"), Rows: offerRows},
			{Caption: label("examples", lang), Headers: headers(lang, "price", "downPayment", "term", "rate", "monthlyPayment", "overpayment"), Rows: exampleRows},
		}
	case "loan":
		offerRows := make([][]string, 0, len(h.offers.Loan))
		for _, o := range h.offers.Loan {
			offerRows = append(offerRows, []string{h.offers.BankName(o.Bank, lang), format.Percent(o.Rate)})
		}
		exampleRows := make([][]string, 0, len(examples.Loan))
		for _, e := range examples.Loan {
			exampleRows = append(exampleRows, []string{
				format.Amount(e.Input.Amount, ""),
				months(e.Input.TermMonths, lang),
				format.Percent(e.Input.AnnualRatePercent),
				format.Amount(e.Result.MonthlyPayment, ""),
				format.Amount(e.Result.Overpayment, ""),
			})
		}
		return []table{
			{Caption: label("offers", lang), Headers: headers(lang, "bank", "rate"), Rows: offerRows},
			{Caption: label("examples", lang), Headers: headers(lang, "amount", "term", "rate", "monthlyPayment", "overpayment"), Rows: exampleRows},
		}
	case "mortgage":
		offerRows := make([][]string, 0, len(h.offers.Mortgage))
		for _, o := range h.offers.Mortgage {
			offerRows = append(offerRows, []string{
				h.offers.BankName(o.Bank, lang),
				format.Percent(o.MinRate) + " - " + format.Percent(o.MaxRate),
				years(o.MaxTermYears, lang),
			})
		}
		exampleRows := make([][]string, 0, len(examples.Mortgage))
		for _, e := range examples.Mortgage {
			exampleRows = append(exampleRows, []string{
				format.Amount(e.Input.PropertyValue, ""),
				format.Amount(e.Input.DownPayment, ""),
				years(e.Input.TermYears, lang),
				format.Percent(e.Input.AnnualRatePercent),
				format.Amount(e.Result.MonthlyPayment, ""),
				format.Amount(e.Result.Overpayment, ""),
			})
		}
		return []table{
			{Caption: label("offers", lang), Headers: headers(lang, "bank", "rates", "maxTerm"), Rows: offerRows},
			{Caption: label("examples", lang), Headers: headers(lang, "price", "downPayment", "term", "rate", "monthlyPayment", "overpayment"), Rows: exampleRows},
		}
	case "deposit":
		return []table{
			{Caption: label("offers", lang), Headers: headers(lang, "bank", "rates", "currencies"), Rows: depositOfferRows(h.offers, lang)},
			{Caption: label("examples", lang), Headers: headers(lang, "amount", "term", "rate", "interest", "finalAmount"), Rows: depositExampleRows(examples, lang)},
		}
	case "single-tax":
		var rows [][]string
		for _, row := range tax.RateTable() {
			rows = append(rows, []string{
				row.Activity.Name.In(lang),
				format.Percent(row.Activity.RatePercent),
				format.Amount(row.TaxOn100K, ""),
				format.Amount(row.TaxOn500K, ""),
			})
		}
		return []table{{Caption: label("rates", lang), Headers: headers(lang, "activity", "rate", "taxOn100k", "taxOn500k"), Rows: rows}}
	case "property-tax":
		benefits := [][]string{
			{label("apartment", lang), fmt.Sprintf("%.0f %s", tax.Apartment.BenefitArea(), label("sqm", lang))},
			{label("house", lang), fmt.Sprintf("%.0f %s", tax.House.BenefitArea(), label("sqm", lang))},
		}
		var cities [][]string
		for _, c := range tax.Cities() {
			cities = append(cities, []string{c.Name.In(lang)})
		}
		return []table{
			{Caption: label("benefit", lang), Rows: benefits},
			{Caption: label("cities", lang), Headers: headers(lang, "city"), Rows: cities},
		}
	}
	return nil
}

func depositOfferRows(c *offers.Catalog, lang string) [][]string {
	rows := make([][]string, 0, len(c.Deposit))
	for _, o := range c.Deposit {
		rows = append(rows, []string{
			c.BankName(o.Bank, lang),
			format.Percent(o.MinRate) + " - " + format.Percent(o.MaxRate),
			strings.Join(o.Currencies, ", "),
		})
	}
	return rows
}

func depositExampleRows(examples offers.ExampleSet, lang string) [][]string {
	rows := make([][]string, 0, len(examples.Deposit))
	for _, e := range examples.Deposit {
		rows = append(rows, []string{
			format.Amount(e.Input.Principal, e.Input.Currency),
			months(e.Input.TermMonths, lang),
			format.Percent(e.Input.AnnualRatePercent),
			format.Amount(e.Result.InterestEarned, e.Input.Currency),
			format.Amount(e.Result.FinalAmount, e.Input.Currency),
		})
	}
	return rows
}

func headers(lang string, keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, label(k, lang))
	}
	return out
}

func months(n int, lang string) string {
	return fmt.Sprintf("%d %s", n, label("months", lang))
}

func years(n int, lang string) string {
	return fmt.Sprintf("%d %s", n, label("years", lang))
}

func (h *handler) handleSitemap(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSitemap"

	data, err := h.cached("sitemap", func() ([]byte, error) {
		return h.catalog.Sitemap(h.now())
	})
	if err != nil {
		LoggerFromContext(r.Context(), h.logger).Error("failed to render sitemap", zap.String("op", op), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		LoggerFromContext(r.Context(), h.logger).Debug("failed to write sitemap", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(h.catalog.Robots())); err != nil {
		LoggerFromContext(r.Context(), h.logger).Debug("failed to write robots.txt", zap.String("op", "server.handleRobots"), zap.Error(err))
	}
}
