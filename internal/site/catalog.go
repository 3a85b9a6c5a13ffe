// Package site describes the pages of calk.kg: the calculator and static page
// catalogue, their URLs in each language, breadcrumbs, structured data and the
// crawler files.
package site

import (
	"fmt"
	"strings"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/format"
	"github.com/calk-kg/calk/pkg/schema"
)

// Kind distinguishes the home page, calculators and informational pages.
type Kind int

const (
	Home Kind = iota
	Calculator
	Static
)

// Category groups calculators on the home page.
type Category struct {
	ID   string      `json:"id"`
	Name format.Text `json:"name"`
}

// FAQ is a localized question shown on a calculator page.
type FAQ struct {
	Question format.Text
	Answer   format.Text
}

// Page is one entry of the catalogue.
type Page struct {
	ID          string
	Kind        Kind
	Category    string
	Title       format.Text
	Description format.Text
	Inputs      []string
	Outputs     []string
	FAQ         []FAQ
	ChangeFreq  string
	Priority    float64
}

// Alternate is the URL of a page in one language. Lang "x-default" marks the
// fallback version.
type Alternate struct {
	Lang string `json:"lang"`
	URL  string `json:"url"`
}

// Catalog resolves pages and builds their URLs against a base URL.
type Catalog struct {
	baseURL    string
	categories []Category
	pages      []Page
}

// NewCatalog returns the catalogue of the site published at baseURL.
func NewCatalog(baseURL string) *Catalog {
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	return &Catalog{
		baseURL:    strings.TrimRight(baseURL, "/"),
		categories: categories,
		pages:      pages,
	}
}

// BaseURL returns the canonical origin without a trailing slash.
func (c *Catalog) BaseURL() string {
	return c.baseURL
}

// Categories returns the calculator categories.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Pages returns every page in sitemap order, home first.
func (c *Catalog) Pages() []Page {
	return c.pages
}

// Calculators returns the calculator pages.
func (c *Catalog) Calculators() []Page {
	return c.byKind(Calculator)
}

// StaticPages returns the informational pages.
func (c *Catalog) StaticPages() []Page {
	return c.byKind(Static)
}

func (c *Catalog) byKind(kind Kind) []Page {
	var out []Page
	for _, p := range c.pages {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Lookup returns the page of the given kind and id.
func (c *Catalog) Lookup(kind Kind, id string) (Page, bool) {
	for _, p := range c.pages {
		if p.Kind == kind && p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// Path returns the site-relative path of a page in lang. Kyrgyz pages live
// under /ky.
func (c *Catalog) Path(p Page, lang string) string {
	var path string
	switch p.Kind {
	case Home:
		path = "/"
	case Calculator:
		path = "/calculator/" + p.ID
	default:
		path = "/" + p.ID
	}
	if lang != constants.LanguageKyrgyz {
		return path
	}
	if path == "/" {
		return "/ky"
	}
	return "/ky" + path
}

// URL returns the absolute canonical URL of a page in lang. The Russian home
// page is the bare origin.
func (c *Catalog) URL(p Page, lang string) string {
	path := c.Path(p, lang)
	if path == "/" {
		return c.baseURL
	}
	return c.baseURL + path
}

// Alternates returns the hreflang links of a page: Russian, Kyrgyz and the
// Russian version as x-default.
func (c *Catalog) Alternates(p Page) []Alternate {
	ru := c.URL(p, constants.LanguageRussian)
	return []Alternate{
		{Lang: constants.LanguageRussian, URL: ru},
		{Lang: constants.LanguageKyrgyz, URL: c.URL(p, constants.LanguageKyrgyz)},
		{Lang: "x-default", URL: ru},
	}
}

// Resolve maps a request path to a page and its language.
func (c *Catalog) Resolve(path string) (Page, string, bool) {
	lang := constants.LanguageRussian
	rest := strings.TrimSuffix(path, "/")
	if rest == "/ky" || strings.HasPrefix(rest, "/ky/") {
		lang = constants.LanguageKyrgyz
		rest = strings.TrimPrefix(rest, "/ky")
	}

	switch {
	case rest == "":
		p, ok := c.Lookup(Home, "")
		return p, lang, ok
	case strings.HasPrefix(rest, "/calculator/"):
		p, ok := c.Lookup(Calculator, strings.TrimPrefix(rest, "/calculator/"))
		return p, lang, ok
	default:
		p, ok := c.Lookup(Static, strings.TrimPrefix(rest, "/"))
		return p, lang, ok
	}
}

// Breadcrumbs returns the navigation trail of a page: home, then the category
// for calculators, then the page itself.
func (c *Catalog) Breadcrumbs(p Page, lang string) []schema.Crumb {
	home, _ := c.Lookup(Home, "")
	homeURL := c.URL(home, lang)
	crumbs := []schema.Crumb{{Name: homeTitle.In(lang), URL: homeURL}}
	if p.Kind == Home {
		return crumbs
	}

	if p.Kind == Calculator {
		if cat, ok := c.Category(p.Category); ok {
			crumbs = append(crumbs, schema.Crumb{
				Name: cat.Name.In(lang),
				URL:  fmt.Sprintf("%s?category=%s", homeURL, cat.ID),
			})
		}
	}
	return append(crumbs, schema.Crumb{Name: p.Title.In(lang), URL: c.URL(p, lang)})
}

// Schemas returns the structured data documents of a page.
func (c *Catalog) Schemas(g *schema.Generator, p Page, lang string) []any {
	breadcrumbs := g.Breadcrumbs(c.Breadcrumbs(p, lang))
	meta := schema.Page{
		URL:         c.URL(p, lang),
		Title:       p.Title.In(lang),
		Description: p.Description.In(lang),
		Language:    lang,
	}

	switch p.Kind {
	case Home:
		return []any{g.WebSite(meta.Description), g.Organization(), breadcrumbs, g.LocalBusiness()}
	case Calculator:
		calc := schema.CalculatorPage{
			Page:     meta,
			Name:     meta.Title,
			Category: c.categoryName(p.Category, lang),
			Inputs:   p.Inputs,
			Outputs:  p.Outputs,
		}
		docs := []any{g.Calculator(calc), g.SoftwareApplication(calc), breadcrumbs}
		if len(p.FAQ) > 0 {
			faqs := make([]schema.FAQ, 0, len(p.FAQ))
			for _, f := range p.FAQ {
				faqs = append(faqs, schema.FAQ{Question: f.Question.In(lang), Answer: f.Answer.In(lang)})
			}
			docs = append(docs, g.FAQPage(faqs))
		}
		return docs
	}

	if p.ID == "about" {
		return []any{g.AboutPage(meta), g.Organization(), breadcrumbs}
	}
	return []any{g.WebPage(meta), breadcrumbs}
}

func (c *Catalog) categoryName(id, lang string) string {
	if cat, ok := c.Category(id); ok {
		return cat.Name.In(lang)
	}
	return id
}
