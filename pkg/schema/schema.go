// Package schema builds schema.org JSON-LD documents for the site's pages.
//
// Every generator is a pure function of its arguments and the generator's
// clock, so the same page always yields the same document on a given day.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/calk-kg/calk/pkg/constants"
)

const (
	// Context is the JSON-LD vocabulary of every document.
	Context = "https://schema.org"

	dateLayout    = "2006-01-02"
	datePublished = "2026-01-15"
	countryName   = "Кыргызстан"
)

// Site describes the publisher of the pages.
type Site struct {
	Name          string
	AlternateName string
	URL           string
	Email         string
	Description   string
}

// DefaultSite returns the publisher details of calk.kg.
func DefaultSite() Site {
	return Site{
		Name:          constants.DefaultSiteName,
		AlternateName: "Калькуляторы Кыргызстана",
		URL:           constants.DefaultBaseURL,
		Email:         constants.DefaultContactEmail,
		Description:   "Самая полная коллекция онлайн-калькуляторов для жителей Кыргызстана",
	}
}

// Page is the metadata shared by every page.
type Page struct {
	URL         string
	Title       string
	Description string
	Language    string
}

// CalculatorPage adds calculator specific metadata to a page.
type CalculatorPage struct {
	Page
	Name     string
	Category string
	Inputs   []string
	Outputs  []string
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	Name string
	URL  string
}

// FAQ is a question with its answer.
type FAQ struct {
	Question string
	Answer   string
}

// Ref is a nested typed entity such as an author or a country.
type Ref struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// EntryPoint is the target of a search action.
type EntryPoint struct {
	Type        string `json:"@type"`
	URLTemplate string `json:"urlTemplate"`
}

// SearchAction describes the site search.
type SearchAction struct {
	Type       string     `json:"@type"`
	Target     EntryPoint `json:"target"`
	QueryInput string     `json:"query-input"`
}

// WebSite is the home page document.
type WebSite struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	Name            string       `json:"name"`
	AlternateName   string       `json:"alternateName,omitempty"`
	URL             string       `json:"url"`
	Description     string       `json:"description"`
	InLanguage      []string     `json:"inLanguage"`
	PotentialAction SearchAction `json:"potentialAction"`
	Publisher       Ref          `json:"publisher"`
}

// ContactPoint is an organization's contact channel.
type ContactPoint struct {
	Type              string   `json:"@type"`
	Email             string   `json:"email"`
	ContactType       string   `json:"contactType"`
	AvailableLanguage []string `json:"availableLanguage"`
}

// PostalAddress is a location in Kyrgyzstan.
type PostalAddress struct {
	Type            string `json:"@type"`
	AddressCountry  string `json:"addressCountry"`
	AddressRegion   string `json:"addressRegion"`
	AddressLocality string `json:"addressLocality"`
}

// Organization describes the publisher.
type Organization struct {
	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Name          string        `json:"name"`
	URL           string        `json:"url"`
	Logo          string        `json:"logo"`
	Description   string        `json:"description"`
	ContactPoint  ContactPoint  `json:"contactPoint"`
	Address       PostalAddress `json:"address"`
	AreaServed    Ref           `json:"areaServed"`
	KnowsLanguage []string      `json:"knowsLanguage"`
}

// Audience limits a calculator to a geographic area.
type Audience struct {
	Type           string `json:"@type"`
	GeographicArea Ref    `json:"geographicArea"`
}

// Calculator is the document of a calculator page.
type Calculator struct {
	Context             string   `json:"@context"`
	Type                []string `json:"@type"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	URL                 string   `json:"url"`
	ApplicationCategory string   `json:"applicationCategory"`
	OperatingSystem     string   `json:"operatingSystem"`
	BrowserRequirements string   `json:"browserRequirements"`
	InLanguage          string   `json:"inLanguage"`
	IsAccessibleForFree bool     `json:"isAccessibleForFree"`
	Creator             Ref      `json:"creator"`
	Audience            Audience `json:"audience"`
	About               Ref      `json:"about"`
	UsageInfo           string   `json:"usageInfo"`
	SoftwareVersion     string   `json:"softwareVersion"`
	DateModified        string   `json:"dateModified"`
}

// ListItem is one position in a breadcrumb list.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// BreadcrumbList is the navigation trail of a page.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// Offer is the price of an application.
type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
}

// AggregateRating is the published rating of an application.
type AggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount string `json:"reviewCount"`
	BestRating  string `json:"bestRating"`
	WorstRating string `json:"worstRating"`
}

// SoftwareApplication presents a calculator as a free finance tool.
type SoftwareApplication struct {
	Context             string          `json:"@context"`
	Type                string          `json:"@type"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	URL                 string          `json:"url"`
	ApplicationCategory string          `json:"applicationCategory"`
	OperatingSystem     string          `json:"operatingSystem"`
	BrowserRequirements string          `json:"browserRequirements"`
	SoftwareVersion     string          `json:"softwareVersion"`
	DatePublished       string          `json:"datePublished"`
	Creator             Ref             `json:"creator"`
	Offers              Offer           `json:"offers"`
	AggregateRating     AggregateRating `json:"aggregateRating"`
	FeatureList         []string        `json:"featureList"`
	Screenshot          string          `json:"screenshot"`
}

// WebPage is the document of an informational page.
type WebPage struct {
	Context      string `json:"@context"`
	Type         string `json:"@type"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	InLanguage   string `json:"inLanguage"`
	IsPartOf     *Ref   `json:"isPartOf,omitempty"`
	Author       Ref    `json:"author"`
	DateModified string `json:"dateModified,omitempty"`
	MainEntity   Ref    `json:"mainEntity"`
}

// Answer is the accepted answer of a question.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Question is one FAQ entry.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// FAQPage lists the questions answered on a page.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// GeoCoordinates is a point on the map.
type GeoCoordinates struct {
	Type      string `json:"@type"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// LocalBusiness places the service in Bishkek.
type LocalBusiness struct {
	Context     string         `json:"@context"`
	Type        string         `json:"@type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Email       string         `json:"email"`
	Address     PostalAddress  `json:"address"`
	Geo         GeoCoordinates `json:"geo"`
	AreaServed  Ref            `json:"areaServed"`
	ServiceType string         `json:"serviceType"`
}

// Generator builds documents for one site.
type Generator struct {
	site Site
	now  func() time.Time
}

// NewGenerator returns a generator for site. A nil clock uses time.Now.
func NewGenerator(site Site, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	site.URL = strings.TrimRight(site.URL, "/")
	return &Generator{site: site, now: now}
}

func (g *Generator) today() string {
	return g.now().UTC().Format(dateLayout)
}

func (g *Generator) publisher() Ref {
	return Ref{Type: "Organization", Name: g.site.Name, URL: g.site.URL}
}

func language(lang string) string {
	if lang == "" {
		return constants.LanguageRussian
	}
	return lang
}

// WebSite returns the home page document.
func (g *Generator) WebSite(description string) WebSite {
	return WebSite{
		Context:       Context,
		Type:          "WebSite",
		Name:          g.site.Name,
		AlternateName: g.site.AlternateName,
		URL:           g.site.URL,
		Description:   description,
		InLanguage:    []string{constants.LanguageRussian, constants.LanguageKyrgyz},
		PotentialAction: SearchAction{
			Type: "SearchAction",
			Target: EntryPoint{
				Type:        "EntryPoint",
				URLTemplate: g.site.URL + "/?search={search_term_string}",
			},
			QueryInput: "required name=search_term_string",
		},
		Publisher: g.publisher(),
	}
}

// Organization returns the publisher document.
func (g *Generator) Organization() Organization {
	return Organization{
		Context:     Context,
		Type:        "Organization",
		Name:        g.site.Name,
		URL:         g.site.URL,
		Logo:        g.site.URL + "/logo.png",
		Description: g.site.Description,
		ContactPoint: ContactPoint{
			Type:              "ContactPoint",
			Email:             g.site.Email,
			ContactType:       "customer service",
			AvailableLanguage: []string{"Russian", "Kyrgyz"},
		},
		Address:       bishkek(),
		AreaServed:    Ref{Type: "Country", Name: countryName},
		KnowsLanguage: []string{constants.LanguageRussian, constants.LanguageKyrgyz},
	}
}

// Calculator returns the document of a calculator page.
func (g *Generator) Calculator(p CalculatorPage) Calculator {
	return Calculator{
		Context:             Context,
		Type:                []string{"WebApplication", "Calculator"},
		Name:                p.Name,
		Description:         p.Description,
		URL:                 p.URL,
		ApplicationCategory: "BusinessApplication",
		OperatingSystem:     "Any",
		BrowserRequirements: "Requires JavaScript",
		InLanguage:          language(p.Language),
		IsAccessibleForFree: true,
		Creator:             g.publisher(),
		Audience: Audience{
			Type:           "Audience",
			GeographicArea: Ref{Type: "Country", Name: countryName},
		},
		About:           Ref{Type: "Thing", Name: p.Category},
		UsageInfo:       p.URL,
		SoftwareVersion: constants.SoftwareVersion,
		DateModified:    g.today(),
	}
}

// SoftwareApplication returns the application document of a calculator page.
func (g *Generator) SoftwareApplication(p CalculatorPage) SoftwareApplication {
	features := p.Inputs
	if features == nil {
		features = []string{}
	}
	return SoftwareApplication{
		Context:             Context,
		Type:                "SoftwareApplication",
		Name:                p.Name,
		Description:         p.Description,
		URL:                 p.URL,
		ApplicationCategory: "FinanceApplication",
		OperatingSystem:     "Any",
		BrowserRequirements: "Requires JavaScript",
		SoftwareVersion:     constants.SoftwareVersion,
		DatePublished:       datePublished,
		Creator:             g.publisher(),
		Offers: Offer{
			Type:          "Offer",
			Price:         "0",
			PriceCurrency: constants.CurrencyKGS,
			Availability:  "https://schema.org/InStock",
		},
		AggregateRating: AggregateRating{
			Type:        "AggregateRating",
			RatingValue: "4.8",
			ReviewCount: "1250",
			BestRating:  "5",
			WorstRating: "1",
		},
		FeatureList: features,
		Screenshot:  strings.TrimRight(p.URL, "/") + "/preview.png",
	}
}

// Breadcrumbs returns the trail with positions numbered from one.
func (g *Generator) Breadcrumbs(crumbs []Crumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, ListItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: c.URL})
	}
	return BreadcrumbList{Context: Context, Type: "BreadcrumbList", ItemListElement: items}
}

// WebPage returns the document of an informational page.
func (g *Generator) WebPage(p Page) WebPage {
	return WebPage{
		Context:      Context,
		Type:         "WebPage",
		Name:         p.Title,
		Description:  p.Description,
		URL:          p.URL,
		InLanguage:   language(p.Language),
		IsPartOf:     &Ref{Type: "WebSite", Name: g.site.Name, URL: g.site.URL},
		Author:       g.publisher(),
		DateModified: g.today(),
		MainEntity:   Ref{Type: "Thing", Name: p.Title, Description: p.Description},
	}
}

// AboutPage returns the document of the about page.
func (g *Generator) AboutPage(p Page) WebPage {
	return WebPage{
		Context:     Context,
		Type:        "AboutPage",
		Name:        p.Title,
		Description: p.Description,
		URL:         p.URL,
		InLanguage:  language(p.Language),
		Author:      g.publisher(),
		MainEntity: Ref{
			Type:        "Organization",
			Name:        g.site.Name,
			URL:         g.site.URL,
			Description: g.site.Description,
		},
	}
}

// FAQPage returns the question list document.
func (g *Generator) FAQPage(faqs []FAQ) FAQPage {
	questions := make([]Question, 0, len(faqs))
	for _, f := range faqs {
		questions = append(questions, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return FAQPage{Context: Context, Type: "FAQPage", MainEntity: questions}
}

// LocalBusiness returns the regional service document.
func (g *Generator) LocalBusiness() LocalBusiness {
	return LocalBusiness{
		Context:     Context,
		Type:        "LocalBusiness",
		Name:        g.site.Name,
		Description: "Онлайн калькуляторы для жителей Кыргызстана",
		URL:         g.site.URL,
		Email:       g.site.Email,
		Address:     bishkek(),
		Geo:         GeoCoordinates{Type: "GeoCoordinates", Latitude: "42.8746", Longitude: "74.5698"},
		AreaServed:  Ref{Type: "Country", Name: countryName},
		ServiceType: "Финансовые калькуляторы и консультации",
	}
}

func bishkek() PostalAddress {
	return PostalAddress{
		Type:            "PostalAddress",
		AddressCountry:  "KG",
		AddressRegion:   "Чуйская область",
		AddressLocality: "Бишкек",
	}
}

// Marshal encodes documents for a <script type="application/ld+json"> block.
// A single document is encoded as an object, several as an array.
func Marshal(docs ...any) ([]byte, error) {
	var v any = docs
	if len(docs) == 1 {
		v = docs[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal structured data: %w", err)
	}
	return data, nil
}
