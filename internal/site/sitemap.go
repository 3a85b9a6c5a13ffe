package site

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calk-kg/calk/pkg/constants"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNamespace   = "http://www.w3.org/1999/xhtml"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	Xhtml   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	Links      []xhtmlLink `xml:"xhtml:link"`
	LastMod    string      `xml:"lastmod"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders sitemap.xml with every page in both languages. Each entry
// lists its language alternates.
func (c *Catalog) Sitemap(lastMod time.Time) ([]byte, error) {
	set := urlset{Xmlns: sitemapNamespace, Xhtml: xhtmlNamespace}
	date := lastMod.UTC().Format("2006-01-02")

	for _, p := range c.pages {
		links := make([]xhtmlLink, 0, 3)
		for _, alt := range c.Alternates(p) {
			links = append(links, xhtmlLink{Rel: "alternate", Hreflang: alt.Lang, Href: alt.URL})
		}
		for _, lang := range []string{constants.LanguageRussian, constants.LanguageKyrgyz} {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        c.URL(p, lang),
				Links:      links,
				LastMod:    date,
				ChangeFreq: p.ChangeFreq,
				Priority:   priority(p.Priority),
			})
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func priority(p float64) string {
	if p <= 0 {
		return ""
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Robots renders robots.txt. The JSON API and metrics are kept out of search
// indexes.
func (c *Catalog) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /metrics\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", c.baseURL)
	return b.String()
}
