package site

import (
	"net/http"
	"strings"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/calk-kg/calk/pkg/validation"
	"golang.org/x/text/language"
)

var (
	supported = []language.Tag{language.Russian, language.Make(constants.LanguageKyrgyz)}
	matcher   = language.NewMatcher(supported)
)

// Negotiate picks the page language for a request. A /ky path prefix wins,
// then the lang query parameter, then the Accept-Language header. Russian is
// the default.
func Negotiate(r *http.Request) string {
	if r.URL.Path == "/ky" || strings.HasPrefix(r.URL.Path, "/ky/") {
		return constants.LanguageKyrgyz
	}

	if lang := r.URL.Query().Get("lang"); validation.ValidateLanguage(lang) == nil {
		return lang
	}

	return MatchAcceptLanguage(r.Header.Get("Accept-Language"))
}

// MatchAcceptLanguage returns the supported language that best matches an
// Accept-Language header value.
func MatchAcceptLanguage(header string) string {
	if header == "" {
		return constants.LanguageRussian
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return constants.LanguageRussian
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return constants.LanguageRussian
	}
	base, _ := supported[index].Base()
	return base.String()
}
