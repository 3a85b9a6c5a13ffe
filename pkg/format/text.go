package format

import "github.com/calk-kg/calk/pkg/constants"

// Text is a display string in each site language.
type Text struct {
	Ru string `json:"ru" yaml:"ru"`
	Ky string `json:"ky" yaml:"ky"`
}

// In returns the text for lang, falling back to Russian when the Kyrgyz
// translation is missing or the language is unknown.
func (t Text) In(lang string) string {
	if lang == constants.LanguageKyrgyz && t.Ky != "" {
		return t.Ky
	}
	return t.Ru
}
