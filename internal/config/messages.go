package config

import (
	_ "embed"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// supportedLanguages is ordered by preference; the first entry is the fallback.
var supportedLanguages = []language.Tag{language.Indonesian, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

// timeLayouts mirror the browser's toLocaleString output for each language.
var timeLayouts = map[string]string{
	"id": "2/1/2006, 15.04.05",
	"en": "1/2/2006, 3:04:05 PM",
}

// Messages is a flat, language-resolved view of the embedded message catalog.
type Messages struct {
	lang     string
	texts    map[string]string
	fallback map[string]string
}

// LoadMessages resolves lang (a BCP 47 tag, possibly empty or unknown) against the
// supported languages and returns the matching catalog.
func LoadMessages(lang string) (*Messages, error) {
	var catalog map[string]map[string]string
	if err := yaml.Unmarshal(messagesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal message catalog: %w", err)
	}

	_, idx, _ := languageMatcher.Match(language.Make(lang))
	base, _ := supportedLanguages[idx].Base()
	fallback, _ := supportedLanguages[0].Base()

	m := &Messages{
		lang:     base.String(),
		texts:    make(map[string]string, len(catalog)),
		fallback: make(map[string]string, len(catalog)),
	}
	for key, byLang := range catalog {
		m.texts[key] = byLang[m.lang]
		m.fallback[key] = byLang[fallback.String()]
	}
	return m, nil
}

// Language returns the resolved base language ("id" or "en").
func (m *Messages) Language() string {
	return m.lang
}

// Text returns the message for key, falling back to the default language and
// finally to the key itself so a missing entry is visible rather than blank.
func (m *Messages) Text(key string) string {
	if s := m.texts[key]; s != "" {
		return s
	}
	if s := m.fallback[key]; s != "" {
		return s
	}
	return key
}

// FormatTime renders t the way the kiosk shows check-in times.
func (m *Messages) FormatTime(t time.Time) string {
	layout, ok := timeLayouts[m.lang]
	if !ok {
		layout = time.DateTime
	}
	return t.Local().Format(layout)
}
