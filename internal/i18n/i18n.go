// Package i18n holds the bilingual text of the booking widget and the sheet
// pages, and picks a language for a request.
package i18n

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Lang is a supported display language
type Lang string

const (
	ZH Lang = "zh"
	EN Lang = "en"

	// DefaultLang is used when nothing else matches
	DefaultLang = ZH
)

// Supported lists the languages in preference order
var Supported = []Lang{ZH, EN}

var (
	matchTags = []language.Tag{
		language.Chinese,
		language.TraditionalChinese,
		language.English,
	}
	matchLangs = []Lang{ZH, ZH, EN}
	matcher    = language.NewMatcher(matchTags)
)

// ParseLang validates a language code such as "en" or "zh-HK"
func ParseLang(s string) (Lang, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language: %q", s)
	}
	return matchLangs[idx], nil
}

// Negotiate picks the display language. An explicit query value wins,
// then the Accept-Language header, then DefaultLang.
func Negotiate(query, acceptLanguage string) Lang {
	if query != "" {
		if lang, err := ParseLang(query); err == nil {
			return lang
		}
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return matchLangs[idx]
}

// Bundle is a set of nested dictionaries keyed by language
type Bundle struct {
	dicts map[Lang]map[string]interface{}
}

// Load reads the embedded dictionaries
func Load() (*Bundle, error) {
	b := &Bundle{dicts: make(map[Lang]map[string]interface{})}
	for _, lang := range Supported {
		data, err := localeFS.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("reading %s dictionary: %w", lang, err)
		}
		dict := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &dict); err != nil {
			return nil, fmt.Errorf("parsing %s dictionary: %w", lang, err)
		}
		b.dicts[lang] = dict
	}
	return b, nil
}

// Lookup walks a dotted key such as "validation.fillField". It returns ""
// for unknown keys and for keys naming a section rather than a text.
func (b *Bundle) Lookup(lang Lang, key string) string {
	dict, ok := b.dicts[lang]
	if !ok {
		dict = b.dicts[DefaultLang]
	}

	var node interface{} = dict
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return ""
		}
		node, ok = m[part]
		if !ok {
			return ""
		}
	}

	s, _ := node.(string)
	return s
}

// T is Lookup for templates: a missing text renders as its key
func (b *Bundle) T(lang Lang, key string) string {
	if s := b.Lookup(lang, key); s != "" {
		return s
	}
	return key
}

var defaultBundle = mustLoad()

func mustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// Default returns the bundle built from the embedded dictionaries
func Default() *Bundle {
	return defaultBundle
}

// Lookup reads a text from the default bundle
func Lookup(lang Lang, key string) string {
	return defaultBundle.Lookup(lang, key)
}

// T reads a text from the default bundle, falling back to the key
func T(lang Lang, key string) string {
	return defaultBundle.T(lang, key)
}

var zhWeekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// FormatLongDate renders a date with weekday, e.g. "Monday, January 6, 2025"
// or "2025年1月6日星期一"
func FormatLongDate(lang Lang, t time.Time) string {
	if lang == ZH {
		return fmt.Sprintf("%d年%d月%d日%s", t.Year(), int(t.Month()), t.Day(), zhWeekdays[t.Weekday()])
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatTimestamp renders a date and time to the minute, e.g.
// "01/06/2025, 02:05 PM" or "2025/01/06 14:05"
func FormatTimestamp(lang Lang, t time.Time) string {
	if lang == ZH {
		return t.Format("2006/01/02 15:04")
	}
	return t.Format("01/02/2006, 03:04 PM")
}
