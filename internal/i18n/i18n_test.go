package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		lang Lang
		key  string
		want string
	}{
		{ZH, "validation.fillField", "請填寫"},
		{EN, "validation.fillField", "Please fill in "},
		{ZH, "form.gameType.fullCourt", "全場"},
		{EN, "form.gameType.halfCourt", "Half Court"},
		{ZH, "status.today", "今日"},
		{ZH, "status.upcoming", "即將舉行"},
		{ZH, "status.past", "已完成"},
		{EN, "modal.bookingId", "Booking ID:"},
		{ZH, "timetable.noEvents", "暫無活動安排"},
		{EN, "no.such.key", ""},
		{EN, "form", ""},
		{EN, "form.submit.extra", ""},
		{Lang("fr"), "status.today", "今日"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.lang, tt.key))
		})
	}
}

func TestT_FallsBackToKey(t *testing.T) {
	assert.Equal(t, "Book Now", T(EN, "form.submit"))
	assert.Equal(t, "missing.key", T(EN, "missing.key"))
}

func TestDictionariesHaveSameKeys(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	var walk func(prefix string, m map[string]interface{}, fn func(string))
	walk = func(prefix string, m map[string]interface{}, fn func(string)) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := v.(map[string]interface{}); ok {
				walk(key, sub, fn)
				continue
			}
			fn(key)
		}
	}

	walk("", b.dicts[ZH], func(key string) {
		assert.NotEmpty(t, b.Lookup(EN, key), "en is missing %s", key)
	})
	walk("", b.dicts[EN], func(key string) {
		assert.NotEmpty(t, b.Lookup(ZH, key), "zh is missing %s", key)
	})
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		accept string
		want   Lang
	}{
		{"default", "", "", ZH},
		{"query en", "en", "zh-HK", EN},
		{"query zh", "zh", "en-US", ZH},
		{"bad query falls through", "xx-invalid-!!", "en-GB,en;q=0.9", EN},
		{"accept hong kong chinese", "", "zh-HK,zh;q=0.9", ZH},
		{"accept english", "", "en-US,en;q=0.8", EN},
		{"accept unsupported", "", "fr-FR", ZH},
		{"malformed header", "", ";;;", ZH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.query, tt.accept))
		})
	}
}

func TestParseLang(t *testing.T) {
	lang, err := ParseLang("zh-HK")
	require.NoError(t, err)
	assert.Equal(t, ZH, lang)

	lang, err = ParseLang("EN")
	require.NoError(t, err)
	assert.Equal(t, EN, lang)

	_, err = ParseLang("de")
	assert.Error(t, err)
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday, January 6, 2025", FormatLongDate(EN, d))
	assert.Equal(t, "2025年1月6日星期一", FormatLongDate(ZH, d))
}

func TestFormatTimestamp(t *testing.T) {
	d := time.Date(2025, 1, 6, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "01/06/2025, 02:05 PM", FormatTimestamp(EN, d))
	assert.Equal(t, "2025/01/06 14:05", FormatTimestamp(ZH, d))
}
