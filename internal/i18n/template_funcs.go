package i18n

import (
	"fmt"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// chinese mirrors timeago.English with Chinese wording.
var chinese = timeago.Config{
	PastPrefix:   "",
	PastSuffix:   "前",
	FuturePrefix: "",
	FutureSuffix: "后",

	Periods: []timeago.FormatPeriod{
		{D: time.Second, One: "1 秒", Many: "%d 秒"},
		{D: time.Minute, One: "1 分钟", Many: "%d 分钟"},
		{D: time.Hour, One: "1 小时", Many: "%d 小时"},
		{D: timeago.Day, One: "1 天", Many: "%d 天"},
		{D: timeago.Month, One: "1 个月", Many: "%d 个月"},
		{D: timeago.Year, One: "1 年", Many: "%d 年"},
	},

	Zero: "刚刚",

	Max:           73 * time.Hour,
	DefaultLayout: "2006-01-02",
}

// TimeAgo humanizes t relative to ref in lang.
func TimeAgo(lang string, t, ref time.Time) string {
	if t.IsZero() {
		return ""
	}
	cfg := timeago.English
	if lang == "zh" {
		cfg = chinese
	}
	return cfg.FormatReference(t, ref)
}

// asTime unwraps the time values templates pass to the date helpers:
// time.Time and wrappers exposing Std, such as models.Timestamp.
func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case interface{ Std() time.Time }:
		return t.Std()
	}
	return time.Time{}
}

// Printer formats numbers with the locale's grouping.
func Printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// TemplateFuncs returns the per-language helpers exposed to page templates.
// now is injected so rendered relative times are stable in tests.
func (i *I18n) TemplateFuncs(lang string, now func() time.Time) map[string]interface{} {
	if now == nil {
		now = time.Now
	}
	p := Printer(lang)
	t := func(key string, args ...interface{}) string {
		return i.T(lang, key, args...)
	}
	return map[string]interface{}{
		"t": t,
		"T": t,
		// tp translates an enum value under prefix: tp("status", "open").
		"tp": func(prefix string, value interface{}) string {
			return i.T(lang, fmt.Sprintf("%s.%v", prefix, value))
		},
		"timeAgo": func(v interface{}) string {
			return TimeAgo(lang, asTime(v), now())
		},
		"formatDate": func(v interface{}) string {
			ts := asTime(v)
			if ts.IsZero() {
				return ""
			}
			if lang == "zh" {
				return ts.Format("2006年1月2日")
			}
			return ts.Format("Jan 2, 2006")
		},
		"formatDateTime": func(v interface{}) string {
			ts := asTime(v)
			if ts.IsZero() {
				return ""
			}
			if lang == "zh" {
				return ts.Format("2006-01-02 15:04")
			}
			return ts.Format("Jan 2, 2006 3:04 PM")
		},
		"number": func(n interface{}) string {
			switch v := n.(type) {
			case int:
				return p.Sprintf("%d", v)
			case int64:
				return p.Sprintf("%d", v)
			case float64:
				return p.Sprintf("%.1f", v)
			case float32:
				return p.Sprintf("%.1f", v)
			default:
				return p.Sprint(v)
			}
		},
		"percent": func(n float64) string {
			return p.Sprintf("%.1f%%", n)
		},
	}
}
