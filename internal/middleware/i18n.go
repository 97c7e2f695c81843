package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/gotrs-io/gotrs-console/internal/i18n"
	"github.com/gotrs-io/gotrs-console/internal/store"
)

// LanguageContextKey is the key for storing language in context
const LanguageContextKey = "language"

// LanguageSource returns the UI language of the session behind c.
type LanguageSource func(c *gin.Context) string

// Language stores the session's UI language in the gin context.
func Language(source LanguageSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := source(c)
		c.Set(LanguageContextKey, lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// GetLanguage gets the current language from context
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(LanguageContextKey); lang != "" {
		return lang
	}
	return store.DefaultLanguage
}

// T translates a key in the current language
func T(c *gin.Context, tr *i18n.I18n, key string, args ...interface{}) string {
	return tr.T(GetLanguage(c), key, args...)
}

// LanguageMatcher picks a supported language from an Accept-Language
// header. A new session starts in the matched language.
type LanguageMatcher struct {
	supported []string
	matcher   language.Matcher
}

// NewLanguageMatcher builds a matcher over supported language codes.
func NewLanguageMatcher(supported []string) *LanguageMatcher {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, code := range supported {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	return &LanguageMatcher{supported: codes, matcher: language.NewMatcher(tags)}
}

// Match returns the best supported language for header, or fallback when
// the header is empty, malformed or matches nothing.
func (m *LanguageMatcher) Match(header, fallback string) string {
	if header == "" || len(m.supported) == 0 {
		return fallback
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return fallback
	}
	_, index, confidence := m.matcher.Match(desired...)
	if confidence == language.No {
		return fallback
	}
	return m.supported[index]
}
