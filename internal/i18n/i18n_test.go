package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T) *I18n {
	t.Helper()
	i18n, err := New(Config{})
	require.NoError(t, err)
	return i18n
}

func TestNew(t *testing.T) {
	i18n, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "zh"}, i18n.GetSupportedLanguages())
	assert.Equal(t, "zh", i18n.GetDefaultLanguage())

	_, err = New(Config{DefaultLanguage: "fr"})
	assert.Error(t, err)
}

func TestTranslationKeys(t *testing.T) {
	i18n := mustNew(t)

	tests := []struct {
		name     string
		lang     string
		key      string
		expected string
	}{
		{"English status open", "en", "status.open", "Open"},
		{"Chinese status open", "zh", "status.open", "待处理"},
		{"English nav", "en", "nav.aiAgent", "AI Agent"},
		{"Chinese nav", "zh", "nav.tickets", "工单管理"},
		{"Chinese priority", "zh", "priority.urgent", "紧急"},
		{"nested dashboard action", "en", "dashboard.actions.kbArticle", "KB Article"},
		{"unsupported uses default", "fr", "status.open", "待处理"},
		{"missing key returns key", "en", "non.existent.key", "non.existent.key"},
		{"branch key returns key", "en", "status", "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.T(tt.lang, tt.key))
		})
	}
}

func TestFormatArguments(t *testing.T) {
	i18n := mustNew(t)
	assert.Equal(t, "5 contacts", i18n.T("en", "contacts.count", 5))
	assert.Equal(t, "5 位客户", i18n.T("zh", "contacts.count", 5))
	assert.Equal(t, "Email is required", i18n.Validation("en", "required", "Email"))
}

func TestFallbackLanguage(t *testing.T) {
	i18n, err := New(Config{})
	require.NoError(t, err)

	// a key present only in the fallback bundle
	i18n.mu.Lock()
	delete(i18n.translations["zh"]["common"].(map[string]interface{}), "help")
	i18n.mu.Unlock()

	assert.False(t, i18n.Has("zh", "common.help"))
	assert.Equal(t, "Help", i18n.T("zh", "common.help"))
}

func TestBundlesHaveSameKeys(t *testing.T) {
	i18n := mustNew(t)
	assert.Equal(t, i18n.GetAllKeys("en"), i18n.GetAllKeys("zh"))
	assert.NotEmpty(t, i18n.GetAllKeys("en"))
	assert.Empty(t, i18n.MissingKeys())
}

func TestMissingKeys(t *testing.T) {
	i18n := mustNew(t)
	i18n.mu.Lock()
	delete(i18n.translations["zh"]["common"].(map[string]interface{}), "help")
	delete(i18n.translations["zh"]["status"].(map[string]interface{}), "closed")
	i18n.mu.Unlock()

	assert.Equal(t, map[string][]string{"zh": {"common.help", "status.closed"}}, i18n.MissingKeys())
}

func TestSetDefaultLanguage(t *testing.T) {
	i18n, err := New(Config{})
	require.NoError(t, err)

	require.NoError(t, i18n.SetDefaultLanguage("en"))
	assert.Equal(t, "Open", i18n.T("xx", "status.open"))
	assert.Error(t, i18n.SetDefaultLanguage("de"))
}

func TestTimeAgo(t *testing.T) {
	ref := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "5 hours ago", TimeAgo("en", ref.Add(-5*time.Hour), ref))
	assert.Equal(t, "5 小时前", TimeAgo("zh", ref.Add(-5*time.Hour), ref))
	assert.Equal(t, "2024-01-15", TimeAgo("en", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), ref))
	assert.Empty(t, TimeAgo("en", time.Time{}, ref))
}

func TestTemplateFuncs(t *testing.T) {
	ref := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	funcs := mustNew(t).TemplateFuncs("en", func() time.Time { return ref })

	tr := funcs["t"].(func(string, ...interface{}) string)
	assert.Equal(t, "Resolved", tr("status.resolved"))

	number := funcs["number"].(func(interface{}) string)
	assert.Equal(t, "2,023", number(2023))
	assert.Equal(t, "94.2", number(94.2))

	timeAgo := funcs["timeAgo"].(func(interface{}) string)
	assert.Equal(t, "5 hours ago", timeAgo(ref.Add(-5*time.Hour)))
	assert.Equal(t, "5 hours ago", timeAgo(wrapped{ref.Add(-5 * time.Hour)}))
	assert.Empty(t, timeAgo(nil))

	formatDateTime := funcs["formatDateTime"].(func(interface{}) string)
	assert.Equal(t, "Feb 8, 2024 10:30 AM", formatDateTime(wrapped{time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC)}))
	assert.Empty(t, formatDateTime(time.Time{}))
}

// wrapped stands in for entity time types that expose Std.
type wrapped struct{ t time.Time }

func (w wrapped) Std() time.Time { return w.t }
