package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed translations/*.json
var translationsFS embed.FS

const (
	// DefaultLanguage is the language new sessions start in.
	DefaultLanguage = "zh"
	// FallbackLanguage resolves keys missing from the requested language.
	FallbackLanguage = "en"
)

// I18n handles internationalization
type I18n struct {
	translations   map[string]map[string]interface{}
	defaultLang    string
	fallbackLang   string
	supportedLangs []string
	mu             sync.RWMutex
}

// Config represents i18n configuration
type Config struct {
	DefaultLanguage  string
	FallbackLanguage string
}

// New loads the embedded bundles. The supported language list is derived
// from the bundle files.
func New(config Config) (*I18n, error) {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = DefaultLanguage
	}
	if config.FallbackLanguage == "" {
		config.FallbackLanguage = FallbackLanguage
	}
	i := &I18n{
		translations: make(map[string]map[string]interface{}),
		defaultLang:  config.DefaultLanguage,
		fallbackLang: config.FallbackLanguage,
	}
	if err := i.loadTranslations(); err != nil {
		return nil, err
	}
	if !i.isSupported(i.defaultLang) {
		return nil, fmt.Errorf("default language %q has no translation bundle", i.defaultLang)
	}
	return i, nil
}

func (i *I18n) loadTranslations() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.supportedLangs = []string{}

	err := fs.WalkDir(translationsFS, "translations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		lang := strings.TrimSuffix(filepath.Base(path), ".json")

		content, err := translationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read translation file %s: %w", path, err)
		}

		var translations map[string]interface{}
		if err := json.Unmarshal(content, &translations); err != nil {
			return fmt.Errorf("failed to parse translation file %s: %w", path, err)
		}

		i.translations[lang] = translations
		i.supportedLangs = append(i.supportedLangs, lang)
		return nil
	})
	sort.Strings(i.supportedLangs)
	return err
}

// T translates a key to the specified language. Unsupported languages use
// the default language; keys missing there are looked up in the fallback
// language, and finally the key itself is returned.
func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if !i.isSupported(lang) {
		lang = i.defaultLang
	}

	value := i.getNestedValue(i.translations[lang], key)
	if value == nil && lang != i.fallbackLang {
		value = i.getNestedValue(i.translations[i.fallbackLang], key)
	}

	str, ok := value.(string)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(str, args...)
	}
	return str
}

// Has reports whether key resolves in lang without falling back.
func (i *I18n) Has(lang, key string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.getNestedValue(i.translations[lang], key).(string)
	return ok
}

// getNestedValue retrieves a nested value from a map using dot notation
func (i *I18n) getNestedValue(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	var current interface{} = m
	for _, k := range strings.Split(key, ".") {
		currentMap, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = currentMap[k]
		if current == nil {
			return nil
		}
	}
	return current
}

func (i *I18n) isSupported(lang string) bool {
	for _, supported := range i.supportedLangs {
		if supported == lang {
			return true
		}
	}
	return false
}

// IsSupported reports whether a bundle exists for lang.
func (i *I18n) IsSupported(lang string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.isSupported(lang)
}

// GetSupportedLanguages returns the list of supported languages
func (i *I18n) GetSupportedLanguages() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]string(nil), i.supportedLangs...)
}

// GetDefaultLanguage returns the default language
func (i *I18n) GetDefaultLanguage() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.defaultLang
}

// SetDefaultLanguage sets the default language. Config reloads call this.
func (i *I18n) SetDefaultLanguage(lang string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.isSupported(lang) {
		return fmt.Errorf("language %s is not supported", lang)
	}
	i.defaultLang = lang
	return nil
}

// GetAllKeys returns all translation keys for a language in dot notation
func (i *I18n) GetAllKeys(lang string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	keys := []string{}
	if translations := i.translations[lang]; translations != nil {
		extractKeys(translations, "", &keys)
	}
	sort.Strings(keys)
	return keys
}

// MissingKeys lists, per supported language, the keys of the fallback
// bundle that the language does not translate. Those keys render in the
// fallback language.
func (i *I18n) MissingKeys() map[string][]string {
	reference := i.GetAllKeys(i.fallbackLang)
	missing := make(map[string][]string)
	for _, lang := range i.GetSupportedLanguages() {
		if lang == i.fallbackLang {
			continue
		}
		for _, key := range reference {
			if !i.Has(lang, key) {
				missing[lang] = append(missing[lang], key)
			}
		}
	}
	return missing
}

func extractKeys(m map[string]interface{}, prefix string, keys *[]string) {
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			extractKeys(nested, fullKey, keys)
			continue
		}
		*keys = append(*keys, fullKey)
	}
}

// Validation returns a translated validation message
func (i *I18n) Validation(lang, key string, args ...interface{}) string {
	return i.T(lang, "validation."+key, args...)
}

// Error returns a translated error message
func (i *I18n) Error(lang, key string, args ...interface{}) string {
	return i.T(lang, "errors."+key, args...)
}
