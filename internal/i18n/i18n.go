// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	translations = make(map[string]map[string]string)
	mu           sync.RWMutex
	defaultLang  = "en"
)

// Initialize loads all embedded locale files. Missing or malformed files are
// logged and skipped so a broken translation never prevents startup.
func Initialize(defaultLanguage string) error {
	if defaultLanguage != "" {
		defaultLang = defaultLanguage
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("failed to read locales: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			logrus.WithError(err).WithField("locale", lang).Warn("Failed to read locale file")
			continue
		}

		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			logrus.WithError(err).WithField("locale", lang).Warn("Failed to parse locale file")
			continue
		}
		translations[lang] = messages
	}

	if _, ok := translations[defaultLang]; !ok {
		return fmt.Errorf("default language %q has no locale file", defaultLang)
	}

	logrus.WithField("languages", len(translations)).Info("Translations loaded")
	return nil
}

// T translates a key for the given language, falling back to the default
// language and finally to the key itself.
func T(lang, key string, args ...interface{}) string {
	mu.RLock()
	defer mu.RUnlock()

	messages, ok := translations[lang]
	if !ok {
		messages = translations[defaultLang]
	}

	message, ok := messages[key]
	if !ok {
		if fallback, exists := translations[defaultLang][key]; exists {
			message = fallback
		} else {
			return key
		}
	}

	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

// SupportedLanguages lists the loaded locale codes.
func SupportedLanguages() []string {
	mu.RLock()
	defer mu.RUnlock()

	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	return langs
}

// IsSupported reports whether a locale file was loaded for lang.
func IsSupported(lang string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := translations[lang]
	return ok
}
