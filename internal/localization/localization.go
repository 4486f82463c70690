// Package localization provides functionality for internationalization (i18n).
// Translations are flat JSON objects, one file per language (e.g. "en.json"),
// and may contain fmt verbs that Format fills in.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	fallback     string
	mu           sync.RWMutex
}

// NewLocalizer loads every *.json file in path. fallback is the language used
// when a key is missing in the requested one.
func NewLocalizer(path, fallback string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
		fallback:     fallback,
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.Add(strings.TrimSuffix(file.Name(), ".json"), translations)
	}

	if _, ok := l.translations[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no translation file", fallback)
	}
	return l, nil
}

// Add merges translations for lang, overwriting existing keys.
func (l *Localizer) Add(lang string, translations map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.translations[lang]
	if !ok {
		existing = make(map[string]string, len(translations))
		l.translations[lang] = existing
	}
	for k, v := range translations {
		existing[k] = v
	}
}

// GetString returns the localized string for a given key and language.
// If the key is missing it falls back to the fallback language, then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if value, ok := l.translations[lang][key]; ok {
		return value
	}
	if value, ok := l.translations[l.fallback][key]; ok {
		return value
	}
	return key
}

// Format looks up key and applies args with fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages returns the loaded language codes in sorted order.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	langs := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
