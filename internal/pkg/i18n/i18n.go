// Package i18n holds the localized message catalogs of the service.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

type Translations map[string]string

//go:embed locales
var embedded embed.FS

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

func init() {
	if err := LoadTranslations(embedded, "locales"); err != nil {
		panic(err)
	}
}

// LoadTranslations reads <root>/<locale>/notifications.yaml for every locale
// directory found under root. Locales already loaded are replaced.
func LoadTranslations(fsys fs.FS, root string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(root, locale, "notifications.yaml")

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Notifications Translations `yaml:"NOTIFICATIONS"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = catalog.Notifications
	}

	return nil
}

// Lookup returns the message for key in locale. There is no fallback between
// locales; callers decide what to show when a message is missing.
func Lookup(locale, key string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	val, ok := locales[locale][key]
	return val, ok
}

func HasLocale(locale string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := locales[locale]
	return ok
}
