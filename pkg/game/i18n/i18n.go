// Package i18n resolves UI string keys through embedded gettext catalogs.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

// DefaultLanguage is used for keys the active catalog lacks
const DefaultLanguage = "en_GB"

//go:embed locales/*/default.po
var catalogs embed.FS

var (
	mu       sync.RWMutex
	active   *gotext.Po
	fallback *gotext.Po
	language string
)

func init() {
	if err := SetLanguage(DefaultLanguage); err != nil {
		panic(err)
	}
}

func load(lang string) (*gotext.Po, error) {
	data, err := catalogs.ReadFile("locales/" + lang + "/default.po")
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", lang, err)
	}
	po := gotext.NewPo()
	po.Parse(data)
	return po, nil
}

// SetLanguage switches the active catalog. "en_GB.UTF-8" style names are accepted.
func SetLanguage(lang string) error {
	lang, _, _ = strings.Cut(lang, ".")
	if lang == "" {
		lang = DefaultLanguage
	}
	po, err := load(lang)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if fallback == nil || lang == DefaultLanguage {
		def, err := load(DefaultLanguage)
		if err != nil {
			return err
		}
		fallback = def
	}
	active = po
	language = lang
	return nil
}

// SetLanguageFromEnv picks the language from LANGUAGE/LC_ALL/LANG, keeping the
// default when none names an embedded catalog.
func SetLanguageFromEnv() {
	for _, v := range []string{"LANGUAGE", "LC_ALL", "LANG"} {
		if lang := os.Getenv(v); lang != "" && SetLanguage(lang) == nil {
			return
		}
	}
}

// Language returns the active language
func Language() string {
	mu.RLock()
	defer mu.RUnlock()
	return language
}

// Languages lists the embedded catalogs
func Languages() []string {
	entries, err := fs.ReadDir(catalogs, "locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out
}

// T translates key, formatting args into the translation. Keys missing from the
// active catalog fall back to the default language, then to the key itself.
func T(key string, args ...any) string {
	mu.RLock()
	po, def := active, fallback
	mu.RUnlock()

	s := key
	if po != nil {
		s = po.Get(key)
	}
	if s == key && def != nil {
		s = def.Get(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}
