// Package i18nx holds the service message catalogs and resolves the locale of
// a request. Catalogs are YAML files embedded at build time, one per language,
// mapping a message key to a fmt style format string.
package i18nx

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle is a loaded set of catalogs plus the matcher used to pick one of them.
type Bundle struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// std is built from the embedded catalogs with English as fallback.
var std = mustLoad(language.English)

// Default returns the bundle built from the embedded catalogs.
func Default() *Bundle { return std }

// Load builds a bundle from the embedded catalogs. fallback must be one of the
// embedded languages; it is used whenever nothing better matches.
func Load(fallback language.Tag) (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	cat := catalog.NewBuilder(catalog.Fallback(fallback))
	var supported []language.Tag
	for _, e := range entries {
		name := e.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", name, err)
		}

		raw, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(raw, &messages); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		for key, msg := range messages {
			if err := cat.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("%s: key %q: %w", name, key, err)
			}
		}
		supported = append(supported, tag)
	}

	found := false
	for _, t := range supported {
		if t.String() == fallback.String() {
			found = true
			fallback = t
		}
	}
	if !found {
		return nil, fmt.Errorf("fallback locale %s has no catalog", fallback)
	}

	// The matcher prefers its first tag on a tie, so put the fallback first.
	ordered := []language.Tag{fallback}
	for _, t := range supported {
		if t.String() != fallback.String() {
			ordered = append(ordered, t)
		}
	}

	return &Bundle{
		cat:       cat,
		supported: ordered,
		matcher:   language.NewMatcher(ordered),
		fallback:  fallback,
	}, nil
}

func mustLoad(fallback language.Tag) *Bundle {
	b, err := Load(fallback)
	if err != nil {
		panic(err)
	}
	return b
}

// Fallback is the locale used when a request expresses no usable preference.
func (b *Bundle) Fallback() language.Tag { return b.fallback }

// Supported lists the languages with a catalog, fallback first.
func (b *Bundle) Supported() []language.Tag {
	return append([]language.Tag(nil), b.supported...)
}

// Match picks the best supported locale for the given preferences. ok is
// false when none of them is close to a supported locale.
func (b *Bundle) Match(prefs ...language.Tag) (tag language.Tag, ok bool) {
	if len(prefs) == 0 {
		return b.fallback, false
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.fallback, false
	}
	return b.supported[idx], true
}

// Parse matches a single locale string such as "ru", "ru_RU" or "en-GB".
func (b *Bundle) Parse(s string) (language.Tag, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return b.fallback, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return b.fallback, false
	}
	return b.Match(tag)
}

// Printer returns a message printer for tag.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.cat))
}
