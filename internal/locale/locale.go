// Package locale tracks the active display locale for the process.
//
// Projects may carry their own locale preference, so switching the open
// project resets the locale back to the environment default before the
// project's own setting (if any) is applied.
package locale

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

var (
	mu      sync.RWMutex
	current language.Tag = envDefault()
)

// envDefault derives the starting locale from LC_ALL/LANG, falling back
// to English when neither parses as a BCP-47 tag.
func envDefault() language.Tag {
	for _, key := range []string{"LC_ALL", "LANG"} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		// LANG values look like "en_US.UTF-8"; strip the encoding and
		// swap the POSIX underscore for a BCP-47 hyphen.
		raw, _, _ = strings.Cut(raw, ".")
		raw = strings.ReplaceAll(raw, "_", "-")
		if tag, err := language.Parse(raw); err == nil {
			return tag
		}
	}
	return language.English
}

// Current returns the active locale tag.
func Current() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set normalizes raw as a BCP-47 tag and makes it the active locale.
// Unparseable input leaves the locale unchanged and reports the error.
func Set(raw string) (language.Tag, error) {
	tag, err := language.Parse(raw)
	if err != nil {
		return Current(), err
	}
	mu.Lock()
	current = tag
	mu.Unlock()
	return tag, nil
}

// Reset restores the environment-default locale.
func Reset() {
	tag := envDefault()
	mu.Lock()
	current = tag
	mu.Unlock()
}
