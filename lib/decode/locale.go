package decode

import (
	"strings"

	log "github.com/go-pkgz/lgr"
)

// FromLocale picks the charset the same way setlocale(LC_ALL, "") would for
// LC_CTYPE: LC_ALL wins over LC_CTYPE, which wins over LANG.
func FromLocale(getenv func(string) string) Charset {
	var locale string
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if locale = getenv(key); locale != "" {
			break
		}
	}

	name := codeset(locale)
	switch {
	case locale == "", locale == "C", locale == "POSIX":
		return ASCII
	case name == "":
		// lang_TERRITORY with no codeset
		return UTF8
	}

	cs, err := Lookup(name)
	if err != nil {
		log.Printf("[DEBUG] locale %q: %v, using %s", locale, err, ASCII.Name())
		return ASCII
	}
	// a locale charset must keep ASCII bytes as ASCII (no UTF-16 or UTF-32)
	if !cs.Basic() && !statefulCharsets[cs.Name()] {
		log.Printf("[DEBUG] locale %q: %s is not ASCII compatible, using %s", locale, cs.Name(), ASCII.Name())
		return ASCII
	}
	return cs
}

// codeset pulls CODESET out of language_TERRITORY.CODESET@modifier
func codeset(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return ""
	}
	return locale[i+1:]
}
