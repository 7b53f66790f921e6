// Package i18n translates the fixed user-facing strings of the status page.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"scantimeline/internal/logging"
)

// Source strings used by the timeline chart axes.
const (
	SecondsSinceStart = "Seconds since start of scan"
	PercentScanned    = "% scanned"
)

// Translator maps a source string to its translation for one locale.
type Translator interface {
	Gettext(msgid string) string
}

// translations holds the catalog content, keyed by locale then source string.
var translations = map[language.Tag]map[string]string{
	language.Danish: {
		SecondsSinceStart:  "Sekunder siden scanningens start",
		PercentScanned:     "% skannet",
		"Scan status":      "Scanningsstatus",
		"Scanner":          "Scanner",
		"Started":          "Startet",
		"Progress":         "Fremskridt",
		"Show timeline":    "Vis tidslinje",
		"No scans running": "Ingen kørende scanninger",
		"Loading":          "Indlæser",
	},
}

var supported = []language.Tag{language.English, language.Danish}

// Catalog is a Translator backed by golang.org/x/text.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// addTranslations loads table into b and returns how many entries it took.
// Entries the builder rejects are logged and skipped; their source strings
// then print untranslated.
func addTranslations(b *catalog.Builder, table map[language.Tag]map[string]string) int {
	added := 0
	for tag, msgs := range table {
		for src, dst := range msgs {
			// Keys are used as format strings by the printer.
			if err := b.SetString(tag, escape(src), escape(dst)); err != nil {
				logging.Warning("Skipping %s translation of %q: %v", tag, src, err)
				continue
			}
			added++
		}
	}
	return added
}

// New returns a catalog for locale (a BCP 47 tag such as "da" or "en-GB").
// Unknown or malformed locales fall back to English, which is the identity
// translation.
func New(locale string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	addTranslations(b, translations)

	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(t)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Language reports the locale the catalog resolved to.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Gettext returns the translation of msgid, or msgid itself when none exists.
func (c *Catalog) Gettext(msgid string) string {
	return c.printer.Sprintf(escape(msgid))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
