// Package translate formats user visible messages for the toolchain in the
// language of the host locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the language used when the host locale is unknown.
const Fallback = "en-US"

var (
	printer     *message.Printer
	printerOnce sync.Once
)

func load() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("translate: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{Fallback}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage forces the message language, overriding the host locale.
func SetLanguage(tag string) {
	printerOnce.Do(func() {})
	printer = message.NewPrinter(language.Make(tag))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(load)
	return printer.Sprintf(key, args...)
}
