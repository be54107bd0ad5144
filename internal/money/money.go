// Package money renders whole-unit amounts for receipts and console output.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultCurrency = "TSh"
	DefaultLocale   = "en"
)

// Formatter prints amounts with a currency label and locale digit grouping
type Formatter struct {
	currency string
	printer  *message.Printer
}

// NewFormatter builds a formatter for the given currency label and BCP 47 locale
func NewFormatter(currency, locale string) (*Formatter, error) {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	return &Formatter{
		currency: currency,
		printer:  message.NewPrinter(tag),
	}, nil
}

// Default returns a TSh formatter with English grouping
func Default() *Formatter {
	return &Formatter{
		currency: DefaultCurrency,
		printer:  message.NewPrinter(language.English),
	}
}

// Format renders an amount, e.g. "TSh 2,000"
func (f *Formatter) Format(amount int) string {
	return f.printer.Sprintf("%s %d", f.currency, amount)
}
