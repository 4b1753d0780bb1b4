package catalog

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the locale prices are shown in unless configured.
var DefaultLocale = language.German

// PriceFormatter renders prices for one locale, e.g. "1.234,50 €" for German.
type PriceFormatter struct {
	printer *message.Printer
}

// NewPriceFormatter creates a formatter for the given locale.
func NewPriceFormatter(tag language.Tag) *PriceFormatter {
	return &PriceFormatter{printer: message.NewPrinter(tag)}
}

// ParseLocale parses a BCP 47 tag, falling back to DefaultLocale.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return tag
}

// Format renders amount in unit with two decimals and the currency symbol.
func (f *PriceFormatter) Format(amount float64, unit currency.Unit) string {
	return f.printer.Sprintf("%.2f %v", amount, currency.Symbol(unit))
}

// FormatItem renders the item's price.
func (f *PriceFormatter) FormatItem(it Item) string {
	return f.Format(it.Price, it.Currency)
}
