package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestPriceFormatterGerman(t *testing.T) {
	f := NewPriceFormatter(language.German)

	got := f.Format(12.5, currency.EUR)
	assert.Contains(t, got, "12,50")
	assert.Contains(t, got, "€")
}

func TestPriceFormatterEnglish(t *testing.T) {
	f := NewPriceFormatter(language.AmericanEnglish)

	got := f.FormatItem(Item{Price: 7.25, Currency: currency.USD})
	assert.Contains(t, got, "7.25")
	assert.Contains(t, got, "$")
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, language.MustParse("en-GB"), ParseLocale("en-GB"))
	assert.Equal(t, DefaultLocale, ParseLocale("not a tag!"))
}
