package internal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FallbackCurrency is used when neither flags, config nor the locale name one
const FallbackCurrency = "EUR"

// Currency represents a currency with its formatting rules
type Currency struct {
	Code    string // "SEK", "USD", "EUR"
	unit    currency.Unit
	known   bool
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// defaultLocaleForCurrency is the "home" locale used to format a currency
// when no system locale was detected (e.g. --currency USD)
var defaultLocaleForCurrency = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
	"CZK": language.Czech,
	"CNY": language.Chinese,
	"TRY": language.Turkish,
	"NZD": language.MustParse("en-NZ"),
}

// GetCurrency returns the Currency for code, formatted in its home locale
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	tag, ok := defaultLocaleForCurrency[code]
	if !ok {
		tag = language.English
	}
	return NewCurrency(code, tag)
}

// NewCurrency returns the Currency for code formatted with the conventions of tag.
// Unknown codes still format; the code itself is used as the symbol.
func NewCurrency(code string, tag language.Tag) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	known := err == nil
	if !known {
		unit = currency.USD // number formatting only
	}

	return Currency{
		Code:    code,
		unit:    unit,
		known:   known,
		printer: message.NewPrinter(tag),
	}
}

// DetectSystemCurrency reads the locale from LC_MONETARY, LC_ALL and LANG
// (in that order) via getenv and returns the currency of its region together
// with the locale to format it in. Returns "" when nothing usable is set.
func DetectSystemCurrency(getenv func(string) string) (string, language.Tag) {
	for _, key := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := getenv(key)
		if locale == "" || locale == "C" || locale == "POSIX" {
			continue
		}
		return parseCurrencyFromLocale(locale)
	}
	return "", language.Und
}

// ResolveCurrency picks the display currency: an explicit code wins, then
// the system locale, then FallbackCurrency
func ResolveCurrency(code string, getenv func(string) string) Currency {
	detected, tag := DetectSystemCurrency(getenv)
	switch {
	case code != "" && strings.EqualFold(code, detected):
		return NewCurrency(code, tag)
	case code != "":
		return GetCurrency(code)
	case detected != "":
		return NewCurrency(detected, tag)
	default:
		return GetCurrency(FallbackCurrency)
	}
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base := locale
	if idx := strings.IndexAny(base, ".@"); idx != -1 {
		base = base[:idx]
	}

	// "sv_SE" -> "sv-SE"
	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}

	return unit.String(), tag
}

func (c Currency) symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if !c.known {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// x/text/currency doesn't expose CLDR symbol placement, so the list is kept by hand.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "MXN", "HKD", "SGD", "NZD", "ZAR", "INR", "CNY":
		return true
	default:
		return false
	}
}

// Number formats amount with two fraction digits and locale grouping, without a symbol
func (c Currency) Number(amount decimal.Decimal) string {
	return c.printer.Sprint(number.Decimal(
		amount.Round(2).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Format formats a single amount with the currency symbol
func (c Currency) Format(amount decimal.Decimal) string {
	formatted := c.Number(amount)
	if c.isPrefix() {
		return c.symbol() + formatted
	}
	return formatted + " " + c.symbol()
}
