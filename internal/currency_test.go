package internal

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestGetCurrency_KnownCurrencies(t *testing.T) {
	codes := []string{"SEK", "USD", "EUR", "GBP", "NOK", "DKK", "CHF", "JPY", "CAD", "AUD", "BRL"}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			c := GetCurrency(code)
			if c.Code != code {
				t.Errorf("Code = %q, want %q", c.Code, code)
			}
			if !c.known {
				t.Errorf("%s should be a known ISO currency", code)
			}
			_ = c.Format(decimal.NewFromInt(1234))
		})
	}
}

func TestGetCurrency_CaseInsensitive(t *testing.T) {
	tests := []string{"sek", "Sek", "SEK", " seK "}
	for _, code := range tests {
		c := GetCurrency(code)
		if c.Code != "SEK" {
			t.Errorf("GetCurrency(%q).Code = %q, want SEK", code, c.Code)
		}
	}
}

func TestGetCurrency_Unknown(t *testing.T) {
	c := GetCurrency("XYZ")
	if c.Code != "XYZ" {
		t.Errorf("Code = %q, want XYZ", c.Code)
	}
	formatted := c.Format(decimal.NewFromInt(100))
	if formatted != "100.00 XYZ" {
		t.Errorf("Format(100) = %q, want %q", formatted, "100.00 XYZ")
	}
	// formatting an unknown code must not leak into the shared symbol table
	if _, ok := symbolOverrides["XYZ"]; ok {
		t.Error("symbolOverrides was modified")
	}
}

func TestCurrency_Format(t *testing.T) {
	// x/text uses non-breaking space (U+00A0) for Swedish thousand separators
	nbsp := "\u00a0"

	tests := []struct {
		name   string
		code   string
		amount string
		want   string
	}{
		{"SEK small", "SEK", "100", "100,00 kr"},
		{"SEK thousands", "SEK", "1234.5", "1" + nbsp + "234,50 kr"},
		{"USD small", "USD", "100", "$100.00"},
		{"USD thousands", "USD", "1234.5", "$1,234.50"},
		{"USD rounds to cents", "USD", "10.005", "$10.01"},
		{"EUR small", "EUR", "20", "20,00 €"},
		{"EUR thousands", "EUR", "1234.56", "1.234,56 €"},
		{"GBP thousands", "GBP", "1234", "£1,234.00"},
		{"CHF thousands", "CHF", "1234", "1.234,00 CHF"},
		{"BRL thousands", "BRL", "1234", "1.234,00 R$"},
		{"Unknown thousands", "XYZ", "1234", "1,234.00 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetCurrency(tt.code)
			got := c.Format(decimal.RequireFromString(tt.amount))
			if got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestParseCurrencyFromLocale(t *testing.T) {
	tests := []struct {
		locale       string
		wantCurrency string
		wantTag      string
	}{
		{"sv_SE.UTF-8", "SEK", "sv-SE"},
		{"en_US.UTF-8", "USD", "en-US"},
		{"pt_BR.UTF-8", "BRL", "pt-BR"},
		{"de_DE", "EUR", "de-DE"},
		{"de_DE@euro", "EUR", "de-DE"},
		{"ja_JP.UTF-8", "JPY", "ja-JP"},
		{"en_GB.UTF-8", "GBP", "en-GB"},
		{"C", "", ""},
		{"en", "", ""}, // No region
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			gotCurrency, gotTag := parseCurrencyFromLocale(tt.locale)
			if gotCurrency != tt.wantCurrency {
				t.Errorf("parseCurrencyFromLocale(%q) currency = %q, want %q", tt.locale, gotCurrency, tt.wantCurrency)
			}
			if tt.wantTag != "" && gotTag.String() != tt.wantTag {
				t.Errorf("parseCurrencyFromLocale(%q) tag = %q, want %q", tt.locale, gotTag.String(), tt.wantTag)
			}
		})
	}
}

func TestDetectSystemCurrency(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantCurrency string
	}{
		{
			name:         "LC_MONETARY takes priority",
			env:          map[string]string{"LC_MONETARY": "sv_SE.UTF-8", "LC_ALL": "en_US.UTF-8", "LANG": "de_DE.UTF-8"},
			wantCurrency: "SEK",
		},
		{
			name:         "LC_ALL when LC_MONETARY empty",
			env:          map[string]string{"LC_ALL": "en_US.UTF-8", "LANG": "de_DE.UTF-8"},
			wantCurrency: "USD",
		},
		{
			name:         "LANG as fallback",
			env:          map[string]string{"LANG": "de_DE.UTF-8"},
			wantCurrency: "EUR",
		},
		{
			name:         "Norwegian krone",
			env:          map[string]string{"LC_MONETARY": "nb_NO.UTF-8"},
			wantCurrency: "NOK",
		},
		{
			name:         "No detection when all empty",
			env:          map[string]string{},
			wantCurrency: "",
		},
		{
			name:         "Skip C locale",
			env:          map[string]string{"LC_MONETARY": "C", "LC_ALL": "POSIX", "LANG": "sv_SE.UTF-8"},
			wantCurrency: "SEK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := DetectSystemCurrency(envMap(tt.env))
			if got != tt.wantCurrency {
				t.Errorf("DetectSystemCurrency() = %q, want %q", got, tt.wantCurrency)
			}
		})
	}
}

func TestResolveCurrency(t *testing.T) {
	brazil := envMap(map[string]string{"LC_MONETARY": "pt_BR.UTF-8"})

	tests := []struct {
		name     string
		code     string
		getenv   func(string) string
		wantCode string
		wantTag  language.Tag
	}{
		{"explicit code wins", "USD", brazil, "USD", language.AmericanEnglish},
		{"explicit code matching locale uses locale", "brl", brazil, "BRL", language.MustParse("pt-BR")},
		{"detected from locale", "", brazil, "BRL", language.MustParse("pt-BR")},
		{"fallback", "", envMap(nil), FallbackCurrency, language.German},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ResolveCurrency(tt.code, tt.getenv)
			if c.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", c.Code, tt.wantCode)
			}
			want := NewCurrency(tt.wantCode, tt.wantTag).Format(decimal.NewFromInt(1234))
			if got := c.Format(decimal.NewFromInt(1234)); got != want {
				t.Errorf("Format(1234) = %q, want %q", got, want)
			}
		})
	}
}
