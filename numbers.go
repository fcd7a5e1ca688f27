package fundwatch

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the single currency every reported value is folded into.
const BaseCurrency = "GBP"

// currencySymbols maps a currency symbol found in a price token to its ISO
// code. Recognizing a new quote currency is a single entry here plus a
// conversion rule in the reconciler. Order matters only for determinism.
var currencySymbols = []struct {
	Symbol string
	Code   string
}{
	{"$", "USD"},
	{"£", "GBP"},
}

// NumberFormat describes the separator convention used to parse scraped
// numeric text. It replaces the interpreter-wide locale state the pipeline
// must not depend on: callers pass the convention explicitly.
type NumberFormat struct {
	Thousands string
	Decimal   string
}

// UKFormat is the convention used by the supported price pages.
var UKFormat = NumberFormat{Thousands: ",", Decimal: "."}

// orDefault returns f, or UKFormat when f is the zero value.
func (f NumberFormat) orDefault() NumberFormat {
	if f.Thousands == "" && f.Decimal == "" {
		return UKFormat
	}
	return f
}

// Parse converts numeric text under this separator convention into a
// decimal. Thousands separators are removed, the decimal separator is
// mapped to the canonical point.
func (f NumberFormat) Parse(text string) (decimal.Decimal, error) {
	f = f.orDefault()
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, f.Thousands, "")
	if f.Decimal != "." {
		t = strings.Replace(t, f.Decimal, ".", 1)
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse number %q: %w", text, err)
	}
	return d, nil
}

// PriceToken is the typed form of one scraped monetary token such as
// "£1,234.56", "$12.34" or "250.00p".
type PriceToken struct {
	Amount   decimal.Decimal
	Currency string // detected from the symbol; BaseCurrency when none is present
	Pence    bool   // the token carried the trailing pence marker
}

// ParsePrice parses a monetary token. The currency symbol, when present, is
// stripped and looked up in currencySymbols; a trailing "p" marks pence and
// is stripped before numeric parsing. Note the pence marker only annotates
// the token: unit scaling is decided by the holding key, not by the marker.
func (f NumberFormat) ParsePrice(text string) (PriceToken, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return PriceToken{}, fmt.Errorf("empty price token")
	}

	tok := PriceToken{Currency: BaseCurrency}
	for _, c := range currencySymbols {
		if strings.Contains(t, c.Symbol) {
			tok.Currency = c.Code
			t = strings.ReplaceAll(t, c.Symbol, "")
			break
		}
	}
	if strings.HasSuffix(t, "p") {
		tok.Pence = true
		t = strings.TrimSuffix(t, "p")
	}

	amount, err := f.Parse(t)
	if err != nil {
		return PriceToken{}, err
	}
	tok.Amount = amount
	return tok, nil
}
