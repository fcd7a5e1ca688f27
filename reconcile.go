package fundwatch

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fundwatch/fundwatch/date"
	"github.com/shopspring/decimal"
)

// ErrNoFundsScraped reports a run in which not a single holding could be
// valued. It is fatal: no snapshot, history row or report is produced.
var ErrNoFundsScraped = errors.New("no funds could be scraped")

// ScrapedPrice holds the raw text extracted from one price page. Sell, Buy
// and Change fields keep the exact matched tokens (currency symbol and pence
// marker included); any of them may be empty when the page did not expose
// the value. Title is required: a page without an extractable title cannot
// be joined and fails that holding.
type ScrapedPrice struct {
	Title     string
	Sell      string // e.g. "£123.45", "$1,234.56", "250.00p"
	Buy       string
	Change    string // day's absolute change, e.g. "-0.50p"
	ChangePct string // day's percent change, e.g. "-0.25%"
}

// FetchFunc retrieves and parses the price page at url.
type FetchFunc func(url string) (ScrapedPrice, error)

// RateProvider resolves the multiplier converting a USD amount into GBP.
// It is consulted at most once per run, and only when a USD holding exists.
type RateProvider interface {
	USDToGBP() (decimal.Decimal, error)
}

// Failure records why one holding was excluded from the valuation table.
type Failure struct {
	Fund   string
	Reason string
}

// Holding is one row of the final valuation table.
type Holding struct {
	Fund      string
	Units     decimal.Decimal
	SellPrice Money  // major unit (pounds), after pence scaling
	BuyPrice  Money  // carried through as quoted: no pence scaling, no conversion
	Change    string // raw day's change tokens, as scraped
	ChangePct string
	Currency  string // post-conversion, always BaseCurrency
	URL       string
	Value     Money // Units × SellPrice, folded into BaseCurrency
}

// Snapshot is the outcome of one reconciliation run: the valuation table
// plus the diagnostics for every holding that had to be excluded.
type Snapshot struct {
	Date     date.Date
	Holdings []Holding
	Failures []Failure
}

// Total sums every holding's value in the base currency.
func (s *Snapshot) Total() Money {
	total := M(decimal.Zero, BaseCurrency)
	for _, h := range s.Holdings {
		total = total.Add(h.Value)
	}
	return total
}

// HistoryRow converts the snapshot into its persisted daily form.
func (s *Snapshot) HistoryRow() HistoryRow {
	values := make(map[string]decimal.Decimal, len(s.Holdings))
	for _, h := range s.Holdings {
		values[h.Fund] = h.Value.Amount()
	}
	return HistoryRow{Date: s.Date, Total: s.Total().Amount(), Values: values}
}

// Reconciler joins the holdings ledger against scraped price pages and
// computes the day's valuation table. Fetch and Rates are injected so runs
// are deterministic under test and the FX rate can never be fetched twice.
type Reconciler struct {
	Fetch  FetchFunc
	Rates  RateProvider
	Format NumberFormat // separator convention for scraped numbers; zero value means UKFormat
}

// Reconcile runs the pipeline over the ledger. Per-holding fetch, parse and
// match problems never abort the batch: the holding is excluded and recorded
// in the snapshot's failures. The run fails only when the ledger yields zero
// valued holdings (ErrNoFundsScraped) or when a needed FX rate cannot be
// resolved.
func (r *Reconciler) Reconcile(entries []LedgerEntry) (*Snapshot, error) {
	snap := &Snapshot{Date: date.Today()}

	// Drop incomplete ledger rows before any network activity.
	valid := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Valid() {
			name := e.Fund
			if name == "" {
				name = e.URL
			}
			snap.fail(name, "incomplete ledger row")
			continue
		}
		valid = append(valid, e)
	}

	// Fetch and parse each holding's page, indexing results by the
	// normalized title key. One bad page must not sink the batch.
	type scrape struct {
		entry LedgerEntry
		price ScrapedPrice
	}
	scraped := make([]scrape, 0, len(valid))
	byKey := make(map[string]ScrapedPrice)
	for _, e := range valid {
		price, err := r.Fetch(e.URL)
		if err != nil {
			snap.fail(e.Fund, fmt.Sprintf("fetch failed: %v", err))
			continue
		}
		scraped = append(scraped, scrape{entry: e, price: price})
		byKey[NormalizeTitle(price.Title)] = price
	}

	// The FX rate is resolved lazily, at most once, on the first USD row.
	var rate decimal.Decimal
	haveRate := false
	usdToGBP := func() (decimal.Decimal, error) {
		if haveRate {
			return rate, nil
		}
		if r.Rates == nil {
			return decimal.Decimal{}, errors.New("no rate provider configured")
		}
		v, err := r.Rates.USDToGBP()
		if err != nil {
			return decimal.Decimal{}, err
		}
		rate, haveRate = v, true
		return rate, nil
	}

	// Left join on the normalized key, then value each matched row.
	for _, s := range scraped {
		e := s.entry
		price, ok := byKey[e.Key()]
		if !ok {
			snap.fail(e.Fund, fmt.Sprintf("no price match for key %q", e.Key()))
			continue
		}
		h, err := r.value(e, price, usdToGBP)
		if err != nil {
			var fatal *fatalError
			if errors.As(err, &fatal) {
				return nil, fatal.err
			}
			snap.fail(e.Fund, err.Error())
			continue
		}
		snap.Holdings = append(snap.Holdings, h)
	}

	for _, f := range snap.Failures {
		log.Printf("excluded holding %q: %s", f.Fund, f.Reason)
	}
	if len(snap.Holdings) == 0 {
		errs := make([]error, 0, len(snap.Failures)+1)
		errs = append(errs, fmt.Errorf("%w (%d holdings failed)", ErrNoFundsScraped, len(snap.Failures)))
		for _, f := range snap.Failures {
			errs = append(errs, fmt.Errorf("%s: %s", f.Fund, f.Reason))
		}
		return nil, errors.Join(errs...)
	}
	return snap, nil
}

// fatalError marks an error that must abort the whole run instead of being
// recorded as a per-holding failure.
type fatalError struct{ err error }

func (f *fatalError) Error() string { return f.err.Error() }

// value computes one reconciled row from a ledger entry and its matched
// scraped price.
func (r *Reconciler) value(e LedgerEntry, price ScrapedPrice, usdToGBP func() (decimal.Decimal, error)) (Holding, error) {
	if price.Sell == "" {
		return Holding{}, errors.New("no sell price on page")
	}
	sell, err := r.Format.ParsePrice(price.Sell)
	if err != nil {
		return Holding{}, fmt.Errorf("unparseable sell price: %w", err)
	}

	// UK open-ended funds quote in pence, shares in pounds. The holding key
	// decides: keys without "share" are pence and scale down to pounds.
	key := e.Key()
	sellPrice := sell.Amount
	if !strings.Contains(key, "share") {
		sellPrice = sellPrice.Shift(-2)
	}

	units := e.Units.Decimal
	value := M(units.Mul(sellPrice), sell.Currency)

	h := Holding{
		Fund:      e.Fund,
		Units:     units,
		SellPrice: M(sellPrice, sell.Currency),
		Change:    price.Change,
		ChangePct: price.ChangePct,
		Currency:  sell.Currency,
		URL:       e.URL,
		Value:     value,
	}

	// The buy price is carried through exactly as quoted. It is not pence
	// scaled and not converted; see DESIGN.md.
	if price.Buy != "" {
		buy, err := r.Format.ParsePrice(price.Buy)
		if err != nil {
			return Holding{}, fmt.Errorf("unparseable buy price: %w", err)
		}
		h.BuyPrice = M(buy.Amount, buy.Currency)
	}

	// Fold foreign-currency values into the base currency. Only USD is
	// recognized; the rate fetch failing here dooms the run, not the row.
	if sell.Currency == "USD" {
		rate, err := usdToGBP()
		if err != nil {
			return Holding{}, &fatalError{fmt.Errorf("cannot resolve USD→GBP rate: %w", err)}
		}
		h.Value = h.Value.Convert(rate, BaseCurrency)
		h.Currency = BaseCurrency
	}
	return h, nil
}

func (s *Snapshot) fail(fund, reason string) {
	s.Failures = append(s.Failures, Failure{Fund: fund, Reason: reason})
}
