// Package fundwatch tracks the daily value of a personal investment
// portfolio. It scrapes live fund and share prices from their public price
// pages, reconciles them against a locally maintained holdings ledger,
// converts foreign-currency values into the base reporting currency, and
// produces a daily valuation snapshot that feeds the history file and the
// HTML summary.
//
// The package owns the reconciliation pipeline only: ledger decoding, key
// normalization, price-token parsing, the ledger/scrape join and currency
// folding. Page fetching lives in the pricepage subpackage, the exchange
// rate in fxrate, report rendering in renderer and delivery in mail.
package fundwatch
