// Package pricepage fetches and parses the public price page of a single
// fund or share, extracting the title and the raw Sell/Buy/Change tokens the
// reconciler turns into a valuation.
package pricepage

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fundwatch/fundwatch"
)

// Timeout bounds one page download. A slow page fails that holding only,
// never the run.
const Timeout = 20 * time.Second

// NewClient returns the http client used for price pages.
func NewClient() *http.Client {
	return &http.Client{Timeout: Timeout}
}

// Fetch downloads the page at url and parses it.
func Fetch(client *http.Client, url string) (fundwatch.ScrapedPrice, error) {
	resp, err := client.Get(url)
	if err != nil {
		return fundwatch.ScrapedPrice{}, fmt.Errorf("cannot fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fundwatch.ScrapedPrice{}, fmt.Errorf("cannot fetch %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fundwatch.ScrapedPrice{}, fmt.Errorf("cannot read %s: %w", url, err)
	}
	return Parse(body)
}

// Fetcher adapts Fetch to the reconciler's FetchFunc, sharing one client
// across the run.
func Fetcher() fundwatch.FetchFunc {
	client := NewClient()
	return func(url string) (fundwatch.ScrapedPrice, error) {
		return Fetch(client, url)
	}
}
