// Package fxrate resolves the USD→GBP conversion rate for one run.
//
// The primary source occasionally answers before the day's rates are
// published; that condition is transient and retried with exponential
// backoff. Once the retry budget is spent, the fallback source's rate is
// returned unconditionally. Any other error from the primary is not
// retried: it propagates and fails the run.
package fxrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const (
	// PrimaryURL quotes USD against GBP on the Frankfurter API.
	PrimaryURL = "https://api.frankfurter.dev/v1/latest?base=USD&symbols=GBP"
	// FallbackURL is consulted once the primary's retry budget is spent.
	FallbackURL = "https://open.er-api.com/v6/latest/USD"

	// Timeout bounds one rate request.
	Timeout = 20 * time.Second
)

// ErrNotYetAvailable is the primary source's transient "rates not published
// yet" signal. It is the only error class that triggers retry and fallback.
var ErrNotYetAvailable = errors.New("rates not yet available")

// Provider fetches the USD→GBP rate. The zero value is not usable; call New.
// The rate is valid for one run only and is never cached across runs.
type Provider struct {
	Client      *http.Client
	PrimaryURL  string
	FallbackURL string

	Retries   int           // retries against the primary after the first attempt
	BaseDelay time.Duration // first backoff delay
	MaxDelay  time.Duration // backoff cap

	sleep  func(time.Duration) // injected in tests
	random func() float64      // jitter source in [0,1)
}

// New returns a Provider with the production sources and retry policy.
func New() *Provider {
	return &Provider{
		Client:      &http.Client{Timeout: Timeout},
		PrimaryURL:  PrimaryURL,
		FallbackURL: FallbackURL,
		Retries:     3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		sleep:       time.Sleep,
		random:      rand.Float64,
	}
}

// USDToGBP returns the multiplier converting a USD amount into GBP. The
// primary source is attempted Retries+1 times (retrying only on
// ErrNotYetAvailable, with jittered exponential backoff), then the fallback
// source decides.
func (p *Provider) USDToGBP() (decimal.Decimal, error) {
	for attempt := 0; ; attempt++ {
		rate, err := p.primary()
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, ErrNotYetAvailable) {
			return decimal.Decimal{}, err
		}
		if attempt >= p.Retries {
			break
		}
		delay := p.backoff(attempt)
		log.Printf("rates not yet available (attempt %d/%d), retrying in %s", attempt+1, p.Retries+1, delay)
		p.wait(delay)
	}
	log.Printf("primary rate source exhausted after %d attempts, using fallback", p.Retries+1)
	return p.fallback()
}

// backoff computes min(BaseDelay·2^attempt, MaxDelay) perturbed by a uniform
// jitter factor in [0.9, 1.1].
func (p *Provider) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	random := rand.Float64
	if p.random != nil {
		random = p.random
	}
	jitter := 0.9 + 0.2*random()
	return time.Duration(float64(delay) * jitter)
}

func (p *Provider) wait(d time.Duration) {
	if p.sleep != nil {
		p.sleep(d)
		return
	}
	time.Sleep(d)
}

// primary queries the Frankfurter-style endpoint. A successful response
// lacking the GBP quote, or one carrying a "not available" message, is the
// transient publication gap reported as ErrNotYetAvailable.
func (p *Provider) primary() (decimal.Decimal, error) {
	var payload struct {
		Base    string                     `json:"base"`
		Rates   map[string]decimal.Decimal `json:"rates"`
		Message string                     `json:"message"`
	}
	if err := jwget(p.client(), p.PrimaryURL, &payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("primary rate source: %w", err)
	}
	if strings.Contains(strings.ToLower(payload.Message), "not available") {
		return decimal.Decimal{}, fmt.Errorf("primary rate source: %w", ErrNotYetAvailable)
	}
	rate, ok := payload.Rates["GBP"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("primary rate source has no GBP quote: %w", ErrNotYetAvailable)
	}
	return rate, nil
}

// fallback queries the secondary source and trusts its answer. The payload
// is loosely typed, so the rate is extracted by json path.
func (p *Provider) fallback() (decimal.Decimal, error) {
	var jobj any
	if err := jwget(p.client(), p.FallbackURL, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("fallback rate source: %w", err)
	}
	jval, err := jsonpath.Get("$.rates.GBP", jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("fallback rate source has no GBP quote: %w", err)
	}
	// jsonpath may answer with a single value or a one-element list.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("fallback rate source GBP quote is not a number: %v", jval)
	}
	return decimal.NewFromFloat(val), nil
}

func (p *Provider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return &http.Client{Timeout: Timeout}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
