package pricepage

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Fund A</title></head><body>Sell: 100.00p</body></html>`))
	}))
	defer srv.Close()

	sp, err := Fetch(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if sp.Title != "Fund A" || sp.Sell != "100.00p" {
		t.Errorf("got %+v", sp)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(srv.Client(), srv.URL)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q should carry the response status", err)
	}
}

func TestFetchConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := Fetch(NewClient(), url); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Fund B</title></head><body>Sell: 200.00p</body></html>`))
	}))
	defer srv.Close()

	fetch := Fetcher()
	sp, err := fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetcher: %v", err)
	}
	if sp.Title != "Fund B" {
		t.Errorf("Title = %q, want %q", sp.Title, "Fund B")
	}
}
