package fundwatch

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Global Technology Fund  ", "global technology fund"},
		{"FTSE All-Share Tracker", "ftse all-share tracker"},
		{"Income & Growth", "income and growth"},
		{"Income&Growth", "income and growth"},
		{"Smaller   Companies    Trust", "smaller companies trust"},
		{"UK\tEquity\nIncome", "uk equity income"},
		{"Global Technology Fund", "global technology fund"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"  Income & Growth  ", "Smaller   Companies", "plain name"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Global Fund Z ClassAccumulation", "global fund z class accumulation"},
		{"Global Fund AccumulationShares", "global fund accumulation shares"},
		{"Growth Trust DistributionShares", "growth trust distribution shares"},
		{"Growth Trust ClassDistribution", "growth trust class distribution"},
		{"No Quirks Here", "no quirks here"},
	}
	for _, c := range cases {
		if got := NormalizeTitle(c.in); got != c.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTitleAgreesWithLedgerKey(t *testing.T) {
	// A ledger name with the space present must join a scraped title that
	// dropped it.
	ledger := Normalize("Global Fund Z Class Accumulation")
	title := NormalizeTitle("Global Fund Z ClassAccumulation")
	if ledger != title {
		t.Errorf("keys diverge: ledger %q, title %q", ledger, title)
	}
}
