package reporting

import (
	"net/url"
	"testing"
	"time"
)

var (
	i1300 = time.Date(2018, 2, 20, 13, 0, 0, 0, time.UTC)
	i1301 = time.Date(2018, 2, 20, 13, 1, 0, 0, time.UTC)
	i1330 = time.Date(2018, 2, 20, 13, 30, 0, 0, time.UTC)
	i1400 = time.Date(2018, 2, 20, 14, 0, 0, 0, time.UTC)
	i1401 = time.Date(2018, 2, 20, 14, 1, 0, 0, time.UTC)
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) returned error: %v", raw, err)
	}
	return u
}

// fixedRand always returns the same values, for tests that need to
// control which endpoint is picked or whether a report is sampled.
type fixedRand struct {
	n int
	f float64
}

func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func (r fixedRand) Float64() float64 { return r.f }
