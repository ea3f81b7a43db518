package reporting

import (
	"strings"
	"testing"
)

func TestSuperdomain(t *testing.T) {
	o := NewOrigin("https", "foo.bar.example.com", 443)

	want := []string{"bar.example.com", "example.com", "com"}
	var got []string
	for s, ok := o.Superdomain(); ok; s, ok = s.Superdomain() {
		if s.Scheme != "https" || s.Port != 443 {
			t.Errorf("Superdomain changed scheme or port: %v", s)
		}
		got = append(got, s.Host)
	}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Superdomain chain = %v, want %v", got, want)
	}
}

func TestSuperdomain_LabelCount(t *testing.T) {
	for _, host := range []string{"localhost", "example.com", "a.b.c.d.e"} {
		labels := strings.Count(host, ".") + 1
		o := NewOrigin("https", host, 443)
		steps := 0
		for ok := true; ok; o, ok = o.Superdomain() {
			steps++
		}
		// steps counts o itself plus its N-1 superdomains.
		if steps != labels {
			t.Errorf("%q: got %d origins in chain, want %d", host, steps, labels)
		}
	}
}

func TestOriginString(t *testing.T) {
	o := NewOrigin("https", "example.com", 443)
	if got, want := o.String(), "https://example.com:443"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		raw  string
		want Origin
	}{
		{"https://example.com/path?q=1#frag", NewOrigin("https", "example.com", 443)},
		{"http://example.com", NewOrigin("http", "example.com", 80)},
		{"https://Example.COM:8443/", NewOrigin("https", "example.com", 8443)},
		{"HTTPS://[2001:db8::1]/", NewOrigin("https", "2001:db8::1", 443)},
	}

	for _, tt := range tests {
		got, err := ParseOrigin(tt.raw)
		if err != nil {
			t.Errorf("ParseOrigin(%q) returned error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrigin(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseOrigin_Errors(t *testing.T) {
	for _, raw := range []string{"/relative/path", "ftp://example.com/", "https://example.com:port/", "::"} {
		if o, err := ParseOrigin(raw); err == nil {
			t.Errorf("ParseOrigin(%q) = %v, want error", raw, o)
		}
	}
}

func TestOriginIsMapKey(t *testing.T) {
	m := map[Origin]string{NewOrigin("https", "example.com", 443): "x"}
	if m[NewOrigin("https", "example.com", 443)] != "x" {
		t.Errorf("equal origins didn't find the same map entry")
	}
	if _, ok := m[NewOrigin("https", "example.com", 8443)]; ok {
		t.Errorf("origins with different ports found the same map entry")
	}
}
