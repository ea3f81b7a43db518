package reporting

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLookup(t *testing.T) {
	foo := NewOrigin("https", "foo.example.com", 443)
	example := NewOrigin("https", "example.com", 443)
	deep := NewOrigin("https", "a.b.foo.example.com", 443)

	tests := []struct {
		name   string
		m      map[Origin]string
		origin Origin
		want   []string
	}{
		{
			name:   "exact",
			m:      map[Origin]string{example: "test"},
			origin: example,
			want:   []string{"test"},
		},
		{
			name:   "superdomain",
			m:      map[Origin]string{example: "test"},
			origin: foo,
			want:   []string{"test"},
		},
		{
			name:   "most specific first",
			m:      map[Origin]string{example: "test", foo: "test2"},
			origin: foo,
			want:   []string{"test2", "test"},
		},
		{
			name:   "skips missing levels",
			m:      map[Origin]string{example: "test", foo: "test2"},
			origin: deep,
			want:   []string{"test2", "test"},
		},
		{
			name:   "ignores other ports",
			m:      map[Origin]string{NewOrigin("https", "example.com", 8443): "other", example: "test"},
			origin: foo,
			want:   []string{"test"},
		},
		{
			name:   "ignores subdomains",
			m:      map[Origin]string{foo: "test2"},
			origin: example,
			want:   nil,
		},
	}

	for _, tt := range tests {
		got := slices.Collect(Lookup(tt.m, tt.origin))
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: Lookup mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestLookup_StopsEarly(t *testing.T) {
	m := map[Origin]string{
		NewOrigin("https", "foo.example.com", 443): "first",
		NewOrigin("https", "example.com", 443):     "second",
	}
	var got []string
	for v := range Lookup(m, NewOrigin("https", "foo.example.com", 443)) {
		got = append(got, v)
		break
	}
	if diff := cmp.Diff([]string{"first"}, got); diff != "" {
		t.Errorf("Lookup mismatch (-want +got):\n%s", diff)
	}
}
