package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/netip"
	"net/url"
	"time"
)

// ErrIncompleteReport is returned when marshaling a Report that is
// missing a field the wire format requires.
var ErrIncompleteReport = errors.New("incomplete NEL report")

// Report describes one request observed by the user agent.
//
// See https://w3c.github.io/network-error-logging/#generate-a-network-error-report
type Report struct {
	// Timestamp is when the report was created.  The zero time means
	// unknown, and the report's `age` is omitted.
	Timestamp time.Time

	// Referrer of the original request, if any.
	Referrer *url.URL

	// SamplingFraction that was in effect when the report was captured;
	// each report stands for 1/SamplingFraction requests.
	SamplingFraction float64

	// ServerIP is the IP address the original request was sent to.  It
	// is invalid (the zero Addr) when DNS resolution failed.
	ServerIP netip.Addr

	// Protocol is the ALPN protocol ID, e.g. "h2" or "http/1.1".
	Protocol    string
	StatusCode  int
	ElapsedTime time.Duration
	Type        ErrorType

	uri *url.URL // never has a fragment
}

// URI returns the URI of the original request.
func (r *Report) URI() *url.URL {
	return r.uri
}

// SetURI sets the URI of the original request.  Any fragment is
// dropped; NEL reports never carry one.
func (r *Report) SetURI(u *url.URL) *Report {
	if u == nil {
		r.uri = nil
		return r
	}
	stripped := *u
	stripped.Fragment = ""
	stripped.RawFragment = ""
	r.uri = &stripped
	return r
}

// SetURIString parses raw and sets it as the report's URI.
func (r *Report) SetURIString(raw string) (*Report, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return r, err
	}
	return r.SetURI(u), nil
}

// Wire format.  Field order here is the order in the JSON output.
type reportJSON struct {
	Age  *int64         `json:"age,omitempty"`
	Type string         `json:"type"`
	URL  string         `json:"url"`
	Body reportBodyJSON `json:"body"`
}

type reportBodyJSON struct {
	URI              string  `json:"uri"`
	Referrer         *string `json:"referrer"` // null, not omitted, when there's no referrer
	SamplingFraction float64 `json:"sampling-fraction"`
	ServerIP         string  `json:"server-ip"`
	Protocol         string  `json:"protocol"`
	StatusCode       int     `json:"status-code,omitempty"`
	ElapsedTime      int64   `json:"elapsed-time"`
	Type             string  `json:"type"`
}

// Marshal renders the report as the JSON payload that is uploaded to a
// collector, indented by two spaces.  now is the upload time and is
// used to compute the report's age.  Reports can't be read back from
// this format.
func (r *Report) Marshal(now time.Time) ([]byte, error) {
	if r.uri == nil {
		return nil, errors.Join(ErrIncompleteReport, errors.New("missing URI"))
	}
	if !r.ServerIP.IsValid() {
		return nil, errors.Join(ErrIncompleteReport, errors.New("missing server IP"))
	}

	uri := r.uri.String()
	out := reportJSON{
		Type: "network-error",
		URL:  uri,
		Body: reportBodyJSON{
			URI:              uri,
			SamplingFraction: r.SamplingFraction,
			ServerIP:         r.ServerIP.String(),
			Protocol:         r.Protocol,
			StatusCode:       r.StatusCode,
			ElapsedTime:      r.ElapsedTime.Milliseconds(),
			Type:             r.Type.String(),
		},
	}
	if !r.Timestamp.IsZero() {
		age := now.Sub(r.Timestamp).Milliseconds()
		out.Age = &age
	}
	if r.Referrer != nil {
		ref := r.Referrer.String()
		out.Body.Referrer = &ref
	}

	// json.MarshalIndent would escape '&' in query strings.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
