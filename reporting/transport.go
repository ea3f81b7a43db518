package reporting

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport is an http.RoundTripper that passes the Report-To and NEL
// headers of every secure response to an Agent.  Header errors are
// logged by the agent but never fail the request.
type Transport struct {
	Agent *Agent
	Base  http.RoundTripper

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewTransport wraps base (http.DefaultTransport if nil).  If traced is
// true, requests are also wrapped in otel client spans.
func NewTransport(agent *Agent, base http.RoundTripper, traced bool) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if traced {
		base = otelhttp.NewTransport(base)
	}
	return &Transport{Agent: agent, Base: base}
}

func (t *Transport) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	// Policies are only accepted from secure origins.
	if req.URL.Scheme != "https" {
		return resp, nil
	}
	origin, err := OriginFromURL(req.URL)
	if err != nil {
		return resp, nil
	}
	// Errors have already been logged and counted by the agent.
	_ = t.Agent.ProcessHeaders(req.Context(), origin, resp.Header, t.now())
	return resp, nil
}
