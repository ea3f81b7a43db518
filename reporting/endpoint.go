package reporting

import (
	"net/url"
	"time"
)

// Endpoint is a single URL that reports can be uploaded to, along with
// its priority and weight within its group and its recent upload
// failures.
type Endpoint struct {
	url        *url.URL
	priority   int
	weight     int
	failures   int
	retryAfter time.Time // zero unless pending
}

// NewEndpoint creates an endpoint that uploads to u.  Lower priorities
// are tried first; weight controls load balancing between endpoints of
// the same priority and must be positive.
func NewEndpoint(u *url.URL, priority, weight int) *Endpoint {
	return &Endpoint{url: u, priority: priority, weight: weight}
}

func (e *Endpoint) URL() *url.URL { return e.url }
func (e *Endpoint) Priority() int { return e.priority }
func (e *Endpoint) Weight() int   { return e.weight }

// Failures returns the number of failed uploads since the last success.
func (e *Endpoint) Failures() int { return e.failures }

// RetryAfter returns the time before which the endpoint shouldn't be
// used, if one has been recorded.
func (e *Endpoint) RetryAfter() (time.Time, bool) {
	return e.retryAfter, !e.retryAfter.IsZero()
}

// IsPending reports whether a recent failure means the endpoint can't
// be used at now.  Pending endpoints become available again once now
// passes their retry-after time.
func (e *Endpoint) IsPending(now time.Time) bool {
	return !e.retryAfter.IsZero() && e.retryAfter.After(now)
}

// RecordSuccess notes a successful upload, clearing any pending state.
func (e *Endpoint) RecordSuccess() {
	e.failures = 0
	e.retryAfter = time.Time{}
}

// RecordFailure notes a failed upload.  The endpoint will be pending
// until retryAfter, which is picked by the uploader.
func (e *Endpoint) RecordFailure(retryAfter time.Time) {
	e.failures++
	e.retryAfter = retryAfter
}

func (e *Endpoint) String() string {
	return "<" + e.url.String() + ">"
}
