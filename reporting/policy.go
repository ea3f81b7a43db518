package reporting

import (
	"fmt"
	"time"
)

// NelPolicy is the decoded NEL header for one origin: whether to
// report on its requests, how often, and which report group to send
// the reports to.
//
// See https://w3c.github.io/network-error-logging/#nel-policies
type NelPolicy struct {
	Origin Origin

	// ReportTo names the report group.  It is empty only for policies
	// with a zero TTL, which exist to remove an earlier policy.
	ReportTo          string
	IncludeSubdomains bool
	SuccessFraction   float64
	FailureFraction   float64
	TTL               time.Duration
	Created           time.Time
}

// Expiry returns the time after which the policy no longer applies.
func (p NelPolicy) Expiry() time.Time {
	return p.Created.Add(p.TTL)
}

// IsExpired reports whether now is past the policy's expiry.
func (p NelPolicy) IsExpired(now time.Time) bool {
	return now.After(p.Expiry())
}

// SamplingFraction returns the fraction of requests with outcome t that
// should be reported.
func (p NelPolicy) SamplingFraction(t ErrorType) float64 {
	if t == ErrorOK {
		return p.SuccessFraction
	}
	return p.FailureFraction
}

func (p NelPolicy) String() string {
	return fmt.Sprintf("NelPolicy(origin=%s, reportTo=%s, includeSubdomains=%t, successFraction=%g, failureFraction=%g, ttl=%s)",
		p.Origin, p.ReportTo, p.IncludeSubdomains, p.SuccessFraction, p.FailureFraction, p.TTL)
}
