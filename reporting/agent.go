package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Agent ties a ReportingCache and a NelCache together behind a single
// lock, for hosts that receive responses and upload reports from
// different goroutines.
type Agent struct {
	Reporting *ReportingCache
	NEL       *NelCache

	// MaxReportAge is how long a queued report is kept before Expire
	// drops it.  Zero means the default of 15 minutes.
	MaxReportAge time.Duration

	// Rand is used to sample reports.  If nil, the process-wide
	// generator is used.
	Rand Rand

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	mu sync.Mutex
}

// NewAgent creates an agent with empty caches.
func NewAgent() *Agent {
	return &Agent{
		Reporting: NewReportingCache(),
		NEL:       NewNelCache(),
	}
}

// MaximumReportAge returns how long queued reports are kept.
func (a *Agent) MaximumReportAge() time.Duration {
	if a.MaxReportAge > 0 {
		return a.MaxReportAge
	} else {
		return 15 * time.Minute
	}
}

func (a *Agent) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// ProcessHeaders installs the Report-To and NEL configuration from a
// response that origin sent at now.  The two headers are handled
// independently: a bad NEL header doesn't stop a good Report-To header
// from being installed.  Errors for invalid headers are returned
// joined together; nothing from an invalid header is installed.
//
// A Report-To group or NEL policy with a max-age of zero removes the
// existing configuration instead of installing anything.
func (a *Agent) ProcessHeaders(ctx context.Context, origin Origin, header http.Header, now time.Time) error {
	span := trace.SpanFromContext(ctx)
	log := a.logger().With("origin", origin.String())

	// fail makes sure that the span, log, and metrics all see a
	// rejected header.
	fail := func(name string, err error) error {
		headersProcessed.WithLabelValues(name, "invalid").Inc()
		log.Error("Unable to parse header", "header", name, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("Invalid %s header", name))
		return err
	}

	var errs []error

	a.mu.Lock()
	defer a.mu.Unlock()

	if values := header.Values(reportToHeader); len(values) > 0 {
		client, err := ParseReportToHeader(values, origin, now)
		if err != nil {
			errs = append(errs, fail(reportToHeader, err))
		} else {
			a.installClient(client, log)
			headersProcessed.WithLabelValues(reportToHeader, "ok").Inc()
			span.AddEvent("Installed Report-To header", trace.WithAttributes(
				attribute.String("origin", origin.String()),
				attribute.Int("groups", len(client.Groups())),
			))
		}
	}

	if value := header.Get(nelHeader); value != "" {
		policy, err := ParseNELHeader(value, origin, now)
		if err != nil {
			errs = append(errs, fail(nelHeader, err))
		} else {
			if policy.TTL == 0 {
				a.NEL.RemovePolicy(origin)
				log.Info("Removed NEL policy")
			} else {
				a.NEL.AddPolicy(policy)
				log.Info("Installed NEL policy", "policy", policy)
			}
			headersProcessed.WithLabelValues(nelHeader, "ok").Inc()
			span.AddEvent("Installed NEL header", trace.WithAttributes(
				attribute.String("origin", origin.String()),
				attribute.String("report_to", policy.ReportTo),
			))
		}
	}

	return errors.Join(errs...)
}

// installClient replaces origin's client with client, leaving out any
// groups with a zero max-age, which only exist to delete a group.
func (a *Agent) installClient(client *Client, log *slog.Logger) {
	for _, group := range client.Groups() {
		if group.TTL() == 0 {
			client.RemoveGroup(group.Name())
			log.Info("Removed endpoint group", "group", group.Name())
		}
	}
	if len(client.Groups()) == 0 {
		a.Reporting.RemoveClient(client.Origin())
		return
	}
	a.Reporting.AddClient(client)
	log.Info("Installed Report-To client", "groups", len(client.Groups()))
}

// QueueReport samples report according to the NEL policy for the
// origin of its URI, and queues it for upload if it is selected.  It
// returns whether the report was queued.  The report's
// SamplingFraction is set from the policy.
func (a *Agent) QueueReport(ctx context.Context, now time.Time, report *Report) (bool, error) {
	origin, err := OriginFromURL(report.URI())
	if err != nil {
		reportsDropped.WithLabelValues("bad_uri").Inc()
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	policy := a.NEL.ChoosePolicy(now, origin)
	if policy == nil {
		reportsDropped.WithLabelValues("no_policy").Inc()
		return false, nil
	}

	fraction := policy.SamplingFraction(report.Type)
	if fraction <= 0 || orDefault(a.Rand).Float64() >= fraction {
		reportsDropped.WithLabelValues("sampled_out").Inc()
		return false, nil
	}
	report.SamplingFraction = fraction

	if err := a.Reporting.EnqueueReport(report); err != nil {
		reportsDropped.WithLabelValues("bad_uri").Inc()
		return false, err
	}
	reportsQueued.Inc()
	reportsPending.Set(float64(a.Reporting.QueuedReportCount()))
	trace.SpanFromContext(ctx).AddEvent("Queued NEL report", trace.WithAttributes(
		attribute.String("origin", origin.String()),
		attribute.String("type", report.Type.String()),
	))
	return true, nil
}

// ChoosePolicy is NelCache.ChoosePolicy under the agent's lock.  The
// returned policy is a copy.
func (a *Agent) ChoosePolicy(now time.Time, origin Origin) (NelPolicy, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	policy := a.NEL.ChoosePolicy(now, origin)
	if policy == nil {
		return NelPolicy{}, false
	}
	return *policy, true
}

// ChooseEndpoint is ReportingCache.ChooseEndpoint under the agent's
// lock.  Record the outcome of uploading to the endpoint with
// RecordSuccess or RecordFailure rather than directly on the endpoint.
func (a *Agent) ChooseEndpoint(now time.Time, origin Origin, group string) *Endpoint {
	a.mu.Lock()
	defer a.mu.Unlock()

	endpoint := a.Reporting.ChooseEndpoint(now, origin, group)
	if endpoint == nil {
		endpointSelections.WithLabelValues("none").Inc()
		return nil
	}
	endpointSelections.WithLabelValues("found").Inc()
	return endpoint
}

// RecordSuccess notes a successful upload to endpoint.
func (a *Agent) RecordSuccess(endpoint *Endpoint) {
	a.mu.Lock()
	defer a.mu.Unlock()

	endpoint.RecordSuccess()
	uploadResults.WithLabelValues("success").Inc()
}

// RecordFailure notes a failed upload to endpoint, which won't be
// chosen again until retryAfter.
func (a *Agent) RecordFailure(endpoint *Endpoint, retryAfter time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	endpoint.RecordFailure(retryAfter)
	uploadResults.WithLabelValues("failure").Inc()
	a.logger().Warn("Upload failed", "endpoint", endpoint.String(), "failures", endpoint.Failures(), "retry_after", retryAfter)
}

// ExpireStats counts what Expire removed.
type ExpireStats struct {
	Reports  int
	Groups   int
	Policies int
}

// Expire drops queued reports older than MaximumReportAge, and any
// configuration that has expired at now.  Nothing expires on its own;
// hosts call this whenever suits them.
func (a *Agent) Expire(now time.Time) ExpireStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := ExpireStats{
		Reports:  a.Reporting.RemoveOldReports(now.Add(-a.MaximumReportAge())),
		Groups:   a.Reporting.RemoveExpired(now),
		Policies: a.NEL.RemoveExpired(now),
	}
	reportsEvicted.Add(float64(stats.Reports))
	reportsPending.Set(float64(a.Reporting.QueuedReportCount()))
	if stats != (ExpireStats{}) {
		a.logger().Info("Expired NEL state", "reports", stats.Reports, "groups", stats.Groups, "policies", stats.Policies)
	}
	return stats
}
