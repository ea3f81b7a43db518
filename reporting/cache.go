// Package reporting implements the user agent side of the Reporting
// API and Network Error Logging: decoding Report-To and NEL headers,
// caching them per origin, and choosing where reports get uploaded.
package reporting

import (
	"fmt"
	"time"
)

// nelGroup is the report group that queued NEL reports are sent to.
const nelGroup = "nel"

// QueuedReport is a report waiting to be uploaded, along with the
// origin it is about and the group it should be delivered to.
type QueuedReport struct {
	Report *Report
	Origin Origin
	Group  string
}

// ReportingCache holds the Report-To configuration for every origin
// we've heard from, and the reports that are waiting to be uploaded.
//
// A ReportingCache is not safe for concurrent use; see Agent.
type ReportingCache struct {
	// Rand is used for weighted endpoint selection.  If nil, the
	// process-wide generator is used.
	Rand Rand

	clients map[Origin]*Client
	queued  []QueuedReport
}

// NewReportingCache creates an empty cache.
func NewReportingCache() *ReportingCache {
	return &ReportingCache{
		clients: make(map[Origin]*Client),
	}
}

// AddClient installs client, replacing any existing client for the
// same origin.
func (c *ReportingCache) AddClient(client *Client) {
	c.clients[client.Origin()] = client
}

// Client returns the client registered for exactly origin, or nil.
func (c *ReportingCache) Client(origin Origin) *Client {
	return c.clients[origin]
}

// RemoveClient deletes the client for origin, if any.
func (c *ReportingCache) RemoveClient(origin Origin) {
	delete(c.clients, origin)
}

// ClientCount returns the number of origins with a registered client.
func (c *ReportingCache) ClientCount() int {
	return len(c.clients)
}

// ChooseEndpoint finds the endpoint that reports for origin in
// groupName should be uploaded to, or nil if there isn't one.
//
// Clients are tried from the most specific origin outward.  A group
// registered by a superdomain of origin is only used if it includes
// subdomains.  The first group that yields an endpoint wins, even if a
// more general origin also has a matching group.
func (c *ReportingCache) ChooseEndpoint(now time.Time, origin Origin, groupName string) *Endpoint {
	for client := range Lookup(c.clients, origin) {
		group := client.Group(groupName)
		if group == nil {
			continue
		}
		if client.Origin() != origin && !group.IncludeSubdomains() {
			continue
		}
		if endpoint := group.ChooseEndpoint(now, c.Rand); endpoint != nil {
			return endpoint
		}
	}
	return nil
}

// EnqueueReport queues report for upload to the "nel" group of the
// origin its URI belongs to.
func (c *ReportingCache) EnqueueReport(report *Report) error {
	origin, err := OriginFromURL(report.URI())
	if err != nil {
		return fmt.Errorf("unable to queue report: %w", err)
	}
	c.queued = append(c.queued, QueuedReport{
		Report: report,
		Origin: origin,
		Group:  nelGroup,
	})
	return nil
}

// QueuedReportCount returns the number of reports waiting for upload.
func (c *ReportingCache) QueuedReportCount() int {
	return len(c.queued)
}

// QueuedReports returns the queued reports in the order they were
// queued.
func (c *ReportingCache) QueuedReports() []QueuedReport {
	return append([]QueuedReport(nil), c.queued...)
}

// RemoveOldReports drops every queued report whose timestamp is before
// cutoff, and returns how many were dropped.  Reports without a
// timestamp count as older than any cutoff.
func (c *ReportingCache) RemoveOldReports(cutoff time.Time) int {
	kept := c.queued[:0]
	for _, q := range c.queued {
		if q.Report.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, q)
	}
	removed := len(c.queued) - len(kept)
	clear(c.queued[len(kept):])
	c.queued = kept
	return removed
}

// RemoveExpired drops every group that has expired at now, and every
// client that is left without groups.  It returns the number of
// groups removed.
func (c *ReportingCache) RemoveExpired(now time.Time) int {
	removed := 0
	for origin, client := range c.clients {
		for _, group := range client.Groups() {
			if group.IsExpired(now) {
				client.RemoveGroup(group.Name())
				removed++
			}
		}
		if len(client.groups) == 0 {
			delete(c.clients, origin)
		}
	}
	return removed
}
