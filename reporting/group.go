package reporting

import (
	"math"
	"time"
)

// EndpointGroup is a named set of endpoints declared by one Report-To
// header entry.  Endpoints are tried in priority order, with weighted
// random selection between endpoints that share a priority.
//
// See https://w3c.github.io/reporting/#choose-endpoint
type EndpointGroup struct {
	name       string
	subdomains bool
	ttl        time.Duration
	created    time.Time
	expiry     time.Time
	endpoints  []*Endpoint
}

// NewEndpointGroup creates a group that was received at now and stays
// valid for ttl.  The group owns endpoints; the list can't be changed
// afterwards.
func NewEndpointGroup(name string, includeSubdomains bool, ttl time.Duration, now time.Time, endpoints ...*Endpoint) *EndpointGroup {
	return &EndpointGroup{
		name:       name,
		subdomains: includeSubdomains,
		ttl:        ttl,
		created:    now,
		expiry:     now.Add(ttl),
		endpoints:  endpoints,
	}
}

func (g *EndpointGroup) Name() string            { return g.name }
func (g *EndpointGroup) IncludeSubdomains() bool { return g.subdomains }
func (g *EndpointGroup) TTL() time.Duration      { return g.ttl }
func (g *EndpointGroup) Created() time.Time      { return g.created }
func (g *EndpointGroup) Expiry() time.Time       { return g.expiry }

// Endpoints returns the group's endpoints in declaration order.  The
// returned endpoints are the group's own, so recording successes and
// failures on them affects later selection.
func (g *EndpointGroup) Endpoints() []*Endpoint {
	return append([]*Endpoint(nil), g.endpoints...)
}

// IsExpired reports whether now is past the group's expiry.
func (g *EndpointGroup) IsExpired(now time.Time) bool {
	return now.After(g.expiry)
}

// eligible returns the non-pending endpoints.
func (g *EndpointGroup) eligible(now time.Time) []*Endpoint {
	var out []*Endpoint
	for _, e := range g.endpoints {
		if !e.IsPending(now) {
			out = append(out, e)
		}
	}
	return out
}

// MinimumPriority returns the lowest priority of any non-pending
// endpoint.  The second result is false if every endpoint is pending.
func (g *EndpointGroup) MinimumPriority(now time.Time) (int, bool) {
	lowest := math.MaxInt
	found := false
	for _, e := range g.eligible(now) {
		if e.priority < lowest {
			lowest = e.priority
			found = true
		}
	}
	return lowest, found
}

// TotalWeight returns the summed weight of the non-pending endpoints
// with the given priority.
func (g *EndpointGroup) TotalWeight(now time.Time, priority int) int {
	total := 0
	for _, e := range g.eligible(now) {
		if e.priority == priority {
			total += e.weight
		}
	}
	return total
}

// ChooseEndpoint picks the endpoint that should receive the next
// upload, or returns nil if the group is expired or has no usable
// endpoints.  Only endpoints at the lowest available priority are
// considered; among those, each is picked with probability
// proportional to its weight.  A nil rnd uses the process-wide
// generator.
func (g *EndpointGroup) ChooseEndpoint(now time.Time, rnd Rand) *Endpoint {
	if g.IsExpired(now) {
		return nil
	}

	priority, ok := g.MinimumPriority(now)
	if !ok {
		return nil
	}

	total := g.TotalWeight(now, priority)
	if total == 0 {
		return nil
	}

	selected := orDefault(rnd).IntN(total)
	for _, e := range g.eligible(now) {
		if e.priority != priority {
			continue
		}
		if selected < e.weight {
			return e
		}
		selected -= e.weight
	}
	return nil
}
