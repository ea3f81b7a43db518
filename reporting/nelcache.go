package reporting

import "time"

// NelCache holds the NEL policy for every origin we've heard from.
// Like ReportingCache, it is not safe for concurrent use.
type NelCache struct {
	policies map[Origin]*NelPolicy
}

// NewNelCache creates an empty cache.
func NewNelCache() *NelCache {
	return &NelCache{policies: make(map[Origin]*NelPolicy)}
}

// AddPolicy installs policy, replacing any existing policy for the same
// origin.
func (c *NelCache) AddPolicy(policy NelPolicy) {
	c.policies[policy.Origin] = &policy
}

// Policy returns the policy registered for exactly origin, or nil.
func (c *NelCache) Policy(origin Origin) *NelPolicy {
	return c.policies[origin]
}

// RemovePolicy deletes the policy for origin, if any.
func (c *NelCache) RemovePolicy(origin Origin) {
	delete(c.policies, origin)
}

func (c *NelCache) PolicyCount() int {
	return len(c.policies)
}

// ChoosePolicy returns the policy that applies to requests to origin,
// or nil if there isn't one.  That is the first unexpired policy
// registered for origin or, if it includes subdomains, for one of
// origin's superdomains.
func (c *NelCache) ChoosePolicy(now time.Time, origin Origin) *NelPolicy {
	for policy := range Lookup(c.policies, origin) {
		if policy.IsExpired(now) {
			continue
		}
		if policy.Origin == origin || policy.IncludeSubdomains {
			return policy
		}
	}
	return nil
}

// RemoveExpired drops every policy that has expired at now, and
// returns how many were dropped.
func (c *NelCache) RemoveExpired(now time.Time) int {
	removed := 0
	for origin, policy := range c.policies {
		if policy.IsExpired(now) {
			delete(c.policies, origin)
			removed++
		}
	}
	return removed
}
