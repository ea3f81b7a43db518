package reporting

import (
	"slices"
	"strings"
)

// Client holds the endpoint groups that one origin has declared via
// its Report-To header.
type Client struct {
	origin Origin
	groups map[string]*EndpointGroup
}

// NewClient creates an empty client for origin.
func NewClient(origin Origin) *Client {
	return &Client{
		origin: origin,
		groups: make(map[string]*EndpointGroup),
	}
}

func (c *Client) Origin() Origin { return c.origin }

// AddGroup adds group to the client, replacing any existing group with
// the same name.
func (c *Client) AddGroup(group *EndpointGroup) {
	c.groups[group.Name()] = group
}

// Group returns the named group, or nil if there isn't one.
func (c *Client) Group(name string) *EndpointGroup {
	return c.groups[name]
}

// RemoveGroup deletes the named group, if present.
func (c *Client) RemoveGroup(name string) {
	delete(c.groups, name)
}

// Groups returns the client's groups sorted by name.
func (c *Client) Groups() []*EndpointGroup {
	out := make([]*EndpointGroup, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *EndpointGroup) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}
