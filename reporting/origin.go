package reporting

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Origin is the (scheme, host, port) tuple that identifies where a
// response came from.  Origins are plain values and can be used as map
// keys.
type Origin struct {
	Scheme string
	Host   string
	Port   int
}

// NewOrigin creates an Origin from its three parts.
func NewOrigin(scheme, host string, port int) Origin {
	return Origin{Scheme: scheme, Host: host, Port: port}
}

// defaultPorts are used when a URL doesn't carry an explicit port.
var defaultPorts = map[string]int{
	"https": 443,
	"http":  80,
}

// OriginFromURL returns the origin of u.  The scheme and host are
// lower-cased; a missing port is filled in from the scheme.
func OriginFromURL(u *url.URL) (Origin, error) {
	if u == nil {
		return Origin{}, fmt.Errorf("no URL")
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Origin{}, fmt.Errorf("URL %q has no host", u.String())
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Origin{}, fmt.Errorf("URL %q has an invalid port: %w", u.String(), err)
		}
		return NewOrigin(scheme, host, port), nil
	}

	port, ok := defaultPorts[scheme]
	if !ok {
		return Origin{}, fmt.Errorf("URL %q has no port and no default port for scheme %q", u.String(), scheme)
	}
	return NewOrigin(scheme, host, port), nil
}

// ParseOrigin parses raw as a URL and returns its origin.
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Origin{}, err
	}
	return OriginFromURL(u)
}

// Superdomain returns the origin whose host is o's host with the
// leftmost label removed (see RFC 6797 section 8.2).  The second result
// is false if the host has no dot, and so no superdomain.
//
// This is a pure string operation; no DNS lookups happen here.
func (o Origin) Superdomain() (Origin, bool) {
	_, parent, found := strings.Cut(o.Host, ".")
	if !found {
		return Origin{}, false
	}
	return Origin{Scheme: o.Scheme, Host: parent, Port: o.Port}, true
}

func (o Origin) String() string {
	return o.Scheme + "://" + o.Host + ":" + strconv.Itoa(o.Port)
}
