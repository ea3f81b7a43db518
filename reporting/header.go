package reporting

import (
	"fmt"
	"net/url"
	"time"
)

const (
	reportToHeader = "Report-To"
	nelHeader      = "NEL"
)

// Report-To group members.
// See https://w3c.github.io/reporting/#header
var groupRules = []fieldRule{
	{name: "group", kind: kindString, def: "default"},
	// A wrong-typed include-subdomains is treated as false, not an error.
	{name: "include-subdomains", kind: kindBool, def: false, lenient: true},
	{name: "max-age", kind: kindInteger, required: true, check: validMaxAge},
	{name: "endpoints", kind: kindArray, required: true, check: nonEmpty},
}

// Members of each object in a group's "endpoints" array.
var endpointRules = []fieldRule{
	{name: "url", kind: kindString, required: true, check: secureURL},
	{name: "priority", kind: kindInteger, def: int64(1), check: fitsInt32(nonNegative)},
	{name: "weight", kind: kindInteger, def: int64(1), check: fitsInt32(positive)},
}

// NEL policy members.  Unlike Report-To, include-subdomains must be a
// boolean if present.
// See https://w3c.github.io/network-error-logging/#nel-response-header
var policyRules = []fieldRule{
	{name: "report-to", kind: kindString},
	{name: "include-subdomains", kind: kindBool, def: false},
	{name: "max-age", kind: kindInteger, required: true, check: validMaxAge},
	{name: "success-fraction", kind: kindNumber, def: 0.0, check: fraction},
	{name: "failure-fraction", kind: kindNumber, def: 1.0, check: fraction},
}

// ParseReportToHeader decodes the values of the Report-To headers that
// origin sent at now.  Each value is a JSON object declaring one
// endpoint group; later groups replace earlier groups with the same
// name.  If any value is invalid, the whole header is rejected with an
// *InvalidHeaderError.
func ParseReportToHeader(headers []string, origin Origin, now time.Time) (*Client, error) {
	client := NewClient(origin)
	for _, header := range headers {
		group, err := parseEndpointGroup(header, now)
		if err != nil {
			return nil, err
		}
		client.AddGroup(group)
	}
	return client, nil
}

func parseEndpointGroup(header string, now time.Time) (*EndpointGroup, error) {
	obj, err := decodeObject(reportToHeader, []byte(header))
	if err != nil {
		return nil, err
	}
	fields, err := applyRules(reportToHeader, obj, groupRules)
	if err != nil {
		return nil, err
	}

	var endpoints []*Endpoint
	for i, raw := range fields.array("endpoints") {
		e, ok := raw.(map[string]any)
		if !ok {
			return nil, &InvalidHeaderError{Header: reportToHeader, Reason: fmt.Sprintf("endpoint %d must be an object", i)}
		}
		endpoint, err := parseEndpoint(e)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}

	ttl := time.Duration(fields.integer("max-age")) * time.Second
	return NewEndpointGroup(fields.str("group"), fields.boolean("include-subdomains"), ttl, now, endpoints...), nil
}

func parseEndpoint(obj map[string]any) (*Endpoint, error) {
	fields, err := applyRules(reportToHeader, obj, endpointRules)
	if err != nil {
		return nil, err
	}
	// Already validated by secureURL.
	u, err := url.Parse(fields.str("url"))
	if err != nil {
		return nil, &InvalidHeaderError{Header: reportToHeader, Reason: "invalid endpoint \"url\"", Err: err}
	}
	return NewEndpoint(u, int(fields.integer("priority")), int(fields.integer("weight"))), nil
}

// ParseNELHeader decodes the NEL header that origin sent at now.  An
// invalid header is rejected with an *InvalidHeaderError.
func ParseNELHeader(header string, origin Origin, now time.Time) (NelPolicy, error) {
	obj, err := decodeObject(nelHeader, []byte(header))
	if err != nil {
		return NelPolicy{}, err
	}
	fields, err := applyRules(nelHeader, obj, policyRules)
	if err != nil {
		return NelPolicy{}, err
	}

	maxAge := fields.integer("max-age")
	// A zero max-age policy only removes an existing policy, so it
	// doesn't need somewhere to send reports.
	if !fields.has("report-to") && maxAge != 0 {
		return NelPolicy{}, &InvalidHeaderError{Header: nelHeader, Reason: `missing "report-to"`}
	}

	return NelPolicy{
		Origin:            origin,
		ReportTo:          fields.str("report-to"),
		IncludeSubdomains: fields.boolean("include-subdomains"),
		SuccessFraction:   fields.number("success-fraction"),
		FailureFraction:   fields.number("failure-fraction"),
		TTL:               time.Duration(maxAge) * time.Second,
		Created:           now,
	}, nil
}
