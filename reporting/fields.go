package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"time"
)

// jsonKind is the JSON type a header field must have.
type jsonKind int

const (
	kindString jsonKind = iota
	kindBool
	kindInteger // a JSON number with no fractional part
	kindNumber
	kindArray
)

func (k jsonKind) String() string {
	switch k {
	case kindString:
		return "a string"
	case kindBool:
		return "a boolean"
	case kindInteger:
		return "an integer"
	case kindNumber:
		return "a number"
	case kindArray:
		return "an array"
	}
	return "unknown"
}

// fieldRule describes one member of a header's JSON object.  The
// Report-To and NEL decoders are each a table of these.
type fieldRule struct {
	name     string
	kind     jsonKind
	required bool

	// lenient fields fall back to def when the value has the wrong
	// type, instead of failing the header.
	lenient bool

	// def is used when the field is absent.  Ignored if required.
	def any

	// check validates a correctly-typed value.  It returns the reason
	// the value is unacceptable, or "".
	check func(v any) string
}

// fieldValues holds the decoded members of one object: string, bool,
// int64, float64 or []any depending on each rule's kind.
type fieldValues map[string]any

func (f fieldValues) str(name string) string     { v, _ := f[name].(string); return v }
func (f fieldValues) boolean(name string) bool   { v, _ := f[name].(bool); return v }
func (f fieldValues) integer(name string) int64  { v, _ := f[name].(int64); return v }
func (f fieldValues) number(name string) float64 { v, _ := f[name].(float64); return v }
func (f fieldValues) array(name string) []any    { v, _ := f[name].([]any); return v }
func (f fieldValues) has(name string) bool       { _, ok := f[name]; return ok }

// decodeObject parses data as exactly one JSON object.  Numbers are kept
// as json.Number so integers can be told apart from fractions.
func decodeObject(header string, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &InvalidHeaderError{Header: header, Reason: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidHeaderError{Header: header, Reason: "unexpected data after JSON object", Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &InvalidHeaderError{Header: header, Reason: "value must be a single JSON object"}
	}
	return obj, nil
}

// applyRules validates obj against rules, in table order, and returns
// the decoded values with defaults filled in.  The first failing rule
// fails the whole object.  Members without a rule are ignored.
func applyRules(header string, obj map[string]any, rules []fieldRule) (fieldValues, error) {
	out := make(fieldValues, len(rules))
	for _, rule := range rules {
		raw, present := obj[rule.name]
		if !present {
			if rule.required {
				return nil, &InvalidHeaderError{Header: header, Reason: fmt.Sprintf("missing %q", rule.name)}
			}
			if rule.def != nil {
				out[rule.name] = rule.def
			}
			continue
		}

		v, err := convert(raw, rule.kind)
		if err != nil {
			if rule.lenient && rule.def != nil {
				out[rule.name] = rule.def
				continue
			}
			return nil, &InvalidHeaderError{
				Header: header,
				Reason: fmt.Sprintf("%q must be %s", rule.name, rule.kind),
				Err:    err,
			}
		}

		if rule.check != nil {
			if reason := rule.check(v); reason != "" {
				return nil, &InvalidHeaderError{Header: header, Reason: fmt.Sprintf("%q %s", rule.name, reason)}
			}
		}
		out[rule.name] = v
	}
	return out, nil
}

var errWrongType = errors.New("wrong JSON type")

// convert coerces a generic JSON value into the Go type for kind.
func convert(raw any, kind jsonKind) (any, error) {
	switch kind {
	case kindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case kindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case kindInteger:
		if n, ok := raw.(json.Number); ok {
			return toInteger(n)
		}
	case kindNumber:
		if n, ok := raw.(json.Number); ok {
			return n.Float64()
		}
	case kindArray:
		if a, ok := raw.([]any); ok {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: got %T", errWrongType, raw)
}

// toInteger accepts any JSON number with an integral value, so "600",
// "600.0" and "6e2" are all 600.
func toInteger(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s is not an integer", n)
	}
	return int64(f), nil
}

// Value checks used by the rule tables.

func nonNegative(v any) string {
	if v.(int64) < 0 {
		return "must be non-negative"
	}
	return ""
}

// validMaxAge accepts a non-negative number of seconds that fits in a
// time.Duration.
func validMaxAge(v any) string {
	if reason := nonNegative(v); reason != "" {
		return reason
	}
	if v.(int64) > int64(math.MaxInt64/time.Second) {
		return "is too large"
	}
	return ""
}

func positive(v any) string {
	if v.(int64) <= 0 {
		return "must be positive"
	}
	return ""
}

// fitsInt32 rejects priorities and weights that don't fit in 32 bits,
// so weight sums can't overflow.
func fitsInt32(check func(any) string) func(any) string {
	return func(v any) string {
		if v.(int64) > math.MaxInt32 {
			return "is too large"
		}
		return check(v)
	}
}

func fraction(v any) string {
	f := v.(float64)
	if f < 0.0 {
		return "must be >= 0.0"
	}
	if f > 1.0 {
		return "must be <= 1.0"
	}
	return ""
}

func nonEmpty(v any) string {
	if len(v.([]any)) == 0 {
		return "must not be empty"
	}
	return ""
}

func secureURL(v any) string {
	u, err := url.Parse(v.(string))
	if err != nil {
		return fmt.Sprintf("is not a valid URL (%v)", err)
	}
	if u.Scheme != "https" {
		return "must be secure (HTTPS)"
	}
	return ""
}
