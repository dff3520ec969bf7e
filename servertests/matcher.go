package servertests

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// BodyMatcher checks a response body against a test case's expectation. This
// is a closed set of three policies: exact equality for plain-text endpoints,
// substring containment for endpoints whose output includes variable data,
// and JSON field equality for JSON endpoints.
//
// Match returns nil on success, or an error describing the mismatch.
type BodyMatcher interface {
	Describe() string
	Match(body string) error
}

// MalformedBodyError means the body could not be parsed in the shape a test
// case required (for instance, a JSON endpoint returned something that is not
// JSON). It is distinct from a plain content mismatch.
type MalformedBodyError struct {
	Cause error
}

func (e MalformedBodyError) Error() string {
	return fmt.Sprintf("response body was not valid JSON: %s", e.Cause)
}

type exactMatch string

// ExactMatch expects the body to equal s exactly.
func ExactMatch(s string) BodyMatcher { return exactMatch(s) }

func (m exactMatch) Describe() string {
	return fmt.Sprintf("body is exactly %q", string(m))
}

func (m exactMatch) Match(body string) error {
	if body != string(m) {
		return fmt.Errorf("expected body %q but got %q", string(m), body)
	}
	return nil
}

type substringMatch []string

// SubstringMatch expects the body to contain every one of the given
// substrings, in any position.
func SubstringMatch(substrings ...string) BodyMatcher {
	return substringMatch(substrings)
}

func (m substringMatch) Describe() string {
	var ss []string
	for _, s := range m {
		ss = append(ss, fmt.Sprintf("%q", s))
	}
	return fmt.Sprintf("body contains %s", strings.Join(ss, " and "))
}

func (m substringMatch) Match(body string) error {
	for _, s := range m {
		if !strings.Contains(body, s) {
			return fmt.Errorf("expected body to contain %q but got %q", s, body)
		}
	}
	return nil
}

type jsonFieldMatch struct {
	field string
	value ldvalue.Value
}

// JSONFieldMatch expects the body to parse as JSON with the given top-level
// string field equal to value.
func JSONFieldMatch(field, value string) BodyMatcher {
	return jsonFieldMatch{field: field, value: ldvalue.String(value)}
}

func (m jsonFieldMatch) Describe() string {
	return fmt.Sprintf("JSON body has %q == %s", m.field, m.value.JSONString())
}

func (m jsonFieldMatch) Match(body string) error {
	var parsed ldvalue.Value
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return MalformedBodyError{Cause: err}
	}
	got := parsed.GetByKey(m.field)
	if !got.Equal(m.value) {
		return fmt.Errorf("expected JSON field %q to be %s but got %s in body %q",
			m.field, m.value.JSONString(), got.JSONString(), body)
	}
	return nil
}
