package servertests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCase is one declarative request/expectation pair. Cases are defined
// statically before the run and executed strictly in declaration order; the
// runner never reorders or deduplicates requests, since the server may keep
// state (such as a request counter) that depends on the exact sequence.
type TestCase struct {
	Name         string
	Method       string
	Path         string
	Body         string
	ExpectStatus int
	Match        BodyMatcher
}

func (tc TestCase) run(t *T) {
	status, body, err := t.target.Request(tc.Method, tc.Path, tc.Body)
	require.NoError(t, err, "request %s %s failed", tc.Method, tc.Path)
	t.Debug("%s %s returned status %d, body %q", tc.Method, tc.Path, status, body)

	assert.Equal(t, tc.ExpectStatus, status, "unexpected response status for %s %s", tc.Method, tc.Path)
	if tc.Match != nil {
		if err := tc.Match.Match(body); err != nil {
			t.Errorf("%s %s: %s", tc.Method, tc.Path, err)
		}
	}
}
