package servertests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AllTestCases returns the contract test cases for the demo server's
// endpoints, in the order they are executed.
func AllTestCases() []TestCase {
	return []TestCase{
		{
			Name:         "root greeting",
			Method:       "GET",
			Path:         "/",
			ExpectStatus: http.StatusOK,
			Match:        ExactMatch("Hello World!\n"),
		},
		{
			Name:         "user greeting with path parameter",
			Method:       "GET",
			Path:         "/users/123",
			ExpectStatus: http.StatusOK,
			Match:        ExactMatch("Hello User 123\n"),
		},
		{
			Name:         "JSON message",
			Method:       "GET",
			Path:         "/json",
			ExpectStatus: http.StatusOK,
			Match:        JSONFieldMatch("message", "Hello from Dusty!"),
		},
		{
			Name:         "post echo with counter",
			Method:       "POST",
			Path:         "/posts",
			Body:         "Test message",
			ExpectStatus: http.StatusOK,
			Match:        SubstringMatch("Counter:", "Test message"),
		},
	}
}

func DoEndpointTests(t *T) {
	for _, tc := range AllTestCases() {
		tc := tc
		t.Run(tc.Name, func(t *T) {
			tc.run(t)
		})
	}
}

// DoRequestCounterTests verifies that the server's request counter is real
// state, not a constant: two identical sequential posts must come back with
// different counter values.
func DoRequestCounterTests(t *T) {
	t.Run("sequential posts see distinct counts", func(t *T) {
		const text = "Counter probe"

		status, first, err := t.target.Request("POST", "/posts", text)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, SubstringMatch("Counter:", text).Match(first))

		status, second, err := t.target.Request("POST", "/posts", text)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, SubstringMatch("Counter:", text).Match(second))

		t.Debug("first response %q, second response %q", first, second)
		// the echoed text is identical, so any difference is the counter
		assert.NotEqual(t, first, second, "expected the second post to observe a different counter value")
	})
}
