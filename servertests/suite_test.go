package servertests

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusty-web/server-contract-tests/framework"
)

// newDemoServerStub is an in-process implementation of the demo server's
// contract, including the stateful request counter, so the suite can be
// tested without a real subprocess.
func newDemoServerStub() http.Handler {
	var lock sync.Mutex
	counter := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "Hello World!\n")
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		fmt.Fprintf(w, "Hello User %s\n", id)
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Hello from Dusty!"})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		lock.Lock()
		counter++
		n := counter
		lock.Unlock()
		fmt.Fprintf(w, "Counter: %d\n%s", n, body)
	})
	return mux
}

func resultNames(results framework.Results) []string {
	var names []string
	for _, r := range results.Tests {
		names = append(names, r.TestID.String())
	}
	return names
}

func TestSuitePassesAgainstConformingServer(t *testing.T) {
	httphelpers.WithServer(newDemoServerStub(), func(server *httptest.Server) {
		results := RunTestSuite(NewTarget(server.URL), nil, nil)

		require.True(t, results.OK(), "unexpected failures: %+v", results.Failures)
		names := resultNames(results)
		assert.Contains(t, names, "endpoints/root greeting")
		assert.Contains(t, names, "endpoints/user greeting with path parameter")
		assert.Contains(t, names, "endpoints/JSON message")
		assert.Contains(t, names, "endpoints/post echo with counter")
		assert.Contains(t, names, "request counter/sequential posts see distinct counts")
	})
}

func TestSuiteCollectsFailuresWithoutStopping(t *testing.T) {
	// same contract except the root greeting is wrong
	broken := httphelpers.HandlerWithResponse(http.StatusOK, nil, []byte("Goodbye World!\n"))
	stub := newDemoServerStub()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			broken.ServeHTTP(w, r)
			return
		}
		stub.ServeHTTP(w, r)
	})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		results := RunTestSuite(NewTarget(server.URL), nil, nil)

		require.False(t, results.OK())
		require.Len(t, results.Failures, 1)
		assert.Equal(t, "endpoints/root greeting", results.Failures[0].TestID.String())

		// the failure did not stop the rest of the suite
		assert.Contains(t, resultNames(results), "endpoints/post echo with counter")
		assert.Contains(t, resultNames(results), "request counter/sequential posts see distinct counts")
	})
}

func TestSuiteReportsMalformedJSONDistinctly(t *testing.T) {
	stub := newDemoServerStub()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			fmt.Fprint(w, "this is not json")
			return
		}
		stub.ServeHTTP(w, r)
	})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		results := RunTestSuite(NewTarget(server.URL), nil, nil)

		require.False(t, results.OK())
		require.Len(t, results.Failures, 1)
		assert.Equal(t, "endpoints/JSON message", results.Failures[0].TestID.String())
		require.NotEmpty(t, results.Failures[0].Errors)
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "not valid JSON")
	})
}

func TestSuiteRespectsFilters(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("request counter"))

	httphelpers.WithServer(newDemoServerStub(), func(server *httptest.Server) {
		results := RunTestSuite(NewTarget(server.URL), filters.AsFilter, nil)

		require.True(t, results.OK())
		names := resultNames(results)
		assert.Contains(t, names, "endpoints/root greeting")
		assert.NotContains(t, names, "request counter/sequential posts see distinct counts")
	})
}

func TestCasesRunInDeclarationOrder(t *testing.T) {
	var lock sync.Mutex
	var order []string
	stub := newDemoServerStub()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		order = append(order, r.Method+" "+r.URL.Path)
		lock.Unlock()
		stub.ServeHTTP(w, r)
	})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		results := RunTestSuite(NewTarget(server.URL), nil, nil)
		require.True(t, results.OK())
	})

	assert.Equal(t, []string{
		"GET /",
		"GET /users/123",
		"GET /json",
		"POST /posts",
		"POST /posts",
		"POST /posts",
	}, order)
}
