package servertests

import (
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/dusty-web/server-contract-tests/framework"
)

const requestTimeout = time.Second * 5

// Target is the live server under test, addressed only by its base URL. The
// tests never touch the process handle; that belongs to the supervisor.
type Target struct {
	baseURL string
	client  *http.Client
}

func NewTarget(baseURL string) *Target {
	return &Target{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Request issues one HTTP request against the target and returns the observed
// status and body.
func (tg *Target) Request(method, path, body string) (int, string, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, tg.baseURL+path, bodyReader)
	if err != nil {
		return 0, "", err
	}
	resp, err := tg.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	data, err := ioutil.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(data), nil
}

// T represents a test or subtest in the contract test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner, with extra features such
// as captured debug logging that are provided by the framework package.
//
// To make test assertions, you can use the assert and require packages,
// passing the *T as if it were a *testing.T.
type T struct {
	context *framework.Context
	target  *Target
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately
// exit. The methods in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest, in the same way as the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, target: t.target})
	})
}

// Debug logs some debug output for the test. The output will be passed to the
// test logger at the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}
