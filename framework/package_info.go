// Package framework contains the low-level test harness infrastructure that is
// not specific to the server being tested.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to
// accumulate success/failure results.
//
// 2. Tests can be selected or excluded by regex filters on their identifiers.
//
// 3. Per-test debug output is captured while a test runs and handed to a
// TestLogger when the test finishes, so it can be shown only when wanted.
//
// The domain-specific code that knows what is being tested lives in the
// servertests package; the subprocess lifecycle lives in the supervisor package.
package framework
