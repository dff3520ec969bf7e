package servertests

import (
	"github.com/dusty-web/server-contract-tests/framework"
)

// RunTestSuite executes the full contract test suite against a live target
// and returns the accumulated results. A failing case does not stop the
// remaining cases; the point of a single run is to gather as much diagnostic
// information as possible.
func RunTestSuite(
	target *Target,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, target: target}

		t.Run("endpoints", DoEndpointTests)
		t.Run("request counter", DoRequestCounterTests)
	})
}
