// Package servertests contains the contract tests for the demo web server and
// their supporting API.
//
// Infrastructure that is not specific to this server, such as the test context
// and result reporting, is in the lower-level framework package. The process
// lifecycle is in the supervisor package; by the time this package runs, the
// server is already live, and it is exercised purely over HTTP.
package servertests
