// Package errs defines the error shapes the registry returns to clients.
//
// Every error a handler returns ends up in the global error handler,
// which serializes *HTTPError values as they are and collapses anything
// else into a generic 500.
package errs
