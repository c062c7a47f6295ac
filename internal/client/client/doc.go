// Package client talks to the authentication REST API.
//
// # Overview
//
// The package provides:
//  1. Gateway, the single entry point for HTTP calls. It prefixes the fixed
//     API origin, attaches stored cookies, applies the request timeout,
//     decodes the {detail, status, data, meta} envelope and turns failures
//     into typed errors.
//  2. The Client contract with one method per endpoint, and RESTClient,
//     its implementation over Gateway.
//  3. PersistentJar, a cookie jar mirrored into the local metadata store so
//     the server session survives restarts of the CLI.
//  4. InitDatabase and RunMigrations, which open the local sqlite cache and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Server-reported failures are *HTTPError values carrying the envelope detail
// and the status code. A request that exceeds the timeout fails with a
// *TimeoutError, which matches ErrTimeout under errors.Is. Transport failures
// match ErrUnavailable. No call is retried.
package client
