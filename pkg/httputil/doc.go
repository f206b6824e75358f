// Package httputil provides the HTTP plumbing shared by the artboard API
// clients and the asset loader.
//
// # Overview
//
//   - [Client]: JSON request/response helper with default headers
//   - [Retry]: Automatic retry with exponential backoff
//
// # Errors
//
// [Client.Do] classifies failures so callers can decide what to retry:
//
//   - Transport errors and 5xx/429 responses are wrapped in [RetryableError]
//   - 404 responses wrap [ErrNotFound]
//   - Every non-2xx response carries a [StatusError]
//
// # Retry
//
// [Retry] re-runs an operation only when it returns a [RetryableError],
// doubling the delay after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Do(ctx, http.MethodGet, "/api/canvases/c1", nil, &doc)
//	})
//
// Autosave and presence calls are never retried automatically; only image
// asset loads use [Retry].
package httputil
