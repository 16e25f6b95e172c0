// Package httputil provides the HTTP plumbing shared by repository clients.
//
//   - [Client]: GET requests with status mapping and observability hooks
//   - [Policy]: retries with capped exponential backoff
//
// Transient failures (connection errors, 5xx responses, 429 rate limits) are
// wrapped in [RetryableError] so that a [Policy] attempts them again; a 404
// becomes [ErrNotFound] and is never retried:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err = client.Get(ctx, url)
//	    return err
//	})
//	if errors.Is(err, httputil.ErrNotFound) {
//	    // try the next repository
//	}
package httputil
