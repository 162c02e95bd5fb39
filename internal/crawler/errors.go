package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// HTTPError reports a response with status >= 400.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d fetching %s", e.StatusCode, e.URL)
}

// TimeoutError reports a fetch that exceeded the configured timeout.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout fetching %s", e.URL)
}

// NetworkError reports any other transport-level failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ExtractionError reports an unexpected failure while parsing or cleaning
// a fetched page.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// classifyFetchError maps a transport failure onto the fetch error taxonomy.
// HTTP status errors are classified by the caller, which has the response.
func classifyFetchError(rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: rawURL}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: rawURL}
	}
	return &NetworkError{URL: rawURL, Err: err}
}
