package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrTimeout      = errors.New("request timed out")
	ErrEmptyPayload = errors.New("empty response payload")
)

// HTTPError is a failure reported by the server, either through a non-2xx
// status or through an envelope whose status is not 200.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, msg)
}

// TimeoutError reports that no response arrived within the request timeout.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// StatusCode extracts the status of an *HTTPError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	return 0, false
}

// IsStatus reports whether err is an *HTTPError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	status, ok := StatusCode(err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if status == c {
			return true
		}
	}
	return false
}

// Message returns the text to show a user for err: the server detail for
// an *HTTPError and err.Error() otherwise.
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}
