package translator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrEmptyResult is returned when a well-formed response carries no translations.
var ErrEmptyResult = errors.New("no translation returned from API")

// ConfigError reports a failure to build the request URL.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid API URL: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure (DNS, refused connection,
// timeout). The request URL inside it has the API key redacted.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send translation request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		redacted := *uerr
		redacted.URL = RedactKey(uerr.URL)
		return &TransportError{Err: &redacted}
	}
	return &TransportError{Err: err}
}

// APIError is a non-2xx response. Body holds the response text verbatim;
// Message and Reasons are filled when the body follows the Google error schema.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
	Reasons    []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("translation API request failed with status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// newAPIError converts the error produced by googleapi.CheckResponse.
func newAPIError(statusCode int, err error) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		apiErr.Body = err.Error()
		return apiErr
	}

	apiErr.Body = gerr.Body
	apiErr.Message = gerr.Message
	for _, item := range gerr.Errors {
		if item.Reason != "" {
			apiErr.Reasons = append(apiErr.Reasons, item.Reason)
		}
	}
	apiErr.Reasons = append(apiErr.Reasons, detailReasons(gerr.Details)...)
	if status := errorStatus(gerr.Body); status != "" {
		apiErr.Reasons = append(apiErr.Reasons, status)
	}
	return apiErr
}

// errorStatus returns the canonical status ("RESOURCE_EXHAUSTED") of a
// Google error body. googleapi.Error does not keep it.
func errorStatus(body string) string {
	var wire struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return ""
	}
	return wire.Error.Status
}

// detailReasons collects ErrorInfo reasons ("RATE_LIMIT_EXCEEDED") from the
// structured error details when the API includes them.
func detailReasons(details []interface{}) []string {
	var reasons []string
	for _, d := range details {
		m, ok := d.(map[string]interface{})
		if !ok {
			continue
		}
		if reason, ok := m["reason"].(string); ok && reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return reasons
}

// DecodeError reports a malformed or incomplete JSON success body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse translation response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RedactKey replaces the value of the "key" query parameter in rawURL.
func RedactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
