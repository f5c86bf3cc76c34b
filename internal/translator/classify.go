package translator

import (
	"errors"
	"net/http"
	"strings"
)

// Class tells the retry loop what to do with a failed call.
type Class int

const (
	Terminal Class = iota
	Retryable
)

func (c Class) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "terminal"
}

// Classifier decides whether an error is worth another attempt.
type Classifier func(error) Class

// quotaReasons are the Google error reasons that signal a rate limit or an
// exhausted quota. Compared case-insensitively.
var quotaReasons = []string{
	"ratelimitexceeded",
	"userratelimitexceeded",
	"dailylimitexceeded",
	"quotaexceeded",
	"rate_limit_exceeded",
	"resource_exhausted",
}

// Classify is the structured policy: only API errors are inspected. They are
// retryable on status 429, on a quota reason or status, or when the error
// message mentions a rate limit or quota. The raw body stands in for the
// message when it is not a Google error document. Transport, decode,
// empty-result, and configuration errors are always terminal.
func Classify(err error) Class {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return Terminal
	}

	if apiErr.StatusCode == http.StatusTooManyRequests {
		return Retryable
	}

	for _, reason := range apiErr.Reasons {
		r := strings.ToLower(reason)
		for _, q := range quotaReasons {
			if r == q {
				return Retryable
			}
		}
	}

	text := apiErr.Message
	if text == "" {
		text = apiErr.Body
	}
	if mentionsQuota(text) {
		return Retryable
	}

	return Terminal
}

var quotaMarkers = []string{"rate limit", "ratelimit", "userrate", "quota"}

func mentionsQuota(s string) bool {
	s = strings.ToLower(s)
	for _, m := range quotaMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// messageMarkers is the textual policy used by ClassifyMessage.
var messageMarkers = []string{"403", "429", "rate limit", "userrate", "quota"}

// ClassifyMessage matches markers in the lowercased error text. It retries any
// error whose message happens to contain "403" or "429", including transport
// errors, and is kept for compatibility with older deployments.
func ClassifyMessage(err error) Class {
	if err == nil {
		return Terminal
	}
	msg := strings.ToLower(err.Error())
	for _, m := range messageMarkers {
		if strings.Contains(msg, m) {
			return Retryable
		}
	}
	return Terminal
}

// ClassifierByName maps a configuration value to a Classifier.
// Unknown names fall back to Classify.
func ClassifierByName(name string) Classifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "message", "legacy":
		return ClassifyMessage
	default:
		return Classify
	}
}
