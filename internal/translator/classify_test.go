package translator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{
			name: "429 too many requests",
			err:  &APIError{StatusCode: 429, Body: "Too Many Requests"},
			want: Retryable,
		},
		{
			name: "403 user rate limit reason",
			err:  &APIError{StatusCode: 403, Body: "{}", Reasons: []string{"userRateLimitExceeded"}},
			want: Retryable,
		},
		{
			name: "403 daily limit reason",
			err:  &APIError{StatusCode: 403, Reasons: []string{"dailyLimitExceeded"}},
			want: Retryable,
		},
		{
			name: "403 quota message without reason",
			err:  &APIError{StatusCode: 403, Message: "Quota exceeded for quota metric 'Characters'"},
			want: Retryable,
		},
		{
			name: "400 resource exhausted detail",
			err:  &APIError{StatusCode: 400, Reasons: []string{"RESOURCE_EXHAUSTED"}},
			want: Retryable,
		},
		{
			name: "wrapped 429",
			err:  fmt.Errorf("translate: %w", &APIError{StatusCode: 429}),
			want: Retryable,
		},
		{
			name: "403 invalid key",
			err:  &APIError{StatusCode: 403, Message: "The request is missing a valid API key.", Reasons: []string{"forbidden"}},
			want: Terminal,
		},
		{
			name: "500 server error",
			err:  &APIError{StatusCode: 500, Body: "internal error"},
			want: Terminal,
		},
		{
			name: "403 plain text rate limit body",
			err:  &APIError{StatusCode: 403, Body: "User Rate Limit Exceeded"},
			want: Retryable,
		},
		{
			name: "400 quota message",
			err:  &APIError{StatusCode: 400, Message: "Quota exceeded for quota metric 'Characters'"},
			want: Retryable,
		},
		{
			name: "403 plain text forbidden body",
			err:  &APIError{StatusCode: 403, Body: "Forbidden"},
			want: Terminal,
		},
		{
			name: "parsed message wins over body",
			err:  &APIError{StatusCode: 400, Message: "Invalid Value", Body: `{"error":{"message":"Invalid Value","details":"quota docs"}}`},
			want: Terminal,
		},
		{
			name: "transport error mentioning 429",
			err:  &TransportError{Err: errors.New("dial tcp 10.0.0.429:443: connection refused")},
			want: Terminal,
		},
		{
			name: "decode error",
			err:  &DecodeError{Err: errors.New("unexpected EOF")},
			want: Terminal,
		},
		{
			name: "empty result",
			err:  ErrEmptyResult,
			want: Terminal,
		},
		{
			name: "config error",
			err:  &ConfigError{Err: errors.New("parse error")},
			want: Terminal,
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: Terminal,
		},
		{
			name: "nil",
			err:  nil,
			want: Terminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_GoogleServiceResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantReason  string
		want        Class
	}{
		{
			name:        "plain text 403 user rate limit",
			status:      http.StatusForbidden,
			contentType: "text/plain",
			body:        "User Rate Limit Exceeded",
			want:        Retryable,
		},
		{
			name:        "top-level resource exhausted status",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":{"code":400,"message":"Too much traffic from this project","status":"RESOURCE_EXHAUSTED"}}`,
			wantReason:  "RESOURCE_EXHAUSTED",
			want:        Retryable,
		},
		{
			name:        "quota message with resource exhausted status",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":{"code":400,"message":"Quota exceeded for quota metric 'Characters'","status":"RESOURCE_EXHAUSTED"}}`,
			wantReason:  "RESOURCE_EXHAUSTED",
			want:        Retryable,
		},
		{
			name:        "invalid argument",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":{"code":400,"message":"Invalid Value","status":"INVALID_ARGUMENT"}}`,
			wantReason:  "INVALID_ARGUMENT",
			want:        Terminal,
		},
		{
			name:        "plain text 403 forbidden",
			status:      http.StatusForbidden,
			contentType: "text/plain",
			body:        "Forbidden",
			want:        Terminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := svc.Translate(context.Background(), NewTranslateRequest("Hello", "es", nil))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.wantReason != "" {
				assert.Contains(t, apiErr.Reasons, tt.wantReason)
			}
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{name: "status 403", err: &APIError{StatusCode: 403, Body: "Forbidden"}, want: Retryable},
		{name: "status 429", err: &APIError{StatusCode: 429, Body: ""}, want: Retryable},
		{name: "rate limit text", err: errors.New("Rate Limit hit"), want: Retryable},
		{name: "userRate text", err: errors.New("reason: userRateLimitExceeded"), want: Retryable},
		{name: "quota text", err: errors.New("QUOTA exhausted"), want: Retryable},
		{name: "500", err: &APIError{StatusCode: 500, Body: "boom"}, want: Terminal},
		{name: "empty result", err: ErrEmptyResult, want: Terminal},
		{name: "plain connection failure", err: &TransportError{Err: errors.New("connection refused")}, want: Terminal},
		{
			// The textual policy misclassifies this; Classify does not.
			name: "transport error with 429 in address",
			err:  &TransportError{Err: &url.Error{Op: "Post", URL: "http://10.0.0.1:4290", Err: errors.New("refused")}},
			want: Retryable,
		},
		{name: "nil", err: nil, want: Terminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMessage(tt.err))
		})
	}
}

func TestClassifierByName(t *testing.T) {
	quotaTransport := &TransportError{Err: errors.New("quota service unreachable")}

	assert.Equal(t, Retryable, ClassifierByName("message")(quotaTransport))
	assert.Equal(t, Retryable, ClassifierByName(" Legacy ")(quotaTransport))
	assert.Equal(t, Terminal, ClassifierByName("structured")(quotaTransport))
	assert.Equal(t, Terminal, ClassifierByName("")(quotaTransport))
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "retryable", Retryable.String())
	assert.Equal(t, "terminal", Terminal.String())
}
