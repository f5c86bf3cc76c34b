package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
)

// DefaultBaseURL is the Cloud Translation v2 endpoint.
const DefaultBaseURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleService performs single translate calls against the v2 REST API.
// It holds the API key for its whole lifetime and never retries.
type GoogleService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

type Option func(*GoogleService)

func WithBaseURL(baseURL string) Option {
	return func(s *GoogleService) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *GoogleService) {
		if client != nil {
			s.client = client
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *GoogleService) {
		s.log = log
	}
}

func NewGoogleService(apiKey string, opts ...Option) *GoogleService {
	s := &GoogleService{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GoogleService) Name() string {
	return "google"
}

// Translate sends one POST and returns the decoded response.
func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	endpoint, err := s.buildURL()
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	s.log.Debug().
		Str("url", RedactKey(endpoint)).
		Str("target", req.Target).
		Int("chars", len([]rune(req.Q))).
		Msg("sending translation request")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	s.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("translation response received")

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, newAPIError(resp.StatusCode, err)
	}

	return decodeResponse(resp.Body)
}

// decodeResponse distinguishes a missing translations list (a malformed
// body) from an empty one.
func decodeResponse(r io.Reader) (*TranslateResponse, error) {
	var wire struct {
		Data *struct {
			Translations []Translation `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if wire.Data == nil || wire.Data.Translations == nil {
		return nil, &DecodeError{Err: fmt.Errorf("missing data.translations")}
	}
	if len(wire.Data.Translations) == 0 {
		return nil, ErrEmptyResult
	}

	return &TranslateResponse{Data: TranslateData{Translations: wire.Data.Translations}}, nil
}

func (s *GoogleService) buildURL() (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &ConfigError{Err: fmt.Errorf("base URL %q is not absolute", s.baseURL)}
	}
	q := u.Query()
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
