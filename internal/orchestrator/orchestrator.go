// Package orchestrator drives translate calls through a transport, retrying
// rate-limit and quota failures with capped exponential backoff.
package orchestrator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/valpere/filetran/internal/translator"
)

const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = 1000 * time.Millisecond
	DefaultMaxDelay     = 32000 * time.Millisecond
)

// Transport performs exactly one network exchange per call.
type Transport interface {
	Translate(ctx context.Context, req translator.TranslateRequest) (*translator.TranslateResponse, error)
}

// RetryEvent describes a scheduled retry. Attempt counts retries from 1.
type RetryEvent struct {
	Attempt    int
	MaxRetries int
	Delay      time.Duration
	Err        error
}

type OrchestratorConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Classify     translator.Classifier
	// OnRetry observes each retry before the wait starts. It must not block.
	OnRetry func(RetryEvent)
}

type Orchestrator struct {
	transport Transport
	config    OrchestratorConfig
	// timer is nil outside tests; backoff then uses a real timer.
	timer backoff.Timer
}

// retryState lives for a single Translate call.
type retryState struct {
	attemptsMade int
}

// New fills zero config values with the defaults. A negative MaxRetries
// disables retries.
func New(transport Transport, config OrchestratorConfig) *Orchestrator {
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = DefaultInitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultMaxDelay
	}
	if config.MaxDelay < config.InitialDelay {
		config.MaxDelay = config.InitialDelay
	}
	if config.Classify == nil {
		config.Classify = translator.Classify
	}

	return &Orchestrator{
		transport: transport,
		config:    config,
	}
}

// Translate returns the first successful result, the first terminal error,
// or the last retryable error once the retry budget is spent. Errors are
// returned exactly as the transport produced them. Cancelling ctx aborts a
// pending wait and returns the context error.
func (o *Orchestrator) Translate(ctx context.Context, text, targetLang string, sourceLang *string) (*translator.TranslationResult, error) {
	req := translator.NewTranslateRequest(text, targetLang, sourceLang)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	state := &retryState{}

	operation := func() (*translator.TranslationResult, error) {
		resp, err := o.transport.Translate(ctx, req)
		if err == nil {
			var result *translator.TranslationResult
			result, err = resp.Result()
			if err == nil {
				return result, nil
			}
		}
		if o.config.Classify(err) == translator.Terminal {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, delay time.Duration) {
		state.attemptsMade++
		if o.config.OnRetry != nil {
			o.config.OnRetry(RetryEvent{
				Attempt:    state.attemptsMade,
				MaxRetries: o.config.MaxRetries,
				Delay:      delay,
				Err:        err,
			})
		}
	}

	return backoff.RetryNotifyWithTimerAndData(operation, o.newBackOff(ctx), notify, o.timer)
}

// newBackOff yields InitialDelay, 2x, 4x, ... capped at MaxDelay, with no
// jitter and no total elapsed-time limit.
func (o *Orchestrator) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = o.config.InitialDelay
	exp.MaxInterval = o.config.MaxDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(o.config.MaxRetries)), ctx)
}
