// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package axiosretry

import (
	"context"
	"log/slog"

	"github.com/softonic/axios-retry/condition"
	"github.com/softonic/axios-retry/delay"
	"github.com/softonic/axios-retry/request"
)

// DefaultRetries is the number of retries allowed when no WithRetries
// option is given.
const DefaultRetries = 3

// A RetryCondition decides whether a failed attempt is eligible for a
// retry. Returning false, or a non-nil error, both mean "do not
// retry"; the original failure is then propagated, never the
// condition's own error.
//
// The context is the failed request's context; conditions that consult
// external state should honor its cancellation.
type RetryCondition func(ctx context.Context, err *request.Error) (bool, error)

// A RetryHook runs after a retry has been granted and before the
// request is resubmitted. Parameter retryCount is the one-based number
// of the retry about to be made. A non-nil return abandons the retry
// and propagates the hook's error to the caller in place of the
// original failure.
type RetryHook func(ctx context.Context, retryCount int, err *request.Error, req *request.Request) error

// A MaxRetriesHook runs once per logical request, when a failure is
// declined because the retry budget is exhausted. It does not run when
// the retry condition declines earlier failures. A non-nil return
// replaces the propagated error.
type MaxRetriesHook func(ctx context.Context, err *request.Error, retryCount int) error

// A ResponseValidator judges a response the transport considered
// successful. Returning false converts the response into a failure
// that re-enters the retry decision pipeline, so a 2xx response with
// an unacceptable body can still trigger a retry.
type ResponseValidator func(resp *request.Response) bool

// Options is the resolved retry configuration for one logical request.
// Options values are built by applying Option functions over built-in
// defaults; client-wide options are applied first and per-request
// options (SetRequestOptions) after, so later settings win.
type Options struct {
	// Retries is the maximum number of retries, not counting the
	// first attempt. Zero disables retrying.
	Retries int

	// RetryCondition decides eligibility. The default is
	// condition.IsNetworkOrIdempotentRequestError.
	RetryCondition RetryCondition

	// RetryDelay computes the wait before each retry. The default is
	// delay.None(), which waits only as long as a Retry-After header
	// demands.
	RetryDelay delay.Strategy

	// ShouldResetTimeout makes the request's Timeout apply to each
	// attempt independently. When false (the default), the Timeout is
	// a budget for the whole logical request: elapsed time and retry
	// delays are charged against it.
	ShouldResetTimeout bool

	// OnRetry, if set, runs before each resubmission.
	OnRetry RetryHook

	// OnMaxRetryTimesExceeded, if set, runs once when the retry
	// budget is exhausted.
	OnMaxRetryTimesExceeded MaxRetriesHook

	// ValidateResponse, if set, judges successful responses.
	ValidateResponse ResponseValidator

	// Logger, if set, receives debug records for granted retries and
	// warn records for exhausted budgets. A nil Logger is silent.
	Logger *slog.Logger
}

// An Option adjusts one retry setting.
type Option func(*Options)

// WithRetries sets the maximum number of retries, not counting the
// first attempt. Negative values are treated as zero.
func WithRetries(n int) Option {
	if n < 0 {
		n = 0
	}
	return func(o *Options) {
		o.Retries = n
	}
}

// WithRetryCondition sets the eligibility predicate.
func WithRetryCondition(c RetryCondition) Option {
	return func(o *Options) {
		o.RetryCondition = c
	}
}

// WithRetryDelay sets the delay strategy.
func WithRetryDelay(s delay.Strategy) Option {
	return func(o *Options) {
		o.RetryDelay = s
	}
}

// WithShouldResetTimeout controls whether the request Timeout applies
// per attempt (true) or to the whole logical request (false).
func WithShouldResetTimeout(reset bool) Option {
	return func(o *Options) {
		o.ShouldResetTimeout = reset
	}
}

// WithOnRetry sets a hook run before each resubmission.
func WithOnRetry(h RetryHook) Option {
	return func(o *Options) {
		o.OnRetry = h
	}
}

// WithOnMaxRetryTimesExceeded sets a hook run once when the retry
// budget is exhausted.
func WithOnMaxRetryTimesExceeded(h MaxRetriesHook) Option {
	return func(o *Options) {
		o.OnMaxRetryTimesExceeded = h
	}
}

// WithValidateResponse sets a validator for successful responses.
func WithValidateResponse(v ResponseValidator) Option {
	return func(o *Options) {
		o.ValidateResponse = v
	}
}

// WithLogger sets an optional structured logger for retry decisions.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Sync adapts a pure condition.Condition into a RetryCondition. The
// adapted condition never fails; it only answers true or false.
func Sync(c condition.Condition) RetryCondition {
	return func(_ context.Context, err *request.Error) (bool, error) {
		return c(err), nil
	}
}

func defaultOptions() Options {
	return Options{
		Retries:        DefaultRetries,
		RetryCondition: Sync(condition.IsNetworkOrIdempotentRequestError),
		RetryDelay:     delay.None(),
	}
}
