// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package axiosretry

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/softonic/axios-retry/httpclient"
	"github.com/softonic/axios-retry/request"
)

// Handles ties an attached retry layer to its hosting client. The two
// interceptor IDs are exported so either hook can be deregistered
// independently through the client's eject methods; Detach ejects
// both, fully restoring the client's original behavior.
type Handles struct {
	// RequestInterceptorID identifies the before-send hook in the
	// client's request interceptor chain.
	RequestInterceptorID int

	// ResponseInterceptorID identifies the on-settle hook in the
	// client's response interceptor chain.
	ResponseInterceptorID int

	client *httpclient.Client
	opts   []Option
}

// Attach installs automatic retry behavior on c and returns handles
// for detaching it again. The given options become the client-wide
// retry configuration; requests may override any subset of them via
// SetRequestOptions.
//
// With no options, failed requests are retried up to DefaultRetries
// times when the failure is a retryable network error or a retryable
// error of an idempotent request, with no delay beyond what a
// Retry-After header demands.
//
// Attaching mutates no call sites: requests keep flowing through
// c.Do (or c.Get, c.Post, ...) as before.
func Attach(c *httpclient.Client, opts ...Option) *Handles {
	if c == nil {
		panic("axios-retry: nil client")
	}
	h := &Handles{client: c, opts: opts}
	h.RequestInterceptorID = c.UseRequest(h.beforeSend)
	h.ResponseInterceptorID = c.UseResponse(h.onSettle)
	return h
}

// Detach ejects both hooks from the hosting client. In-flight logical
// requests already holding retry state finish their current attempt
// but are not retried further.
func (h *Handles) Detach() {
	h.client.EjectRequest(h.RequestInterceptorID)
	h.client.EjectResponse(h.ResponseInterceptorID)
}

// beforeSend stamps retry state into the request on its first
// dispatch, resolving the effective options (built-in defaults, then
// client-wide options, then per-request options), and records the
// dispatch time of every attempt for the timeout-budget arithmetic.
func (h *Handles) beforeSend(r *request.Request) (*request.Request, error) {
	st := stateOf(r)
	if st == nil {
		o := defaultOptions()
		for _, opt := range h.opts {
			opt(&o)
		}
		for _, opt := range requestOptions(r) {
			opt(&o)
		}
		st = &state{options: o}
		r.SetValue(stateKey, st)
	}
	st.lastRequestTime = time.Now()
	return r, nil
}

// onSettle is the on-settle hook: successful responses are checked
// against the validator, failures enter the retry decision pipeline.
// Failures that carry no identifying request descriptor pass through
// untouched; there is no state to retry with.
func (h *Handles) onSettle(resp *request.Response, err error) (*request.Response, error) {
	if err == nil {
		if resp == nil || resp.Request == nil {
			return resp, nil
		}
		st := stateOf(resp.Request)
		if st == nil {
			return resp, nil
		}
		if st.options.ValidateResponse != nil && !st.options.ValidateResponse(resp) {
			return h.handleError(&request.Error{
				Code:     request.ErrBadResponse,
				Message:  fmt.Sprintf("response with status code %d failed validation", resp.StatusCode),
				Config:   resp.Request,
				Response: resp,
			})
		}
		return resp, nil
	}

	var rerr *request.Error
	if !errors.As(err, &rerr) || rerr.Config == nil {
		return resp, err
	}
	return h.handleError(rerr)
}

// handleError is the retry decision pipeline, run once per failed
// attempt. Every non-retry path ends in a returned error visible to
// the caller; nothing is swallowed.
func (h *Handles) handleError(rerr *request.Error) (*request.Response, error) {
	cfg := rerr.Config
	st := stateOf(cfg)
	if st == nil {
		// Never dispatched through beforeSend, so there is no state
		// to retry with.
		return nil, rerr
	}
	o := &st.options
	ctx := cfg.Context()

	if st.retryCount >= o.Retries {
		if o.Logger != nil {
			o.Logger.Warn("retry budget exhausted",
				slog.String("method", cfg.Method),
				slog.Int("retries", o.Retries),
				slog.String("code", string(rerr.Code)))
		}
		if o.OnMaxRetryTimesExceeded != nil {
			if herr := o.OnMaxRetryTimesExceeded(ctx, rerr, st.retryCount); herr != nil {
				return nil, herr
			}
		}
		return nil, rerr
	}

	retry, cerr := o.RetryCondition(ctx, rerr)
	if cerr != nil || !retry {
		return nil, rerr
	}

	st.retryCount++

	var wait time.Duration
	if o.RetryDelay != nil {
		wait = o.RetryDelay(st.retryCount, rerr)
	}

	// A per-request agent identical to the client's own transport is
	// redundant on the rebuilt request and must not survive it.
	if cfg.Agent != nil && cfg.Agent == h.client.Doer() {
		cfg.Agent = nil
	}

	if !o.ShouldResetTimeout && cfg.Timeout > 0 {
		remaining := cfg.Timeout - time.Since(st.lastRequestTime) - wait
		if remaining <= 0 {
			// The deadline is already spent; a delayed retry could
			// not finish in time.
			return nil, rerr
		}
		cfg.Timeout = remaining
	}

	// The body was serialized on the first dispatch; running the
	// transform chain again would corrupt it.
	cfg.Transform = nil

	if o.OnRetry != nil {
		if herr := o.OnRetry(ctx, st.retryCount, rerr, cfg); herr != nil {
			return nil, herr
		}
	}

	if o.Logger != nil {
		o.Logger.Debug("retrying request",
			slog.String("method", cfg.Method),
			slog.Int("retry_count", st.retryCount),
			slog.Duration("delay", wait),
			slog.String("code", string(rerr.Code)))
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			// Dispatch immediately instead of waiting out the delay:
			// the transport's own cancellation handling settles the
			// request fastest.
			timer.Stop()
		}
	}

	return h.client.Do(cfg)
}
