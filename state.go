// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package axiosretry

import (
	"time"

	"github.com/softonic/axios-retry/request"
)

// contextKey namespaces the values this package stores in a request's
// extension slot, so unrelated interceptors cannot collide with them.
type contextKey int

const (
	stateKey contextKey = iota
	optionsKey
)

// state is the per-request retry record. It is created when the
// request is first dispatched, mutated on each failure that triggers a
// retry, and discarded with the request. It is only ever touched by
// the single goroutine driving that request's lifecycle.
type state struct {
	// options is the configuration resolved for this request when it
	// was first dispatched.
	options Options

	// retryCount is the number of retries already granted. It never
	// exceeds options.Retries.
	retryCount int

	// lastRequestTime is the wall-clock time the most recent attempt
	// was dispatched. The timeout-budget arithmetic charges the span
	// since this instant against the request's remaining Timeout.
	lastRequestTime time.Time
}

func stateOf(r *request.Request) *state {
	st, _ := r.Value(stateKey).(*state)
	return st
}

// SetRequestOptions attaches per-request retry options to r. They take
// precedence over the options the retry layer was attached with, for
// this one request only. Call it before the request is first
// dispatched; options attached later have no effect, because the
// configuration is resolved on first dispatch.
//
// Repeated calls accumulate, with later options winning.
func SetRequestOptions(r *request.Request, opts ...Option) {
	existing, _ := r.Value(optionsKey).([]Option)
	merged := make([]Option, 0, len(existing)+len(opts))
	merged = append(merged, existing...)
	merged = append(merged, opts...)
	r.SetValue(optionsKey, merged)
}

func requestOptions(r *request.Request) []Option {
	opts, _ := r.Value(optionsKey).([]Option)
	return opts
}

// RetryCount reports how many retries were made for r: zero for a
// request that succeeded on the first attempt, or that the retry layer
// never saw. Read it from a returned response via
// RetryCount(resp.Request), or from a returned *request.Error via
// RetryCount(err.Config).
func RetryCount(r *request.Request) int {
	if r == nil {
		return 0
	}
	if st := stateOf(r); st != nil {
		return st.retryCount
	}
	return 0
}
