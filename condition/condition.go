// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package condition

import (
	"net/http"

	"github.com/softonic/axios-retry/request"
)

// A Condition decides, from the failure result of an attempt, whether
// the attempt is eligible for a retry. Conditions are pure functions:
// the same error always yields the same answer, and evaluating a
// condition has no side effects.
//
// Simple conditions can be composed into complex decision trees using
// the logical composition methods Condition.And and Condition.Or.
type Condition func(err *request.Error) bool

// And composes two conditions into a new condition which returns true
// if both sub-conditions return true, and false otherwise.
//
// Short-circuit logic is used, so d is not evaluated if c returns
// false.
func (c Condition) And(d Condition) Condition {
	return func(err *request.Error) bool {
		return c(err) && d(err)
	}
}

// Or composes two conditions into a new condition which returns true
// if either sub-condition returns true, but false if both return
// false.
//
// Short-circuit logic is used, so d is not evaluated if c returns
// true.
func (c Condition) Or(d Condition) Condition {
	return func(err *request.Error) bool {
		return c(err) || d(err)
	}
}

// retryDenied lists failure codes for which a retry can never succeed:
// programmer mistakes and conditions that do not clear on their own.
var retryDenied = map[request.ErrorCode]bool{
	request.ErrInvalidURL:     true,
	request.ErrBadOption:      true,
	request.ErrNotSupported:   true,
	request.ErrNotFound:       true,
	request.ErrNetUnreachable: true,
	request.ErrTLSCert:        true,
}

// IsRetryAllowed reports whether a failure with the given code is
// retry-safe at all. It is the low-level gate underneath
// IsNetworkError: codes representing programmer mistakes (for example
// a malformed URL) or conditions that will not clear on their own are
// rejected here regardless of any other signal.
func IsRetryAllowed(code request.ErrorCode) bool {
	return !retryDenied[code]
}

// IsNetworkError reports whether the error represents network-level
// trouble that produced no response: a code is present, the code does
// not indicate cancellation or a client-side abort, and the code is
// retry-safe per IsRetryAllowed.
//
// A client-side abort (deadline passed) deliberately does not count:
// retrying against a server that is simply slower than the deadline
// invites a retry storm.
func IsNetworkError(err *request.Error) bool {
	if err == nil || err.Response != nil {
		return false
	}
	if err.Code == "" {
		return false
	}
	if err.Code == request.ErrCanceled || err.Code == request.ErrAborted {
		return false
	}
	return IsRetryAllowed(err.Code)
}

// IsRetryableError reports whether the error, regardless of request
// method, looks transient: the client did not abort on its own
// deadline, and either no response was received or the response status
// is 429 or in the 5xx range.
//
// Status 429 (Too Many Requests) counts as retryable even though it is
// outside the 5xx range: rate-limit responses clear with time.
func IsRetryableError(err *request.Error) bool {
	if err == nil {
		return false
	}
	if err.Code == request.ErrAborted {
		return false
	}
	if err.Response == nil {
		return true
	}
	sc := err.Response.StatusCode
	return sc == http.StatusTooManyRequests || (sc >= 500 && sc <= 599)
}

// IsSafeRequestError reports whether the error is retryable per
// IsRetryableError and the failed request used a safe method (GET,
// HEAD, or OPTIONS). Methods are matched as sent; net/http
// conventionally uses the canonical upper-case form.
//
// An error with no Config always yields false: if the method cannot be
// determined, the request cannot be known safe.
func IsSafeRequestError(err *request.Error) bool {
	if err == nil || err.Config == nil {
		return false
	}
	switch err.Config.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return IsRetryableError(err)
	default:
		return false
	}
}

// IsIdempotentRequestError reports whether the error is retryable per
// IsRetryableError and the failed request used an idempotent method
// (GET, HEAD, OPTIONS, PUT, or DELETE). Methods are matched as sent;
// net/http conventionally uses the canonical upper-case form.
//
// An error with no Config always yields false: if the method cannot be
// determined, the request cannot be known idempotent.
func IsIdempotentRequestError(err *request.Error) bool {
	if err == nil || err.Config == nil {
		return false
	}
	switch err.Config.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodPut, http.MethodDelete:
		return IsRetryableError(err)
	default:
		return false
	}
}

// IsNetworkOrIdempotentRequestError reports whether the error is a
// network-level failure per IsNetworkError, or a retryable failure of
// an idempotent request per IsIdempotentRequestError. It is the
// default retry condition.
func IsNetworkOrIdempotentRequestError(err *request.Error) bool {
	return IsNetworkError(err) || IsIdempotentRequestError(err)
}
