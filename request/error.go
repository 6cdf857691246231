// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// An ErrorCode identifies the failure category of a request attempt.
// Codes use portable errno-style spellings so they survive logging and
// cross-service comparison unchanged.
type ErrorCode string

const (
	// ErrCanceled indicates the caller cancelled the request.
	ErrCanceled ErrorCode = "ERR_CANCELED"
	// ErrAborted indicates the client aborted the attempt because its
	// deadline passed. An aborted attempt received no response, but a
	// retry against a server that is simply slow is unlikely to fare
	// better, so this code is excluded from the network-error
	// classification.
	ErrAborted ErrorCode = "ECONNABORTED"
	// ErrTimedOut indicates the operating system reported a
	// connection-level timeout before the client deadline passed.
	ErrTimedOut ErrorCode = "ETIMEDOUT"
	// ErrConnReset indicates the remote host reset an active
	// connection.
	ErrConnReset ErrorCode = "ECONNRESET"
	// ErrConnRefused indicates the remote host refused the connection.
	ErrConnRefused ErrorCode = "ECONNREFUSED"
	// ErrNotFound indicates the host name did not resolve.
	ErrNotFound ErrorCode = "ENOTFOUND"
	// ErrNetUnreachable indicates no route to the network.
	ErrNetUnreachable ErrorCode = "ENETUNREACH"
	// ErrNetwork is the generic code for transport-level failures not
	// covered by a more specific code.
	ErrNetwork ErrorCode = "ERR_NETWORK"
	// ErrBadRequest indicates the server answered with a 4xx status.
	ErrBadRequest ErrorCode = "ERR_BAD_REQUEST"
	// ErrBadResponse indicates the server answered with a 5xx status,
	// or the response failed caller-supplied validation.
	ErrBadResponse ErrorCode = "ERR_BAD_RESPONSE"
	// ErrInvalidURL indicates the request URL could not be parsed.
	ErrInvalidURL ErrorCode = "ERR_INVALID_URL"
	// ErrBadOption indicates an invalid configuration value.
	ErrBadOption ErrorCode = "ERR_BAD_OPTION"
	// ErrNotSupported indicates a feature the transport cannot
	// provide.
	ErrNotSupported ErrorCode = "ERR_NOT_SUPPORT"
	// ErrTLSCert indicates the peer's certificate chain could not be
	// verified.
	ErrTLSCert ErrorCode = "ERR_TLS_CERT"
)

// An Error is the failure result of a request attempt. It is a tagged
// value with explicit optional fields rather than a bare error string:
// Code categorizes the failure, Response is present when a response
// was received (non-2xx status or failed validation), and Config is
// the descriptor of the logical request that failed.
//
// Retry predicates and delay strategies operate on *Error.
type Error struct {
	// Code categorizes the failure. It may be empty when the failure
	// cannot be categorized, in which case the error is never treated
	// as retryable network trouble.
	Code ErrorCode

	// Message is a human-readable description of the failure.
	Message string

	// Config is the descriptor of the failed logical request. It is
	// nil when the failure cannot be tied to a request, and
	// method-aware retry predicates then decline.
	Config *Request

	// Response holds the received response when the failure was
	// produced by a response (status rejection or failed validation)
	// rather than by the transport.
	Response *Response

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the message, falling back on the code and then on the
// underlying cause.
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return string(e.Code)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "request failed"
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the error represents a deadline-related
// failure, either a client-side abort or an OS-level connection
// timeout.
func (e *Error) Timeout() bool {
	return e.Code == ErrAborted || e.Code == ErrTimedOut
}

// Wrap converts an underlying transport error into an *Error tied to
// req, classifying its code. If err is already an *Error it is
// returned unchanged.
func Wrap(err error, req *Request) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    Classify(err),
		Message: err.Error(),
		Config:  req,
		Err:     err,
	}
}

// Classify maps an underlying Go error onto an ErrorCode by examining
// the error and its wrapped causes.
//
// Specific operating-system conditions (connection reset, refusal, OS
// timeout, unreachable network) are recognized before the generic
// Timeout() check, so that an OS-level connect timeout is not mistaken
// for a client-side abort. Classify never consults Temporary(), whose
// semantics are unclear.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) {
		return ErrCanceled
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ErrConnReset
		case syscall.ECONNREFUSED:
			return ErrConnRefused
		case syscall.ETIMEDOUT:
			return ErrTimedOut
		case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
			return ErrNetUnreachable
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return ErrNotFound
		}
		if dnsErr.IsTimeout {
			return ErrAborted
		}
		return ErrNetwork
	}

	var certErr x509.UnknownAuthorityError
	if errors.As(err, &certErr) {
		return ErrTLSCert
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return ErrTLSCert
	}
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		return ErrTLSCert
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrAborted
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrAborted
	}

	return ErrNetwork
}
