// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"time"

	"golang.org/x/net/http/httpguts"
)

const nilCtxMsg = "axios-retry/request: nil context"

// An Agent sends a single lower-level HTTP request and receives its
// response, in the same manner as the Go standard library http.Client.
// A Request may carry an Agent to override, for that one logical
// request, the transport the hosting client would otherwise use.
type Agent interface {
	Do(r *http.Request) (*http.Response, error)
}

// A BodyTransform rewrites the request body before it is sent. The
// header may be mutated, for example to set a content type matching
// the serialized form.
//
// Transforms run once, on the first dispatch of a logical request;
// the serialized body is written back into the Request so that later
// attempts of the same logical request do not re-serialize it.
type BodyTransform func(body []byte, header http.Header) ([]byte, error)

// A Request describes one logical HTTP request. A logical request may
// be realized as several physical attempts if a failed attempt is
// retried; all attempts are built from the same Request.
//
// The field structure mirrors a stripped-down http.Request: server-only
// fields are removed and the body is a pre-buffered []byte, since a
// body that can only be read once cannot back multiple attempts.
//
// A Request carries an extension slot (Value/SetValue) under which the
// retry layer keeps its per-request state. The slot follows the same
// keying rules as context.WithValue.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body means
	// no request body is sent.
	Body []byte

	// Transform is the body transform chain applied, in order, when
	// the request is dispatched. The serialized result is written back
	// into Body. A nil or empty chain is the identity transform.
	Transform []BodyTransform

	// Timeout bounds the request. For the first attempt it is the
	// attempt timeout; across retries it is treated as a budget for
	// the whole logical request unless the retry layer is configured
	// to reset it per attempt. Zero means no timeout.
	Timeout time.Duration

	// Agent optionally overrides the hosting client's transport for
	// this request. If nil, the client's own transport is used.
	Agent Agent

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host is sent.
	Host string

	// ctx controls cancellation of the whole logical request. It
	// should only be changed by copying the Request via WithContext.
	ctx context.Context

	// values is the extension slot for per-request data attached by
	// the retry layer and other interceptors.
	values context.Context
}

// New wraps NewWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. Readers are drained and
// buffered; an io.ReadCloser is closed after buffering.
func New(method, url string, body interface{}) (*Request, error) {
	return NewWithContext(context.Background(), method, url, body)
}

// NewWithContext returns a new Request given a method, URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. Readers are drained and
// buffered; an io.ReadCloser is closed after buffering.
func NewWithContext(ctx context.Context, method, url string, body interface{}) (*Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("axios-retry/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, &Error{Code: ErrInvalidURL, Message: err.Error(), Err: err}
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

// Context returns the request's context, which controls cancellation
// of the whole logical request including any retry wait periods. It is
// never nil; it defaults to the background context.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r with its context changed to
// ctx, which must be non-nil.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

// SetValue attaches arbitrary data to the request's extension slot.
//
// The key follows the same rules as the key parameter in
// context.WithValue: it must be comparable, must not be nil, and
// should not be of a built-in type, to avoid collisions between
// independent packages storing data on the same request.
func (r *Request) SetValue(key, value interface{}) {
	ctx := r.values
	if ctx == nil {
		ctx = context.Background()
	}
	r.values = context.WithValue(ctx, key, value)
}

// Value returns the data associated with this request for key, or nil
// if there is none.
func (r *Request) Value(key interface{}) interface{} {
	if r.values == nil {
		return nil
	}
	return r.values.Value(key)
}

// ToHTTPRequest builds the lower-level HTTP request for one physical
// attempt of r. The context of the new request is set to ctx, which
// may not be nil.
func (r *Request) ToHTTPRequest(ctx context.Context) *http.Request {
	hr, _ := http.NewRequestWithContext(ctx, r.Method, "", nil)
	hr.URL = r.URL
	hr.Header = r.Header
	if len(r.Body) > 0 {
		body := r.Body
		hr.Body = io.NopCloser(bytes.NewReader(body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		hr.ContentLength = int64(len(body))
	}
	hr.Host = r.Host
	return hr
}

// validMethod reports whether method is a valid HTTP method token per
// RFC 7230 section 3.2.6. The empty string is interpreted as GET
// before this check runs.
func validMethod(method string) bool {
	return httpguts.ValidHeaderFieldName(method)
}
