// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/softonic/axios-retry/request"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the Go
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method. If the underlying implementation does not support closing
// idle connections, CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// A Client is an interceptable HTTP client. Its zero value is a valid
// configuration using http.DefaultClient as the HTTPDoer and treating
// 2xx statuses as success.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and
// receiving the response, while Client builds on top of it:
//
// • Client consumes a request.Request, which can back multiple
// physical attempts, and produces a request.Response with a
// fully-buffered body;
//
// • Client classifies transport failures and non-success statuses into
// *request.Error values carrying an error code, the originating
// request, and the response when one was received;
//
// • Client runs caller-registered request and response interceptor
// chains around every dispatch, which is how the retry layer attaches
// itself without changing call sites.
//
// Client's HTTPDoer typically has internal state (cached TCP
// connections), so Client instances should be reused instead of
// created as needed. Client is safe for concurrent use by multiple
// goroutines once configured; interceptor registration may also happen
// concurrently with requests.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard
	// net/http package is used.
	HTTPDoer HTTPDoer

	// ValidateStatus decides which response status codes count as
	// success. Statuses it rejects are converted into *request.Error
	// values carrying the response.
	//
	// If ValidateStatus is nil, statuses in the range [200, 300) count
	// as success.
	ValidateStatus func(statusCode int) bool

	interceptors interceptors
}

// Do executes a logical HTTP request: it runs the request interceptor
// chain, dispatches the request through the HTTPDoer, buffers the
// response body, and runs the response interceptor chain on the
// outcome.
//
// An error returned from Do is a *request.Error unless it was produced
// by an interceptor that chose another type. A response with a status
// code rejected by ValidateStatus is returned as an error carrying the
// buffered response; the returned Response is then nil.
//
// Interceptors may replace the request, the response, or the error,
// and may themselves dispatch requests through the client; the retry
// layer's resubmissions do exactly that.
func (c *Client) Do(r *request.Request) (*request.Response, error) {
	r2, err := c.interceptors.runRequest(r)
	var resp *request.Response
	if err == nil {
		resp, err = c.send(r2)
	}
	return c.interceptors.runResponse(resp, err)
}

func (c *Client) send(r *request.Request) (*request.Response, error) {
	if r.URL == nil {
		return nil, &request.Error{
			Code:    request.ErrInvalidURL,
			Message: "axios-retry/httpclient: request has no URL",
			Config:  r,
		}
	}

	if err := transformBody(r); err != nil {
		return nil, err
	}

	ctx := r.Context()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	doer := c.Doer()
	if r.Agent != nil {
		doer = r.Agent
	}

	hr, err := doer.Do(r.ToHTTPRequest(ctx))
	if err != nil {
		return nil, request.Wrap(err, r)
	}

	body, err := readBody(hr)
	if err != nil {
		return nil, request.Wrap(err, r)
	}

	resp := &request.Response{
		StatusCode: hr.StatusCode,
		Header:     hr.Header,
		Body:       body,
		Request:    r,
	}
	if !c.validStatus(hr.StatusCode) {
		return nil, statusError(resp)
	}
	return resp, nil
}

// transformBody applies the request's body transform chain and writes
// the serialized result back into the request, so that the body is
// serialized exactly once per logical request even when the request is
// dispatched again for a retry.
func transformBody(r *request.Request) *request.Error {
	body := r.Body
	for _, tf := range r.Transform {
		var err error
		body, err = tf(body, r.Header)
		if err != nil {
			// No code: a failed serialization is a caller bug, never
			// retryable network trouble.
			return &request.Error{
				Message: "axios-retry/httpclient: request body transform failed: " + err.Error(),
				Config:  r,
				Err:     err,
			}
		}
	}
	r.Body = body
	return nil
}

func readBody(hr *http.Response) ([]byte, error) {
	defer func() {
		_ = hr.Body.Close()
	}()
	return io.ReadAll(hr.Body)
}

func (c *Client) validStatus(statusCode int) bool {
	if c.ValidateStatus != nil {
		return c.ValidateStatus(statusCode)
	}
	return statusCode >= 200 && statusCode < 300
}

func statusError(resp *request.Response) *request.Error {
	code := request.ErrBadResponse
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		code = request.ErrBadRequest
	}
	return &request.Error{
		Code:     code,
		Message:  fmt.Sprintf("request failed with status code %d", resp.StatusCode),
		Config:   resp.Request,
		Response: resp,
	}
}

// Doer returns the effective HTTPDoer: the configured one, or
// http.DefaultClient when none is set. The retry layer compares a
// request's Agent against this value by identity when rebuilding a
// request for resubmission.
func (c *Client) Doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}
	return c.HTTPDoer
}

// Get issues a GET to the specified URL, using the same interceptor
// chains and policies followed by Do.
func (c *Client) Get(url string) (*request.Response, error) {
	r, err := request.New(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(r)
}

// Head issues a HEAD to the specified URL, using the same interceptor
// chains and policies followed by Do.
func (c *Client) Head(url string) (*request.Response, error) {
	r, err := request.New(http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(r)
}

// Post issues a POST to the specified URL, using the same interceptor
// chains and policies followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Response, error) {
	r, err := request.New(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", contentType)
	return c.Do(r)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func (c *Client) PostForm(url string, data url.Values) (*request.Response, error) {
	return c.Post(url, "application/x-www-form-urlencoded", data.Encode())
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer, if it has one; otherwise it does nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.Doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
