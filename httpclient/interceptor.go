// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"sync"

	"github.com/softonic/axios-retry/request"
)

// A RequestInterceptor runs before a request is dispatched. It may
// mutate the request, replace it, or return an error, which skips the
// dispatch and flows through the response interceptor chain instead.
type RequestInterceptor func(r *request.Request) (*request.Request, error)

// A ResponseInterceptor runs when a dispatch settles, receiving either
// a response or an error (never both non-nil as input). It may replace
// either value, including converting a response into an error or — as
// the retry layer does — converting an error into the outcome of a
// fresh dispatch.
type ResponseInterceptor func(resp *request.Response, err error) (*request.Response, error)

// interceptors holds the client's two interceptor chains. Ejected
// slots are set to nil rather than removed, so handles stay stable.
type interceptors struct {
	mu   sync.Mutex
	req  []RequestInterceptor
	resp []ResponseInterceptor
}

// UseRequest appends an interceptor to the request chain and returns a
// handle for EjectRequest.
func (c *Client) UseRequest(f RequestInterceptor) int {
	if f == nil {
		panic("axios-retry/httpclient: nil interceptor")
	}
	c.interceptors.mu.Lock()
	defer c.interceptors.mu.Unlock()
	c.interceptors.req = append(c.interceptors.req, f)
	return len(c.interceptors.req) - 1
}

// UseResponse appends an interceptor to the response chain and returns
// a handle for EjectResponse.
func (c *Client) UseResponse(f ResponseInterceptor) int {
	if f == nil {
		panic("axios-retry/httpclient: nil interceptor")
	}
	c.interceptors.mu.Lock()
	defer c.interceptors.mu.Unlock()
	c.interceptors.resp = append(c.interceptors.resp, f)
	return len(c.interceptors.resp) - 1
}

// EjectRequest removes the request interceptor registered under id.
// Ejecting an unknown or already-ejected id does nothing.
func (c *Client) EjectRequest(id int) {
	c.interceptors.mu.Lock()
	defer c.interceptors.mu.Unlock()
	if id >= 0 && id < len(c.interceptors.req) {
		c.interceptors.req[id] = nil
	}
}

// EjectResponse removes the response interceptor registered under id.
// Ejecting an unknown or already-ejected id does nothing.
func (c *Client) EjectResponse(id int) {
	c.interceptors.mu.Lock()
	defer c.interceptors.mu.Unlock()
	if id >= 0 && id < len(c.interceptors.resp) {
		c.interceptors.resp[id] = nil
	}
}

func (i *interceptors) runRequest(r *request.Request) (*request.Request, error) {
	i.mu.Lock()
	chain := make([]RequestInterceptor, len(i.req))
	copy(chain, i.req)
	i.mu.Unlock()

	var err error
	for _, f := range chain {
		if f == nil {
			continue
		}
		r, err = f(r)
		if err != nil {
			return r, err
		}
	}
	return r, nil
}

func (i *interceptors) runResponse(resp *request.Response, err error) (*request.Response, error) {
	i.mu.Lock()
	chain := make([]ResponseInterceptor, len(i.resp))
	copy(chain, i.resp)
	i.mu.Unlock()

	for _, f := range chain {
		if f == nil {
			continue
		}
		resp, err = f(resp, err)
	}
	return resp, err
}
