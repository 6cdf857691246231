// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpclient provides an interceptable HTTP client over any
HTTPDoer (such as the Go standard http.Client). It dispatches
request.Request values, buffers response bodies into request.Response
values, classifies failures into *request.Error values, and runs
caller-registered request and response interceptor chains around every
dispatch.

Create a Client to begin making requests:

	client := &httpclient.Client{}
	resp, err := client.Get("https://www.example.com")
	...
	resp, err := client.Post("https://www.example.com/upload",
		"application/json", &buf)

For control over how requests are sent on the wire, supply a custom
HTTPDoer:

	client := &httpclient.Client{
		HTTPDoer: &http.Client{
			..., // see package "net/http" for detailed documentation
		},
	}

Interceptors extend the client from the outside; registration returns
a handle that ejects the interceptor again:

	id := client.UseRequest(func(r *request.Request) (*request.Request, error) {
		r.Header.Set("X-Request-Id", newID())
		return r, nil
	})
	...
	client.EjectRequest(id)

The root package axiosretry attaches automatic retry behavior to a
Client through exactly this mechanism.
*/
package httpclient
