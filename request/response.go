// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Response is the fully-buffered result of a successful physical
// attempt. Unlike http.Response, the body has already been read and
// closed, so a Response may be held, inspected, and revalidated freely
// without resource management.
type Response struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Header contains the response header fields.
	Header http.Header

	// Body is the complete response body. It may be empty, but is
	// never read from the network after the Response is constructed.
	Body []byte

	// Request is the descriptor of the logical request that produced
	// this response. It is never nil for responses produced by the
	// client.
	Request *Request
}
