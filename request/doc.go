// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (describes one logical
HTTP request), Response (the fully-buffered result of an attempt), and
Error (the tagged failure result of an attempt).

A Request describes how to make a logical HTTP request, potentially
involving repeated physical attempts if a failed attempt is retried.
For those familiar with the Go standard HTTP library, net/http, a
Request looks like a stripped-down http.Request with all server-side
fields removed and the body replaced with a simple []byte, because a
retryable request needs a pre-buffered body.

Create a request and execute it with a client:

	r, err := request.New("GET", "https://example.com", nil)
	...
	resp, err := client.Do(r)
	...

A Request may be assigned a context to allow the whole logical request,
including retry wait periods, to be cancelled:

	r, err := request.NewWithContext(ctx, "POST", "https://example.com/upload", body)
	...

An Error carries explicit optional fields rather than a bare message:
a Code categorizing the failure, the Response when one was received,
and the Config (the originating Request). Retry predicates consult
these fields; an Error missing the relevant field is simply not
retryable through that predicate.
*/
package request
