// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package axiosretry attaches automatic retry behavior to an
interceptable HTTP client. It intercepts outgoing requests and failed
responses, decides whether a failure qualifies for another attempt,
computes a backoff delay, and reissues the original request while
charging elapsed time and delays against the request's timeout budget.
Call sites do not change; the retry layer installs itself through the
client's interceptor chains.

Attach the retry layer to a client to begin:

	client := &httpclient.Client{}
	handles := axiosretry.Attach(client)
	resp, err := client.Get("https://www.example.com")

Configure client-wide behavior with options:

	axiosretry.Attach(client,
		axiosretry.WithRetries(5),
		axiosretry.WithRetryDelay(delay.Exponential(delay.DefaultFactor)),
		axiosretry.WithRetryCondition(axiosretry.Sync(condition.IsRetryableError)),
	)

Individual requests may override any subset of the options:

	r, err := request.New("GET", "https://www.example.com/flaky", nil)
	...
	axiosretry.SetRequestOptions(r, axiosretry.WithRetries(1))
	resp, err := client.Do(r)

By default a failure is retried when it is a network-level error with
no response, or a retryable failure (no response, status 429, or a
5xx status) of a request using an idempotent method (GET, HEAD,
OPTIONS, PUT, DELETE). Custom eligibility predicates can be composed
from package condition or written from scratch, including predicates
that consult external state.

A request's Timeout is a budget for the whole logical request: time
spent on failed attempts and in retry delays is subtracted from it,
and a retry that could not finish inside the remaining budget is not
attempted. WithShouldResetTimeout(true) makes the timeout apply to
each attempt independently instead.

Detach restores the client's original behavior:

	handles.Detach()
*/
package axiosretry
