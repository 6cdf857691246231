// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package delay provides strategies for computing the wait period
// between a failed request attempt and its retry: no delay, linear
// growth, and jittered exponential backoff. Every built-in strategy
// treats a server-supplied Retry-After header as a lower bound on the
// computed wait, so a client never retries sooner than the server
// asked it to.
package delay
