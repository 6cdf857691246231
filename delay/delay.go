// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package delay

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/softonic/axios-retry/request"
)

// DefaultFactor is the base delay factor used by Linear and
// Exponential when callers have no reason to pick another.
const DefaultFactor = 100 * time.Millisecond

// A Strategy maps a retry decision onto a wait duration. Parameter
// retryCount is the one-based number of the retry about to be made
// (1 for the first retry), and err is the failure that triggered it.
//
// Implementations of Strategy must be safe for concurrent use by
// multiple goroutines. Any function with this signature may serve as a
// strategy; the built-ins all honor a server-supplied Retry-After
// duration as a lower bound.
type Strategy func(retryCount int, err *request.Error) time.Duration

// None returns a strategy that waits no longer than the server asks:
// the delay is zero unless the failure carries a Retry-After header,
// in which case the server-supplied duration is used.
func None() Strategy {
	return func(_ int, err *request.Error) time.Duration {
		return RetryAfter(err)
	}
}

// Linear returns a strategy whose delay grows linearly with the retry
// number: retryCount times factor, or the server-supplied Retry-After
// duration if that is longer. A factor of zero or less falls back on
// DefaultFactor.
func Linear(factor time.Duration) Strategy {
	if factor <= 0 {
		factor = DefaultFactor
	}
	return func(retryCount int, err *request.Error) time.Duration {
		d := time.Duration(retryCount) * factor
		if ra := RetryAfter(err); ra > d {
			d = ra
		}
		return d
	}
}

// Exponential returns a jittered exponential backoff strategy seeded
// from the current time. It is equivalent to
// NewExponential(factor, time.Now()).
func Exponential(factor time.Duration) Strategy {
	return NewExponential(factor, time.Now())
}

// NewExponential constructs an exponential backoff strategy with
// optional jitter.
//
// The base delay for retry n is 2**n times factor, or the
// server-supplied Retry-After duration if that is longer. Jitter adds
// a uniformly random amount of up to 20% of the base delay, so that
// many callers backing off from the same outage do not retry in
// lockstep. A factor of zero or less falls back on DefaultFactor.
//
// Parameter jitter selects the randomness source. Pass nil for no
// jitter (the strategy returns the base delay exactly). Otherwise pass
// a random number generator seed value (as a time.Time, int, or int64),
// a rand.Source, or a *rand.Rand.
func NewExponential(factor time.Duration, jitter interface{}) Strategy {
	if factor <= 0 {
		factor = DefaultFactor
	}
	r := jitterToRand(jitter)
	var lock sync.Mutex
	return func(retryCount int, err *request.Error) time.Duration {
		base := shiftDelay(factor, retryCount)
		if ra := RetryAfter(err); ra > base {
			base = ra
		}
		if r == nil || base <= 0 {
			return base
		}
		lock.Lock()
		defer lock.Unlock()
		return base + time.Duration(r.Int63n(int64(base)/5+1))
	}
}

// shiftDelay computes factor * 2**n, saturating instead of
// overflowing.
func shiftDelay(factor time.Duration, n int) time.Duration {
	if n > 62 {
		return math.MaxInt64
	}
	exp := int64(1) << n
	d := int64(factor) * exp
	if d/exp != int64(factor) || d < 0 {
		return math.MaxInt64
	}
	return time.Duration(d)
}

// RetryAfter returns the wait duration demanded by the failure's
// Retry-After response header, or zero if the failure carries no
// response or no parseable header.
//
// Per RFC 7231 section 7.1.3 the header value is either a number of
// delta seconds or an HTTP date; a date is converted to a duration
// from now and floored at zero.
func RetryAfter(err *request.Error) time.Duration {
	if err == nil || err.Response == nil {
		return 0
	}
	v := err.Response.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, perr := strconv.ParseInt(v, 10, 64); perr == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, perr := http.ParseTime(v); perr == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("axios-retry/delay: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("axios-retry/delay: invalid jitter type")
	}
	return rand.New(s)
}
