// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package axiosretry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/softonic/axios-retry/condition"
	"github.com/softonic/axios-retry/httpclient"
	"github.com/softonic/axios-retry/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHTTPDoer struct {
	mock.Mock
}

func (m *mockHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	args := m.Called(r)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func httpResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func connReset() error {
	return &url.Error{Op: "Get", URL: "https://example.com", Err: syscall.ECONNRESET}
}

func canceled() error {
	return &url.Error{Op: "Get", URL: "https://example.com", Err: context.Canceled}
}

// constantDelay is a fixed-wait strategy for exercising the timeout
// budget without jitter.
func constantDelay(d time.Duration) func(int, *request.Error) time.Duration {
	return func(int, *request.Error) time.Duration {
		return d
	}
}

func newTestClient() (*httpclient.Client, *mockHTTPDoer) {
	doer := &mockHTTPDoer{}
	return &httpclient.Client{HTTPDoer: doer}, doer
}

func TestAttach(t *testing.T) {
	t.Run("nil client panics", func(t *testing.T) {
		assert.Panics(t, func() { Attach(nil) })
	})
	t.Run("handles identify both hooks", func(t *testing.T) {
		c, _ := newTestClient()
		h := Attach(c)
		require.NotNil(t, h)
		assert.Equal(t, 0, h.RequestInterceptorID)
		assert.Equal(t, 0, h.ResponseInterceptorID)
	})
}

func TestFirstAttemptSucceeds(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(httpResponse(200, "ok"), nil).Once()
	Attach(c)

	resp, err := c.Get("https://example.com")

	require.NoError(t, err)
	doer.AssertExpectations(t)
	assert.Equal(t, 0, RetryCount(resp.Request))
}

func TestRetryAfterNetworkError(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset()).Once()
	doer.On("Do", mock.Anything).Return(httpResponse(200, "ok"), nil).Once()
	Attach(c)

	resp, err := c.Get("https://example.com")

	require.NoError(t, err)
	doer.AssertExpectations(t)
	assert.Equal(t, 2, len(doer.Calls))
	assert.Equal(t, []byte("ok"), resp.Body)
	assert.Equal(t, 1, RetryCount(resp.Request))
}

func TestZeroRetries(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset())
	Attach(c, WithRetries(0))

	resp, err := c.Get("https://example.com")

	assert.Nil(t, resp)
	var rerr *request.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, request.ErrConnReset, rerr.Code)
	assert.Equal(t, 1, len(doer.Calls))
	assert.Equal(t, 0, RetryCount(rerr.Config))
}

func TestConditionDeclines(t *testing.T) {
	t.Run("default condition and non-idempotent status error", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(httpResponse(503, ""), nil)
		maxHookCalls := 0
		Attach(c, WithOnMaxRetryTimesExceeded(func(ctx context.Context, err *request.Error, retryCount int) error {
			maxHookCalls++
			return nil
		}))

		resp, err := c.Post("https://example.com", "text/plain", "ham")

		assert.Nil(t, resp)
		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, request.ErrBadResponse, rerr.Code)
		assert.Equal(t, 1, len(doer.Calls))
		assert.Equal(t, 0, maxHookCalls, "declining is not exhausting")
	})
	t.Run("condition error propagates the original failure", func(t *testing.T) {
		c, doer := newTestClient()
		cause := connReset()
		doer.On("Do", mock.Anything).Return(nil, cause)
		Attach(c, WithRetryCondition(func(ctx context.Context, err *request.Error) (bool, error) {
			return true, errors.New("condition broke")
		}))

		resp, err := c.Get("https://example.com")

		assert.Nil(t, resp)
		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Same(t, cause, rerr.Err)
		assert.Equal(t, 1, len(doer.Calls))
	})
}

func TestRetriesExhausted(t *testing.T) {
	t.Run("budget bounds attempts", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		var hookErr *request.Error
		hookCount := -1
		hookCalls := 0
		Attach(c,
			WithRetries(2),
			WithOnMaxRetryTimesExceeded(func(ctx context.Context, err *request.Error, retryCount int) error {
				hookCalls++
				hookErr = err
				hookCount = retryCount
				return nil
			}))

		resp, err := c.Get("https://example.com")

		assert.Nil(t, resp)
		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, request.ErrConnReset, rerr.Code)
		assert.Equal(t, 3, len(doer.Calls), "one attempt plus two retries")
		assert.Equal(t, 1, hookCalls)
		assert.Same(t, rerr, hookErr)
		assert.Equal(t, 2, hookCount)
		assert.Equal(t, 2, RetryCount(rerr.Config))
	})
	t.Run("hook may replace the propagated error", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		replacement := errors.New("gave up after retries")
		Attach(c,
			WithRetries(1),
			WithOnMaxRetryTimesExceeded(func(ctx context.Context, err *request.Error, retryCount int) error {
				return replacement
			}))

		resp, err := c.Get("https://example.com")

		assert.Nil(t, resp)
		assert.Same(t, replacement, err)
		assert.Equal(t, 2, len(doer.Calls))
	})
}

func TestOnRetry(t *testing.T) {
	t.Run("runs before each resubmission", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset()).Twice()
		doer.On("Do", mock.Anything).Return(httpResponse(200, ""), nil).Once()
		var counts []int
		Attach(c, WithOnRetry(func(ctx context.Context, retryCount int, err *request.Error, req *request.Request) error {
			counts = append(counts, retryCount)
			assert.Equal(t, request.ErrConnReset, err.Code)
			assert.NotNil(t, req)
			return nil
		}))

		_, err := c.Get("https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, counts)
	})
	t.Run("hook failure abandons the retry", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		boom := errors.New("hook failed")
		Attach(c, WithOnRetry(func(ctx context.Context, retryCount int, err *request.Error, req *request.Request) error {
			return boom
		}))

		resp, err := c.Get("https://example.com")

		assert.Nil(t, resp)
		assert.Same(t, boom, err)
		assert.Equal(t, 1, len(doer.Calls))
	})
}

func TestValidateResponse(t *testing.T) {
	validator := func(resp *request.Response) bool {
		return string(resp.Body) == "ok"
	}
	t.Run("failed validation can retry", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(httpResponse(200, "retry me"), nil).Once()
		doer.On("Do", mock.Anything).Return(httpResponse(200, "ok"), nil).Once()
		Attach(c,
			WithValidateResponse(validator),
			WithRetryCondition(func(ctx context.Context, err *request.Error) (bool, error) {
				return true, nil
			}))

		resp, err := c.Get("https://example.com")

		require.NoError(t, err)
		doer.AssertExpectations(t)
		assert.Equal(t, []byte("ok"), resp.Body)
		assert.Equal(t, 1, RetryCount(resp.Request))
	})
	t.Run("failed validation without retry becomes an error", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(httpResponse(200, "never ok"), nil)
		Attach(c, WithRetries(0), WithValidateResponse(validator))

		resp, err := c.Get("https://example.com")

		assert.Nil(t, resp)
		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, request.ErrBadResponse, rerr.Code)
		assert.EqualError(t, rerr, "response with status code 200 failed validation")
		require.NotNil(t, rerr.Response)
		assert.Equal(t, []byte("never ok"), rerr.Response.Body)
	})
}

func TestTimeoutBudget(t *testing.T) {
	t.Run("shared budget stops delayed retries", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		Attach(c,
			WithRetries(10),
			WithRetryDelay(constantDelay(60*time.Millisecond)))
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		r.Timeout = 100 * time.Millisecond

		resp, err := c.Do(r)

		assert.Nil(t, resp)
		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, request.ErrConnReset, rerr.Code)
		// First attempt, one 60ms delay inside the 100ms budget, second
		// attempt; a second delay cannot fit.
		assert.Equal(t, 2, len(doer.Calls))
		assert.Less(t, r.Timeout, 100*time.Millisecond)
	})
	t.Run("reset timeout allows every retry", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		Attach(c,
			WithRetries(2),
			WithRetryDelay(constantDelay(60*time.Millisecond)),
			WithShouldResetTimeout(true))
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		r.Timeout = 100 * time.Millisecond

		_, err = c.Do(r)

		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 3, len(doer.Calls))
		assert.Equal(t, 100*time.Millisecond, r.Timeout)
	})
}

func TestCancelDuringDelay(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset()).Once()
	doer.On("Do", mock.Anything).Return(nil, canceled()).Once()
	Attach(c,
		WithRetries(1),
		WithRetryDelay(constantDelay(5*time.Second)))
	ctx, cancel := context.WithCancel(context.Background())
	r, err := request.NewWithContext(ctx, "GET", "https://example.com", nil)
	require.NoError(t, err)
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	resp, err := c.Do(r)
	elapsed := time.Since(start)

	assert.Nil(t, resp)
	var rerr *request.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, request.ErrCanceled, rerr.Code)
	doer.AssertExpectations(t)
	// Cancellation must cut the 5s delay short and let the transport
	// settle the request.
	assert.Less(t, elapsed, 2*time.Second)
}

func TestDetach(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset())
	h := Attach(c)
	h.Detach()

	resp, err := c.Get("https://example.com")

	assert.Nil(t, resp)
	var rerr *request.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, request.ErrConnReset, rerr.Code)
	assert.Equal(t, 1, len(doer.Calls))
	assert.Equal(t, 0, RetryCount(rerr.Config))
}

func TestPerRequestOptions(t *testing.T) {
	t.Run("override client-wide options", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		Attach(c, WithRetries(3))
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		SetRequestOptions(r, WithRetries(1))

		_, err = c.Do(r)

		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 2, len(doer.Calls))
	})
	t.Run("later calls win", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		Attach(c)
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		SetRequestOptions(r, WithRetries(5))
		SetRequestOptions(r, WithRetries(0))

		_, err = c.Do(r)

		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 1, len(doer.Calls))
	})
	t.Run("other requests are unaffected", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset())
		Attach(c, WithRetries(1))
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		SetRequestOptions(r, WithRetries(0))
		_, _ = c.Do(r)
		require.Equal(t, 1, len(doer.Calls))

		_, err = c.Get("https://example.com")

		var rerr *request.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 3, len(doer.Calls), "client-wide retry budget still applies")
	})
}

func TestAgentStripping(t *testing.T) {
	t.Run("agent identical to the client transport is dropped", func(t *testing.T) {
		c, doer := newTestClient()
		doer.On("Do", mock.Anything).Return(nil, connReset()).Once()
		doer.On("Do", mock.Anything).Return(httpResponse(200, ""), nil).Once()
		Attach(c)
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		r.Agent = doer

		_, err = c.Do(r)

		require.NoError(t, err)
		assert.Nil(t, r.Agent)
	})
	t.Run("distinct agent survives retries", func(t *testing.T) {
		c, doer := newTestClient()
		agent := &mockHTTPDoer{}
		agent.On("Do", mock.Anything).Return(nil, connReset()).Once()
		agent.On("Do", mock.Anything).Return(httpResponse(200, ""), nil).Once()
		Attach(c)
		r, err := request.New("GET", "https://example.com", nil)
		require.NoError(t, err)
		r.Agent = agent

		_, err = c.Do(r)

		require.NoError(t, err)
		agent.AssertExpectations(t)
		doer.AssertNotCalled(t, "Do", mock.Anything)
		assert.Same(t, agent, r.Agent)
	})
}

func TestTransformRunsOncePerLogicalRequest(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset()).Once()
	doer.On("Do", mock.Anything).Return(httpResponse(200, ""), nil).Once()
	Attach(c, WithRetryCondition(func(ctx context.Context, err *request.Error) (bool, error) {
		return true, nil
	}))
	r, err := request.New("PUT", "https://example.com", "ham")
	require.NoError(t, err)
	transformCalls := 0
	r.Transform = []request.BodyTransform{
		func(body []byte, header http.Header) ([]byte, error) {
			transformCalls++
			return append(body, '!'), nil
		},
	}

	_, err = c.Do(r)

	require.NoError(t, err)
	assert.Equal(t, 2, len(doer.Calls))
	assert.Equal(t, 1, transformCalls)
	assert.Equal(t, []byte("ham!"), r.Body)
	assert.Nil(t, r.Transform)
}

func TestForeignErrorsPassThrough(t *testing.T) {
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(httpResponse(200, ""), nil)
	boom := errors.New("not a request error")
	c.UseResponse(func(resp *request.Response, err error) (*request.Response, error) {
		return nil, boom
	})
	Attach(c)

	resp, err := c.Get("https://example.com")

	assert.Nil(t, resp)
	assert.Same(t, boom, err)
	assert.Equal(t, 1, len(doer.Calls))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, doer := newTestClient()
	doer.On("Do", mock.Anything).Return(nil, connReset())
	Attach(c, WithRetries(1), WithLogger(logger))

	_, err := c.Get("https://example.com")

	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "retrying request")
	assert.Contains(t, out, "retry_count=1")
	assert.Contains(t, out, "retry budget exhausted")
	assert.Contains(t, out, "ECONNRESET")
}

func TestRetryCount(t *testing.T) {
	assert.Equal(t, 0, RetryCount(nil))
	r, err := request.New("GET", "https://example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, RetryCount(r))
}

func TestWithRetries(t *testing.T) {
	var o Options
	WithRetries(-5)(&o)
	assert.Equal(t, 0, o.Retries)
	WithRetries(7)(&o)
	assert.Equal(t, 7, o.Retries)
}

func TestSync(t *testing.T) {
	cond := Sync(condition.IsNetworkError)
	retry, err := cond(context.Background(), &request.Error{
		Code:   request.ErrConnReset,
		Config: &request.Request{Method: http.MethodGet},
	})
	assert.True(t, retry)
	assert.NoError(t, err)
	retry, err = cond(context.Background(), nil)
	assert.False(t, retry)
	assert.NoError(t, err)
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	assert.Equal(t, DefaultRetries, o.Retries)
	require.NotNil(t, o.RetryCondition)
	require.NotNil(t, o.RetryDelay)
	assert.False(t, o.ShouldResetTimeout)
	assert.Nil(t, o.Logger)
	retry, err := o.RetryCondition(context.Background(), &request.Error{
		Code:   request.ErrConnReset,
		Config: &request.Request{Method: http.MethodPost},
	})
	assert.True(t, retry)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), o.RetryDelay(1, nil))
}
