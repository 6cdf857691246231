// Copyright 2026 The axios-retry Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package condition classifies failed request attempts as retryable or
// not. All classifiers are pure predicates over *request.Error, so
// they compose freely and are trivial to test.
//
// The Condition type adapts a predicate for logical composition:
//
//	c := condition.Condition(condition.IsNetworkError).
//		Or(condition.IsSafeRequestError)
//
// Package condition is extremely lightweight, as it depends only on
// the request types and the standard library, so it doesn't bring any
// significant dependencies when imported as a standalone package.
package condition
