// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/fableden/fableden/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("MY_CODE").Errorf("test error")
	// Should not fail
	errutil.AssertErrorCode(t, err, "MY_CODE")
}

func TestAssertErrorCode_WrappedError(t *testing.T) {
	inner := oops.Errorf("inner failure")
	err := oops.Code("OUTER_CODE").Wrap(inner)
	errutil.AssertErrorCode(t, err, "OUTER_CODE")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("account_id", "123").Errorf("test error")
	// Should not fail
	errutil.AssertErrorContext(t, err, "account_id", "123")
}
