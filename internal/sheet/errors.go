// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package sheet

import "errors"

// ErrNotFound is returned when a requested character does not exist.
var ErrNotFound = errors.New("not found")
