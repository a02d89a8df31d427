// MIT License
//
// Copyright 2018 Canonical Ledgers, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS
// IN THE SOFTWARE.

package canary

import (
	"fmt"

	"github.com/canary-registry/canaryd/sui"
)

var (
	// ErrBlobNotFound is returned when a CanaryBlob does not exist. It
	// wraps sui.ErrNotFound.
	ErrBlobNotFound = fmt.Errorf("canary blob %w", sui.ErrNotFound)
	// ErrNotAdmin is returned when the Session Sender does not own the
	// AdminCap. It wraps sui.ErrBuild.
	ErrNotAdmin = fmt.Errorf("%w: sender does not own the admin cap", sui.ErrBuild)
	// ErrNotShared is returned when a Registry is not a shared object.
	// It wraps sui.ErrBuild.
	ErrNotShared = fmt.Errorf("%w: not a shared object", sui.ErrBuild)
)
