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

package sui

import (
	"errors"
	"fmt"

	"github.com/canary-registry/canaryd/sui/bcs"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these.
var (
	// ErrNotFound is returned when a remote object does not exist or was
	// deleted.
	ErrNotFound = errors.New("not found")
	// ErrMalformedType is returned for type descriptors that are not of
	// the form <address>::<module>::<name>.
	ErrMalformedType = errors.New("malformed type")
	// ErrDecode is returned when a key, digest or return value buffer
	// does not have the expected shape.
	ErrDecode = bcs.ErrDecode
	// ErrBuild is returned by local validation before any request is
	// made.
	ErrBuild = errors.New("build error")
	// ErrInsufficientFunds is returned when the sender owns no gas coin.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrExecution is returned when the fullnode rejects a transaction or
	// it aborts during execution.
	ErrExecution = errors.New("execution error")
	// ErrNetwork wraps transport level failures.
	ErrNetwork = errors.New("network error")
	// ErrUnknownOutcome is returned when a submission failed in a way
	// that does not reveal whether the transaction was executed.
	ErrUnknownOutcome = errors.New("unknown outcome")
	// ErrQueryState is returned when a Query step is called out of
	// order.
	ErrQueryState = errors.New("invalid query state")
	// ErrKeyNotFound is returned by a Keystore with no key for an
	// address.
	ErrKeyNotFound = errors.New("key not found")
)

// ExecutionError is returned when a submitted transaction was included but
// its effects report a failure, such as a Move abort or running out of gas.
// Gas was still charged.
type ExecutionError struct {
	Digest  Digest
	Message string
}

func (err *ExecutionError) Error() string {
	return fmt.Sprintf("%v: transaction %v: %v", ErrExecution, err.Digest, err.Message)
}

func (err *ExecutionError) Unwrap() error {
	return ErrExecution
}

// UnknownOutcomeError is returned when the transport failed after a signed
// transaction was sent. The transaction may or may not have been executed.
// Use Client.GetTransaction with Digest to find out before trying again.
type UnknownOutcomeError struct {
	Digest Digest
	Err    error
}

func (err *UnknownOutcomeError) Error() string {
	return fmt.Sprintf("%v: transaction %v: %v", ErrUnknownOutcome, err.Digest, err.Err)
}

func (err *UnknownOutcomeError) Is(target error) bool {
	return target == ErrUnknownOutcome
}

func (err *UnknownOutcomeError) Unwrap() error {
	return err.Err
}
