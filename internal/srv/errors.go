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

package srv

import (
	"errors"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"

	"github.com/canary-registry/canaryd/sui"
)

var (
	ErrorRegistryNotFound = jrpc.NewError(-32800, "Registry Not Found",
		"registry may be invalid or deleted")
	ErrorMemberNotFound = jrpc.NewError(-32801, "Member Not Found",
		"address is not registered")
	ErrorBlobNotFound = jrpc.NewError(-32802, "Canary Blob Not Found",
		"blob may be invalid or deleted")
	ErrorLedgerUnavailable = jrpc.NewError(-32803, "Ledger Unavailable", nil)
	ErrorQueryFailed       = jrpc.NewError(-32804, "Query Failed", nil)
)

// toError converts an error returned by package canary into a jrpc.Error.
// notFound is returned when the queried object does not exist.
func toError(err error, notFound jrpc.Error) jrpc.Error {
	var jErr jrpc.Error
	switch {
	case errors.Is(err, sui.ErrNotFound):
		return notFound
	case errors.Is(err, sui.ErrNetwork):
		jErr = ErrorLedgerUnavailable
	case errors.Is(err, sui.ErrBuild), errors.Is(err, sui.ErrMalformedType):
		return jrpc.ErrorInvalidParams(err.Error())
	default:
		jErr = ErrorQueryFailed
	}
	jErr.Data = err.Error()
	return jErr
}
