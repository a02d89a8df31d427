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

// Package sui is a client library for the Sui JSON-RPC API that composes,
// funds, signs and submits programmable transactions and reads contract state
// through non-mutating dev-inspect simulations.
//
// The main entry points are:
//
//	ParsePrivateKey and Keystore   - key handling and signing
//	Client.GetObject               - object lookup and ownership classification
//	TransactionBuilder             - operation queue, gas coin, price and budget
//	SignTransaction, ExecuteTransaction
//	Query                          - dev-inspect view calls and typed return values
//
// All methods that talk to a fullnode take a context.Context and return one of
// the error kinds declared in errors.go, which may be tested with errors.Is.
// Nothing in this package retries a request.
package sui
