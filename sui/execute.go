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
	"context"
	"fmt"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"
)

// SignedTransaction is a TransactionData with the sender's signature over
// its transaction intent digest.
type SignedTransaction struct {
	Data       *TransactionData
	Signatures []Signature
}

// SignTransaction signs tx with the key for its sender in ks.
func SignTransaction(ks *Keystore, tx *TransactionData) (SignedTransaction, error) {
	if tx == nil {
		return SignedTransaction{}, fmt.Errorf("%w: nil transaction", ErrBuild)
	}
	sig, err := ks.SignIntent(tx.Sender, TransactionIntent(), tx.Bytes())
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return SignedTransaction{Data: tx, Signatures: []Signature{sig}}, nil
}

// The fullnode responds once the transaction has been executed locally.
const waitForLocalExecution = "WaitForLocalExecution"

// ExecuteTransaction submits stx and waits for its effects.
//
// A rejection by the fullnode is returned as ErrExecution. If the
// transaction executed but failed, an *ExecutionError is returned. If the
// request failed in transit, the transaction may or may not have executed
// and an *UnknownOutcomeError is returned. Nothing is ever retried.
//
// A done ctx or a refusing Client.Limiter is checked before sending, so
// those failures are plain ErrNetwork and safe to retry.
func (c *Client) ExecuteTransaction(ctx context.Context,
	stx SignedTransaction) (*TransactionResponse, error) {
	if stx.Data == nil || len(stx.Signatures) == 0 {
		return nil, fmt.Errorf("%w: unsigned transaction", ErrBuild)
	}
	sigs := make([]string, len(stx.Signatures))
	for i, sig := range stx.Signatures {
		sigs[i] = sig.String()
	}
	params := []interface{}{
		Base64(stx.Data.Bytes()),
		sigs,
		transactionResponseOptions,
		waitForLocalExecution,
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	var res TransactionResponse
	if err := c.request(ctx, "sui_executeTransactionBlock", params, &res); err != nil {
		if rpcErr, ok := err.(jrpc.Error); ok {
			return nil, fmt.Errorf("%w: %v", ErrExecution, rpcErr.Message)
		}
		return nil, &UnknownOutcomeError{Digest: stx.Data.Digest(), Err: err}
	}
	if res.Effects != nil && !res.Effects.Status.Success() {
		return nil, &ExecutionError{Digest: res.Digest,
			Message: res.Effects.Status.Error}
	}
	if len(res.Errors) > 0 {
		return nil, &ExecutionError{Digest: res.Digest, Message: res.Errors[0]}
	}
	return &res, nil
}

// Execute builds, signs and submits the queued operations.
func (b *TransactionBuilder) Execute(ctx context.Context,
	ks *Keystore) (*TransactionResponse, error) {
	if !ks.Has(b.sender) {
		return nil, fmt.Errorf("%w: %w: %v", ErrBuild, ErrKeyNotFound, b.sender)
	}
	tx, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	stx, err := SignTransaction(ks, tx)
	if err != nil {
		return nil, err
	}
	return b.client.ExecuteTransaction(ctx, stx)
}
