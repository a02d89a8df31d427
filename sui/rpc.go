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
	"encoding/json"
	"fmt"
	"strings"
)

// SuiCoinType is the type parameter of native SUI coins.
const SuiCoinType = "0x2::sui::SUI"

// Coin is a coin object owned by an account.
type Coin struct {
	CoinType            string   `json:"coinType"`
	CoinObjectID        ObjectID `json:"coinObjectId"`
	Version             BigInt   `json:"version"`
	Digest              Digest   `json:"digest"`
	Balance             BigInt   `json:"balance"`
	PreviousTransaction Digest   `json:"previousTransaction"`
}

// Ref returns the exact reference of c.
func (c Coin) Ref() ObjectRef {
	return ObjectRef{ObjectID: c.CoinObjectID, Version: c.Version, Digest: c.Digest}
}

// CoinPage is one page of coins. Pass NextCursor to get the next page.
type CoinPage struct {
	Data        []Coin    `json:"data"`
	NextCursor  *ObjectID `json:"nextCursor"`
	HasNextPage bool      `json:"hasNextPage"`
}

// GetCoins returns coins of coinType owned by owner, starting after cursor if
// it is not nil. A limit of 0 uses the fullnode's default page size.
func (c *Client) GetCoins(ctx context.Context, owner Address, coinType string,
	cursor *ObjectID, limit uint) (CoinPage, error) {
	params := []interface{}{owner, coinType, cursor, nil}
	if limit > 0 {
		params[3] = limit
	}
	var page CoinPage
	if err := c.Request(ctx, "suix_getCoins", params, &page); err != nil {
		return CoinPage{}, err
	}
	return page, nil
}

// GetReferenceGasPrice returns the reference gas price of the current epoch.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price BigInt
	if err := c.Request(ctx, "suix_getReferenceGasPrice", nil, &price); err != nil {
		return 0, err
	}
	return uint64(price), nil
}

// GasCostSummary is the cost breakdown of an executed transaction.
type GasCostSummary struct {
	ComputationCost         BigInt `json:"computationCost"`
	StorageCost             BigInt `json:"storageCost"`
	StorageRebate           BigInt `json:"storageRebate"`
	NonRefundableStorageFee BigInt `json:"nonRefundableStorageFee"`
}

// Net returns computation plus storage cost minus the storage rebate. A
// rebate larger than the cost yields 0.
func (g GasCostSummary) Net() uint64 {
	cost := uint64(g.ComputationCost) + uint64(g.StorageCost)
	if rebate := uint64(g.StorageRebate); rebate < cost {
		return cost - rebate
	}
	return 0
}

// ExecutionStatus is "success" or "failure" with an error message.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s ExecutionStatus) Success() bool {
	return s.Status == "success"
}

// OwnedObjectRef is an object reference in transaction effects.
type OwnedObjectRef struct {
	Owner     Owner     `json:"owner"`
	Reference ObjectRef `json:"reference"`
}

// TransactionEffects is the part of the effects this package uses.
type TransactionEffects struct {
	Status            ExecutionStatus  `json:"status"`
	GasUsed           GasCostSummary   `json:"gasUsed"`
	TransactionDigest Digest           `json:"transactionDigest"`
	Created           []OwnedObjectRef `json:"created,omitempty"`
	Mutated           []OwnedObjectRef `json:"mutated,omitempty"`
	Deleted           []ObjectRef      `json:"deleted,omitempty"`
}

// ObjectChange is one entry of a transaction's object changes.
type ObjectChange struct {
	Type       string   `json:"type"`
	ObjectID   ObjectID `json:"objectId"`
	ObjectType string   `json:"objectType,omitempty"`
	Version    BigInt   `json:"version,omitempty"`
}

// Event is an event emitted by a Move call.
type Event struct {
	Type       string          `json:"type"`
	Sender     Address         `json:"sender"`
	ParsedJSON json.RawMessage `json:"parsedJson,omitempty"`
}

// TransactionResponse is the result of executing or looking up a
// transaction.
type TransactionResponse struct {
	Digest        Digest              `json:"digest"`
	Effects       *TransactionEffects `json:"effects,omitempty"`
	Events        []Event             `json:"events,omitempty"`
	ObjectChanges []ObjectChange      `json:"objectChanges,omitempty"`
	Errors        []string            `json:"errors,omitempty"`
	Checkpoint    *BigInt             `json:"checkpoint,omitempty"`
}

// CreatedObjects returns the ids of created objects whose type ends with
// typeSuffix, or all created objects if typeSuffix is empty.
func (r *TransactionResponse) CreatedObjects(typeSuffix string) []ObjectID {
	var ids []ObjectID
	for _, ch := range r.ObjectChanges {
		if ch.Type != "created" {
			continue
		}
		if typeSuffix != "" && !strings.HasSuffix(ch.ObjectType, typeSuffix) {
			continue
		}
		ids = append(ids, ch.ObjectID)
	}
	return ids
}

// DryRunResult is the result of a dry run.
type DryRunResult struct {
	Effects TransactionEffects `json:"effects"`
}

// DryRunTransaction executes txBytes without committing it or requiring a
// signature.
func (c *Client) DryRunTransaction(ctx context.Context, txBytes []byte) (DryRunResult, error) {
	var res DryRunResult
	err := c.Request(ctx, "sui_dryRunTransactionBlock",
		[]interface{}{Base64(txBytes)}, &res)
	if err != nil {
		return DryRunResult{}, err
	}
	return res, nil
}

// ReturnValue is one value returned by a Move call: its BCS bytes and its
// Move type. It is encoded in JSON as [[bytes...], "type"].
type ReturnValue struct {
	Bytes []byte
	Type  string
}

func (v *ReturnValue) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("invalid return value: expected [bytes, type]")
	}
	var ints []int
	if err := json.Unmarshal(tuple[0], &ints); err != nil {
		return err
	}
	b := make([]byte, len(ints))
	for i, n := range ints {
		if n < 0 || n > 0xff {
			return fmt.Errorf("invalid return value byte: %v", n)
		}
		b[i] = byte(n)
	}
	if err := json.Unmarshal(tuple[1], &v.Type); err != nil {
		return err
	}
	v.Bytes = b
	return nil
}

func (v ReturnValue) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(v.Bytes))
	for i, b := range v.Bytes {
		ints[i] = int(b)
	}
	return json.Marshal([]interface{}{ints, v.Type})
}

// ExecutionResult holds the return values of one command.
type ExecutionResult struct {
	ReturnValues []ReturnValue `json:"returnValues"`
}

// DevInspectResults is the result of a dev-inspect.
type DevInspectResults struct {
	Effects TransactionEffects `json:"effects"`
	Results []ExecutionResult  `json:"results"`
	Error   string             `json:"error,omitempty"`
}

type devInspectArgs struct {
	GasBudget *BigInt `json:"gasBudget,omitempty"`
}

// DevInspectTransaction executes the transaction kind kindBytes as sender
// without gas payment, signature or committed effects.
func (c *Client) DevInspectTransaction(ctx context.Context, sender Address,
	kindBytes []byte, gasPrice, gasBudget uint64) (DevInspectResults, error) {
	params := []interface{}{sender, Base64(kindBytes), nil, nil, nil}
	if gasPrice > 0 {
		params[2] = BigInt(gasPrice)
	}
	if gasBudget > 0 {
		budget := BigInt(gasBudget)
		params[4] = devInspectArgs{GasBudget: &budget}
	}
	var res DevInspectResults
	if err := c.Request(ctx, "sui_devInspectTransactionBlock", params, &res); err != nil {
		return DevInspectResults{}, err
	}
	return res, nil
}

var transactionResponseOptions = map[string]bool{
	"showEffects":       true,
	"showEvents":        true,
	"showObjectChanges": true,
}

// GetTransaction looks up an executed transaction by digest. Use it to
// reconcile an UnknownOutcomeError. A jsonrpc2.Error is returned if the
// transaction is not known to the fullnode.
func (c *Client) GetTransaction(ctx context.Context, digest Digest) (*TransactionResponse, error) {
	var res TransactionResponse
	err := c.Request(ctx, "sui_getTransactionBlock",
		[]interface{}{digest, transactionResponseOptions}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
