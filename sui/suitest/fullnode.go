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

// Package suitest provides an in-process fake Sui fullnode for tests.
package suitest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"sync"
	"time"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"
	"golang.org/x/crypto/blake2b"

	"github.com/canary-registry/canaryd/sui"
)

// ViewFunc answers a dev-inspected call with its return values. A non-nil
// error is reported as an execution error of the simulation.
type ViewFunc func(args []sui.CallArg) ([]sui.ReturnValue, error)

// Fullnode serves the subset of the Sui JSON-RPC API used by package sui
// from memory. Configure it before making requests.
type Fullnode struct {
	*httptest.Server

	GasPrice    uint64
	DryRunGas   sui.GasCostSummary
	DryRunAbort string

	// ExecuteAbort, if set, makes executed transactions fail with this
	// status error. ExecuteReject, if set, rejects them with a JSON-RPC
	// error instead. ExecuteDelay is slept before responding.
	ExecuteAbort  string
	ExecuteReject string
	ExecuteDelay  time.Duration

	// Created is reported in the object changes of every execution.
	Created []sui.ObjectChange

	mu           sync.Mutex
	objects      map[sui.ObjectID]sui.Object
	coins        map[sui.Address][]sui.Coin
	views        map[string]ViewFunc
	transactions map[sui.Digest]sui.TransactionResponse
	methods      []string

	DryRuns   []*sui.TransactionData
	Executed  []*sui.TransactionData
	Inspected []sui.ProgrammableTransaction
}

// NewFullnode starts a Fullnode. Call Close when done.
func NewFullnode() *Fullnode {
	f := &Fullnode{
		GasPrice: 1000,
		DryRunGas: sui.GasCostSummary{
			ComputationCost: 1_000_000,
			StorageCost:     2_000_000,
			StorageRebate:   500_000,
		},
		objects:      make(map[sui.ObjectID]sui.Object),
		coins:        make(map[sui.Address][]sui.Coin),
		views:        make(map[string]ViewFunc),
		transactions: make(map[sui.Digest]sui.TransactionResponse),
	}
	methods := jrpc.MethodMap{
		"sui_getObject":                  f.getObject,
		"suix_getCoins":                  f.getCoins,
		"suix_getReferenceGasPrice":      f.getReferenceGasPrice,
		"sui_dryRunTransactionBlock":     f.dryRun,
		"sui_devInspectTransactionBlock": f.devInspect,
		"sui_executeTransactionBlock":    f.execute,
		"sui_getTransactionBlock":        f.getTransaction,
	}
	f.Server = httptest.NewServer(
		jrpc.HTTPRequestHandler(methods, log.New(io.Discard, "", 0)))
	return f
}

// Client returns a sui.Client for f.
func (f *Fullnode) Client() *sui.Client {
	return sui.NewClient(sui.Network(f.URL))
}

// Methods returns the JSON-RPC methods called so far, in order.
func (f *Fullnode) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...)
}

func (f *Fullnode) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods = append(f.methods, method)
}

// AddObject stores obj, replacing any object with the same id.
func (f *Fullnode) AddObject(obj sui.Object) sui.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[obj.Ref.ObjectID] = obj
	return obj
}

// RemoveObject deletes the object with the given id, as if it were wrapped
// or deleted on chain.
func (f *Fullnode) RemoveObject(id sui.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, id)
}

// AddShared stores a shared object of type typ.
func (f *Fullnode) AddShared(id sui.ObjectID, typ string,
	initialSharedVersion, version uint64) sui.Object {
	return f.AddObject(sui.Object{
		Ref:   Ref(id, version),
		Type:  typ,
		Owner: sui.Owner{Kind: sui.Shared, InitialSharedVersion: initialSharedVersion},
	})
}

// AddOwned stores an object of type typ owned by owner.
func (f *Fullnode) AddOwned(id sui.ObjectID, typ string, owner sui.Address,
	version uint64) sui.Object {
	return f.AddObject(sui.Object{
		Ref:   Ref(id, version),
		Type:  typ,
		Owner: sui.Owner{Kind: sui.AddressOwner, Address: owner},
	})
}

// AddCoin stores a SUI coin owned by owner.
func (f *Fullnode) AddCoin(owner sui.Address, id sui.ObjectID, balance uint64) sui.Coin {
	ref := Ref(id, 1)
	coin := sui.Coin{
		CoinType:     "0x2::coin::Coin<" + sui.SuiCoinType + ">",
		CoinObjectID: id,
		Version:      ref.Version,
		Digest:       ref.Digest,
		Balance:      sui.BigInt(balance),
	}
	f.AddOwned(id, coin.CoinType, owner, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coins[owner] = append(f.coins[owner], coin)
	return coin
}

// HandleView registers fn to answer dev-inspects whose last command calls
// module::function.
func (f *Fullnode) HandleView(module, function string, fn ViewFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[module+"::"+function] = fn
}

// Ref returns a reference with a digest derived from id and version.
func Ref(id sui.ObjectID, version uint64) sui.ObjectRef {
	h := blake2b.Sum256(append(id[:], byte(version), byte(version>>8)))
	return sui.ObjectRef{ObjectID: id, Version: sui.BigInt(version), Digest: h}
}

func unmarshalParams(params json.RawMessage, min int) ([]json.RawMessage, error) {
	var ps []json.RawMessage
	if err := json.Unmarshal(params, &ps); err != nil {
		return nil, err
	}
	if len(ps) < min {
		return nil, fmt.Errorf("expected at least %v params", min)
	}
	return ps, nil
}

func decodeBase64Param(param json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(param, &s); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(s)
}

func (f *Fullnode) getObject(_ context.Context, params json.RawMessage) interface{} {
	f.record("sui_getObject")
	ps, err := unmarshalParams(params, 1)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	var id sui.ObjectID
	if err := json.Unmarshal(ps[0], &id); err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	f.mu.Lock()
	obj, ok := f.objects[id]
	f.mu.Unlock()
	if !ok {
		return map[string]interface{}{
			"error": map[string]string{"code": "notExists", "object_id": id.String()},
		}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"objectId":            obj.Ref.ObjectID,
			"version":             obj.Ref.Version,
			"digest":              obj.Ref.Digest,
			"type":                obj.Type,
			"owner":               obj.Owner,
			"previousTransaction": obj.PreviousTransaction,
		},
	}
}

func (f *Fullnode) getCoins(_ context.Context, params json.RawMessage) interface{} {
	f.record("suix_getCoins")
	ps, err := unmarshalParams(params, 1)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	var owner sui.Address
	if err := json.Unmarshal(ps[0], &owner); err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	limit := 50
	if len(ps) > 3 {
		var l *int
		if err := json.Unmarshal(ps[3], &l); err == nil && l != nil {
			limit = *l
		}
	}
	f.mu.Lock()
	coins := append([]sui.Coin{}, f.coins[owner]...)
	f.mu.Unlock()
	page := sui.CoinPage{Data: coins}
	if len(coins) > limit {
		page.Data = coins[:limit]
		page.HasNextPage = true
		page.NextCursor = &coins[limit-1].CoinObjectID
	}
	return page
}

func (f *Fullnode) getReferenceGasPrice(_ context.Context, _ json.RawMessage) interface{} {
	f.record("suix_getReferenceGasPrice")
	return sui.BigInt(f.GasPrice)
}

func (f *Fullnode) dryRun(_ context.Context, params json.RawMessage) interface{} {
	f.record("sui_dryRunTransactionBlock")
	ps, err := unmarshalParams(params, 1)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	data, err := decodeBase64Param(ps[0])
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	tx, err := DecodeTransaction(data)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	f.mu.Lock()
	f.DryRuns = append(f.DryRuns, tx)
	f.mu.Unlock()
	status := sui.ExecutionStatus{Status: "success"}
	if f.DryRunAbort != "" {
		status = sui.ExecutionStatus{Status: "failure", Error: f.DryRunAbort}
	}
	return sui.DryRunResult{Effects: sui.TransactionEffects{
		Status:            status,
		GasUsed:           f.DryRunGas,
		TransactionDigest: tx.Digest(),
	}}
}

func (f *Fullnode) devInspect(_ context.Context, params json.RawMessage) interface{} {
	f.record("sui_devInspectTransactionBlock")
	ps, err := unmarshalParams(params, 2)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	data, err := decodeBase64Param(ps[1])
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	pt, err := DecodeKind(data)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	call, args, err := LastMoveCall(pt)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	f.mu.Lock()
	f.Inspected = append(f.Inspected, pt)
	fn, ok := f.views[call.Module+"::"+call.Function]
	f.mu.Unlock()
	if !ok {
		return sui.DevInspectResults{Error: fmt.Sprintf(
			"function %v::%v not found", call.Module, call.Function)}
	}
	values, err := fn(args)
	if err != nil {
		return sui.DevInspectResults{
			Effects: sui.TransactionEffects{Status: sui.ExecutionStatus{
				Status: "failure", Error: err.Error()}},
			Error: err.Error(),
		}
	}
	results := make([]sui.ExecutionResult, len(pt.Commands))
	results[len(results)-1].ReturnValues = values
	return sui.DevInspectResults{
		Effects: sui.TransactionEffects{Status: sui.ExecutionStatus{Status: "success"}},
		Results: results,
	}
}

func (f *Fullnode) execute(ctx context.Context, params json.RawMessage) interface{} {
	f.record("sui_executeTransactionBlock")
	if f.ExecuteDelay > 0 {
		select {
		case <-time.After(f.ExecuteDelay):
		case <-ctx.Done():
		}
	}
	ps, err := unmarshalParams(params, 2)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	data, err := decodeBase64Param(ps[0])
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	tx, err := DecodeTransaction(data)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	var sigs []string
	if err := json.Unmarshal(ps[1], &sigs); err != nil || len(sigs) != 1 {
		return jrpc.ErrorInvalidParams("expected one signature")
	}
	sig, err := base64.StdEncoding.DecodeString(sigs[0])
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	digest := sui.TransactionIntent().Digest(data)
	s := sui.Signature(sig)
	if !s.Verify(digest[:]) ||
		sui.PublicKeyAddress(s.Scheme(), s.PublicKey()) != tx.Sender {
		return jrpc.Error{Code: -32002, Message: "invalid user signature"}
	}
	if f.ExecuteReject != "" {
		return jrpc.Error{Code: -32002, Message: f.ExecuteReject}
	}
	status := sui.ExecutionStatus{Status: "success"}
	if f.ExecuteAbort != "" {
		status = sui.ExecutionStatus{Status: "failure", Error: f.ExecuteAbort}
	}
	res := sui.TransactionResponse{
		Digest: tx.Digest(),
		Effects: &sui.TransactionEffects{
			Status:            status,
			GasUsed:           f.DryRunGas,
			TransactionDigest: tx.Digest(),
		},
		ObjectChanges: f.Created,
	}
	f.mu.Lock()
	f.Executed = append(f.Executed, tx)
	f.transactions[res.Digest] = res
	f.mu.Unlock()
	return res
}

func (f *Fullnode) getTransaction(_ context.Context, params json.RawMessage) interface{} {
	f.record("sui_getTransactionBlock")
	ps, err := unmarshalParams(params, 1)
	if err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	var digest sui.Digest
	if err := json.Unmarshal(ps[0], &digest); err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	f.mu.Lock()
	res, ok := f.transactions[digest]
	f.mu.Unlock()
	if !ok {
		return jrpc.Error{Code: -32602,
			Message: fmt.Sprintf("Could not find the referenced transaction [%v].", digest)}
	}
	return res
}
