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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/nightlyone/lockfile"
)

// Keystore holds private keys by address and signs on their behalf. It is an
// explicit capability: pass it to the code that needs to sign. The zero value
// is not usable, use NewKeystore.
type Keystore struct {
	mu   sync.RWMutex
	keys map[Address]PrivateKey
}

// NewKeystore returns a Keystore holding keys.
func NewKeystore(keys ...PrivateKey) *Keystore {
	ks := &Keystore{keys: make(map[Address]PrivateKey, len(keys))}
	for _, k := range keys {
		ks.Import(k)
	}
	return ks
}

// Import adds k and returns its address.
func (ks *Keystore) Import(k PrivateKey) Address {
	adr := k.Address()
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[adr] = k
	return adr
}

// ImportString parses a bech32 private key and adds it.
func (ks *Keystore) ImportString(s string) (Address, error) {
	k, err := ParsePrivateKey(s)
	if err != nil {
		return Address{}, err
	}
	return ks.Import(k), nil
}

// Export returns the key for adr.
func (ks *Keystore) Export(adr Address) (PrivateKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	k, ok := ks.keys[adr]
	if !ok {
		return PrivateKey{}, fmt.Errorf("%w: %v", ErrKeyNotFound, adr)
	}
	return k, nil
}

func (ks *Keystore) Has(adr Address) bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	_, ok := ks.keys[adr]
	return ok
}

// Addresses returns all addresses in ascending byte order.
func (ks *Keystore) Addresses() []Address {
	ks.mu.RLock()
	adrs := make([]Address, 0, len(ks.keys))
	for adr := range ks.keys {
		adrs = append(adrs, adr)
	}
	ks.mu.RUnlock()
	sort.Slice(adrs, func(i, j int) bool {
		return string(adrs[i][:]) < string(adrs[j][:])
	})
	return adrs
}

// SignIntent signs the intent digest of msg with the key for adr.
func (ks *Keystore) SignIntent(adr Address, intent Intent, msg []byte) (Signature, error) {
	k, err := ks.Export(adr)
	if err != nil {
		return nil, err
	}
	digest := intent.Digest(msg)
	return k.Sign(digest[:]), nil
}

// LoadKeystoreFile reads a keystore in the format written by the sui CLI: a
// JSON array of base64 encoded flag || secret bytes.
func LoadKeystoreFile(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var encoded []string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	ks := NewKeystore()
	for i, e := range encoded {
		raw, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, fmt.Errorf("%v: key %v: %w", path, i, err)
		}
		k, err := PrivateKeyFromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%v: key %v: %w", path, i, err)
		}
		ks.Import(k)
	}
	return ks, nil
}

// Save writes all keys to path in the sui CLI keystore format. A lock file
// next to path is held while writing, and the file is replaced atomically.
func (ks *Keystore) Save(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	lock, err := lockfile.New(path + ".lock")
	if err != nil {
		return err
	}
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("lock %v: %w", path, err)
	}
	defer lock.Unlock()

	adrs := ks.Addresses()
	encoded := make([]string, 0, len(adrs))
	for _, adr := range adrs {
		k, err := ks.Export(adr)
		if err != nil {
			return err
		}
		encoded = append(encoded, base64.StdEncoding.EncodeToString(k.Bytes()))
	}
	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
