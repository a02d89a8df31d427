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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Factom-Asset-Tokens/base58"
)

// AddressLength is the length of account addresses and object ids.
const AddressLength = 32

// Address is a 32 byte account address or object id. It is encoded in JSON
// as a 0x prefixed, 64 digit hex string.
type Address [AddressLength]byte

// ObjectID identifies an object. It shares the address space of accounts.
type ObjectID = Address

// ParseAddress parses a hex address with an optional 0x prefix. Short forms
// such as "0x2" are left padded with zeros.
func ParseAddress(s string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(h) == 0 || len(h) > 2*AddressLength {
		return a, fmt.Errorf("invalid length")
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("invalid hex: %w", err)
	}
	copy(a[AddressLength-len(b):], b)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use it only for
// constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// DecodeAddress converts a raw return value buffer into an Address. The
// buffer must be exactly 32 bytes long.
func DecodeAddress(buf []byte) (Address, error) {
	var a Address
	if len(buf) != AddressLength {
		return a, fmt.Errorf("%w: address: expected %v bytes, got %v",
			ErrDecode, AddressLength, len(buf))
	}
	copy(a[:], buf)
	return a, nil
}

// String returns the 0x prefixed hex encoding of a.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// Set implements flag.Value and pflag.Value.
func (a *Address) Set(s string) error {
	v, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Type implements pflag.Value.
func (a *Address) Type() string {
	return "address"
}

// UnmarshalJSON unmarshals a hex string address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid type")
	}
	return a.Set(s)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// DigestLength is the length of object and transaction digests.
const DigestLength = 32

// Digest is a 32 byte object or transaction digest. It is encoded in JSON as
// a base58 string.
type Digest [DigestLength]byte

// ParseDigest parses a base58 encoded digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b := base58.Decode(s)
	if len(b) != DigestLength {
		return d, fmt.Errorf("%w: digest: invalid length", ErrDecode)
	}
	copy(d[:], b)
	return d, nil
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d *Digest) Set(s string) error {
	v, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d *Digest) Type() string {
	return "digest"
}

func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid type")
	}
	return d.Set(s)
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// BigInt is a uint64 that the JSON-RPC API encodes as a decimal string to
// avoid precision loss in JavaScript clients. Plain JSON numbers are also
// accepted when unmarshaling.
type BigInt uint64

func (i *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	*i = BigInt(v)
	return nil
}

func (i BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(i), 10))
}

// Base64 is a byte slice encoded in JSON as a standard base64 string.
type Base64 []byte

func (b Base64) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

func (b *Base64) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid type")
	}
	v, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b Base64) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}
