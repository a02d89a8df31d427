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

package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var fieldsTests = []struct {
	Name    string
	KeyVals []interface{}
	Fields  logrus.Fields
}{{
	Name:   "empty",
	Fields: logrus.Fields{},
}, {
	Name:    "pkg",
	KeyVals: []interface{}{"engine"},
	Fields:  logrus.Fields{"pkg": "engine"},
}, {
	Name:    "pairs",
	KeyVals: []interface{}{"pkg", "srv", "addr", ":8079"},
	Fields:  logrus.Fields{"pkg": "srv", "addr": ":8079"},
}, {
	Name:    "pkg and pairs",
	KeyVals: []interface{}{"engine", "blob", 3},
	Fields:  logrus.Fields{"pkg": "engine", "blob": 3},
}}

func TestNew(t *testing.T) {
	for _, test := range fieldsTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			assert := assert.New(t)
			log := New(test.KeyVals...)
			assert.Equal(test.Fields, log.Data)
			assert.Equal(logrus.InfoLevel, log.Logger.GetLevel())
		})
	}
}
