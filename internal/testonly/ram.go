// Copyright 2024 The persistent-buff authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testonly provides support for buffer tests.
package testonly

import (
	"testing"

	"github.com/xgroleau/persistent-buff/region"
)

// RAM is a fake retained-RAM bank. The backing array outlives every handle
// built over it, standing in for memory that keeps its bit pattern across a
// warm reset: tests simulate a reboot by constructing a fresh handle over the
// same bank.
type RAM struct {
	bank []byte
}

// NewRAM creates a new bank of the given size. The bank starts zeroed; real
// retained RAM holds garbage on first power-on, tests wanting that start
// state should call FillGarbage.
func NewRAM(t *testing.T, size int) *RAM {
	t.Helper()
	return &RAM{bank: make([]byte, size)}
}

// Region returns the descriptor for the bank. The bank stays alive for as
// long as the RAM value does.
func (r *RAM) Region() region.Region {
	return region.Of(r.bank)
}

// FillGarbage overwrites every byte of the bank, simulating the undefined
// contents seen after a cold boot.
func (r *RAM) FillGarbage(b byte) {
	for i := range r.bank {
		r.bank[i] = b
	}
}

// Bytes exposes the raw bank for assertions.
func (r *RAM) Bytes() []byte {
	return r.bank
}
