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

//go:build tamago
// +build tamago

package region

import (
	"github.com/usbarmory/tamago/dma"
)

// Reserve registers [start, start+size) with the TamaGo DMA allocator and
// reserves the whole of it, keeping the Go runtime from ever placing an
// object inside the range.
//
// The range must lie outside the RAM assigned to the runtime (runtime.ramStart
// and runtime.ramSize), typically as a dedicated block at the top of physical
// RAM, so that a warm reset leaves its contents untouched.
func Reserve(start uint, size int) (Region, error) {
	r, err := dma.NewRegion(start, size, false)

	if err != nil {
		return Region{}, err
	}

	addr, _ := r.Reserve(size, 0)

	return At(uintptr(addr), size), nil
}
