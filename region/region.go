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

// Package region describes the reserved memory range backing a persistent
// buffer.
//
// The range is carved out by an external collaborator (linker script, boot
// firmware, or a memory-mapped file on hosted platforms) and must be excluded
// from the normal static-data initialization pass, so that its bit pattern
// survives a warm reset. The package places no interpretation on the bytes;
// it only describes where they are.
package region

import (
	"fmt"
	"unsafe"
)

// Region describes a fixed byte range [Start, Start+Size) of memory. The
// range is bound once and never moves or resizes for the lifetime of the
// process, and must be disjoint from every other statically-allocated object.
type Region struct {
	start uintptr
	size  int
}

// At binds a region to an absolute address range, as resolved at link or boot
// time by the platform collaborator. The address is taken on faith: sanity of
// the range is the build's responsibility, not this package's.
func At(start uintptr, size int) Region {
	return Region{start: start, size: size}
}

// Of binds a region to an existing byte slice. This is the provider for
// hosted platforms and tests, where the "reserved range" is ordinary memory
// kept alive by the caller for as long as the region is in use.
func Of(b []byte) Region {
	if len(b) == 0 {
		return Region{}
	}
	return Region{start: uintptr(unsafe.Pointer(&b[0])), size: len(b)}
}

// Start returns the inclusive start address of the range.
func (r Region) Start() uintptr {
	return r.start
}

// End returns the exclusive end address of the range.
func (r Region) End() uintptr {
	return r.start + uintptr(r.size)
}

// Size returns the length of the range in bytes, authoritative for all
// bounds checks performed over the region.
func (r Region) Size() int {
	return r.size
}

// Bytes returns the raw mutable view over the whole range.
//
// The view aliases memory the Go runtime knows nothing about; callers must
// go through a single owner (see the buffer package) rather than share it.
func (r Region) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.start)), r.size)
}

// Validate checks that the region is self-consistent.
func (r Region) Validate() error {
	if r.start == 0 {
		return fmt.Errorf("invalid region: nil start address")
	}
	if r.size <= 0 {
		return fmt.Errorf("invalid region: non-positive size (%d bytes)", r.size)
	}
	return nil
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start(), r.End())
}
