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

// Package buffer provides single-owner access to a memory region whose
// contents survive warm resets.
//
// The region (see the region package) is claimed at most once per boot
// through a one-shot atomic token, so exactly one handle to the raw bytes can
// exist. A validity marker at the front of the region distinguishes data
// retained from a previous run from the undefined garbage of a first
// power-on: Validate checks the marker and, on mismatch, hands the payload to
// a caller-supplied repair routine before writing the marker.
package buffer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/xgroleau/persistent-buff/region"
)

// ErrTaken is returned by Take and TakeManaged once the region has been
// claimed. The condition is permanent for the lifetime of the process: the
// region is a once-per-boot resource and is never released. Hitting it means
// two parts of the program both think they own the region.
var ErrTaken = errors.New("persistent buffer already taken")

// taken is the one-shot ownership token. It lives in ordinary
// zero-initialized memory, never in the region itself, whose startup state is
// undefined.
var taken atomic.Bool

// Config selects the marker scheme for a managed buffer.
type Config struct {
	// Magic overrides the marker constant, zero means DefaultMagic.
	Magic uint32

	// Checksum extends the marker with a CRC32C over the payload, so that
	// bit-rot and partial overwrites are detected in addition to "never
	// initialized". A payload mutated after Validate must then be resealed
	// with Commit before the next reset.
	Checksum bool
}

// Buffer is the managed handle over a claimed region: marker bytes at the
// front, caller payload after.
type Buffer struct {
	raw []byte
	cfg Config

	// validated records that the marker check already ran this boot.
	validated bool
}

// Take claims the region and returns its raw bytes, marker included.
//
// Exactly one call per boot succeeds, regardless of how many goroutines or
// interrupt-context paths race it; every later call returns ErrTaken,
// permanently. The returned slice has exclusive access to the whole range
// for the remainder of the process.
func Take(r region.Region) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if taken.Swap(true) {
		return nil, ErrTaken
	}

	klog.V(2).Infof("Persistent buffer taken: %d bytes @ %#x", r.Size(), r.Start())

	return r.Bytes(), nil
}

// Steal returns the raw region bytes without the one-shot check, and marks
// the token taken so that a later Take fails.
//
// *WARNING*: any handle obtained earlier stays live and now aliases the
// returned slice. The caller is responsible for making sure only one path
// addresses the region at a time.
func Steal(r region.Region) []byte {
	taken.Store(true)
	return r.Bytes()
}

// TakeManaged claims the region like Take and wraps it in a managed handle,
// splitting the marker bytes from the payload. It fails if the region cannot
// hold the marker and at least one payload byte.
func TakeManaged(r region.Region, cfg Config) (*Buffer, error) {
	if ml := cfg.markerLen(); r.Size() <= ml {
		return nil, fmt.Errorf("region too small: %d bytes, marker alone needs %d", r.Size(), ml)
	}

	raw, err := Take(r)

	if err != nil {
		return nil, err
	}

	return &Buffer{raw: raw, cfg: cfg}, nil
}

// StealManaged wraps the region in a managed handle without the one-shot
// check. See Steal for the aliasing hazard.
func StealManaged(r region.Region, cfg Config) (*Buffer, error) {
	if ml := cfg.markerLen(); r.Size() <= ml {
		return nil, fmt.Errorf("region too small: %d bytes, marker alone needs %d", r.Size(), ml)
	}

	return &Buffer{raw: Steal(r), cfg: cfg}, nil
}

// Payload returns the caller bytes of the region, marker excluded. The view
// is handed out without any trust check, most callers want Validate instead.
func (b *Buffer) Payload() []byte {
	return b.raw[b.cfg.markerLen():]
}

// Validate returns the payload after making sure it holds trustworthy data.
//
// A matching marker proves a previous validation pass completed and the
// payload is returned untouched, repair is not called. On mismatch repair is
// invoked to bring the payload to a known state and the marker is written
// only once it returns, so a reset mid-repair leaves the marker mismatched
// and forces repair again on the next boot. A garbage marker is the expected
// first power-on case, not an error, so Validate cannot fail.
//
// The check runs at most once per handle: later calls in the same boot
// return the same view without re-checking.
func (b *Buffer) Validate(repair func(payload []byte)) []byte {
	if b.validated {
		return b.Payload()
	}

	if !b.check() {
		klog.V(2).Infof("Persistent buffer invalid, repairing %d payload bytes", len(b.Payload()))
		repair(b.Payload())
		b.mark()
	}

	b.validated = true

	return b.Payload()
}

// Commit recomputes and rewrites the marker over the current payload
// contents. With Config.Checksum set this reseals a mutated payload so it is
// accepted on the next boot; without it the marker bytes are simply
// rewritten in place.
func (b *Buffer) Commit() {
	b.mark()
}
