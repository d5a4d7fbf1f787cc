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

package buffer

import (
	"encoding/binary"
	"hash/crc32"
)

// DefaultMagic is the default marker constant proving the region was fully
// initialized by a previous validation pass.
const DefaultMagic uint32 = 0x42069F

// magicLen is the width of the magic word, and of the optional checksum that
// follows it.
const magicLen = 4

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func (c Config) magic() uint32 {
	if c.Magic == 0 {
		return DefaultMagic
	}
	return c.Magic
}

// markerLen returns the number of region bytes occupied by the marker under
// this config.
func (c Config) markerLen() int {
	if c.Checksum {
		return 2 * magicLen
	}
	return magicLen
}

// check reports whether the marker proves a completed initialization pass.
// The magic word is stored big-endian so it reads naturally in a hex dump.
func (b *Buffer) check() bool {
	if binary.BigEndian.Uint32(b.raw) != b.cfg.magic() {
		return false
	}

	if b.cfg.Checksum {
		return binary.BigEndian.Uint32(b.raw[magicLen:]) == crc32.Checksum(b.Payload(), castagnoli)
	}

	return true
}

// mark writes the marker over the current payload contents. The checksum
// goes first so the magic word is the last byte pattern to land.
func (b *Buffer) mark() {
	if b.cfg.Checksum {
		binary.BigEndian.PutUint32(b.raw[magicLen:], crc32.Checksum(b.Payload(), castagnoli))
	}

	binary.BigEndian.PutUint32(b.raw, b.cfg.magic())
}
