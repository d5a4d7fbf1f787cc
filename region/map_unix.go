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

//go:build unix
// +build unix

package region

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map returns a region backed by the first size bytes of the file at path,
// creating and resizing the file as needed.
//
// On hosted platforms the file plays the role of retained RAM: a process
// restart preserves the bit pattern (warm boot), while removing the file
// yields undefined initial contents on the next run (cold boot). The second
// return value unmaps the region and must not be called while a handle over
// the region is still in use.
func Map(path string, size int) (Region, func() error, error) {
	if size <= 0 {
		return Region{}, nil, fmt.Errorf("invalid region size (%d bytes)", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)

	if err != nil {
		return Region{}, nil, err
	}
	defer f.Close()

	if err = f.Truncate(int64(size)); err != nil {
		return Region{}, nil, fmt.Errorf("resize %q: %v", path, err)
	}

	b, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)

	if err != nil {
		return Region{}, nil, fmt.Errorf("mmap %q: %v", path, err)
	}

	unmap := func() error {
		if err := unix.Msync(b, unix.MS_SYNC); err != nil {
			return err
		}
		return unix.Munmap(b)
	}

	return Of(b), unmap, nil
}
