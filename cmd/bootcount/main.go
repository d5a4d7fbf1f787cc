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

// bootcount demonstrates the persistent buffer on a hosted platform: a
// file-backed region stands in for retained RAM, and each run of the binary
// plays the role of one boot. The counter in the first payload byte survives
// across runs; removing the backing file simulates a cold boot.
package main

import (
	"flag"

	"k8s.io/klog/v2"

	"github.com/xgroleau/persistent-buff/buffer"
	"github.com/xgroleau/persistent-buff/region"
)

var (
	path = flag.String("f", "/tmp/bootcount.bin", "backing file for the persistent region")
	size = flag.Int("n", 1024, "region size in bytes")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	r, unmap, err := region.Map(*path, *size)

	if err != nil {
		klog.Exitf("Failed to map region: %v", err)
	}

	defer func() {
		if err := unmap(); err != nil {
			klog.Errorf("Failed to unmap region: %v", err)
		}
	}()

	b, err := buffer.TakeManaged(r, buffer.Config{})

	if err != nil {
		klog.Exitf("Failed to take persistent buffer: %v", err)
	}

	p := b.Validate(func(p []byte) {
		klog.Info("First boot, zeroing payload")

		for i := range p {
			p[i] = 0
		}
	})

	p[0] += 1
	klog.Infof("Boot count: %d", p[0])
}
