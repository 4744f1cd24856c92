// Copyright 2026 The Lynx Locks Contributors.
// SPDX-License-Identifier: Apache-2.0
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

//go:build !deadlock

// Package syncutil provides the module's mutex types. The default build uses
// plain sync primitives; building with -tags=deadlock swaps in
// github.com/sasha-s/go-deadlock so lock-order violations surface during
// bring-up instead of in the field.
package syncutil

import "sync"

// Mutex is sync.Mutex unless the deadlock build tag is set.
type Mutex struct {
	sync.Mutex
}

// RWMutex is sync.RWMutex unless the deadlock build tag is set.
type RWMutex struct {
	sync.RWMutex
}
