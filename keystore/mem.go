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

package keystore

import (
	"errors"
	"io"
)

// Mem is a fixed-size in-memory Medium for tests and the simulator. Like
// the flash it stands in for, it does not grow.
type Mem struct {
	buf []byte
}

// NewMem allocates a zeroed medium of size bytes. size <= 0 covers the
// default credential region.
func NewMem(size int64) *Mem {
	if size <= 0 {
		size = DefaultBase + DefaultSize
	}
	return &Mem{buf: make([]byte, size)}
}

// Bytes exposes the backing image. Mutating it models flash corruption.
func (m *Mem) Bytes() []byte { return m.buf }

func (m *Mem) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Mem) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if off >= int64(len(m.buf)) {
		return 0, io.ErrShortWrite
	}
	n := copy(m.buf[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

var _ Medium = (*Mem)(nil)
