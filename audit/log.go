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

package audit

import (
	"errors"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/lynx-locks/lockcore/internal/syncutil"
)

// Log appends access events to a trail file. Safe for concurrent use.
type Log struct {
	mu     syncutil.Mutex
	file   *os.File
	enc    *cbor.Encoder
	closed bool
}

// Open opens the trail at path for appending, creating it if needed.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &Log{
		file: f,
		enc:  encMode.NewEncoder(f),
	}, nil
}

// Append records one event. Write and encoding failures surface to the
// caller; a trail that has stopped recording is an operational fault.
func (l *Log) Append(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("audit trail closed")
	}
	return l.enc.Encode(event)
}

// Close closes the trail file. Safe to call more than once; Append
// fails after the first call.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}
