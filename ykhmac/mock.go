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

package ykhmac

import "github.com/lynx-locks/lockcore/internal/syncutil"

// MockService is a scripted Service for orchestrator tests. Results
// are knobs, every call is counted, and the applet version and serial
// become visible only after a scripted authentication succeeds, the
// same way the real engine learns them.
type MockService struct {
	mu syncutil.Mutex

	selectResult bool
	authResult   bool
	enrollResult bool

	version Version
	serial  uint32
	armed   bool

	lastAID  []byte
	lastSlot byte
	enrolled [SecretKeySize]byte
	haveKey  bool

	calls map[string]int
}

// NewMockService returns a mock that accepts everything and reports a
// plausible token once authenticated.
func NewMockService() *MockService {
	return &MockService{
		selectResult: true,
		authResult:   true,
		enrollResult: true,
		version:      Version{Major: 5, Minor: 4, Patch: 3},
		serial:       12345678,
		calls:        make(map[string]int),
	}
}

var _ Service = (*MockService)(nil)

// SetSelectResult scripts the outcome of Select.
func (m *MockService) SetSelectResult(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectResult = ok
}

// SetAuthenticateResult scripts the outcome of Authenticate.
func (m *MockService) SetAuthenticateResult(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authResult = ok
}

// SetEnrollResult scripts the outcome of EnrollKey.
func (m *MockService) SetEnrollResult(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollResult = ok
}

// SetDeviceInfo scripts the version and serial revealed after a
// successful authentication.
func (m *MockService) SetDeviceInfo(v Version, serial uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = v
	m.serial = serial
}

func (m *MockService) Select(aid []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["select"]++
	m.lastAID = append([]byte(nil), aid...)
	return m.selectResult
}

func (m *MockService) Authenticate(slot byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["authenticate"]++
	m.lastSlot = slot
	if m.authResult {
		m.armed = true
	}
	return m.authResult
}

func (m *MockService) EnrollKey(secret *[SecretKeySize]byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["enroll"]++
	if m.enrollResult {
		m.enrolled = *secret
		m.haveKey = true
	}
	return m.enrollResult
}

func (m *MockService) Version() (Version, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version, m.armed
}

func (m *MockService) Serial() (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serial, m.armed
}

// CallCount reports how many times the named method ("select",
// "authenticate", "enroll") ran.
func (m *MockService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// LastAID returns a copy of the identifier passed to the most recent
// Select, or nil if Select never ran.
func (m *MockService) LastAID() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.lastAID...)
}

// LastSlot returns the slot passed to the most recent Authenticate, or
// zero if Authenticate never ran.
func (m *MockService) LastSlot() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSlot
}

// EnrolledKey returns the secret captured by the most recent accepted
// EnrollKey.
func (m *MockService) EnrolledKey() ([SecretKeySize]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrolled, m.haveKey
}
