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

package pn532

import (
	"errors"
	"fmt"

	"github.com/lynx-locks/lockcore/internal/frame"
	"github.com/lynx-locks/lockcore/internal/syncutil"
)

// MockPort simulates a controller at the bus boundary for tests and
// bring-up. Each written command frame arms a scripted read sequence,
// normally an ACK followed by a framed response, which the driver then
// collects through Ready and ReadFrame exactly as it would from hardware.
type MockPort struct {
	payloads   map[byte][]byte
	rawFrames  map[byte][]byte
	writeErrs  map[byte]error
	silent     map[byte]bool
	ackOnly    map[byte]bool
	nack       map[byte]bool
	callCount  map[byte]int
	lastFrames map[byte][]byte
	queue      [][]byte
	onceQueue  map[byte][][]byte
	readyDelay int
	readyLeft  int
	closed     bool
	mu         syncutil.Mutex
}

// NewMockPort creates a mock bus with no scripted responses. Commands
// without a script are acknowledged and answered with an empty payload.
func NewMockPort() *MockPort {
	return &MockPort{
		payloads:   make(map[byte][]byte),
		rawFrames:  make(map[byte][]byte),
		writeErrs:  make(map[byte]error),
		silent:     make(map[byte]bool),
		ackOnly:    make(map[byte]bool),
		nack:       make(map[byte]bool),
		callCount:  make(map[byte]int),
		lastFrames: make(map[byte][]byte),
		onceQueue:  make(map[byte][][]byte),
	}
}

// SetResponse scripts the payload (the bytes after the response code)
// returned for every future occurrence of cmd.
func (m *MockPort) SetResponse(cmd byte, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[cmd] = append([]byte(nil), payload...)
}

// QueueResponse scripts a one-shot payload for cmd, consumed before any
// sticky SetResponse script. Queued payloads answer in FIFO order.
func (m *MockPort) QueueResponse(cmd byte, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onceQueue[cmd] = append(m.onceQueue[cmd], append([]byte(nil), payload...))
}

// SetRawResponse scripts raw wire bytes for cmd, bypassing frame
// construction so tests can deliver deliberately corrupt traffic.
func (m *MockPort) SetRawResponse(cmd byte, wire []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawFrames[cmd] = append([]byte(nil), wire...)
}

// SetWriteError makes WriteFrame fail for cmd, simulating a bus fault.
func (m *MockPort) SetWriteError(cmd byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs[cmd] = err
}

// SetSilent makes the controller swallow cmd: the write succeeds but
// readiness is never signalled.
func (m *MockPort) SetSilent(cmd byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.silent[cmd] = true
}

// SetAckOnly acknowledges cmd but never produces its response, so the
// second readiness wait times out.
func (m *MockPort) SetAckOnly(cmd byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ackOnly[cmd] = true
}

// SetNACK answers cmd with a NACK instead of an ACK.
func (m *MockPort) SetNACK(cmd byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nack[cmd] = true
}

// SetReadyDelay makes every queued frame require n readiness probes
// before Ready reports true.
func (m *MockPort) SetReadyDelay(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readyDelay = n
}

// CallCount reports how many times cmd has been written.
func (m *MockPort) CallCount(cmd byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount[cmd]
}

// LastCommandArgs returns the argument bytes of the most recent cmd
// frame, with framing stripped.
func (m *MockPort) LastCommandArgs(cmd byte) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := m.lastFrames[cmd]
	if len(raw) < frame.Overhead {
		return nil
	}
	return append([]byte(nil), raw[7:len(raw)-2]...)
}

// WriteFrame implements Port.
func (m *MockPort) WriteFrame(cmdFrame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("mock port closed")
	}
	if len(cmdFrame) < frame.Overhead {
		return fmt.Errorf("command frame too short: %d bytes", len(cmdFrame))
	}
	cmd := cmdFrame[6]
	m.callCount[cmd]++
	m.lastFrames[cmd] = append([]byte(nil), cmdFrame...)

	if err := m.writeErrs[cmd]; err != nil {
		return err
	}

	m.queue = m.queue[:0]
	m.readyLeft = m.readyDelay
	switch {
	case m.silent[cmd]:
	case m.nack[cmd]:
		m.queue = append(m.queue, append([]byte(nil), frame.NackFrame...))
	case m.ackOnly[cmd]:
		m.queue = append(m.queue, append([]byte(nil), frame.AckFrame...))
	default:
		m.queue = append(m.queue, append([]byte(nil), frame.AckFrame...))
		wire, err := m.responseWire(cmd)
		if err != nil {
			return err
		}
		m.queue = append(m.queue, wire)
	}
	return nil
}

// responseWire picks the scripted answer for cmd. Callers hold m.mu.
func (m *MockPort) responseWire(cmd byte) ([]byte, error) {
	if wire, ok := m.rawFrames[cmd]; ok {
		return append([]byte(nil), wire...), nil
	}
	payload, ok := m.payloads[cmd]
	if queued := m.onceQueue[cmd]; len(queued) > 0 {
		payload, ok = queued[0], true
		m.onceQueue[cmd] = queued[1:]
	}
	if !ok {
		payload = nil
	}
	wire, err := frame.BuildResponse(cmd+1, payload)
	if err != nil {
		return nil, fmt.Errorf("mock response for %02X: %w", cmd, err)
	}
	return wire, nil
}

// Ready implements Port.
func (m *MockPort) Ready() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, errors.New("mock port closed")
	}
	if len(m.queue) == 0 {
		return false, nil
	}
	if m.readyLeft > 0 {
		m.readyLeft--
		return false, nil
	}
	return true, nil
}

// ReadFrame implements Port.
func (m *MockPort) ReadFrame(buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("mock port closed")
	}
	if len(m.queue) == 0 {
		return errors.New("no pending frame")
	}
	head := m.queue[0]
	m.queue = m.queue[1:]
	m.readyLeft = m.readyDelay
	copy(buf, head)
	return nil
}

// Close implements Port.
func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
