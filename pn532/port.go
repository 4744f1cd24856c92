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

// Port is the raw bus boundary between the driver and a hardware-specific
// transport. Implementations carry no protocol knowledge beyond the bus
// framing their hardware requires (prefix bytes, bit order, status reads);
// command construction, ready-polling cadence and response parsing all
// belong to the driver.
//
// Implementations live in transport/spi, transport/uart and transport/i2c.
type Port interface {
	// WriteFrame transmits one fully assembled command frame.
	WriteFrame(frame []byte) error

	// ReadFrame fills buf with up to len(buf) bytes of the pending frame.
	// The driver sizes buf and interprets the frame length field itself;
	// bytes past the end of the actual frame are ignored.
	ReadFrame(buf []byte) error

	// Ready performs one non-blocking readiness probe and reports whether
	// the controller has a frame waiting. It never loops or sleeps; the
	// driver owns the polling cadence and its timeout budget.
	Ready() (bool, error)

	// Close releases the bus handle.
	Close() error
}
