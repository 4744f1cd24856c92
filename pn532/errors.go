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
)

// The driver's failure taxonomy is deliberately closed: every operation
// fails with exactly one of these kinds, so callers can route on
// errors.Is without enumerating bus- or frame-level detail.
var (
	// ErrTimeoutResponse means the controller never signalled readiness,
	// or the response missed its budget. During idle detection polling
	// this is the expected card-absent outcome, not a fault.
	ErrTimeoutResponse = errors.New("timeout waiting for controller response")

	// ErrBadResponseFrame means a response arrived but was structurally
	// invalid for the command issued: corrupt framing, a NACK, an
	// unexpected target count, or a nonzero exchange status.
	ErrBadResponseFrame = errors.New("bad response frame")

	// ErrInterface means the bus transaction itself failed. Always a
	// hardware or transport fault, never an expected outcome.
	ErrInterface = errors.New("bus interface failure")
)

// InterfaceError carries the bus-level context of an ErrInterface failure:
// which primitive failed, on which port, and the transport's own error.
type InterfaceError struct {
	Err  error
	Op   string
	Port string
}

// NewInterfaceError wraps a transport failure for the given operation and
// port identifier.
func NewInterfaceError(op, port string, err error) *InterfaceError {
	return &InterfaceError{Op: op, Port: port, Err: err}
}

func (e *InterfaceError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InterfaceError) Unwrap() error {
	return e.Err
}

// Is reports membership in the interface-failure kind so that
// errors.Is(err, ErrInterface) matches any wrapped bus fault.
func (*InterfaceError) Is(target error) bool {
	return target == ErrInterface
}

// StatusError is the controller's own verdict on a data exchange: the
// status byte of an InDataExchange response was nonzero. It is a
// BadResponseFrame for taxonomy purposes but keeps the code so logs can
// name the datasheet meaning.
type StatusError struct {
	Code byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange status 0x%02X (%s)", e.Code, statusMeaning(e.Code))
}

// Is reports membership in the bad-response-frame kind.
func (*StatusError) Is(target error) bool {
	return target == ErrBadResponseFrame
}

// statusMeaning renders controller status codes per the PN532 user manual,
// section 7.1.
func statusMeaning(code byte) string {
	meanings := map[byte]string{
		0x01: "timeout",
		0x02: "CRC error",
		0x03: "parity error",
		0x04: "erroneous bit count during anti-collision",
		0x05: "framing error",
		0x06: "abnormal bit collision",
		0x07: "communication buffer size insufficient",
		0x09: "RF buffer overflow",
		0x0A: "RF field not activated in time",
		0x0B: "RF protocol error",
		0x0D: "overheating",
		0x0E: "internal buffer overflow",
		0x10: "invalid parameter",
		0x12: "DEP protocol not supported",
		0x13: "data format mismatch",
		0x14: "authentication error",
		0x23: "UID check byte wrong",
		0x25: "invalid device state",
		0x26: "operation not allowed",
		0x27: "wrong context for command",
		0x29: "target released by initiator",
		0x2A: "card ID mismatch",
		0x2B: "card disappeared",
		0x2C: "NFCID3 initiator/target mismatch",
		0x2D: "over-current event",
		0x2E: "NAD missing in DEP frame",
	}
	if m, ok := meanings[code]; ok {
		return m
	}
	return "unknown status"
}

// badFrame folds a framing-level failure into the taxonomy.
func badFrame(err error) error {
	return fmt.Errorf("%w: %v", ErrBadResponseFrame, err)
}

// wrapInterface folds a transport failure into the taxonomy, preserving an
// already-typed InterfaceError from the port itself.
func wrapInterface(op string, err error) error {
	if errors.Is(err, ErrInterface) {
		return err
	}
	return NewInterfaceError(op, "", err)
}
