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
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Controller command codes (PN532 user manual, section 7)
const (
	cmdGetFirmwareVersion  = 0x02
	cmdSAMConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInDataExchange      = 0x40
	cmdInListPassiveTarget = 0x4A
)

const (
	// samModeNormal disables the SAM companion chip entirely.
	samModeNormal = 0x01
	// samTimeout is the mode timeout field in 50 ms units; only virtual
	// card mode reads it, but the record always carries it.
	samTimeout = 0x14
	// samIRQDisabled keeps the IRQ line unused; readiness is polled.
	samIRQDisabled = 0x00

	// rfCfgMaxRetries selects the detection retry configuration item.
	rfCfgMaxRetries = 0x05
	// rfRetryATRDefault and rfRetryPSLDefault are the ATR and PSL retry
	// fields of that item, left at their datasheet values.
	rfRetryATRDefault = 0xFF
	rfRetryPSLDefault = 0x01

	// baudTypeA106 requests 106 kbps ISO14443 type A targets.
	baudTypeA106 = 0x00

	// exchangeStatusMask isolates the status bits of an exchange
	// response; the high bits flag NAD/MI and are not failures.
	exchangeStatusMask = 0x3F
)

// Budgets for the slow operations. Data exchange answers promptly once a
// target is in the field; both of its budgets stay short.
const (
	exchangeReadyTimeout    = time.Second
	exchangeResponseTimeout = time.Second
)

// GetFirmwareVersion queries the controller and packs the four response
// bytes (IC, version, revision, support) big-endian into one word.
func (d *Device) GetFirmwareVersion() (uint32, error) {
	payload, err := d.call(cmdGetFirmwareVersion, nil, d.timeout, d.timeout)
	if err != nil {
		d.log.Error("firmware version query failed", "err", err)
		return 0, err
	}
	if len(payload) < 4 {
		return 0, badFrame(errors.New("short firmware version payload"))
	}
	return binary.BigEndian.Uint32(payload[:4]), nil
}

// FormatFirmwareVersion renders a packed firmware word as the
// "version.revision" form used in startup banners.
func FormatFirmwareVersion(version uint32) string {
	return fmt.Sprintf("%d.%d", byte(version>>16), byte(version>>8))
}

// SAMConfiguration puts the controller in normal mode with the IRQ line
// disabled. Fire-and-forget: nothing is read back beyond the bare
// acknowledgement.
func (d *Device) SAMConfiguration() error {
	payload, err := d.call(cmdSAMConfiguration,
		[]byte{samModeNormal, samTimeout, samIRQDisabled}, d.timeout, d.timeout)
	if err != nil {
		d.log.Error("SAM configuration failed", "err", err)
		return err
	}
	if len(payload) != 0 {
		return badFrame(errors.New("unexpected SAM configuration payload"))
	}
	return nil
}

// SetPassiveActivationRetries bounds how long the controller hunts for a
// passive target before giving up; 0xFF retries forever until host
// timeout.
func (d *Device) SetPassiveActivationRetries(retries byte) error {
	record := []byte{rfCfgMaxRetries, rfRetryATRDefault, rfRetryPSLDefault, retries}
	payload, err := d.call(cmdRFConfiguration, record, d.timeout, d.timeout)
	if err != nil {
		d.log.Error("retry configuration failed", "err", err)
		return err
	}
	if len(payload) != 0 {
		return badFrame(errors.New("unexpected RF configuration payload"))
	}
	return nil
}

// InListPassiveTarget runs one bounded detection attempt for a single
// 106 kbps type A target and records it as the current target.
//
// Exactly one detected target is accepted; any other count fails with
// ErrBadResponseFrame even though the controller can report more. A
// timeout is the normal card-absent outcome and is logged at debug
// severity so idle polling stays quiet; every other failure is a real
// fault. Any failure clears the current target.
func (d *Device) InListPassiveTarget(readyTimeout, responseTimeout time.Duration) (*Target, error) {
	payload, err := d.call(cmdInListPassiveTarget,
		[]byte{1, baudTypeA106}, readyTimeout, responseTimeout)
	if err != nil {
		d.target = nil
		if errors.Is(err, ErrTimeoutResponse) {
			d.log.Debug("no target in field", "err", err)
		} else {
			d.log.Error("target detection failed", "err", err)
		}
		return nil, err
	}

	target, err := parseDetection(payload)
	if err != nil {
		d.target = nil
		d.log.Warn("rejected detection response", "err", err)
		return nil, err
	}
	d.target = target
	d.log.Debug("target detected",
		"uid", target.UIDString(),
		"sens", target.SenseRes,
		"sel", target.SelRes)
	return target, nil
}

func parseDetection(payload []byte) (*Target, error) {
	if len(payload) < 1 {
		return nil, badFrame(errors.New("empty detection payload"))
	}
	if count := payload[0]; count != 1 {
		// Single-target policy: anti-collision results are rejected
		// rather than picking the first of N.
		return nil, badFrame(fmt.Errorf("detected %d targets, want 1", count))
	}
	if len(payload) < 6 {
		return nil, badFrame(errors.New("short detection payload"))
	}
	uidLen := int(payload[5])
	if 6+uidLen > len(payload) {
		return nil, badFrame(fmt.Errorf("UID length %d exceeds payload", uidLen))
	}
	return &Target{
		Number:   payload[1],
		SenseRes: binary.BigEndian.Uint16(payload[2:4]),
		SelRes:   payload[4],
		UID:      append([]byte(nil), payload[6:6+uidLen]...),
	}, nil
}

// InDataExchange relays send to the current target and copies the answer
// into response. The stored target handle is prepended on the wire, and a
// nonzero controller status fails the call. An answer longer than response
// is silently truncated, so callers that need the complete answer must
// size response generously. The returned count is what was actually
// copied.
func (d *Device) InDataExchange(send, response []byte) (int, error) {
	args := make([]byte, 0, 1+len(send))
	args = append(args, d.targetNumber())
	args = append(args, send...)

	payload, err := d.call(cmdInDataExchange, args, exchangeReadyTimeout, exchangeResponseTimeout)
	if err != nil {
		d.log.Error("data exchange failed", "err", err)
		return 0, err
	}
	if len(payload) < 1 {
		return 0, badFrame(errors.New("missing exchange status"))
	}
	if status := payload[0] & exchangeStatusMask; status != 0 {
		err := &StatusError{Code: status}
		d.log.Error("data exchange rejected", "err", err)
		return 0, err
	}
	return copy(response, payload[1:]), nil
}

func (d *Device) targetNumber() byte {
	if d.target == nil {
		return 0
	}
	return d.target.Number
}
