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

// Package i2c drives a PN532 over an I2C bus.
//
// The controller prepends a ready byte to every I2C read transaction,
// so readiness probes cost a single one-byte read and frame reads strip
// the prefix before handing bytes to the driver.
package i2c

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/lynx-locks/lockcore/pn532"
)

const (
	// The datasheet gives 0x48, which is the 8-bit write address with
	// the R/W bit folded in; periph.io and the Linux kernel want the
	// 7-bit form.
	busAddr = 0x24

	// First byte of every read transaction once a frame is waiting.
	readyFlag = 0x01

	maxClockFreq = 400 * physic.KiloHertz
)

var (
	errClosed   = errors.New("i2c port closed")
	errNotReady = errors.New("controller not ready")
)

// Port is the I2C rendition of the card-interface bus. It is not safe
// for concurrent use; the driver issues one transaction at a time.
type Port struct {
	dev  *i2c.Dev
	bus  i2c.BusCloser
	name string
	rbuf []byte
}

var _ pn532.Port = (*Port)(nil)

// parseBusPath strips an address suffix from composite bus specs, so
// both "/dev/i2c-1:0x24" and "/dev/i2c-1" open the same bus.
func parseBusPath(path string) string {
	bus, _, _ := strings.Cut(path, ":")
	return bus
}

// New opens the named I2C bus and binds the controller's fixed address.
func New(busName string) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(parseBusPath(busName))
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}
	// Best effort; the bus default speed works when 400 kHz is refused.
	_ = bus.SetSpeed(maxClockFreq)

	return &Port{
		dev:  &i2c.Dev{Addr: busAddr, Bus: bus},
		bus:  bus,
		name: busName,
	}, nil
}

// WriteFrame sends one complete command frame in a single write
// transaction.
func (p *Port) WriteFrame(cmdFrame []byte) error {
	if p.dev == nil {
		return pn532.NewInterfaceError("i2c write", p.name, errClosed)
	}
	if err := p.dev.Tx(cmdFrame, nil); err != nil {
		return pn532.NewInterfaceError("i2c write", p.name, err)
	}
	return nil
}

// ReadFrame reads one window of len(buf) frame bytes. The controller's
// ready prefix is verified and stripped; a read issued while no frame
// is waiting fails.
func (p *Port) ReadFrame(buf []byte) error {
	if p.dev == nil {
		return pn532.NewInterfaceError("i2c read", p.name, errClosed)
	}
	window := p.scratch(len(buf) + 1)
	if err := p.dev.Tx(nil, window); err != nil {
		return pn532.NewInterfaceError("i2c read", p.name, err)
	}
	if window[0] != readyFlag {
		return pn532.NewInterfaceError("i2c read", p.name, errNotReady)
	}
	copy(buf, window[1:])
	return nil
}

// Ready performs a single one-byte read and reports whether a frame is
// waiting.
func (p *Port) Ready() (bool, error) {
	if p.dev == nil {
		return false, pn532.NewInterfaceError("i2c status", p.name, errClosed)
	}
	status := p.scratch(1)
	if err := p.dev.Tx(nil, status); err != nil {
		return false, pn532.NewInterfaceError("i2c status", p.name, err)
	}
	return status[0] == readyFlag, nil
}

// Close releases the bus file descriptor. Leaving it open across rapid
// reopen cycles can corrupt the bus state.
func (p *Port) Close() error {
	if p.bus == nil {
		return nil
	}
	err := p.bus.Close()
	p.bus = nil
	p.dev = nil
	if err != nil {
		return fmt.Errorf("close I2C bus: %w", err)
	}
	return nil
}

func (p *Port) scratch(n int) []byte {
	if cap(p.rbuf) < n {
		p.rbuf = make([]byte, n)
	}
	return p.rbuf[:n]
}
