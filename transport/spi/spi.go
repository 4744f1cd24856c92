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

// Package spi drives a PN532 over an SPI bus.
//
// The PN532 talks SPI LSB-first while controllers clock MSB-first, so
// every byte crosses the wire bit-reversed. Each transaction opens with
// a one-byte prefix selecting the operation: status read, data write or
// data read.
package spi

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/lynx-locks/lockcore/pn532"
)

const (
	prefixStatRead  = 0x02
	prefixDataWrite = 0x01
	prefixDataRead  = 0x03

	// Status reads answer this value in their second byte once a frame
	// is waiting.
	readyFlag = 0x01

	defaultFreq = 1 * physic.MegaHertz
	// CPOL=0, CPHA=0. LSB-first is handled by bit reversal.
	busMode = spi.Mode0
)

var errClosed = errors.New("spi port closed")

// Port is the SPI rendition of the card-interface bus. It is not safe
// for concurrent use; the driver issues one transaction at a time.
type Port struct {
	port spi.PortCloser
	conn spi.Conn
	name string
	wbuf []byte
	rbuf []byte
}

var _ pn532.Port = (*Port)(nil)

// New opens the named SPI port (for example "/dev/spidev0.0" or "" for
// the first registered port) and wakes the controller.
func New(portName string) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	spiPort, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", portName, err)
	}

	conn, err := spiPort.Connect(defaultFreq, busMode, 8)
	if err != nil {
		_ = spiPort.Close()
		return nil, fmt.Errorf("connect SPI: %w", err)
	}

	p := &Port{port: spiPort, conn: conn, name: portName}
	p.wakeUp()
	return p, nil
}

// wakeUp clocks a dummy byte to lift the PN532 out of power-down. The
// byte is discarded by the controller, so errors are ignored.
func (p *Port) wakeUp() {
	time.Sleep(1 * time.Millisecond)
	_ = p.conn.Tx([]byte{0x00}, nil)
	time.Sleep(1 * time.Millisecond)
}

// WriteFrame clocks out a complete command frame behind a data-write
// prefix.
func (p *Port) WriteFrame(cmdFrame []byte) error {
	if p.port == nil {
		return pn532.NewInterfaceError("spi write", p.name, errClosed)
	}
	w, _ := p.scratch(len(cmdFrame) + 1)
	w[0] = reverseBit(prefixDataWrite)
	for i, b := range cmdFrame {
		w[i+1] = reverseBit(b)
	}
	// The controller needs a short settle time after chip select before
	// it samples data.
	time.Sleep(2 * time.Millisecond)
	if err := p.conn.Tx(w, nil); err != nil {
		return pn532.NewInterfaceError("spi write", p.name, err)
	}
	return nil
}

// ReadFrame clocks in one read window of len(buf) bytes behind a
// data-read prefix. The PN532 streams whatever frame it has pending;
// bytes past the frame's postamble clock in as filler.
func (p *Port) ReadFrame(buf []byte) error {
	if p.port == nil {
		return pn532.NewInterfaceError("spi read", p.name, errClosed)
	}
	w, r := p.scratch(len(buf) + 1)
	w[0] = reverseBit(prefixDataRead)
	for i := 1; i < len(w); i++ {
		w[i] = 0
	}
	if err := p.conn.Tx(w, r); err != nil {
		return pn532.NewInterfaceError("spi read", p.name, err)
	}
	for i := range buf {
		buf[i] = reverseBit(r[i+1])
	}
	return nil
}

// Ready performs one status-read transaction and reports whether the
// controller has a frame waiting. It never blocks beyond the bus
// transaction itself.
func (p *Port) Ready() (bool, error) {
	if p.port == nil {
		return false, pn532.NewInterfaceError("spi status", p.name, errClosed)
	}
	w, r := p.scratch(2)
	w[0] = reverseBit(prefixStatRead)
	w[1] = 0
	if err := p.conn.Tx(w, r); err != nil {
		return false, pn532.NewInterfaceError("spi status", p.name, err)
	}
	return reverseBit(r[1]) == readyFlag, nil
}

// Close releases the SPI port. Further calls on the Port fail.
func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	p.conn = nil
	if err != nil {
		return fmt.Errorf("close SPI port: %w", err)
	}
	return nil
}

// scratch returns write and read buffers of exactly n bytes. Full-duplex
// Tx requires equal lengths, so both sides grow together.
func (p *Port) scratch(n int) (w, r []byte) {
	if cap(p.wbuf) < n {
		p.wbuf = make([]byte, n)
		p.rbuf = make([]byte, n)
	}
	return p.wbuf[:n], p.rbuf[:n]
}

// reverseBit mirrors the bits of a byte, converting between the PN532's
// LSB-first framing and the controller's MSB-first shift register.
func reverseBit(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		out <<= 1
		out |= b & 1
		b >>= 1
	}
	return out
}
