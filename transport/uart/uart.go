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

// Package uart drives a PN532 over a high-speed UART link.
//
// UART delivers a byte stream with no framing of its own, so this port
// reassembles controller frames out of a pending buffer: readiness means
// bytes have arrived, and a frame read completes only once the length
// declared in the frame header has been received.
package uart

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/lynx-locks/lockcore/pn532"
)

const (
	baudRate = 115200

	// A mid-stream stall longer than this abandons the frame.
	frameCompleteTimeout = 2 * time.Second

	drainRetries = 3
)

// wakeSequence lifts the controller out of low-power mode before a
// command. The long zero tail gives its oscillator time to settle;
// when the controller is already awake the bytes read as preamble
// padding and are ignored.
var wakeSequence = []byte{
	0x55, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

var (
	errClosed     = errors.New("uart port closed")
	errShortWrite = errors.New("short write")
	errStalled    = errors.New("frame stalled mid-stream")
)

// Port is the UART rendition of the card-interface bus. It is not safe
// for concurrent use; the driver issues one transaction at a time.
type Port struct {
	port       serial.Port
	name       string
	pending    []byte
	completeTo time.Duration
	aligned    bool
	probe      [256]byte
}

var _ pn532.Port = (*Port)(nil)

// readTimeout returns the serial read timeout. Windows drivers need a
// longer window before giving data back.
func readTimeout() time.Duration {
	if runtime.GOOS == "windows" {
		return 100 * time.Millisecond
	}
	return 50 * time.Millisecond
}

// New opens the named serial device at 115200 8N1 and wakes the
// controller.
func New(portName string) (*Port, error) {
	serialPort, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open UART port %q: %w", portName, err)
	}
	if err := serialPort.SetReadTimeout(readTimeout()); err != nil {
		_ = serialPort.Close()
		return nil, fmt.Errorf("set UART read timeout: %w", err)
	}

	p := &Port{port: serialPort, name: portName, completeTo: frameCompleteTimeout}
	if err := p.wakeUp(); err != nil {
		_ = serialPort.Close()
		return nil, err
	}
	return p, nil
}

// WriteFrame wakes the controller and sends one complete command frame.
// Any unread bytes from an earlier exchange are discarded first, so a
// command always starts from a clean stream.
func (p *Port) WriteFrame(cmdFrame []byte) error {
	if p.port == nil {
		return pn532.NewInterfaceError("uart write", p.name, errClosed)
	}
	p.pending = nil
	p.aligned = false
	_ = p.port.ResetInputBuffer()

	if err := p.wakeUp(); err != nil {
		return err
	}
	n, err := p.port.Write(cmdFrame)
	if err != nil {
		return pn532.NewInterfaceError("uart write", p.name, err)
	}
	if n != len(cmdFrame) {
		return pn532.NewInterfaceError("uart write", p.name, errShortWrite)
	}
	return p.drain("command")
}

// ReadFrame fills buf with the next complete frame from the stream. The
// frame's own header says how many bytes belong to it; the read blocks
// until they have all arrived or the stream stalls. A frame larger than
// buf is consumed whole and truncated into buf, leaving the stream
// aligned for the next frame. Bytes past the frame are zeroed.
func (p *Port) ReadFrame(buf []byte) error {
	if p.port == nil {
		return pn532.NewInterfaceError("uart read", p.name, errClosed)
	}
	stallBudget := p.completeTo
	if stallBudget <= 0 {
		stallBudget = frameCompleteTimeout
	}
	deadline := time.Now().Add(stallBudget)
	for {
		need, known := p.frameNeed()
		if known {
			if need < 0 {
				// Unsound length header. Hand over what arrived so the
				// driver can reject it, and resync the stream.
				n := copy(buf, p.pending)
				zeroFill(buf[n:])
				p.pending = nil
				p.aligned = false
				return nil
			}
			if len(p.pending) >= need {
				n := copy(buf, p.pending[:need])
				zeroFill(buf[n:])
				p.pending = append([]byte(nil), p.pending[need:]...)
				p.aligned = false
				p.absorb(nil)
				return nil
			}
		}
		if time.Now().After(deadline) {
			return pn532.NewInterfaceError("uart read", p.name, errStalled)
		}
		if err := p.fill(); err != nil {
			return err
		}
	}
}

// Ready reports whether response bytes have arrived. The probe issues a
// single serial read, which may block up to the port's read timeout
// before reporting an idle line.
func (p *Port) Ready() (bool, error) {
	if p.port == nil {
		return false, pn532.NewInterfaceError("uart status", p.name, errClosed)
	}
	if len(p.pending) > 0 {
		return true, nil
	}
	n, err := p.port.Read(p.probe[:])
	if err != nil {
		return false, pn532.NewInterfaceError("uart status", p.name, err)
	}
	p.absorb(p.probe[:n])
	return len(p.pending) > 0, nil
}

// Close releases the serial device. Further calls on the Port fail.
func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	if err != nil {
		return fmt.Errorf("close UART port: %w", err)
	}
	return nil
}

// fill performs one serial read and absorbs the bytes into the pending
// buffer.
func (p *Port) fill() error {
	n, err := p.port.Read(p.probe[:])
	if err != nil {
		return pn532.NewInterfaceError("uart read", p.name, err)
	}
	if n == 0 {
		// Some platforms return immediately on an idle line instead of
		// honoring the read timeout.
		time.Sleep(time.Millisecond)
	}
	p.absorb(p.probe[:n])
	return nil
}

// absorb appends stream bytes and, until a frame start has been seen,
// trims line noise ahead of it. Once aligned, no trimming happens:
// frame payloads may legitimately contain the start pattern.
func (p *Port) absorb(data []byte) {
	p.pending = append(p.pending, data...)
	if p.aligned {
		return
	}
	p.pending = trimToFrame(p.pending)
	if len(p.pending) >= 3 {
		p.aligned = true
	}
}

// frameNeed inspects the pending header and reports how many bytes the
// current frame occupies in total. Unknown until five header bytes have
// arrived; negative when the length checksum is unsound.
func (p *Port) frameNeed() (int, bool) {
	if len(p.pending) < 5 {
		return 0, false
	}
	length, lcs := p.pending[3], p.pending[4]
	switch {
	case length == 0x00 && lcs == 0xFF:
		// ACK
		return 6, true
	case length == 0xFF && lcs == 0x00:
		// NACK
		return 6, true
	case length+lcs != 0:
		return -1, true
	default:
		// header(5) + data + DCS + postamble
		return int(length) + 7, true
	}
}

// trimToFrame drops stream bytes ahead of the first frame start pattern
// (00 00 FF). When no start is present the last two bytes are kept, in
// case they are a partial start split across reads.
func trimToFrame(data []byte) []byte {
	for i := 0; i+3 <= len(data); i++ {
		if data[i] == 0x00 && data[i+1] == 0x00 && data[i+2] == 0xFF {
			return data[i:]
		}
	}
	keep := len(data)
	if keep > 2 {
		keep = 2
	}
	return data[len(data)-keep:]
}

func zeroFill(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// wakeUp sends the wake sequence and flushes it onto the line.
func (p *Port) wakeUp() error {
	n, err := p.port.Write(wakeSequence)
	if err != nil {
		return pn532.NewInterfaceError("uart wake", p.name, err)
	}
	if n != len(wakeSequence) {
		return pn532.NewInterfaceError("uart wake", p.name, errShortWrite)
	}
	return p.drain("wake")
}

// drain flushes the output buffer, retrying interrupted system calls
// with short backoff. Serial drains on Linux are frequently interrupted
// by signals.
func (p *Port) drain(op string) error {
	delay := 2 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := p.port.Drain()
		if err == nil {
			return nil
		}
		if !isInterrupted(err) || attempt >= drainRetries-1 {
			return pn532.NewInterfaceError("uart drain "+op, p.name, err)
		}
		time.Sleep(delay)
		delay *= 2
	}
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "interrupted system call") || strings.Contains(s, "eintr")
}
