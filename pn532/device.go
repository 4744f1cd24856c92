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

// Package pn532 drives a PN532 contactless-card controller over a raw bus
// Port. It owns the command/response frame protocol, the ready-polling
// state machine and its timeout budgets, and the single-slot record of the
// most recently detected target.
package pn532

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lynx-locks/lockcore/internal/frame"
)

const (
	// DefaultBufferSize is the response frame capacity when none is
	// configured. Callers can request at most the capacity minus the
	// frame overhead per exchange.
	DefaultBufferSize = 128
	// minBufferSize keeps the response buffer large enough for every
	// fixed-layout answer the driver parses.
	minBufferSize = 32

	// defaultTimeout bounds both the readiness wait and the response wait
	// of register-style commands.
	defaultTimeout = 50 * time.Millisecond

	// readyPollInterval is the mandatory delay between readiness probes,
	// keeping the bus arbiter and any watchdog fed while the controller
	// works.
	readyPollInterval = time.Millisecond
)

// Device is the card interface driver.
//
// Device is not safe for concurrent use. The protocol below it is strictly
// request-response on a single bus; callers on multiple goroutines must
// serialize access themselves.
type Device struct {
	port    Port
	timer   Countdown
	log     *slog.Logger
	target  *Target
	buf     []byte
	ack     [frame.AckLength]byte
	timeout time.Duration
}

// Option configures a Device.
type Option func(*Device) error

// WithLogger routes the driver's logging to the given handler tree.
func WithLogger(log *slog.Logger) Option {
	return func(d *Device) error {
		if log == nil {
			return errors.New("nil logger")
		}
		d.log = log
		return nil
	}
}

// WithTimeout sets the readiness and response budget used by
// register-style commands (firmware query, SAM and retry configuration).
// Detection and data exchange carry their own budgets.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("non-positive timeout %v", timeout)
		}
		d.timeout = timeout
		return nil
	}
}

// WithBufferSize fixes the response frame capacity. The driver never reads
// past it; responses are truncated to fit, so callers that expect long
// exchange payloads should raise it.
func WithBufferSize(n int) Option {
	return func(d *Device) error {
		if n < minBufferSize {
			return fmt.Errorf("buffer size %d below minimum %d", n, minBufferSize)
		}
		d.buf = make([]byte, n)
		return nil
	}
}

// WithCountdown substitutes the elapsed-time source used for timeout
// budgets.
func WithCountdown(c Countdown) Option {
	return func(d *Device) error {
		if c == nil {
			return errors.New("nil countdown")
		}
		d.timer = c
		return nil
	}
}

// New creates a driver over the given bus port.
func New(port Port, opts ...Option) (*Device, error) {
	d := &Device{
		port:    port,
		timer:   NewCountdown(),
		log:     slog.Default(),
		buf:     make([]byte, DefaultBufferSize),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// LastTarget returns the most recently detected target, or nil when no
// detection has succeeded since construction or since the last failure.
func (d *Device) LastTarget() *Target {
	return d.target
}

// Close releases the underlying bus port.
func (d *Device) Close() error {
	if err := d.port.Close(); err != nil {
		return wrapInterface("close", err)
	}
	return nil
}

// call runs one full command transaction: write the frame, await
// readiness, collect the ACK, await readiness again, then read and parse
// the response. The two budgets are independent because detection
// legitimately takes orders of magnitude longer to answer than it takes to
// acknowledge.
func (d *Device) call(cmd byte, args []byte, readyBudget, responseBudget time.Duration) ([]byte, error) {
	cmdFrame, err := frame.BuildCommand(cmd, args)
	if err != nil {
		return nil, err
	}
	if err := d.port.WriteFrame(cmdFrame); err != nil {
		return nil, wrapInterface("write frame", err)
	}

	if err := d.waitReady(readyBudget); err != nil {
		return nil, err
	}
	if err := d.port.ReadFrame(d.ack[:]); err != nil {
		return nil, wrapInterface("read ack", err)
	}
	if err := frame.CheckAck(d.ack[:]); err != nil {
		return nil, badFrame(err)
	}

	if err := d.waitReady(responseBudget); err != nil {
		return nil, err
	}
	if err := d.port.ReadFrame(d.buf); err != nil {
		return nil, wrapInterface("read response", err)
	}
	payload, err := frame.ParseResponse(d.buf, cmd+1)
	if err != nil {
		return nil, badFrame(err)
	}
	return payload, nil
}

// waitReady drives the readiness poll: probe, wait the mandatory
// inter-poll delay, and give up once the armed countdown expires.
func (d *Device) waitReady(budget time.Duration) error {
	d.timer.Start(budget)
	for {
		time.Sleep(readyPollInterval)
		ready, err := d.port.Ready()
		if err != nil {
			return wrapInterface("ready probe", err)
		}
		if ready {
			return nil
		}
		if d.timer.Poll() {
			return fmt.Errorf("%w: not ready within %v", ErrTimeoutResponse, budget)
		}
	}
}
