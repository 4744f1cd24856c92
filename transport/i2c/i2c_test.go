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

package i2c

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/lynx-locks/lockcore/internal/frame"
	"github.com/lynx-locks/lockcore/pn532"
)

// fakeBus scripts an I2C bus. Reads are served from queued frames with
// the controller's ready prefix; an empty queue answers not-ready.
type fakeBus struct {
	txErr  error
	wrote  [][]byte
	queue  [][]byte
	addrs  []uint16
	closed bool
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.closed {
		return errors.New("bus closed")
	}
	if b.txErr != nil {
		return b.txErr
	}
	b.addrs = append(b.addrs, addr)
	if len(w) > 0 {
		b.wrote = append(b.wrote, append([]byte(nil), w...))
	}
	if len(r) > 0 {
		for i := range r {
			r[i] = 0
		}
		if len(b.queue) > 0 {
			r[0] = readyFlag
			if len(r) > 1 {
				head := b.queue[0]
				copy(r[1:], head)
				b.queue = b.queue[1:]
			}
		}
	}
	return nil
}

func (*fakeBus) String() string { return "fake://i2c" }

func (*fakeBus) SetSpeed(physic.Frequency) error { return nil }

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

var _ i2c.BusCloser = (*fakeBus)(nil)

func newTestPort() (*Port, *fakeBus) {
	fb := &fakeBus{}
	return &Port{
		dev:  &i2c.Dev{Addr: busAddr, Bus: fb},
		bus:  fb,
		name: "fake://i2c",
	}, fb
}

func TestWriteFrameUsesControllerAddress(t *testing.T) {
	t.Parallel()
	port, fb := newTestPort()

	cmdFrame, err := frame.BuildCommand(0x02, nil)
	require.NoError(t, err)
	require.NoError(t, port.WriteFrame(cmdFrame))

	require.Len(t, fb.wrote, 1)
	assert.Equal(t, cmdFrame, fb.wrote[0])
	assert.Equal(t, []uint16{busAddr}, fb.addrs)
}

func TestReadyFollowsPendingFrames(t *testing.T) {
	t.Parallel()
	port, fb := newTestPort()

	ready, err := port.Ready()
	require.NoError(t, err)
	assert.False(t, ready)

	fb.queue = append(fb.queue, frame.AckFrame)
	ready, err = port.Ready()
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestReadFrameStripsReadyPrefix(t *testing.T) {
	t.Parallel()
	port, fb := newTestPort()

	wire, err := frame.BuildResponse(0x03, []byte{0x32, 0x01, 0x06, 0x07})
	require.NoError(t, err)
	fb.queue = append(fb.queue, wire)

	buf := make([]byte, 32)
	require.NoError(t, port.ReadFrame(buf))
	assert.Equal(t, wire, buf[:len(wire)])
	for _, b := range buf[len(wire):] {
		assert.Zero(t, b)
	}
}

func TestReadFrameWithoutPendingFrameFails(t *testing.T) {
	t.Parallel()
	port, _ := newTestPort()

	err := port.ReadFrame(make([]byte, 8))
	require.ErrorIs(t, err, pn532.ErrInterface)
	assert.Contains(t, err.Error(), "not ready")
}

func TestBusFaultsAreInterfaceErrors(t *testing.T) {
	t.Parallel()
	port, fb := newTestPort()
	fb.txErr = errors.New("EREMOTEIO")

	_, err := port.Ready()
	require.ErrorIs(t, err, pn532.ErrInterface)
	require.ErrorIs(t, port.WriteFrame([]byte{0x00}), pn532.ErrInterface)
	require.ErrorIs(t, port.ReadFrame(make([]byte, 8)), pn532.ErrInterface)
}

func TestClosedPortFails(t *testing.T) {
	t.Parallel()
	port, fb := newTestPort()
	require.NoError(t, port.Close())
	require.NoError(t, port.Close())
	assert.True(t, fb.closed)

	_, err := port.Ready()
	require.ErrorIs(t, err, pn532.ErrInterface)
}

func TestParseBusPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/dev/i2c-1", parseBusPath("/dev/i2c-1:0x24"))
	assert.Equal(t, "/dev/i2c-1", parseBusPath("/dev/i2c-1"))
	assert.Equal(t, "1", parseBusPath("1"))
}
