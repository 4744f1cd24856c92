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

package frame

import (
	"bytes"
	"errors"
	"fmt"
)

// Parse failures. Callers that only need the taxonomy can match on these;
// the wrapped messages carry the offending bytes for bus traces.
var (
	ErrTruncated   = errors.New("frame truncated")
	ErrBadHeader   = errors.New("bad frame header")
	ErrChecksum    = errors.New("frame checksum mismatch")
	ErrErrorFrame  = errors.New("controller error frame")
	ErrWrongCode   = errors.New("unexpected response code")
	ErrNack        = errors.New("controller sent NACK")
	ErrBadAck      = errors.New("malformed ACK frame")
	ErrUnsupported = errors.New("extended frame not supported")
)

// CheckAck classifies a 6-byte flow-control frame.
func CheckAck(buf []byte) error {
	if len(buf) < AckLength {
		return fmt.Errorf("%w: %d bytes", ErrTruncated, len(buf))
	}
	switch {
	case bytes.Equal(buf[:AckLength], AckFrame):
		return nil
	case bytes.Equal(buf[:AckLength], NackFrame):
		return ErrNack
	default:
		return fmt.Errorf("%w: % X", ErrBadAck, buf[:AckLength])
	}
}

// ParseResponse validates a controller-to-host frame in buf and returns the
// payload that follows the response code. The returned slice aliases buf;
// callers that keep it past the next bus transaction must copy it.
//
// want is the expected response code (command code + 1). A controller error
// frame surfaces as ErrErrorFrame regardless of want.
func ParseResponse(buf []byte, want byte) ([]byte, error) {
	if len(buf) < HeaderLength+2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(buf))
	}
	if buf[0] != Preamble || buf[1] != StartCode1 || buf[2] != StartCode2 {
		return nil, fmt.Errorf("%w: % X", ErrBadHeader, buf[:3])
	}

	dataLen := int(buf[3])
	lcs := buf[4]
	if dataLen == 0xFF && lcs == 0xFF {
		return nil, ErrUnsupported
	}
	if !sumZero(buf[3:5]) {
		return nil, fmt.Errorf("%w: LEN %02X LCS %02X", ErrChecksum, buf[3], lcs)
	}
	if dataLen == 1 && buf[5] == ErrorTFI {
		return nil, ErrErrorFrame
	}
	if dataLen < 2 {
		return nil, fmt.Errorf("%w: LEN %d", ErrBadHeader, dataLen)
	}
	// Data, DCS and postamble must all fit inside the caller's buffer; this
	// is the driver's guarantee that it never reads past its capacity.
	if HeaderLength+dataLen+1 > len(buf) {
		return nil, fmt.Errorf("%w: LEN %d exceeds %d-byte buffer", ErrTruncated, dataLen, len(buf))
	}
	if !sumZero(buf[HeaderLength : HeaderLength+dataLen+1]) {
		return nil, fmt.Errorf("%w: data checksum", ErrChecksum)
	}
	if buf[5] != DeviceToHost {
		return nil, fmt.Errorf("%w: TFI %02X", ErrBadHeader, buf[5])
	}
	if buf[6] != want {
		return nil, fmt.Errorf("%w: got %02X, want %02X", ErrWrongCode, buf[6], want)
	}
	return buf[7 : HeaderLength+dataLen], nil
}
