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

// Frame direction identifiers (TFI byte)
const (
	HostToDevice = 0xD4 // commands from host to controller
	DeviceToHost = 0xD5 // responses from controller to host
	ErrorTFI     = 0x7F // controller error frame identifier
)

// Frame markers
const (
	Preamble   = 0x00
	StartCode1 = 0x00
	StartCode2 = 0xFF
	Postamble  = 0x00
)

// Frame geometry
const (
	// HeaderLength covers preamble, start code, LEN and LCS.
	HeaderLength = 5
	// Overhead is everything in a frame besides the payload that follows
	// the response code: header, TFI, code, DCS and postamble.
	Overhead = 9
	// MaxDataLength is the largest LEN a normal (non-extended) frame
	// can carry, TFI included.
	MaxDataLength = 255
	// AckLength is the size of ACK and NACK frames.
	AckLength = 6
)

// ACK and NACK frames, used for flow control
var (
	AckFrame  = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	NackFrame = []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00}
)
