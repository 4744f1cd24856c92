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

import "fmt"

// BuildCommand assembles a normal-format host-to-controller frame carrying
// cmd and args. Extended frames are not supported; args beyond what a
// one-byte LEN can describe are rejected.
func BuildCommand(cmd byte, args []byte) ([]byte, error) {
	return build(HostToDevice, cmd, args)
}

// BuildResponse assembles a controller-to-host frame carrying the response
// code and payload. The driver never sends these; they exist for the mock
// port and for test fixtures that fabricate controller traffic.
func BuildResponse(code byte, payload []byte) ([]byte, error) {
	return build(DeviceToHost, code, payload)
}

func build(tfi, code byte, data []byte) ([]byte, error) {
	dataLen := len(data) + 2 // TFI + code
	if dataLen > MaxDataLength {
		return nil, fmt.Errorf("frame data length %d exceeds %d", dataLen, MaxDataLength)
	}

	buf := make([]byte, 0, HeaderLength+dataLen+2)
	buf = append(buf, Preamble, StartCode1, StartCode2)
	buf = append(buf, byte(dataLen), ^byte(dataLen)+1)
	buf = append(buf, tfi, code)
	buf = append(buf, data...)
	buf = append(buf, Checksum(buf[HeaderLength:]), Postamble)
	return buf, nil
}
