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

// Package testutil provides canonical controller response payloads for
// tests. Payloads are the bytes that follow the response code on the wire;
// the mock port wraps them into full frames.
package testutil

// Credential UIDs observed on real hardware, reusable across test tables.
var (
	// TestUID4 is a 4-byte legacy UID.
	TestUID4 = []byte{0xDE, 0xAD, 0xBE, 0xEF}
	// TestUID7 is a 7-byte NXP-style UID as reported by hardware keys.
	TestUID7 = []byte{0x04, 0x63, 0x92, 0xFA, 0x34, 0x48, 0x80}
)

// FirmwareVersionPayload returns a GetFirmwareVersion answer: IC 0x32,
// version 1.6, support for ISO14443 type A and B.
func FirmwareVersionPayload() []byte {
	return []byte{0x32, 0x01, 0x06, 0x07}
}

// DetectionPayload returns an InListPassiveTarget answer with full control
// over every field, including malformed detected counts.
func DetectionPayload(count, target byte, senseRes uint16, selRes byte, uid []byte) []byte {
	payload := make([]byte, 0, 6+len(uid))
	payload = append(payload, count, target, byte(senseRes>>8), byte(senseRes), selRes, byte(len(uid)))
	payload = append(payload, uid...)
	return payload
}

// CredentialDetectionPayload returns a single ISO-DEP credential detection:
// one target, sense response 0x0004, select acknowledge 0x20.
func CredentialDetectionPayload(uid []byte) []byte {
	return DetectionPayload(0x01, 0x01, 0x0004, 0x20, uid)
}

// ExchangePayload returns an InDataExchange answer with the given status
// byte followed by response data.
func ExchangePayload(status byte, data []byte) []byte {
	payload := make([]byte, 0, 1+len(data))
	payload = append(payload, status)
	payload = append(payload, data...)
	return payload
}
