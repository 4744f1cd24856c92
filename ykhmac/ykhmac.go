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

// Package ykhmac declares the contract between the lock orchestrator
// and the HMAC-SHA1 challenge-response engine that talks to YubiKey-
// compatible tokens.
//
// The engine itself ships separately; this package pins down the
// boundary: what the orchestrator may ask of it (Service), what the
// engine may pull on in return (Exchanger for APDU relay, KeyStore for
// the shared secret), and the sizes and identifiers both sides must
// agree on.
package ykhmac

import (
	"fmt"

	"github.com/lynx-locks/lockcore/keystore"
	"github.com/lynx-locks/lockcore/pn532"
)

const (
	// SecretKeySize is the HMAC-SHA1 key length both sides share. The
	// enrollment path pads or truncates caller input to exactly this.
	SecretKeySize = 20

	// ChallengeSize is the random challenge length sent to the token.
	ChallengeSize = 64

	// ResponseSize is the HMAC-SHA1 response length expected back.
	ResponseSize = 20

	// Slot1 and Slot2 select the token's challenge-response slot in the
	// OTP applet's APDU coding.
	Slot1 byte = 0x30
	Slot2 byte = 0x38

	// KeyOffset is where the shared secret lives inside the credential
	// region.
	KeyOffset = 0
)

// AID is the registered application identifier of the YubiKey OTP
// applet, selected before any challenge. Treat it as read-only.
var AID = []byte{0xA0, 0x00, 0x00, 0x05, 0x27, 0x20, 0x01}

// Version is the applet version reported during selection.
type Version struct {
	Major byte
	Minor byte
	Patch byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Service is the engine surface the orchestrator drives. All calls are
// synchronous and may block on token I/O; results are plain booleans
// because the token's only verdicts are recognized or not.
type Service interface {
	// Select routes the applet identified by aid and caches what the
	// token reports about itself.
	Select(aid []byte) bool

	// Authenticate runs one challenge-response round against the given
	// slot and verifies the answer against the stored secret.
	Authenticate(slot byte) bool

	// EnrollKey programs the secret into the token's slot. The caller
	// keeps ownership of the array.
	EnrollKey(secret *[SecretKeySize]byte) bool

	// Version reports the applet version. The boolean is false until an
	// authentication cycle has succeeded.
	Version() (Version, bool)

	// Serial reports the token serial. The boolean is false until an
	// authentication cycle has succeeded.
	Serial() (uint32, bool)
}

// Exchanger is the engine's path to the card: one APDU out, one answer
// back, with the driver's truncation semantics. The card-interface
// driver satisfies it directly.
type Exchanger interface {
	InDataExchange(send, response []byte) (int, error)
}

var _ Exchanger = (*pn532.Device)(nil)

// KeyStore is the engine's view of durable secret storage. The
// credential store satisfies it directly.
type KeyStore interface {
	WriteVerified(data []byte, offset int) error
	Read(buf []byte, offset int) error
}

var _ KeyStore = (*keystore.Store)(nil)
