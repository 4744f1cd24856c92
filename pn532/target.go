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

package pn532

import (
	"encoding/hex"
	"fmt"
)

// Target describes one detected contactless credential. The driver tracks
// a single slot: a Target stays valid until the next successful detection
// overwrites it, and a failed detection clears it so no stale handle leaks
// into a later exchange.
type Target struct {
	// UID is the credential's unique identifier, 4, 7 or 10 bytes on
	// conforming cards.
	UID []byte
	// SenseRes is the 2-byte sense response (ATQA).
	SenseRes uint16
	// SelRes is the select acknowledge byte (SAK).
	SelRes byte
	// Number is the controller's transient handle for this target,
	// prepended to every data exchange.
	Number byte
}

// UIDString renders the UID as lowercase hex.
func (t *Target) UIDString() string {
	return hex.EncodeToString(t.UID)
}

func (t *Target) String() string {
	return fmt.Sprintf("target %d uid %s sens %04X sel %02X",
		t.Number, t.UIDString(), t.SenseRes, t.SelRes)
}
