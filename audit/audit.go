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

// Package audit keeps a durable, append-only record of access
// decisions. Events are CBOR-encoded with integer keys and written one
// after another to a local file, so the trail survives process
// restarts and can be replayed with Reader long after the decisions
// were made.
package audit

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/lynx-locks/lockcore"
)

// Event is one access decision. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// ID uniquely identifies the event (UUID).
	ID string `cbor:"1,keyasint"`

	// Timestamp when the decision was made (nanosecond precision).
	Timestamp time.Time `cbor:"2,keyasint"`

	// Outcome of the authentication cycle.
	Outcome lockcore.Outcome `cbor:"3,keyasint"`

	// UID of the detected token, when one was read.
	UID []byte `cbor:"4,keyasint,omitempty"`

	// Serial of the token, known only after a granted cycle.
	Serial uint32 `cbor:"5,keyasint,omitempty"`
}

// NewEvent stamps a decision with a fresh id and the current time.
func NewEvent(outcome lockcore.Outcome, uid []byte, serial uint32) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Outcome:   outcome,
		UID:       append([]byte(nil), uid...),
		Serial:    serial,
	}
}

// encMode is the CBOR encoder mode for trail events: deterministic
// encoding, nanosecond-precision timestamps.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for trail events.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("audit CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("audit CBOR decoder mode: %v", err))
	}
}
