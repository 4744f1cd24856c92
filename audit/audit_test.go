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

package audit

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynx-locks/lockcore"
)

func TestNewEventStampsIdentity(t *testing.T) {
	t.Parallel()

	uid := []byte{0x04, 0x63, 0x92, 0xFA}
	event := NewEvent(lockcore.AccessGranted, uid, 424242)

	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, lockcore.AccessGranted, event.Outcome)
	assert.Equal(t, uint32(424242), event.Serial)

	uid[0] = 0xFF
	assert.Equal(t, []byte{0x04, 0x63, 0x92, 0xFA}, event.UID,
		"the event must copy the UID, not alias it")
}

func TestTrailRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trail.cbor")

	granted := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Date(2026, 8, 23, 7, 30, 0, 123456789, time.UTC),
		Outcome:   lockcore.AccessGranted,
		UID:       []byte{0x04, 0x63, 0x92, 0xFA, 0x34, 0x48, 0x80},
		Serial:    5437253,
	}
	denied := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Date(2026, 8, 23, 7, 31, 0, 0, time.UTC),
		Outcome:   lockcore.AccessDenied,
		UID:       []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}

	log, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(granted))
	require.NoError(t, log.Append(denied))
	require.NoError(t, log.Close())

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, granted.ID, got.ID)
	assert.True(t, granted.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, lockcore.AccessGranted, got.Outcome)
	assert.Equal(t, granted.UID, got.UID)
	assert.Equal(t, granted.Serial, got.Serial)

	got, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, denied.ID, got.ID)
	assert.Equal(t, lockcore.AccessDenied, got.Outcome)
	assert.Zero(t, got.Serial)

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTrailAppendsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trail.cbor")

	log, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(NewEvent(lockcore.AccessDenied, nil, 0)))
	require.NoError(t, log.Close())

	log, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(NewEvent(lockcore.AccessGranted, nil, 7)))
	require.NoError(t, log.Close())

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var outcomes []lockcore.Outcome
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		outcomes = append(outcomes, event.Outcome)
	}
	assert.Equal(t, []lockcore.Outcome{lockcore.AccessDenied, lockcore.AccessGranted}, outcomes)
}

func TestClosedTrailRefusesAppends(t *testing.T) {
	t.Parallel()

	log, err := Open(filepath.Join(t.TempDir(), "trail.cbor"))
	require.NoError(t, err)
	require.NoError(t, log.Close())
	require.NoError(t, log.Close(), "closing twice is harmless")

	assert.Error(t, log.Append(NewEvent(lockcore.AccessDenied, nil, 0)))
}
