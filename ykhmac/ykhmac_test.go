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

package ykhmac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5.4.3", Version{Major: 5, Minor: 4, Patch: 3}.String())
	assert.Equal(t, "0.0.0", Version{}.String())
}

func TestAIDIsOTPApplet(t *testing.T) {
	t.Parallel()

	require.Len(t, AID, 7)
	assert.Equal(t, []byte{0xA0, 0x00, 0x00, 0x05, 0x27, 0x20, 0x01}, AID)
}

func TestMockArmsOnAuthenticate(t *testing.T) {
	t.Parallel()

	mock := NewMockService()
	mock.SetDeviceInfo(Version{Major: 4, Minor: 2, Patch: 0}, 987654)

	_, ok := mock.Version()
	assert.False(t, ok, "version must stay hidden before authentication")
	_, ok = mock.Serial()
	assert.False(t, ok, "serial must stay hidden before authentication")

	mock.SetAuthenticateResult(false)
	require.False(t, mock.Authenticate(Slot2))
	_, ok = mock.Version()
	assert.False(t, ok, "a rejected authentication must not arm the cache")

	mock.SetAuthenticateResult(true)
	require.True(t, mock.Authenticate(Slot2))

	ver, ok := mock.Version()
	require.True(t, ok)
	assert.Equal(t, "4.2.0", ver.String())

	serial, ok := mock.Serial()
	require.True(t, ok)
	assert.Equal(t, uint32(987654), serial)
}

func TestMockRecordsCalls(t *testing.T) {
	t.Parallel()

	mock := NewMockService()

	assert.Nil(t, mock.LastAID())

	aid := append([]byte(nil), AID...)
	require.True(t, mock.Select(aid))
	aid[0] = 0xFF
	assert.Equal(t, AID, mock.LastAID(), "mock must copy the identifier, not alias it")

	require.True(t, mock.Authenticate(Slot1))
	assert.Equal(t, Slot1, mock.LastSlot())

	mock.SetSelectResult(false)
	assert.False(t, mock.Select(AID))

	assert.Equal(t, 2, mock.CallCount("select"))
	assert.Equal(t, 1, mock.CallCount("authenticate"))
	assert.Equal(t, 0, mock.CallCount("enroll"))
}

func TestMockEnrollKey(t *testing.T) {
	t.Parallel()

	mock := NewMockService()

	var secret [SecretKeySize]byte
	for i := range secret {
		secret[i] = byte(i + 1)
	}

	mock.SetEnrollResult(false)
	require.False(t, mock.EnrollKey(&secret))
	_, ok := mock.EnrolledKey()
	assert.False(t, ok, "a rejected enrollment must not record a key")

	mock.SetEnrollResult(true)
	require.True(t, mock.EnrollKey(&secret))

	want := secret
	secret[0] = 0xEE
	got, ok := mock.EnrolledKey()
	require.True(t, ok)
	assert.Equal(t, want, got, "mock must copy the secret, not alias it")

	assert.Equal(t, 2, mock.CallCount("enroll"))
}
