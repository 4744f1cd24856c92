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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdownExpires(t *testing.T) {
	t.Parallel()
	timer := NewCountdown()

	timer.Start(40 * time.Millisecond)
	assert.False(t, timer.Poll(), "fresh countdown must not be expired")

	time.Sleep(80 * time.Millisecond)
	assert.True(t, timer.Poll(), "countdown must expire after its duration")
}

func TestCountdownRestart(t *testing.T) {
	t.Parallel()
	timer := NewCountdown()

	timer.Start(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.True(t, timer.Poll())

	// Restarting rearms the deadline from now.
	timer.Start(5 * time.Second)
	assert.False(t, timer.Poll())
}
