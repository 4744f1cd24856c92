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

import "time"

// Countdown is the driver's elapsed-time source for bounded waits. Start
// resets the counter and arms it with a duration; Poll reports whether that
// duration has elapsed. Poll never blocks; the driver decides how to wait
// between polls. Microsecond resolution is sufficient, since only comparison
// matters, not wall-clock accuracy.
type Countdown interface {
	Start(d time.Duration)
	Poll() bool
}

// NewCountdown returns a Countdown backed by the runtime's monotonic clock.
func NewCountdown() Countdown {
	return &monotonicCountdown{}
}

type monotonicCountdown struct {
	started  time.Time
	duration time.Duration
}

func (c *monotonicCountdown) Start(d time.Duration) {
	c.started = time.Now()
	c.duration = d
}

func (c *monotonicCountdown) Poll() bool {
	return time.Since(c.started) >= c.duration
}
