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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickBus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uart     string
		i2c      string
		spi      string
		wantKind string
		wantPath string
		wantErr  bool
	}{
		{name: "none chosen", wantErr: true},
		{name: "uart", uart: "/dev/ttyUSB0", wantKind: "uart", wantPath: "/dev/ttyUSB0"},
		{name: "i2c", i2c: "/dev/i2c-1", wantKind: "i2c", wantPath: "/dev/i2c-1"},
		{name: "spi", spi: "/dev/spidev0.0", wantKind: "spi", wantPath: "/dev/spidev0.0"},
		{name: "two buses", uart: "/dev/ttyUSB0", spi: "/dev/spidev0.0", wantErr: true},
		{name: "all three", uart: "a", i2c: "b", spi: "c", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			choice, err := pickBus(tt.uart, tt.i2c, tt.spi)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, choice.kind)
			assert.Equal(t, tt.wantPath, choice.path)
		})
	}
}
