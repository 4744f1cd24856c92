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

// Checksum computes the two's-complement checksum byte for data, so that
// sum(data) + Checksum(data) == 0 mod 256.
func Checksum(data []byte) byte {
	sum := byte(0)
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}

// sumZero reports whether the bytes in data sum to zero mod 256. Both the
// length and data checksums of a well-formed frame satisfy this.
func sumZero(data []byte) bool {
	sum := byte(0)
	for _, b := range data {
		sum += b
	}
	return sum == 0
}
