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

package lockcore

import "fmt"

// Outcome classifies one completed authentication cycle. Faults that
// abort a cycle travel on the error return instead.
type Outcome int

const (
	// AccessDenied covers both a token that never selected the expected
	// applet and one that failed the challenge-response round; the two
	// are indistinguishable at this layer.
	AccessDenied Outcome = iota
	// AccessGranted means the token proved possession of the enrolled
	// secret.
	AccessGranted
)

func (o Outcome) String() string {
	switch o {
	case AccessDenied:
		return "access denied"
	case AccessGranted:
		return "access granted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
