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

import "errors"

var (
	// ErrNotInitialized reports an operation attempted before a
	// successful Initialize installed the card interface.
	ErrNotInitialized = errors.New("authenticator not initialized")

	// ErrInvalidDigit reports enrollment input containing a character
	// outside [0-9a-fA-F]. Raised before any hardware or flash access.
	ErrInvalidDigit = errors.New("invalid hex digit")

	// ErrEnrollRejected reports that the token refused to program the
	// secret into its slot.
	ErrEnrollRejected = errors.New("token rejected key enrollment")

	// ErrNotAuthenticated reports an accessor read before any
	// authentication cycle has succeeded.
	ErrNotAuthenticated = errors.New("no successful authentication cycle")
)
