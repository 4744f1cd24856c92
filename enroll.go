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

import (
	"fmt"

	"github.com/lynx-locks/lockcore/ykhmac"
)

// EnrollKey provisions the shared secret from operator-supplied hex.
// The material is validated before anything else runs: a non-hex
// character fails with ErrInvalidDigit and neither the token nor the
// flash is touched. Valid input is normalized to exactly
// ykhmac.SecretKeySize bytes (zero-padded on the right, or truncated
// with a warning), programmed into the token's slot, and only then
// committed to the credential store, so a key the token refused never
// reaches flash.
func (a *Authenticator) EnrollKey(hexKey string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, decoded, err := decodeSecretKey(hexKey)
	if err != nil {
		return err
	}
	if decoded > ykhmac.SecretKeySize {
		a.log.Warn("secret key material truncated",
			"decoded", decoded, "kept", ykhmac.SecretKeySize)
	}

	if !a.svc.EnrollKey(&key) {
		return ErrEnrollRejected
	}
	if err := a.store.WriteVerified(key[:], ykhmac.KeyOffset); err != nil {
		return fmt.Errorf("persist secret key: %w", err)
	}
	a.log.Info("secret key enrolled")
	return nil
}

// decodeSecretKey turns hex into a fixed-size key, two characters per
// byte with an odd trailing digit standing as its own byte. It reports
// how many bytes the input decoded to; everything past the key size is
// dropped.
func decodeSecretKey(hexKey string) (key [ykhmac.SecretKeySize]byte, decoded int, err error) {
	for i := 0; i < len(hexKey); i++ {
		if !isHexDigit(hexKey[i]) {
			return key, 0, fmt.Errorf("%w: %q at position %d", ErrInvalidDigit, hexKey[i], i)
		}
	}

	for i := 0; i < len(hexKey); i += 2 {
		b := hexNibble(hexKey[i])
		if i+1 < len(hexKey) {
			b = b<<4 | hexNibble(hexKey[i+1])
		}
		if decoded < len(key) {
			key[decoded] = b
		}
		decoded++
	}
	return key, decoded, nil
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// hexNibble assumes c already passed isHexDigit.
func hexNibble(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
