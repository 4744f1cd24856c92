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

// Package lockcore authenticates YubiKey-compatible tokens presented to
// a door-lock reader.
//
// It is the policy layer over three collaborators: the pn532 card
// interface driver for detection and APDU relay, the ykhmac service for
// the challenge-response round itself, and the keystore credential
// store for the shared secret. The application loop drives one cycle at
// a time: WaitForYubiKey until a token sits on the reader, then
// Authenticate for the verdict. A failed cycle leaves no state behind;
// the next cycle starts clean.
package lockcore

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lynx-locks/lockcore/internal/syncutil"
	"github.com/lynx-locks/lockcore/keystore"
	"github.com/lynx-locks/lockcore/pn532"
	"github.com/lynx-locks/lockcore/ykhmac"
)

const (
	// detectReadyTimeout bounds only the acknowledgement of the
	// detection command; the caller's timeout bounds the card hunt,
	// which is the long part.
	detectReadyTimeout = 100 * time.Millisecond

	// defaultDetectTimeout is the per-attempt card hunt budget of the
	// legacy boolean entry point.
	defaultDetectTimeout = 500 * time.Millisecond

	// maxActivationRetries makes the controller hunt until the host
	// budget expires instead of giving up on its own schedule.
	maxActivationRetries = 0xFF
)

// Authenticator runs the detect-select-challenge cycle and the
// enrollment flow. All methods serialize on an internal mutex; the
// protocol below is strictly request-response, so overlapping cycles
// would interleave on the bus.
type Authenticator struct {
	mu    syncutil.Mutex
	log   *slog.Logger
	store *keystore.Store
	svc   ykhmac.Service
	dev   *pn532.Device

	version ykhmac.Version
	serial  uint32
	authed  bool
}

// Option configures an Authenticator.
type Option func(*Authenticator) error

// WithLogger routes the orchestrator's logging to the given handler
// tree.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) error {
		if log == nil {
			return errors.New("nil logger")
		}
		a.log = log
		return nil
	}
}

// New creates an orchestrator over the given credential store and
// challenge-response service. The card interface arrives later through
// Initialize, once the bus is up.
func New(store *keystore.Store, svc ykhmac.Service, opts ...Option) (*Authenticator, error) {
	if store == nil {
		return nil, errors.New("nil credential store")
	}
	if svc == nil {
		return nil, errors.New("nil authentication service")
	}
	a := &Authenticator{
		log:   slog.Default(),
		store: store,
		svc:   svc,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Initialize installs the card interface after running its startup
// sequence: firmware version query, SAM configuration, and activation
// retries raised to the maximum. The handle is committed only when
// every step succeeds, so a failed call leaves the orchestrator
// uninitialized and a later call may retry with a fresh driver. Once a
// call has succeeded, further calls are no-ops regardless of argument.
func (a *Authenticator) Initialize(dev *pn532.Device) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dev != nil {
		return nil
	}
	if dev == nil {
		return errors.New("nil device")
	}

	version, err := dev.GetFirmwareVersion()
	if err != nil {
		return fmt.Errorf("firmware version: %w", err)
	}
	a.log.Info("controller online", "firmware", pn532.FormatFirmwareVersion(version))

	if err := dev.SAMConfiguration(); err != nil {
		return fmt.Errorf("sam configuration: %w", err)
	}
	if err := dev.SetPassiveActivationRetries(maxActivationRetries); err != nil {
		return fmt.Errorf("activation retries: %w", err)
	}

	a.dev = dev
	return nil
}

// WaitForYubiKey runs one bounded detection attempt. A quiet field is
// the normal idle outcome and reports (false, nil); only real faults
// surface as errors.
func (a *Authenticator) WaitForYubiKey(timeout time.Duration) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dev == nil {
		return false, ErrNotInitialized
	}

	if _, err := a.dev.InListPassiveTarget(detectReadyTimeout, timeout); err != nil {
		if errors.Is(err, pn532.ErrTimeoutResponse) {
			return false, nil
		}
		return false, fmt.Errorf("target detection: %w", err)
	}
	return true, nil
}

// Authenticate runs one select-then-challenge cycle against a token
// already in the field. A token that refuses the applet select counts
// as denied, not as a fault; whether it is a foreign card or a hostile
// one makes no difference to the door.
func (a *Authenticator) Authenticate() (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dev == nil {
		return AccessDenied, ErrNotInitialized
	}

	if !a.svc.Select(ykhmac.AID) {
		a.log.Debug("token refused applet select")
		return AccessDenied, nil
	}
	if !a.svc.Authenticate(ykhmac.Slot2) {
		a.log.Debug("challenge-response mismatch")
		return AccessDenied, nil
	}

	if version, ok := a.svc.Version(); ok {
		a.version = version
	}
	if serial, ok := a.svc.Serial(); ok {
		a.serial = serial
	}
	a.authed = true
	a.log.Info("access granted", "serial", a.serial, "applet", a.version.String())
	return AccessGranted, nil
}

// Version reports the applet version of the most recently granted
// token.
func (a *Authenticator) Version() (ykhmac.Version, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.authed {
		return ykhmac.Version{}, ErrNotAuthenticated
	}
	return a.version, nil
}

// Serial reports the serial of the most recently granted token.
func (a *Authenticator) Serial() (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.authed {
		return 0, ErrNotAuthenticated
	}
	return a.serial, nil
}

// PollAndAuthenticate collapses one detection attempt and one
// authentication cycle into a single boolean.
//
// Deprecated: use WaitForYubiKey and Authenticate, which keep an absent
// token, a rejected one, and a hardware fault apart. This adapter
// remains for call sites shaped around the old contract.
func (a *Authenticator) PollAndAuthenticate() bool {
	found, err := a.WaitForYubiKey(defaultDetectTimeout)
	if err != nil || !found {
		return false
	}
	outcome, err := a.Authenticate()
	return err == nil && outcome == AccessGranted
}
