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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lynx-locks/lockcore"
	"github.com/lynx-locks/lockcore/audit"
)

var watchCommand = &cli.Command{
	Name:   "watch",
	Usage:  "poll for tokens, authenticate them, and record each decision",
	Action: runWatch,
}

// runWatch is the application re-poll loop: one detection attempt, one
// authentication cycle per presented token, one audit event per
// decision. Faults are logged and the loop returns to polling; only a
// termination signal stops it.
func runWatch(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	store, file, err := openStore(cCtx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	auth, err := lockcore.New(store, newEngine(), lockcore.WithLogger(logger))
	if err != nil {
		return err
	}

	dev, err := openDevice(cCtx, logger)
	if err != nil {
		return err
	}
	defer closeDevice(dev, logger)

	if err := auth.Initialize(dev); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	trail, err := audit.Open(cCtx.String("trail"))
	if err != nil {
		return fmt.Errorf("open trail: %w", err)
	}
	defer func() { _ = trail.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	detectTimeout := cCtx.Duration("detect-timeout")
	interval := cCtx.Duration("interval")
	holdoff := cCtx.Duration("holdoff")

	logger.Info("watching for tokens",
		"detect_timeout", detectTimeout, "interval", interval)

	for ctx.Err() == nil {
		found, err := auth.WaitForYubiKey(detectTimeout)
		if err != nil {
			logger.Error("detection failed", "err", err)
			sleepCtx(ctx, interval)
			continue
		}
		if !found {
			sleepCtx(ctx, interval)
			continue
		}

		outcome, err := auth.Authenticate()
		if err != nil {
			logger.Error("authentication failed", "err", err)
			sleepCtx(ctx, interval)
			continue
		}

		var uid []byte
		uidText := ""
		if target := dev.LastTarget(); target != nil {
			uid = target.UID
			uidText = target.UIDString()
		}
		var serial uint32
		if outcome == lockcore.AccessGranted {
			if s, err := auth.Serial(); err == nil {
				serial = s
			}
		}

		logger.Info("decision",
			"outcome", outcome.String(), "uid", uidText, "serial", serial)
		if err := trail.Append(audit.NewEvent(outcome, uid, serial)); err != nil {
			logger.Error("audit append failed", "err", err)
		}

		sleepCtx(ctx, holdoff)
	}
	return nil
}

// sleepCtx pauses for d, cut short by cancellation.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
