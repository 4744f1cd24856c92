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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lynx-locks/lockcore"
	"github.com/lynx-locks/lockcore/audit"
	"github.com/lynx-locks/lockcore/pn532"
)

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "query the controller firmware version",
	Action: func(cCtx *cli.Context) error {
		logger := setupLogger(cCtx)
		dev, err := openDevice(cCtx, logger)
		if err != nil {
			return err
		}
		defer closeDevice(dev, logger)

		word, err := dev.GetFirmwareVersion()
		if err != nil {
			return fmt.Errorf("firmware version: %w", err)
		}
		fmt.Printf("PN532 firmware %s (ic 0x%02X, support 0x%02X)\n",
			pn532.FormatFirmwareVersion(word), byte(word>>24), byte(word))
		return nil
	},
}

var enrollCommand = &cli.Command{
	Name:      "enroll",
	Usage:     "provision a secret key into the token and the credential store",
	ArgsUsage: "KEYHEX",
	Action: func(cCtx *cli.Context) error {
		logger := setupLogger(cCtx)
		if cCtx.NArg() != 1 {
			return errors.New("usage: lockd enroll KEYHEX")
		}

		store, file, err := openStore(cCtx, logger)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()

		auth, err := lockcore.New(store, newEngine(), lockcore.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := auth.EnrollKey(cCtx.Args().First()); err != nil {
			return fmt.Errorf("enroll: %w", err)
		}
		fmt.Println("secret key enrolled")
		return nil
	},
}

var auditCommand = &cli.Command{
	Name:  "audit",
	Usage: "replay the audit trail",
	Action: func(cCtx *cli.Context) error {
		reader, err := audit.OpenReader(cCtx.String("trail"))
		if err != nil {
			return fmt.Errorf("open trail: %w", err)
		}
		defer func() { _ = reader.Close() }()

		for {
			event, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read trail: %w", err)
			}
			fmt.Printf("%s  %-14s serial=%-10d uid=%X  %s\n",
				event.Timestamp.Format(time.RFC3339),
				event.Outcome, event.Serial, event.UID, event.ID)
		}
	},
}
