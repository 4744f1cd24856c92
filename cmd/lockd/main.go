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

// lockd is the bring-up and diagnostics tool for the door lock
// credential reader: it queries the controller, enrolls secret keys,
// runs the watch loop that authenticates presented tokens, and replays
// the audit trail.
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/lynx-locks/lockcore/keystore"
	"github.com/lynx-locks/lockcore/pn532"
	"github.com/lynx-locks/lockcore/transport/i2c"
	"github.com/lynx-locks/lockcore/transport/spi"
	"github.com/lynx-locks/lockcore/transport/uart"
	"github.com/lynx-locks/lockcore/ykhmac"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "uart",
		Value:   "",
		Usage:   "serial device of the controller (e.g. /dev/ttyUSB0)",
		EnvVars: []string{"LOCKD_UART"},
	},
	&cli.StringFlag{
		Name:    "i2c",
		Value:   "",
		Usage:   "I2C bus of the controller (e.g. /dev/i2c-1)",
		EnvVars: []string{"LOCKD_I2C"},
	},
	&cli.StringFlag{
		Name:    "spi",
		Value:   "",
		Usage:   "SPI port of the controller (e.g. /dev/spidev0.0)",
		EnvVars: []string{"LOCKD_SPI"},
	},
	&cli.StringFlag{
		Name:    "store",
		Value:   "lockd-store.bin",
		Usage:   "credential store image",
		EnvVars: []string{"LOCKD_STORE"},
	},
	&cli.StringFlag{
		Name:    "trail",
		Value:   "lockd-trail.cbor",
		Usage:   "audit trail file",
		EnvVars: []string{"LOCKD_TRAIL"},
	},
	&cli.DurationFlag{
		Name:    "detect-timeout",
		Value:   500 * time.Millisecond,
		Usage:   "card hunt budget per detection attempt",
		EnvVars: []string{"LOCKD_DETECT_TIMEOUT"},
	},
	&cli.DurationFlag{
		Name:    "interval",
		Value:   250 * time.Millisecond,
		Usage:   "pause between detection attempts",
		EnvVars: []string{"LOCKD_INTERVAL"},
	},
	&cli.DurationFlag{
		Name:    "holdoff",
		Value:   3 * time.Second,
		Usage:   "pause after an access decision before polling again",
		EnvVars: []string{"LOCKD_HOLDOFF"},
	},
	&cli.BoolFlag{
		Name:    "log-json",
		Value:   false,
		Usage:   "log in JSON format",
		EnvVars: []string{"LOCKD_LOG_JSON"},
	},
	&cli.BoolFlag{
		Name:    "log-debug",
		Value:   false,
		Usage:   "log debug messages",
		EnvVars: []string{"LOCKD_LOG_DEBUG"},
	},
}

func main() {
	app := &cli.App{
		Name:  "lockd",
		Usage: "door lock credential reader bring-up and diagnostics",
		Flags: flags,
		Commands: []*cli.Command{
			versionCommand,
			enrollCommand,
			watchCommand,
			auditCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setupLogger builds the process logger from the log flags and tags it
// with a per-invocation run id.
func setupLogger(cCtx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cCtx.Bool("log-debug") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cCtx.Bool("log-json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("run", uuid.NewString())
}

// busChoice is the bus flag the user settled on.
type busChoice struct {
	kind string
	path string
}

// pickBus enforces that exactly one bus flag is set.
func pickBus(uartPath, i2cPath, spiPath string) (busChoice, error) {
	var chosen []busChoice
	if uartPath != "" {
		chosen = append(chosen, busChoice{kind: "uart", path: uartPath})
	}
	if i2cPath != "" {
		chosen = append(chosen, busChoice{kind: "i2c", path: i2cPath})
	}
	if spiPath != "" {
		chosen = append(chosen, busChoice{kind: "spi", path: spiPath})
	}
	if len(chosen) != 1 {
		return busChoice{}, errors.New("pick exactly one of --uart, --i2c or --spi")
	}
	return chosen[0], nil
}

// openPort opens the bus named by exactly one of the bus flags.
func openPort(cCtx *cli.Context) (pn532.Port, error) {
	choice, err := pickBus(cCtx.String("uart"), cCtx.String("i2c"), cCtx.String("spi"))
	if err != nil {
		return nil, err
	}

	switch choice.kind {
	case "uart":
		port, err := uart.New(choice.path)
		if err != nil {
			return nil, fmt.Errorf("open uart %s: %w", choice.path, err)
		}
		return port, nil
	case "i2c":
		port, err := i2c.New(choice.path)
		if err != nil {
			return nil, fmt.Errorf("open i2c %s: %w", choice.path, err)
		}
		return port, nil
	default:
		port, err := spi.New(choice.path)
		if err != nil {
			return nil, fmt.Errorf("open spi %s: %w", choice.path, err)
		}
		return port, nil
	}
}

// openDevice opens the bus and raises the driver over it.
func openDevice(cCtx *cli.Context, logger *slog.Logger) (*pn532.Device, error) {
	port, err := openPort(cCtx)
	if err != nil {
		return nil, err
	}
	dev, err := pn532.New(port, pn532.WithLogger(logger))
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return dev, nil
}

// openStore opens the credential store image named by --store.
func openStore(cCtx *cli.Context, logger *slog.Logger) (*keystore.Store, *os.File, error) {
	file, err := keystore.OpenFile(cCtx.String("store"), 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	store, err := keystore.New(file, keystore.WithLogger(logger))
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return store, file, nil
}

// newEngine returns the challenge-response engine.
//
// TODO: switch to the hardware HMAC engine once it links; until then
// every selected token authenticates.
func newEngine() ykhmac.Service {
	return ykhmac.NewMockService()
}

func closeDevice(dev *pn532.Device, logger *slog.Logger) {
	if err := dev.Close(); err != nil {
		logger.Error("closing device", "err", err)
	}
}
