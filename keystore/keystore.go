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

// Package keystore persists authentication credentials in a reserved
// region of a flash medium.
//
// Credentials are the root of trust for the lock, so every write is
// read back and compared before it counts as stored. A medium that
// acks a write it did not retain fails enrollment instead of producing
// a lock that silently trusts nothing.
package keystore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	// DefaultBase is the flash offset of the credential region, matching
	// the partition the lock hardware reserves below its firmware image.
	DefaultBase int64 = 0x9000

	// DefaultSize bounds the credential region.
	DefaultSize = 512
)

var (
	// ErrVerificationFailed means a write's read-back did not match what
	// was written. The credential must not be trusted.
	ErrVerificationFailed = errors.New("credential write verification failed")

	// ErrOutOfRange means the requested offset and length fall outside
	// the reserved region.
	ErrOutOfRange = errors.New("offset outside credential region")

	// ErrEmptyWrite rejects zero-length writes, which would verify
	// vacuously.
	ErrEmptyWrite = errors.New("empty credential write")
)

// Medium is the flash collaborator. Write granularity and wear concerns
// belong to the medium; the store only assumes that a committed write is
// readable at the same offset.
type Medium interface {
	io.ReaderAt
	io.WriterAt
}

// Store binds a Medium to one reserved credential region. Offsets on
// Store methods are region-relative.
type Store struct {
	medium Medium
	log    *slog.Logger
	base   int64
	size   int
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger replaces the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) error {
		if log == nil {
			return errors.New("nil logger")
		}
		s.log = log
		return nil
	}
}

// WithRegion moves the reserved region. Offsets on the store remain
// region-relative.
func WithRegion(base int64, size int) Option {
	return func(s *Store) error {
		if base < 0 {
			return fmt.Errorf("negative region base %d", base)
		}
		if size <= 0 {
			return fmt.Errorf("non-positive region size %d", size)
		}
		s.base = base
		s.size = size
		return nil
	}
}

// New builds a Store over medium with the default region at
// [DefaultBase, DefaultBase+DefaultSize).
func New(medium Medium, opts ...Option) (*Store, error) {
	if medium == nil {
		return nil, errors.New("nil medium")
	}
	s := &Store{
		medium: medium,
		log:    slog.Default(),
		base:   DefaultBase,
		size:   DefaultSize,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Size returns the region size in bytes.
func (s *Store) Size() int { return s.size }

// WriteVerified writes data at the region-relative offset, reads the
// same span back, and compares. A mismatch is ErrVerificationFailed and
// the caller must treat the credential as unstored. There is no retry
// here; enrollment decides what a failed write means.
func (s *Store) WriteVerified(data []byte, offset int) error {
	if len(data) == 0 {
		return ErrEmptyWrite
	}
	if err := s.checkBounds(offset, len(data)); err != nil {
		return err
	}
	abs := s.base + int64(offset)
	if _, err := s.medium.WriteAt(data, abs); err != nil {
		return fmt.Errorf("write credential region: %w", err)
	}

	readBack := make([]byte, len(data))
	if err := s.readAt(readBack, abs); err != nil {
		return fmt.Errorf("read back credential region: %w", err)
	}
	if !bytes.Equal(readBack, data) {
		s.log.Error("credential verification mismatch",
			"offset", offset,
			"len", len(data))
		return ErrVerificationFailed
	}
	s.log.Debug("credential region written", "offset", offset, "len", len(data))
	return nil
}

// Read fills buf from the region-relative offset.
func (s *Store) Read(buf []byte, offset int) error {
	if err := s.checkBounds(offset, len(buf)); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	if err := s.readAt(buf, s.base+int64(offset)); err != nil {
		return fmt.Errorf("read credential region: %w", err)
	}
	return nil
}

func (s *Store) checkBounds(offset, length int) error {
	if offset < 0 || length > s.size || offset > s.size-length {
		return fmt.Errorf("%w: offset %d len %d size %d",
			ErrOutOfRange, offset, length, s.size)
	}
	return nil
}

// readAt tolerates the ReaderAt contract's permission to return io.EOF
// alongside a full read.
func (s *Store) readAt(buf []byte, abs int64) error {
	n, err := s.medium.ReadAt(buf, abs)
	if err != nil && !(n == len(buf) && errors.Is(err, io.EOF)) {
		return err
	}
	return nil
}
