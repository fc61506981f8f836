// go-camera485
// Copyright (c) 2026 The OpenHydromet Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-camera485.
//
// go-camera485 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-camera485 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-camera485; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package camera485

import (
	"fmt"
	"sync"
)

// Statistics holds process-wide capture counters. A single Statistics
// value is shared by reference across capture sessions so recurring
// failure modes stay observable across invocations; it is never reset
// except by process restart. All methods are safe for concurrent use in
// case captures against different buses ever run in parallel.
type Statistics struct {
	mu       sync.Mutex
	pictures uint64
	fails    uint64
	retries  uint64
	repowers uint64
	noCard   uint64
}

func (s *Statistics) addPicture() {
	s.mu.Lock()
	s.pictures++
	s.mu.Unlock()
}

func (s *Statistics) addFail() {
	s.mu.Lock()
	s.fails++
	s.mu.Unlock()
}

func (s *Statistics) addRetry() {
	s.mu.Lock()
	s.retries++
	s.mu.Unlock()
}

func (s *Statistics) addRepower() {
	s.mu.Lock()
	s.repowers++
	s.mu.Unlock()
}

func (s *Statistics) addNoCard() {
	s.mu.Lock()
	s.noCard++
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters
func (s *Statistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatisticsSnapshot{
		Pictures: s.pictures,
		Fails:    s.fails,
		Retries:  s.retries,
		Repowers: s.repowers,
		NoCard:   s.noCard,
	}
}

// StatisticsSnapshot is a point-in-time copy of the capture counters
type StatisticsSnapshot struct {
	Pictures uint64 // completed captures
	Fails    uint64 // sessions that exhausted all power cycles
	Retries  uint64 // failed attempts of multi-try commands
	Repowers uint64 // power cycles spent recovering from failures
	NoCard   uint64 // captures refused because storage was not mounted
}

// String renders the counters as a single diagnostics line
func (s StatisticsSnapshot) String() string {
	return fmt.Sprintf("pictures %d failures %d repower %d retries %d no card %d",
		s.Pictures, s.Fails, s.Repowers, s.Retries, s.NoCard)
}
