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
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock advances a small step on every Now call and jumps by the
// full duration on Sleep, so waits and budgets elapse without real time
// passing.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{
		now:  time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC),
		step: step,
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// memStore is an in-memory Storage for session tests
type memStore struct {
	files     map[string][]byte
	dirs      map[string]bool
	freeMB    float64
	freeErr   error
	unmounted bool
}

func newMemStore() *memStore {
	return &memStore{
		files:  make(map[string][]byte),
		dirs:   make(map[string]bool),
		freeMB: 10000,
	}
}

func (s *memStore) IsMounted() bool { return !s.unmounted }

func (s *memStore) FreeSpaceMB() (float64, error) { return s.freeMB, s.freeErr }

func (s *memStore) MkdirAll(path string) error {
	s.dirs[path] = true
	return nil
}

func (s *memStore) Create(path string) (io.WriteCloser, error) {
	s.files[path] = nil
	return &memFile{store: s, path: path}, nil
}

func (s *memStore) Open(path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Rename(oldPath, newPath string) error {
	data, ok := s.files[oldPath]
	if !ok {
		return os.ErrNotExist
	}
	delete(s.files, oldPath)
	s.files[newPath] = data
	return nil
}

func (s *memStore) Copy(src, dst string) error {
	data, ok := s.files[src]
	if !ok {
		return os.ErrNotExist
	}
	s.files[dst] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Remove(path string) error {
	if _, ok := s.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(s.files, path)
	return nil
}

type memFile struct {
	store *memStore
	path  string
}

func (f *memFile) Write(p []byte) (int, error) {
	f.store.files[f.path] = append(f.store.files[f.path], p...)
	return len(p), nil
}

func (f *memFile) Close() error { return nil }

// fakePower records every state change of the camera's power rail
type fakePower struct {
	on      bool
	history []bool
}

func (p *fakePower) Set(on bool) error {
	p.on = on
	p.history = append(p.history, on)
	return nil
}

func (p *fakePower) Get() (bool, error) { return p.on, nil }

func (p *fakePower) powerOns() int {
	n := 0
	for _, on := range p.history {
		if on {
			n++
		}
	}
	return n
}

// testImage returns a deterministic pseudo-image of n bytes
func testImage(n int) []byte {
	img := make([]byte, n)
	for i := range img {
		img[i] = byte(i*7 + i>>8)
	}
	return img
}
