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
	"hash/crc32"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCaptureConfig keeps the default policy but a flat folder layout so
// stored paths are easy to assert on
func testCaptureConfig() CaptureConfig {
	cfg := DefaultCaptureConfig()
	cfg.ImageFolder = "images"
	cfg.ImageFileName = "capture.jpg"
	cfg.TxFolder = "tx"
	return cfg
}

func newTestSession(t *testing.T, cam *VirtualCamera, store *memStore,
	power PowerControl, cfg CaptureConfig,
) (*Session, *Device) {
	t.Helper()
	dev := newTestDevice(t, cam)
	session, err := NewSession(dev, power, store, cfg)
	require.NoError(t, err)
	return session, dev
}

func TestCaptureStoresImage(t *testing.T) {
	t.Parallel()

	image := testImage(20000)
	cam := NewVirtualCamera(image)
	store := newMemStore()
	power := &fakePower{}
	session, dev := newTestSession(t, cam, store, power, testCaptureConfig())

	result, err := session.Capture()
	require.NoError(t, err)

	assert.Equal(t, "images/capture.jpg", result.Path)
	assert.Equal(t, "tx/capture.jpg", result.TxPath)
	assert.Equal(t, len(image), result.Bytes)
	assert.Equal(t, image, store.files["images/capture.jpg"])
	assert.Equal(t, image, store.files["tx/capture.jpg"])

	snap := dev.Statistics().Snapshot()
	assert.Equal(t, uint64(1), snap.Pictures)
	assert.Zero(t, snap.Fails)
	assert.Zero(t, snap.Repowers)

	// One power-on, powered off at the end
	assert.Equal(t, 1, power.powerOns())
	assert.False(t, power.on)
}

func TestCaptureChunking(t *testing.T) {
	t.Parallel()

	image := testImage(20000)
	cam := NewVirtualCamera(image)
	session, _ := newTestSession(t, cam, newMemStore(), &fakePower{}, testCaptureConfig())

	_, err := session.Capture()
	require.NoError(t, err)

	reqs := cam.ChunkRequests()
	require.Len(t, reqs, 3)
	assert.Equal(t, [2]int{0, 8192}, reqs[0])
	assert.Equal(t, [2]int{8192, 8192}, reqs[1])
	assert.Equal(t, [2]int{16384, 3616}, reqs[2])
}

func TestCaptureFallbackLadder(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.Profile = Profile{Resolution: "1920x1080", Compression: 0}
	cfg.Fallback = []Profile{
		{Resolution: "1600x900", Compression: 2},
		{Resolution: "1280x720", Compression: 3},
	}

	cam := NewVirtualCamera(testImage(5000))
	cam.OOM[cfg.Profile] = true
	cam.OOM[cfg.Fallback[0]] = true
	store := newMemStore()
	session, dev := newTestSession(t, cam, store, &fakePower{}, cfg)

	result, err := session.Capture()
	require.NoError(t, err)

	assert.Equal(t, cfg.Fallback[1], result.Profile)
	assert.Equal(t, 3, cam.Calls(cmdSnapshot))
	assert.Equal(t, uint64(1), dev.Statistics().Snapshot().Pictures)
}

func TestCaptureLadderExhausted(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.Profile = Profile{Resolution: "1920x1080", Compression: 0}
	cfg.Fallback = []Profile{{Resolution: "640x480", Compression: 5}}

	cam := NewVirtualCamera(testImage(5000))
	cam.OOM[cfg.Profile] = true
	cam.OOM[cfg.Fallback[0]] = true
	power := &fakePower{}
	session, dev := newTestSession(t, cam, newMemStore(), power, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrCameraMemory)

	// Memory exhaustion is not fixed by power, so no extra cycles
	assert.Equal(t, 1, power.powerOns())
	snap := dev.Statistics().Snapshot()
	assert.Zero(t, snap.Repowers)
	assert.Equal(t, uint64(1), snap.Fails)
	assert.False(t, power.on)
}

func TestCaptureOversizedImageNoLadder(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.MaxPictureSize = 1000

	cam := NewVirtualCamera(testImage(5000))
	session, _ := newTestSession(t, cam, newMemStore(), &fakePower{}, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrCameraMemory)
}

func TestCaptureRetriesIncompleteTransfer(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.PowerCycles = 2

	cam := NewVirtualCamera(testImage(20000))
	cam.FailChunkAt = 8192
	power := &fakePower{}
	session, dev := newTestSession(t, cam, newMemStore(), power, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrTransferIncomplete)

	assert.Equal(t, 2, power.powerOns(), "transfer failures deserve a fresh power cycle")
	snap := dev.Statistics().Snapshot()
	assert.Equal(t, uint64(2), snap.Repowers)
	assert.Equal(t, uint64(1), snap.Fails)
	assert.False(t, power.on)
}

func TestCaptureZeroLengthSnapshot(t *testing.T) {
	t.Parallel()

	zero := 0
	cam := NewVirtualCamera(testImage(100))
	cam.DeclareLength = &zero
	session, _ := newTestSession(t, cam, newMemStore(), &fakePower{}, testCaptureConfig())

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrTransferIncomplete)
}

func TestCaptureZeroLengthSnapshotInFallback(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.Profile = Profile{Resolution: "1920x1080", Compression: 0}
	cfg.Fallback = []Profile{{Resolution: "1280x720", Compression: 3}}
	cfg.PowerCycles = 2

	zero := 0
	cam := NewVirtualCamera(testImage(100))
	cam.OOM[cfg.Profile] = true
	cam.DeclareLength = &zero
	power := &fakePower{}
	session, dev := newTestSession(t, cam, newMemStore(), power, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrTransferIncomplete,
		"a zero length from a fallback profile is a transfer failure, not ladder exhaustion")

	// Transfer failures deserve fresh power cycles
	assert.Equal(t, 2, power.powerOns())
	assert.Equal(t, uint64(2), dev.Statistics().Snapshot().Repowers)
}

func TestCaptureSilentCamera(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.PowerCycles = 2
	cfg.ReadyTimeout = time.Second

	cam := NewVirtualCamera(nil)
	cam.Silent = true
	power := &fakePower{}
	session, dev := newTestSession(t, cam, newMemStore(), power, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrCameraNotResponding)
	assert.Equal(t, 2, power.powerOns())
	assert.Equal(t, uint64(2), dev.Statistics().Snapshot().Repowers)
}

func TestCaptureBootWait(t *testing.T) {
	t.Parallel()

	cam := NewVirtualCamera(testImage(1000))
	cam.NotReadyPings = 2
	session, dev := newTestSession(t, cam, newMemStore(), &fakePower{}, testCaptureConfig())

	_, err := session.Capture()
	require.NoError(t, err)
	assert.Zero(t, dev.Statistics().Snapshot().Retries)
}

func TestCaptureUnmountedCard(t *testing.T) {
	t.Parallel()

	cam := NewVirtualCamera(testImage(1000))
	store := newMemStore()
	store.unmounted = true
	session, dev := newTestSession(t, cam, store, &fakePower{}, testCaptureConfig())

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrNotMounted)

	// No bus traffic without storage
	assert.Zero(t, cam.Calls(cmdPing))
	snap := dev.Statistics().Snapshot()
	assert.Equal(t, uint64(1), snap.NoCard)
	assert.Zero(t, snap.Fails)
}

func TestCaptureLowSpace(t *testing.T) {
	t.Parallel()

	cam := NewVirtualCamera(testImage(1000))
	store := newMemStore()
	store.freeMB = 10
	session, _ := newTestSession(t, cam, store, &fakePower{}, testCaptureConfig())

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrLowSpace)
	assert.Zero(t, cam.Calls(cmdPing))
}

func TestCaptureArchiveSpaceWithoutStaging(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.TxFolder = ""

	cam := NewVirtualCamera(testImage(1000))
	store := newMemStore()
	store.freeMB = 100 // enough to take, not enough to archive
	session, _ := newTestSession(t, cam, store, &fakePower{}, cfg)

	_, err := session.Capture()
	require.ErrorIs(t, err, ErrLowSpace)
	assert.Zero(t, cam.Calls(cmdPing))
}

func TestCapturePostArchiveLowSpace(t *testing.T) {
	t.Parallel()

	image := testImage(2000)
	cam := NewVirtualCamera(image)
	store := newMemStore()
	store.freeMB = 100 // enough to take and stage, not enough to archive
	session, dev := newTestSession(t, cam, store, &fakePower{}, testCaptureConfig())

	result, err := session.Capture()
	require.ErrorIs(t, err, ErrLowSpace)
	require.NotNil(t, result, "the staged copy survives the low-space condition")

	assert.Empty(t, result.Path)
	assert.Equal(t, "tx/capture.jpg", result.TxPath)
	assert.Equal(t, image, store.files["tx/capture.jpg"])
	assert.NotContains(t, store.files, "images/capture.jpg")

	snap := dev.Statistics().Snapshot()
	assert.Equal(t, uint64(1), snap.Pictures)
	assert.Zero(t, snap.Fails)
}

func TestCaptureCRCFileName(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.ImageFileName = "capture_{CRC}.jpg"

	image := testImage(3000)
	cam := NewVirtualCamera(image)
	store := newMemStore()
	session, _ := newTestSession(t, cam, store, &fakePower{}, cfg)

	result, err := session.Capture()
	require.NoError(t, err)

	hexCRC := strconv.FormatUint(uint64(crc32.ChecksumIEEE(image)), 16)
	assert.Equal(t, "images/capture_"+hexCRC+".jpg", result.Path)
	assert.Equal(t, "tx/capture_"+hexCRC+".jpg", result.TxPath)
	assert.Equal(t, image, store.files[result.Path])
}

func TestCaptureDatedFolders(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.ImageFolder = "Camera485/{YYYY}{MM}{DD}"
	cfg.ImageFileName = "img_{hh}.jpg"

	cam := NewVirtualCamera(testImage(500))
	store := newMemStore()
	session, _ := newTestSession(t, cam, store, &fakePower{}, cfg)

	result, err := session.Capture()
	require.NoError(t, err)

	// The fake clock starts at 2026-03-05 14:07:09 UTC
	assert.Equal(t, "Camera485/20260305/img_14.jpg", result.Path)
	assert.True(t, store.dirs["Camera485/20260305"])
}

func TestCaptureOverlayAndLED(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.LED = LEDOn
	cfg.Overlay = &OverlayConfig{Station: "RIVER1", X: 10, Y: 20, FontSize: 16}

	cam := NewVirtualCamera(testImage(500))
	session, _ := newTestSession(t, cam, newMemStore(), &fakePower{}, cfg)

	_, err := session.Capture()
	require.NoError(t, err)

	assert.Equal(t, 1, cam.Calls(cmdLEDMode))
	assert.Equal(t, 1, cam.Calls(cmdTuneLEDDelay))
	require.Len(t, cam.Overlays(), 1)
	assert.Contains(t, cam.Overlays()[0], "RIVER1")
	assert.Contains(t, cam.Overlays()[0], "03/05/2026")
}

func TestCapturePrepareFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.LED = LEDOn
	cfg.Overlay = &OverlayConfig{Station: "RIVER1"}

	cam := NewVirtualCamera(testImage(500))
	cam.DropPrepare = true
	session, _ := newTestSession(t, cam, newMemStore(), &fakePower{}, cfg)

	result, err := session.Capture()
	require.NoError(t, err)
	assert.Equal(t, 500, result.Bytes)
}

func TestCaptureLeavePowerOn(t *testing.T) {
	t.Parallel()

	t.Run("success keeps power", func(t *testing.T) {
		t.Parallel()
		cfg := testCaptureConfig()
		cfg.LeavePowerOn = true

		power := &fakePower{}
		session, _ := newTestSession(t, NewVirtualCamera(testImage(500)), newMemStore(), power, cfg)

		_, err := session.Capture()
		require.NoError(t, err)
		assert.True(t, power.on)
	})

	t.Run("failure always powers off", func(t *testing.T) {
		t.Parallel()
		cfg := testCaptureConfig()
		cfg.LeavePowerOn = true
		cfg.PowerCycles = 1
		cfg.ReadyTimeout = time.Second

		cam := NewVirtualCamera(nil)
		cam.Silent = true
		power := &fakePower{}
		session, _ := newTestSession(t, cam, newMemStore(), power, cfg)

		_, err := session.Capture()
		require.Error(t, err)
		assert.False(t, power.on)
	})
}

func TestCaptureWarmCameraSettles(t *testing.T) {
	t.Parallel()

	cfg := testCaptureConfig()
	cfg.LeavePowerOn = true

	power := &fakePower{}
	cam := NewVirtualCamera(testImage(500))
	dev := newTestDevice(t, cam)
	session, err := NewSession(dev, power, newMemStore(), cfg)
	require.NoError(t, err)

	_, err = session.Capture()
	require.NoError(t, err)
	require.True(t, power.on)

	// Second capture finds the camera powered and only settles
	_, err = session.Capture()
	require.NoError(t, err)

	clock, ok := dev.clock.(*fakeClock)
	require.True(t, ok)
	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 2)
	assert.Equal(t, cfg.Warmup, sleeps[0])
	assert.Equal(t, cfg.Settle, sleeps[1])
	assert.Equal(t, 1, power.powerOns())
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()

	dev := newTestDevice(t, NewVirtualCamera(nil))
	store := newMemStore()

	_, err := NewSession(nil, nil, store, testCaptureConfig())
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSession(dev, nil, nil, testCaptureConfig())
	require.ErrorIs(t, err, ErrInvalidParameter)

	cfg := testCaptureConfig()
	cfg.Profile = Profile{Resolution: "bogus"}
	_, err = NewSession(dev, nil, store, cfg)
	require.ErrorIs(t, err, ErrUnknownResolution)

	cfg = testCaptureConfig()
	cfg.Fallback = []Profile{{Resolution: "640x480", Compression: 9}}
	_, err = NewSession(dev, nil, store, cfg)
	require.ErrorIs(t, err, ErrInvalidParameter)
}
