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
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
)

// Default capture tuning, matching the values the camera family was
// qualified with.
const (
	// DefaultPowerCycles is how many times to cycle power before failing
	DefaultPowerCycles = 3
	// DefaultWarmup is how long to wait after power-on before talking to
	// the camera
	DefaultWarmup = 3500 * time.Millisecond
	// DefaultSettle is the short wait used when the camera was already
	// powered
	DefaultSettle = 500 * time.Millisecond
	// DefaultReadyTimeout bounds the whole wait for the camera to boot
	DefaultReadyTimeout = 10 * time.Second
	// DefaultMaxPictureSize caps accepted image sizes; larger snapshots
	// walk the fallback ladder
	DefaultMaxPictureSize = 450000
	// DefaultTakeThresholdMB is the free space required to attempt a capture
	DefaultTakeThresholdMB = 64
	// DefaultArchiveThresholdMB is the free space required to keep an
	// archived copy
	DefaultArchiveThresholdMB = 256
)

// OverlayConfig describes the on-image text overlay. The template may
// use the date/time fields of FormatTimeStamp plus {STATION} for the
// station name.
type OverlayConfig struct {
	Station  string
	Template string
	X        uint16
	Y        uint16
	FontSize byte
}

// text renders the overlay line for the given capture time
func (o *OverlayConfig) text(t time.Time) string {
	template := o.Template
	if template == "" {
		template = " {STATION} {MM}/{DD}/{YYYY} {hh}:{mm}:{ss} "
	}
	return FormatTimeStamp(t, strings.ReplaceAll(template, "{STATION}", o.Station))
}

// CaptureConfig is the per-invocation configuration of a capture
// session. Nothing in it is shared between sessions.
type CaptureConfig struct {
	// Profile is the primary (resolution, compression) pair to capture at
	Profile Profile
	// Fallback is the ordered ladder of profiles tried when the camera
	// cannot buffer the image at the primary profile, or the image is
	// larger than MaxPictureSize.
	Fallback []Profile
	// Overlay enables the text overlay when non-nil
	Overlay *OverlayConfig
	// ImageFolder is the FormatTimeStamp template for the image directory
	ImageFolder string
	// ImageFileName is the template for the image file name; it may
	// contain {CRC}, replaced with the image checksum on success.
	ImageFileName string
	// TxFolder stages a copy for transmission when non-empty
	TxFolder string
	// LED drives the IR LEDs before the snapshot; empty sends no command
	LED LEDMode
	// MaxPictureSize is the largest acceptable declared image size
	MaxPictureSize int
	// PowerCycles is how many times the whole flow is attempted
	PowerCycles int
	// Warmup is the wait after power-on before the readiness probe
	Warmup time.Duration
	// Settle is the wait used instead when power was already on
	Settle time.Duration
	// ReadyTimeout bounds the whole readiness probe loop
	ReadyTimeout time.Duration
	// TakeThresholdMB is the free space needed to attempt a capture
	TakeThresholdMB float64
	// ArchiveThresholdMB is the free space needed to keep the archive copy
	ArchiveThresholdMB float64
	// LeavePowerOn skips the power-off after a successful session, to
	// permit capturing pictures more often. Failed sessions always power
	// the camera off.
	LeavePowerOn bool
}

// DefaultCaptureConfig returns a capture configuration with the
// qualified defaults: daily folders, timestamped names, a transmission
// copy and no fallback ladder.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Profile:            Profile{Resolution: "1280x720", Compression: 3},
		ImageFolder:        "Camera485/{YYYY}{MM}{DD}",
		ImageFileName:      "Camera485_{YY}{MM}{DD}{hh}{mm}{ss}.jpg",
		TxFolder:           "TX1",
		MaxPictureSize:     DefaultMaxPictureSize,
		PowerCycles:        DefaultPowerCycles,
		Warmup:             DefaultWarmup,
		Settle:             DefaultSettle,
		ReadyTimeout:       DefaultReadyTimeout,
		TakeThresholdMB:    DefaultTakeThresholdMB,
		ArchiveThresholdMB: DefaultArchiveThresholdMB,
	}
}

// CaptureResult reports a completed capture
type CaptureResult struct {
	// Path is the archived image on the primary store. Empty when the
	// archive copy had to be dropped for space after staging.
	Path string
	// TxPath is the staged transmission copy, when staging is configured
	TxPath string
	// Profile is the profile the image was finally captured at
	Profile Profile
	// Bytes is the image length
	Bytes int
	// Startup is the time spent powering and booting the camera on the
	// final power cycle
	Startup time.Duration
	// Transfer is the time spent in the protocol on the final power cycle
	Transfer time.Duration
	// Total is the time spent in the final power cycle overall
	Total time.Duration
}

// Session runs the capture flow against one camera. A session may be
// reused for successive captures, but never concurrently: the bus is
// half-duplex and the camera has a single address.
type Session struct {
	dev   *Device
	power PowerControl
	store Storage
	cfg   CaptureConfig
}

// NewSession creates a capture session. power may be nil for cameras on
// permanent power. Zero config fields take their defaults.
func NewSession(dev *Device, power PowerControl, store Storage, cfg CaptureConfig) (*Session, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidParameter)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: nil storage", ErrInvalidParameter)
	}
	if power == nil {
		power = AlwaysOn{}
	}
	if err := cfg.Profile.Valid(); err != nil {
		return nil, err
	}
	for _, p := range cfg.Fallback {
		if err := p.Valid(); err != nil {
			return nil, err
		}
	}
	if cfg.MaxPictureSize <= 0 {
		cfg.MaxPictureSize = DefaultMaxPictureSize
	}
	if cfg.PowerCycles <= 0 {
		cfg.PowerCycles = DefaultPowerCycles
	}
	if cfg.Warmup <= 0 {
		cfg.Warmup = DefaultWarmup
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.ImageFileName == "" {
		cfg.ImageFileName = DefaultCaptureConfig().ImageFileName
	}
	return &Session{dev: dev, power: power, store: store, cfg: cfg}, nil
}

// Capture runs one complete capture: storage preflight, power-on,
// readiness probe, preparation, snapshot with profile fallback, chunked
// download, and finalization, retrying the whole flow over fresh power
// cycles when that can help. On the post-archive low-space condition the
// image is already staged for transmission, so both a result and an
// error are returned.
func (s *Session) Capture() (*CaptureResult, error) {
	// Storage preconditions come first; no protocol exchange happens
	// when the card is missing or short on space.
	if !s.store.IsMounted() {
		s.dev.stats.addNoCard()
		return nil, ErrNotMounted
	}
	freeMB, err := s.store.FreeSpaceMB()
	if err != nil {
		return nil, fmt.Errorf("free space query: %w", err)
	}
	if freeMB < s.cfg.TakeThresholdMB {
		return nil, fmt.Errorf("%w to take a picture, %.0fMB free", ErrLowSpace, freeMB)
	}
	if s.cfg.TxFolder == "" && freeMB < s.cfg.ArchiveThresholdMB {
		return nil, fmt.Errorf("%w to archive a picture, %.0fMB free", ErrLowSpace, freeMB)
	}

	stamp := s.dev.clock.Now()
	folder := FormatTimeStamp(stamp, s.cfg.ImageFolder)
	name := formatFileName(stamp, s.cfg.ImageFileName)
	imagePath := path.Join(folder, name)
	if folder != "" {
		if err := s.store.MkdirAll(folder); err != nil {
			return nil, fmt.Errorf("create folder %s: %w", folder, err)
		}
	}

	result, err := s.runPowerCycles(imagePath, stamp)
	if err != nil {
		s.dev.stats.addFail()
		debugln("capture failed:", err)
		debugln(s.dev.stats.Snapshot().String())
		return nil, err
	}

	result, err = s.finalize(result, imagePath, name, freeMB)
	s.logOutcome(result)
	return result, err
}

// runPowerCycles drives the whole protocol flow up to PowerCycles
// times, powering the camera off between attempts. Failures that a
// power cycle cannot fix stop the ladder immediately.
func (s *Session) runPowerCycles(imagePath string, stamp time.Time) (*CaptureResult, error) {
	var lastErr error
	for cycle := 0; cycle < s.cfg.PowerCycles; cycle++ {
		out, err := s.store.Create(imagePath)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", imagePath, err)
		}
		result, err := s.runOneCycle(out, stamp)
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", imagePath, cerr)
		}
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsPowerCycleRetryable(err) {
			break
		}
		s.dev.stats.addRepower()
		debugf("power cycle %d/%d failed: %v", cycle+1, s.cfg.PowerCycles, err)
	}
	return nil, lastErr
}

// runOneCycle performs a single pass of the state machine: PoweringOn,
// AwaitingReady, Preparing, Snapshotting, Downloading. Power is removed
// on every exit path unless the caller opted to leave it on and the
// pass succeeded.
func (s *Session) runOneCycle(out io.Writer, stamp time.Time) (result *CaptureResult, err error) {
	cycleStart := s.dev.clock.Now()
	defer func() {
		if !s.cfg.LeavePowerOn || err != nil {
			if perr := s.power.Set(false); perr != nil {
				debugf("power off: %v", perr)
			}
		}
	}()

	if on, perr := s.power.Get(); perr != nil || !on {
		if serr := s.power.Set(true); serr != nil {
			return nil, fmt.Errorf("%w: power on failed: %v", ErrCameraNotResponding, serr)
		}
		s.dev.clock.Sleep(s.cfg.Warmup)
	} else if s.cfg.Settle > 0 {
		s.dev.clock.Sleep(s.cfg.Settle)
	}
	ready := s.dev.clock.Now()

	if err := s.dev.WaitReady(s.cfg.ReadyTimeout); err != nil {
		return nil, err
	}
	s.prepare(stamp)

	total, profile, err := s.snapshotWithFallback()
	if err != nil {
		return nil, err
	}

	received, err := s.download(out, total)
	if err != nil {
		return nil, err
	}

	done := s.dev.clock.Now()
	return &CaptureResult{
		Profile:  profile,
		Bytes:    received,
		Startup:  ready.Sub(cycleStart),
		Transfer: done.Sub(ready),
		Total:    done.Sub(cycleStart),
	}, nil
}

// prepare runs the best-effort preparation commands. None of them are
// correctness-critical; failures are logged and the flow continues.
func (s *Session) prepare(stamp time.Time) {
	if s.cfg.LED != "" {
		if err := s.dev.SetLED(s.cfg.LED); err != nil {
			debugf("unable to turn LED %s: %v", s.cfg.LED, err)
		} else {
			debugf("turned LED %s", s.cfg.LED)
		}
	}
	if s.cfg.Overlay != nil {
		o := s.cfg.Overlay
		if err := s.dev.SetOverlay(o.X, o.Y, o.FontSize, o.text(stamp)); err != nil {
			debugf("failed to set the camera's text overlay: %v", err)
		} else {
			debugln("updated the camera's overlay")
		}
	}
	if err := s.dev.TuneLEDDelay(); err != nil {
		debugf("failed to adjust LED delay: %v", err)
	} else {
		debugln("LED delay adjusted")
	}
}

// snapshotWithFallback issues the snapshot at the primary profile and,
// when the camera runs out of memory or the image exceeds the size cap,
// walks the fallback ladder in order, accepting the first profile that
// yields a valid length within the cap.
func (s *Session) snapshotWithFallback() (int, Profile, error) {
	primary := s.cfg.Profile
	total, err := s.dev.Snapshot(primary)
	ranOut := errors.Is(err, ErrCameraMemory)
	if err != nil && !ranOut {
		return 0, primary, fmt.Errorf("%w: %v", ErrNoSnapshotReply, err)
	}
	if !ranOut {
		if total == 0 {
			return 0, primary, fmt.Errorf("%w: camera declared a zero-length image", ErrTransferIncomplete)
		}
		if total <= s.cfg.MaxPictureSize {
			return total, primary, nil
		}
	}

	for _, p := range s.cfg.Fallback {
		total, err := s.dev.Snapshot(p)
		if errors.Is(err, ErrCameraMemory) {
			continue
		}
		if err != nil {
			return 0, p, fmt.Errorf("%w: %v", ErrNoSnapshotReply, err)
		}
		if total == 0 {
			// The camera accepted this profile; a zero length is a
			// transfer failure, not a reason to keep walking the ladder.
			return 0, p, fmt.Errorf("%w: camera declared a zero-length image", ErrTransferIncomplete)
		}
		if total <= s.cfg.MaxPictureSize {
			if ranOut {
				debugf("using %s due to lack of memory in camera to capture image", p)
			} else {
				debugf("using %s to reduce the size of the image", p)
			}
			return total, p, nil
		}
	}
	if !ranOut && len(s.cfg.Fallback) == 0 {
		// No ladder to fall back on; the primary reply itself was valid
		// but oversized.
		return 0, primary, fmt.Errorf("%w: image of %d bytes exceeds cap of %d",
			ErrCameraMemory, total, s.cfg.MaxPictureSize)
	}
	return 0, primary, ErrCameraMemory
}

// download retrieves the image in chunks of the negotiated size,
// writing to out, until the declared total is satisfied. Offsets never
// pass the declared length regardless of what the camera returns.
func (s *Session) download(out io.Writer, total int) (int, error) {
	received := 0
	for received < total {
		n := total - received
		if n > s.dev.chunkSize {
			n = s.dev.chunkSize
		}
		data, err := s.dev.ReadChunk(uint32(received), uint16(n))
		if err != nil {
			return received, fmt.Errorf("%w, received %d of %d bytes: %v",
				ErrTransferIncomplete, received, total, err)
		}
		if _, err := out.Write(data); err != nil {
			return received, fmt.Errorf("write image: %w", err)
		}
		received += len(data)
	}
	return received, nil
}

// finalize renames the image when a {CRC} token is present, bumps the
// picture counter, and stages the transmission copy subject to the
// archive free-space threshold.
func (s *Session) finalize(result *CaptureResult, imagePath, name string, freeMB float64) (*CaptureResult, error) {
	if strings.Contains(imagePath, CRCToken) {
		crc, err := fileCRC32(s.store, imagePath)
		if err != nil {
			return nil, err
		}
		hexCRC := strconv.FormatUint(uint64(crc), 16)
		newPath := strings.ReplaceAll(imagePath, CRCToken, hexCRC)
		if err := s.store.Rename(imagePath, newPath); err != nil {
			return nil, fmt.Errorf("rename %s: %w", imagePath, err)
		}
		imagePath = newPath
		name = strings.ReplaceAll(name, CRCToken, hexCRC)
	}
	result.Path = imagePath
	s.dev.stats.addPicture()
	debugf("camera image stored to %s, %d bytes", imagePath, result.Bytes)

	if s.cfg.TxFolder == "" {
		return result, nil
	}
	if err := s.store.MkdirAll(s.cfg.TxFolder); err != nil {
		return result, fmt.Errorf("create folder %s: %w", s.cfg.TxFolder, err)
	}
	txPath := path.Join(s.cfg.TxFolder, name)
	if err := s.store.Copy(imagePath, txPath); err != nil {
		return result, fmt.Errorf("stage for transmission: %w", err)
	}
	result.TxPath = txPath
	if freeMB < s.cfg.ArchiveThresholdMB {
		// The staged copy is kept; only the archive copy is dropped.
		if err := s.store.Remove(imagePath); err != nil {
			debugf("remove %s: %v", imagePath, err)
		}
		result.Path = ""
		return result, fmt.Errorf("%w to archive a picture, %.0fMB free", ErrLowSpace, freeMB)
	}
	return result, nil
}

// logOutcome emits the running statistics and timing diagnostics
func (s *Session) logOutcome(result *CaptureResult) {
	if result == nil {
		return
	}
	debugln(s.dev.stats.Snapshot().String())
	debugf("startup %.1fs transfer %.1fs total %.1fs",
		result.Startup.Seconds(), result.Transfer.Seconds(), result.Total.Seconds())
	if result.Transfer > 0 {
		debugf("throughput %.1f bytes per sec",
			float64(result.Bytes)/result.Transfer.Seconds())
	}
}
