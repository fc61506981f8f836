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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/openhydromet/go-camera485/internal/frame"
)

// Camera485 command codes
const (
	cmdPing         = 0x01
	cmdLEDMode      = 0x07
	cmdSnapshot     = 0x40
	cmdReadChunk    = 0x48
	cmdSetOverlay   = 0x52
	cmdTuneLEDDelay = 0x78
)

// Fixed reply lengths, full frames including marker and CRC
const (
	replyLenPing     = 11
	replyLenLED      = 8
	replyLenSnapshot = 19
	replyLenOverlay  = 8
	replyLenDelay    = 10

	// chunkReplyOverhead is the frame overhead around the raw chunk
	// bytes in a read-chunk reply.
	chunkReplyOverhead = frame.MinFrameLength
)

// snapshotLengthOffset locates the 32-bit total image length within a
// snapshot reply frame, after the 2-byte payload echo.
const snapshotLengthOffset = 7

// oomSentinel is what the camera sends instead of a frame when a
// snapshot does not fit its RAM. It is recognized by exact byte match
// before frame decoding is attempted, and only for the snapshot command.
var oomSentinel = []byte("Len>JpegBufMaxLen\r\n")

var pingPayload = []byte{0x55, 0xAA}

// LEDMode selects how the camera's IR LEDs are driven
type LEDMode string

const (
	// LEDOn forces the LEDs on all the time
	LEDOn LEDMode = "ON"
	// LEDOff releases a forced-on state. The camera still activates the
	// LEDs automatically in low light; that cannot be disabled.
	LEDOff LEDMode = "OFF"
	// LEDAuto selects automatic low-light switching. The camera may not
	// reply to this selection.
	LEDAuto LEDMode = "AUTO"
)

// sendCommand transmits a request frame and returns the raw reply once
// it validates. Up to tries attempts are made; each purges stale bus
// input, sends, receives, and accepts the reply if its CRC checks out
// (or, for the snapshot command only, if it equals the out-of-memory
// sentinel exactly). Failed attempts of multi-try commands count toward
// the retry statistic; single-try probes do not, so waiting for an
// unpowered camera is distinguishable from bus errors.
func (d *Device) sendCommand(req []byte, expectedLen, tries int, snapshot bool) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < tries; attempt++ {
		if err := d.transport.Purge(purgeQuiet); err != nil {
			debugf("purge before send: %v", err)
		}
		raw, err := d.transport.Exchange(req, expectedLen)
		if err == nil {
			if snapshot && bytes.Equal(raw, oomSentinel) {
				return raw, nil
			}
			if _, err = frame.Decode(raw); err == nil {
				return raw, nil
			}
		}
		lastErr = err
		if tries > 1 {
			d.stats.addRetry()
		}
		debugf("opcode %#02x attempt %d/%d failed: %v", req[3], attempt+1, tries, err)
	}
	return nil, fmt.Errorf("%w: opcode %#02x after %d tries: %w", ErrCommandFailed, req[3], tries, lastErr)
}

// Ping checks that the camera is powered up and answering on the bus
func (d *Device) Ping() error {
	req := frame.Encode(d.address, cmdPing, pingPayload)
	_, err := d.sendCommand(req, replyLenPing, d.tries, false)
	return err
}

// WaitReady polls the camera with single-attempt pings until it answers
// or the budget elapses. It is used right after power-on, while the
// camera is still booting; the per-probe timeout is shortened so boot
// garbage on the bus is drained quickly. Failed probes are not counted
// as retries.
func (d *Device) WaitReady(budget time.Duration) error {
	req := frame.Encode(d.address, cmdPing, pingPayload)
	if err := d.transport.SetTimeout(readyProbeTimeout); err != nil {
		return fmt.Errorf("failed to set probe timeout: %w", err)
	}
	defer func() {
		if err := d.transport.SetTimeout(d.timeout); err != nil {
			debugf("restore timeout: %v", err)
		}
	}()

	deadline := d.clock.Now().Add(budget)
	for {
		if err := d.transport.Purge(readyProbeTimeout); err != nil {
			debugf("purge while waiting for camera: %v", err)
		}
		if _, err := d.sendCommand(req, replyLenPing, 1, false); err == nil {
			return nil
		}
		if !d.clock.Now().Before(deadline) {
			return fmt.Errorf("%w: no answer within %v", ErrCameraNotResponding, budget)
		}
	}
}

// Snapshot asks the camera to capture a still at the given profile and
// returns the total image length in bytes. ErrCameraMemory is returned
// when the camera reports the image does not fit its RAM at this
// profile.
func (d *Device) Snapshot(profile Profile) (int, error) {
	code, err := profile.code()
	if err != nil {
		return 0, err
	}
	if profile.Compression > MaxCompression {
		return 0, fmt.Errorf("%w: compression %d out of range 0..%d",
			ErrInvalidParameter, profile.Compression, MaxCompression)
	}
	payload := binary.BigEndian.AppendUint16(make([]byte, 0, 4), uint16(d.chunkSize))
	payload = append(payload, code, profile.Compression)
	req := frame.Encode(d.address, cmdSnapshot, payload)

	raw, err := d.sendCommand(req, replyLenSnapshot, d.tries, true)
	if err != nil {
		return 0, err
	}
	if bytes.Equal(raw, oomSentinel) {
		return 0, fmt.Errorf("%w at %s", ErrCameraMemory, profile)
	}
	return int(binary.BigEndian.Uint32(raw[snapshotLengthOffset : snapshotLengthOffset+4])), nil
}

// ReadChunk retrieves n bytes of the snapped image starting at offset.
// n must be positive and no larger than the negotiated chunk size.
func (d *Device) ReadChunk(offset uint32, n uint16) ([]byte, error) {
	if n == 0 || int(n) > d.chunkSize {
		return nil, fmt.Errorf("%w: chunk length %d out of range 1..%d",
			ErrInvalidParameter, n, d.chunkSize)
	}
	payload := binary.BigEndian.AppendUint32(make([]byte, 0, 6), offset)
	payload = binary.BigEndian.AppendUint16(payload, n)
	req := frame.Encode(d.address, cmdReadChunk, payload)

	raw, err := d.sendCommand(req, chunkReplyOverhead+int(n), d.tries, false)
	if err != nil {
		return nil, err
	}
	return raw[frame.HeaderLength : len(raw)-frame.TrailerLength], nil
}

// SetOverlay updates the text overlay burned into each image. x and y
// are pixel positions of the text, fontSize its pixel height. The text
// is sent verbatim, no escaping.
func (d *Device) SetOverlay(x, y uint16, fontSize byte, text string) error {
	payload := binary.BigEndian.AppendUint16(make([]byte, 0, 5+len(text)), x)
	payload = binary.BigEndian.AppendUint16(payload, y)
	payload = append(payload, fontSize)
	payload = append(payload, text...)
	req := frame.Encode(d.address, cmdSetOverlay, payload)

	_, err := d.sendCommand(req, replyLenOverlay, d.tries, false)
	return err
}

// SetLED drives the camera's IR LEDs. Selecting LEDAuto succeeds even
// without a reply.
func (d *Device) SetLED(mode LEDMode) error {
	var payload []byte
	switch mode {
	case LEDOn:
		payload = []byte{0x33, 0x00}
	case LEDOff:
		payload = []byte{0xCC, 0x00}
	case LEDAuto:
		payload = []byte{0x33, 0x01}
	default:
		return fmt.Errorf("%w: LED mode %q", ErrInvalidParameter, mode)
	}
	req := frame.Encode(d.address, cmdLEDMode, payload)

	_, err := d.sendCommand(req, replyLenLED, d.tries, false)
	if err != nil && mode == LEDAuto {
		return nil
	}
	return err
}

// TuneLEDDelay applies the LED timing compensation newer camera models
// need. Failure is expected on older models and is non-fatal to a
// capture.
func (d *Device) TuneLEDDelay() error {
	req := frame.Encode(d.address, cmdTuneLEDDelay, []byte{0x78, 0x78, 0x1A, 0x1A})
	_, err := d.sendCommand(req, replyLenDelay, d.tries, false)
	return err
}
