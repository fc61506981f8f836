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

/*
Package camera485 provides a pure Go library for capturing JPEG still
images from Camera485 cameras over a shared RS-485 bus.

The Camera485 speaks a framed binary request/reply protocol: each
message carries a 0x90EB start marker, the camera's bus address, an
opcode, a big-endian payload length and a CRC-16/XMODEM over everything
after the marker. This library implements the protocol engine around
that: the codec, the command set, and a capture session that powers the
camera, waits for it to boot, prepares it, snaps a still with a
resolution/compression fallback ladder, downloads the image in chunks
and files it away, retrying the whole flow over fresh power cycles when
the bus or the camera misbehaves.

Features:
  - Framed codec with CRC-16/XMODEM validation
  - Full command set: ping, snapshot, chunked image fetch, text
    overlay, IR LED control, LED delay tuning
  - Resolution/compression fallback when the camera runs out of RAM
  - Power-cycle recovery driven through a pluggable power control
  - Free-space policy, timestamped file naming and transmission staging
  - Process-wide capture statistics for long-running installations

Basic Usage:

	import (
	    camera485 "github.com/openhydromet/go-camera485"
	    "github.com/openhydromet/go-camera485/storage/sdcard"
	    "github.com/openhydromet/go-camera485/transport/uart"
	)

	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	device, err := camera485.New(transport)
	if err != nil {
	    log.Fatal(err)
	}

	cfg := camera485.DefaultCaptureConfig()
	cfg.Profile = camera485.Profile{Resolution: "1920x1080", Compression: 3}
	cfg.Fallback = []camera485.Profile{
	    {Resolution: "1600x900", Compression: 3},
	    {Resolution: "1280x720", Compression: 3},
	}

	session, err := camera485.NewSession(device, nil, sdcard.New("/sd"), cfg)
	if err != nil {
	    log.Fatal(err)
	}

	result, err := session.Capture()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("stored %s (%d bytes)\n", result.Path, result.Bytes)

Power Control:

Cameras on switched power hand the session a PowerControl so a stuck
camera can be recovered by cycling its rail:

	line, err := gpio.New("GPIO17")
	if err != nil {
	    log.Fatal(err)
	}
	session, err := camera485.NewSession(device, line, store, cfg)

Error Handling:

Session failures surface as a single tagged reason. Protocol-level
noise (bad CRCs, timeouts) is absorbed by each command's retry budget
and never reaches the caller; IsPowerCycleRetryable reports whether a
failure was worth a power cycle. ErrCameraMemory means the fallback
ladder was exhausted and a different profile set is needed.
*/
package camera485
