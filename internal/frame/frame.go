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

package frame

import (
	"encoding/binary"
	"errors"
)

// Decode errors
var (
	// ErrTooShort indicates the buffer cannot hold a complete frame
	ErrTooShort = errors.New("frame too short")
	// ErrBadMarker indicates the buffer does not begin with the 0x90EB marker
	ErrBadMarker = errors.New("bad frame start marker")
	// ErrBadCRC indicates the trailing CRC does not match the frame contents
	ErrBadCRC = errors.New("frame CRC mismatch")
)

// Frame is one parsed protocol message: marker and CRC stripped,
// address, opcode and payload retained.
type Frame struct {
	Payload []byte
	Addr    byte
	Opcode  byte
}

// Encode builds a complete wire frame for the given address, opcode and
// payload. The payload length field and the CRC are both big-endian; the
// CRC covers address through payload. Payloads always fit the 16-bit
// length field by construction of the command set, so Encode cannot fail.
func Encode(addr, opcode byte, payload []byte) []byte {
	buf := make([]byte, 0, MinFrameLength+len(payload))
	buf = append(buf, Marker0, Marker1, addr, opcode)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, payload...)
	return binary.BigEndian.AppendUint16(buf, Checksum(buf[2:]))
}

// Decode parses and validates a reply frame. It returns ErrTooShort when
// raw cannot hold the declared frame, ErrBadMarker when the start marker
// is wrong and ErrBadCRC when the recomputed checksum does not match the
// trailing bytes. Decode does not check the opcode against what the
// caller expected; that is the caller's job.
func Decode(raw []byte) (*Frame, error) {
	if len(raw) < HeaderLength {
		return nil, ErrTooShort
	}
	if raw[0] != Marker0 || raw[1] != Marker1 {
		return nil, ErrBadMarker
	}
	n := int(binary.BigEndian.Uint16(raw[4:HeaderLength]))
	if len(raw) < MinFrameLength+n {
		return nil, ErrTooShort
	}
	if Checksum(raw[2:HeaderLength+n]) != binary.BigEndian.Uint16(raw[HeaderLength+n:]) {
		return nil, ErrBadCRC
	}
	return &Frame{
		Payload: append([]byte(nil), raw[HeaderLength:HeaderLength+n]...),
		Addr:    raw[2],
		Opcode:  raw[3],
	}, nil
}
