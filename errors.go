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

	"github.com/openhydromet/go-camera485/internal/frame"
)

// Protocol-layer errors. These are absorbed by the command retry loop
// and normally never reach callers of the capture session.
var (
	// ErrFrameTooShort indicates a reply shorter than a complete frame
	ErrFrameTooShort = frame.ErrTooShort
	// ErrBadMarker indicates a reply without the 0x90EB start marker
	ErrBadMarker = frame.ErrBadMarker
	// ErrBadCRC indicates a reply whose CRC-16 does not match its contents
	ErrBadCRC = frame.ErrBadCRC
	// ErrTransportTimeout indicates a read timed out before a full reply arrived
	ErrTransportTimeout = errors.New("transport timeout")
	// ErrTransportRead indicates a transport read failure
	ErrTransportRead = errors.New("transport read failed")
	// ErrTransportWrite indicates a transport write failure
	ErrTransportWrite = errors.New("transport write failed")
	// ErrUnexpectedReply indicates a reply header that does not echo the request opcode
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Command and session-layer errors
var (
	// ErrCommandFailed indicates a command exhausted its retry budget
	ErrCommandFailed = errors.New("command failed")

	// ErrCameraNotResponding indicates the camera never answered the
	// readiness probe within its budget. Recoverable by power cycling.
	ErrCameraNotResponding = errors.New("camera is not communicating, is it connected")

	// ErrCameraMemory indicates the camera's RAM cannot hold an image at
	// any of the requested profiles. More power cycles will not change
	// the camera's RAM limit, so this is never retried by power cycling.
	ErrCameraMemory = errors.New("camera lacks memory to take snapshot, " +
		"decrease resolution or increase compression")

	// ErrNoSnapshotReply indicates the snapshot command got no usable
	// reply at all. Recoverable by power cycling.
	ErrNoSnapshotReply = errors.New("unable to snap image from camera")

	// ErrTransferIncomplete indicates the chunked download stopped short
	// of the declared image length. Recoverable by power cycling.
	ErrTransferIncomplete = errors.New("failed to retrieve camera image")

	// ErrNotMounted indicates the storage volume is not mounted. Fatal.
	ErrNotMounted = errors.New("storage card must be inserted to take pictures")

	// ErrLowSpace indicates the storage volume is below a free-space
	// threshold. Fatal, reported immediately.
	ErrLowSpace = errors.New("storage card is too low on space")

	// ErrInvalidParameter indicates an invalid argument to a command or option
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownResolution indicates a resolution name outside the closed table
	ErrUnknownResolution = errors.New("unknown resolution")
)

// ErrorType classifies transport errors for retry decisions
type ErrorType int

const (
	// ErrorTypeTransient marks errors worth retrying within a command's budget
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent marks errors that retrying cannot fix
	ErrorTypePermanent
)

// TransportError wraps a transport failure with operation context
type TransportError struct {
	Err  error
	Op   string
	Port string
	Type ErrorType
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error with operation context
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{Op: op, Port: port, Err: err, Type: errType}
}

// NewTimeoutError creates a transport timeout error
func NewTimeoutError(op, port string) *TransportError {
	return &TransportError{Op: op, Port: port, Err: ErrTransportTimeout, Type: ErrorTypeTransient}
}

// IsRetryable reports whether err is worth retrying within a command's
// own try budget. Frame corruption and timeouts are transient on a
// shared noisy bus; everything else is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) && te.Type == ErrorTypePermanent {
		return false
	}
	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrUnexpectedReply),
		errors.Is(err, ErrFrameTooShort),
		errors.Is(err, ErrBadMarker),
		errors.Is(err, ErrBadCRC):
		return true
	default:
		return false
	}
}

// IsPowerCycleRetryable reports whether a session failure may be
// recovered by cycling the camera's power and rerunning the capture
// flow. Camera memory exhaustion and storage failures are not: the
// camera's RAM limit and the card's free space do not change with power.
func IsPowerCycleRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrCameraNotResponding),
		errors.Is(err, ErrNoSnapshotReply),
		errors.Is(err, ErrTransferIncomplete):
		return true
	default:
		return false
	}
}
