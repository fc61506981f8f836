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

// Package uart provides the RS-485 serial transport for Camera485
// communication. Half-duplex direction switching is handled by the
// serial driver or converter hardware; this package only sees a duplex
// byte channel.
package uart

import (
	"encoding/binary"
	"fmt"
	"time"

	camera485 "github.com/openhydromet/go-camera485"
	"github.com/openhydromet/go-camera485/internal/frame"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the bus speed the camera ships with
	DefaultBaudRate = 115200

	// defaultMaxPayload caps how much payload a header-then-length read
	// will accept, slightly above the largest chunk the command set
	// requests.
	defaultMaxPayload = 8192 + 64

	// purgeChunk is the read size used while draining stale input
	purgeChunk = 256
)

// Transport implements the camera485.Transport interface for RS-485
// serial communication
type Transport struct {
	port       serial.Port
	portName   string
	timeout    time.Duration
	maxPayload int
	baud       int
}

// Option is a functional option for configuring the transport
type Option func(*Transport) error

// WithBaudRate overrides the default baud rate. Must be applied at New.
func WithBaudRate(baud int) Option {
	return func(t *Transport) error {
		if baud <= 0 {
			return fmt.Errorf("%w: non-positive baud rate", camera485.ErrInvalidParameter)
		}
		t.baud = baud
		return nil
	}
}

// WithMaxPayload caps the payload accepted by reads of unknown length
func WithMaxPayload(n int) Option {
	return func(t *Transport) error {
		if n < 1 || n > frame.MaxDataLength {
			return fmt.Errorf("%w: max payload %d out of range", camera485.ErrInvalidParameter, n)
		}
		t.maxPayload = n
		return nil
	}
}

// New opens the serial port and creates a transport. The port is opened
// 8N1 at the configured baud rate with the default reply timeout; the
// device applies its own timeout on top.
func New(portName string, opts ...Option) (*Transport, error) {
	transport := &Transport{
		portName:   portName,
		timeout:    camera485.DefaultTimeout,
		maxPayload: defaultMaxPayload,
		baud:       DefaultBaudRate,
	}
	for _, opt := range opts {
		if err := opt(transport); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: transport.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(transport.timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	transport.port = port
	return transport, nil
}

// Exchange writes a request frame and reads the reply. A positive
// expectedLen reads exactly that many bytes. Otherwise a 6-byte header
// is read first; if it carries the start marker and echoes the request
// opcode, the declared payload (capped at the maximum) plus CRC follows.
func (t *Transport) Exchange(req []byte, expectedLen int) ([]byte, error) {
	if t.port == nil {
		return nil, camera485.NewTransportError("exchange", t.portName,
			camera485.ErrTransportWrite, camera485.ErrorTypePermanent)
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return nil, camera485.NewTransportError("reset input", t.portName,
			fmt.Errorf("%w: %w", camera485.ErrTransportRead, err), camera485.ErrorTypeTransient)
	}
	if _, err := t.port.Write(req); err != nil {
		return nil, camera485.NewTransportError("write", t.portName,
			fmt.Errorf("%w: %w", camera485.ErrTransportWrite, err), camera485.ErrorTypeTransient)
	}

	if expectedLen > 0 {
		return t.readFull(expectedLen)
	}

	header, err := t.readFull(frame.HeaderLength)
	if err != nil {
		return nil, err
	}
	if header[0] != frame.Marker0 || header[1] != frame.Marker1 {
		return nil, camera485.NewTransportError("read header", t.portName,
			frame.ErrBadMarker, camera485.ErrorTypeTransient)
	}
	if len(req) > 3 && header[3] != req[3] {
		return nil, camera485.NewTransportError("read header", t.portName,
			camera485.ErrUnexpectedReply, camera485.ErrorTypeTransient)
	}
	n := int(binary.BigEndian.Uint16(header[4:frame.HeaderLength]))
	if n > t.maxPayload {
		n = t.maxPayload
	}
	rest, err := t.readFull(n + frame.TrailerLength)
	if err != nil {
		return nil, err
	}
	return append(header, rest...), nil
}

// readFull reads exactly n bytes, treating a zero-byte read as the
// serial timeout it is.
func (t *Transport) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	for got := 0; got < n; {
		k, err := t.port.Read(buf[got:])
		if err != nil {
			return nil, camera485.NewTransportError("read", t.portName,
				fmt.Errorf("%w: %w", camera485.ErrTransportRead, err), camera485.ErrorTypeTransient)
		}
		if k == 0 {
			return nil, camera485.NewTimeoutError("read", t.portName)
		}
		got += k
	}
	return buf, nil
}

// Purge drains stale input by shortening the read timeout to quiet and
// reading until a read yields nothing. The configured timeout is
// restored on all exit paths.
func (t *Transport) Purge(quiet time.Duration) error {
	if t.port == nil {
		return camera485.NewTransportError("purge", t.portName,
			camera485.ErrTransportRead, camera485.ErrorTypePermanent)
	}
	if err := t.port.SetReadTimeout(quiet); err != nil {
		return camera485.NewTransportError("purge", t.portName,
			fmt.Errorf("%w: %w", camera485.ErrTransportRead, err), camera485.ErrorTypeTransient)
	}
	defer func() {
		if err := t.port.SetReadTimeout(t.timeout); err != nil {
			// The next SetTimeout will retry; nothing else to do here.
			_ = err
		}
	}()

	buf := make([]byte, purgeChunk)
	for {
		n, err := t.port.Read(buf)
		if err != nil || n == 0 {
			return nil
		}
	}
}

// SetTimeout sets the read timeout for replies
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	if t.port == nil {
		return nil
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set read timeout on %s: %w", t.portName, err)
	}
	return nil
}

// Close closes the serial port
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", t.portName, err)
	}
	t.port = nil
	return nil
}

// IsConnected returns true if the serial port is open
func (t *Transport) IsConnected() bool {
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() camera485.TransportType {
	return camera485.TransportUART
}
