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

// Package gpio provides a camera485.PowerControl backed by a named GPIO
// line driving the camera's switched power rail.
package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Line implements camera485.PowerControl on one GPIO line. An active-
// high line is assumed; use Invert for rails switched through a
// low-side driver.
type Line struct {
	pin    gpio.PinIO
	name   string
	invert bool
}

// New looks up the named GPIO line in the host registry
func New(name string) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio line %q not found", name)
	}
	return &Line{pin: pin, name: name}, nil
}

// Invert marks the line as active-low
func (l *Line) Invert() *Line {
	l.invert = true
	return l
}

// Name returns the GPIO line name
func (l *Line) Name() string {
	return l.name
}

// Set drives the power line on or off
func (l *Line) Set(on bool) error {
	if l.invert {
		on = !on
	}
	if err := l.pin.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("failed to drive gpio %s: %w", l.name, err)
	}
	return nil
}

// Get samples the current state of the power line
func (l *Line) Get() (bool, error) {
	on := l.pin.Read() == gpio.High
	if l.invert {
		on = !on
	}
	return on, nil
}
