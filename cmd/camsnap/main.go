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

// camsnap captures a single image from a Camera485 on an RS-485 bus and
// stores it on the local filesystem.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	camera485 "github.com/openhydromet/go-camera485"
	"github.com/openhydromet/go-camera485/power/gpio"
	"github.com/openhydromet/go-camera485/storage/sdcard"
	"github.com/openhydromet/go-camera485/transport/uart"
)

type config struct {
	devicePath  *string
	baudRate    *int
	address     *int
	resolution  *string
	compression *int
	fallback    *string
	maxSize     *int
	mount       *string
	folder      *string
	fileName    *string
	txFolder    *string
	powerLine   *string
	powerLow    *bool
	leaveOn     *bool
	led         *string
	station     *string
	tries       *int
	cycles      *int
	timeout     *time.Duration
	debug       *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "/dev/ttyUSB0",
			"Serial device path (e.g., /dev/ttyUSB0 or COM3)"),
		baudRate: flag.Int("baud", uart.DefaultBaudRate, "Serial baud rate"),
		address:  flag.Int("address", int(camera485.DefaultAddress), "Camera bus address (1-254)"),
		resolution: flag.String("resolution", "1280x720",
			"Capture resolution (see -list-resolutions)"),
		compression: flag.Int("compression", 3,
			"JPEG compression level (0=best quality, 5=smallest)"),
		fallback: flag.String("fallback", "",
			"Comma-separated fallback ladder, e.g. 1280x720/3,640x480/4"),
		maxSize: flag.Int("max-size", camera485.DefaultMaxPictureSize,
			"Largest acceptable image size in bytes"),
		mount:  flag.String("mount", ".", "Storage mount point for captured images"),
		folder: flag.String("folder", "Camera485/{YYYY}{MM}{DD}", "Image folder template"),
		fileName: flag.String("name", "Camera485_{YY}{MM}{DD}{hh}{mm}{ss}.jpg",
			"Image file name template; may contain {CRC}"),
		txFolder: flag.String("tx", "", "Folder to stage a transmission copy in (empty disables)"),
		powerLine: flag.String("power", "",
			"GPIO line switching camera power (empty for always-on cameras)"),
		powerLow: flag.Bool("power-active-low", false, "Power line is active-low"),
		leaveOn:  flag.Bool("leave-on", false, "Leave the camera powered after a successful capture"),
		led:      flag.String("led", "", "IR LED mode: ON, OFF or AUTO (empty sends no command)"),
		station:  flag.String("station", "", "Station name for the image text overlay (empty disables)"),
		tries:    flag.Int("tries", camera485.DefaultTries, "Attempts per command"),
		cycles:   flag.Int("cycles", camera485.DefaultPowerCycles, "Power cycles before giving up"),
		timeout:  flag.Duration("timeout", camera485.DefaultTimeout, "Reply timeout per command"),
		debug:    flag.Bool("debug", false, "Enable debug output"),
	}
	listResolutions := flag.Bool("list-resolutions", false, "List supported resolutions and exit")
	flag.Parse()

	if *listResolutions {
		for _, r := range camera485.Resolutions() {
			_, _ = fmt.Println(r)
		}
		os.Exit(0)
	}
	if *cfg.debug {
		camera485.SetDebugEnabled(true)
	}
	return cfg
}

// parseProfile parses "1280x720/3" or "1280x720" (compression defaults
// to the -compression flag's value).
func parseProfile(s string, defaultCompression int) (camera485.Profile, error) {
	res, comp, found := strings.Cut(s, "/")
	p := camera485.Profile{Resolution: res, Compression: byte(defaultCompression)}
	if found {
		var c int
		if _, err := fmt.Sscanf(comp, "%d", &c); err != nil || c < 0 || c > int(camera485.MaxCompression) {
			return p, fmt.Errorf("bad compression in %q", s)
		}
		p.Compression = byte(c)
	}
	return p, p.Valid()
}

func parseFallback(s string, defaultCompression int) ([]camera485.Profile, error) {
	if s == "" {
		return nil, nil
	}
	var ladder []camera485.Profile
	for _, part := range strings.Split(s, ",") {
		p, err := parseProfile(strings.TrimSpace(part), defaultCompression)
		if err != nil {
			return nil, err
		}
		ladder = append(ladder, p)
	}
	return ladder, nil
}

func buildCaptureConfig(cfg *config) (camera485.CaptureConfig, error) {
	capture := camera485.DefaultCaptureConfig()

	profile, err := parseProfile(*cfg.resolution, *cfg.compression)
	if err != nil {
		return capture, err
	}
	capture.Profile = profile

	if capture.Fallback, err = parseFallback(*cfg.fallback, *cfg.compression); err != nil {
		return capture, err
	}

	capture.ImageFolder = *cfg.folder
	capture.ImageFileName = *cfg.fileName
	capture.TxFolder = *cfg.txFolder
	capture.MaxPictureSize = *cfg.maxSize
	capture.PowerCycles = *cfg.cycles
	capture.LeavePowerOn = *cfg.leaveOn
	capture.LED = camera485.LEDMode(strings.ToUpper(*cfg.led))
	if *cfg.station != "" {
		capture.Overlay = &camera485.OverlayConfig{Station: *cfg.station}
	}
	return capture, nil
}

func buildPower(cfg *config) (camera485.PowerControl, error) {
	if *cfg.powerLine == "" {
		return nil, nil
	}
	line, err := gpio.New(*cfg.powerLine)
	if err != nil {
		return nil, fmt.Errorf("failed to open power line: %w", err)
	}
	if *cfg.powerLow {
		line.Invert()
	}
	return line, nil
}

func run(cfg *config) error {
	transport, err := uart.New(*cfg.devicePath, uart.WithBaudRate(*cfg.baudRate))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *cfg.devicePath, err)
	}
	defer func() { _ = transport.Close() }()

	device, err := camera485.New(transport,
		camera485.WithAddress(byte(*cfg.address)),
		camera485.WithTries(*cfg.tries),
		camera485.WithTimeout(*cfg.timeout))
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	captureCfg, err := buildCaptureConfig(cfg)
	if err != nil {
		return err
	}
	power, err := buildPower(cfg)
	if err != nil {
		return err
	}

	session, err := camera485.NewSession(device, power, sdcard.New(*cfg.mount), captureCfg)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	_, _ = fmt.Printf("Capturing from %s (address %d) at %s...\n",
		*cfg.devicePath, *cfg.address, captureCfg.Profile)

	result, err := session.Capture()
	if err != nil {
		// The post-archive low-space condition still staged the image.
		if result == nil || !errors.Is(err, camera485.ErrLowSpace) {
			return fmt.Errorf("capture failed: %w", err)
		}
		_, _ = fmt.Printf("warning: %v\n", err)
	}

	if result.Path != "" {
		_, _ = fmt.Printf("Stored %s (%d bytes at %s)\n", result.Path, result.Bytes, result.Profile)
	}
	if result.TxPath != "" {
		_, _ = fmt.Printf("Staged %s for transmission\n", result.TxPath)
	}
	_, _ = fmt.Printf("Startup %.1fs, transfer %.1fs, total %.1fs\n",
		result.Startup.Seconds(), result.Transfer.Seconds(), result.Total.Seconds())
	_, _ = fmt.Println(device.Statistics().Snapshot())
	return nil
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
