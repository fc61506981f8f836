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
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"time"
)

// CRCToken is the file-name placeholder replaced with the hexadecimal
// CRC-32 of the completed image during finalization.
const CRCToken = "{CRC}"

// FormatTimeStamp substitutes date/time key fields into a template.
// Recognized fields: {YYYY} {YY} {MM} {DD} {hh} {mm} {ss} {dow}
// {julian}. Unknown braced fields are left alone.
func FormatTimeStamp(t time.Time, template string) string {
	return strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", t.Year()),
		"{YY}", fmt.Sprintf("%02d", t.Year()%100),
		"{MM}", fmt.Sprintf("%02d", int(t.Month())),
		"{DD}", fmt.Sprintf("%02d", t.Day()),
		"{hh}", fmt.Sprintf("%02d", t.Hour()),
		"{mm}", fmt.Sprintf("%02d", t.Minute()),
		"{ss}", fmt.Sprintf("%02d", t.Second()),
		"{dow}", fmt.Sprintf("%02d", int(t.Weekday())),
		"{julian}", fmt.Sprintf("%02d", t.YearDay()),
	).Replace(template)
}

// formatFileName stamps a file-name template, protecting the {CRC}
// token so it survives until finalization.
func formatFileName(t time.Time, template string) string {
	const guard = "\x01CRC\x01"
	protected := strings.ReplaceAll(template, CRCToken, guard)
	return strings.ReplaceAll(FormatTimeStamp(t, protected), guard, CRCToken)
}

// fileCRC32 computes the CRC-32 (IEEE) of a stored file's contents
func fileCRC32(store Storage, path string) (uint32, error) {
	f, err := store.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			debugf("close %s: %v", path, cerr)
		}
	}()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("checksum %s: %w", path, err)
	}
	return h.Sum32(), nil
}
