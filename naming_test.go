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
	"testing"
	"time"
)

func TestFormatTimeStamp(t *testing.T) {
	t.Parallel()

	// 2026-03-05 is a Thursday and day 64 of the year
	stamp := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "date fields",
			template: "{YYYY}-{MM}-{DD}",
			want:     "2026-03-05",
		},
		{
			name:     "short year",
			template: "{YY}{MM}{DD}",
			want:     "260305",
		},
		{
			name:     "time fields",
			template: "{hh}:{mm}:{ss}",
			want:     "14:07:09",
		},
		{
			name:     "weekday and julian day",
			template: "{dow} {julian}",
			want:     "04 64",
		},
		{
			name:     "file name template",
			template: "Camera485_{YY}{MM}{DD}{hh}{mm}{ss}.jpg",
			want:     "Camera485_260305140709.jpg",
		},
		{
			name:     "unknown fields survive",
			template: "{STATION}/{YYYY}",
			want:     "{STATION}/2026",
		},
		{
			name:     "no fields",
			template: "plain.jpg",
			want:     "plain.jpg",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatTimeStamp(stamp, tt.template); got != tt.want {
				t.Errorf("FormatTimeStamp(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestFormatFileNameKeepsCRCToken(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)
	got := formatFileName(stamp, "img_{YY}{MM}{DD}_{CRC}.jpg")
	want := "img_260305_{CRC}.jpg"
	if got != want {
		t.Errorf("formatFileName() = %q, want %q", got, want)
	}
}
