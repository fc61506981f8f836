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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsCounters(t *testing.T) {
	t.Parallel()

	stats := &Statistics{}
	stats.addPicture()
	stats.addPicture()
	stats.addFail()
	stats.addRetry()
	stats.addRepower()
	stats.addNoCard()

	snap := stats.Snapshot()
	assert.Equal(t, uint64(2), snap.Pictures)
	assert.Equal(t, uint64(1), snap.Fails)
	assert.Equal(t, uint64(1), snap.Retries)
	assert.Equal(t, uint64(1), snap.Repowers)
	assert.Equal(t, uint64(1), snap.NoCard)
}

func TestStatisticsString(t *testing.T) {
	t.Parallel()

	snap := StatisticsSnapshot{Pictures: 3, Fails: 1, Retries: 4, Repowers: 2, NoCard: 0}
	assert.Equal(t, "pictures 3 failures 1 repower 2 retries 4 no card 0", snap.String())
}

func TestStatisticsConcurrentAdds(t *testing.T) {
	t.Parallel()

	stats := &Statistics{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				stats.addRetry()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), stats.Snapshot().Retries)
}
