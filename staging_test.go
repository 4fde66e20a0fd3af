// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingLayoutForAtsam4e(t *testing.T) {
	target := GetTargetConfig("5020")

	layout, err := NewStagingLayout(target)
	require.NoError(t, err)

	// (128 KiB - stack reserve) / 2, rounded down to sector granularity
	assert.Equal(t, uint32(57344), layout.BufferSize)
	assert.Equal(t, uint32(0), layout.BufferSize%target.SectorSize)

	assert.Equal(t, uint32(0x20000000), layout.Buffers[0])
	assert.Equal(t, uint32(0x2000e000), layout.Buffers[1])
	assert.Equal(t, uint32(0x20020000), layout.StackTop)

	// both buffers fit below the reserved stack
	assert.LessOrEqual(t, layout.Buffers[1]+layout.BufferSize, target.RamEnd-uint32(stagingStackReserve))
}

func TestStagingLayoutRejectsTinyRam(t *testing.T) {
	target := *GetTargetConfig("5020")
	target.RamEnd = target.RamStart + 0x400

	_, err := NewStagingLayout(&target)
	assert.Error(t, err)

	// enough for the stack but not for one sector per buffer
	target.RamEnd = target.RamStart + 0x1000

	_, err = NewStagingLayout(&target)
	assert.Error(t, err)
}

func TestStagingContains(t *testing.T) {
	target := GetTargetConfig("5020")

	layout, err := NewStagingLayout(target)
	require.NoError(t, err)

	assert.True(t, layout.Contains(0x20000000, 16))
	assert.True(t, layout.Contains(0x2001ffff, 1))
	assert.False(t, layout.Contains(0x20020000, 1))
	assert.False(t, layout.Contains(0x2001fff0, 0x20))
	assert.False(t, layout.Contains(0x1fffffff, 1))
}
