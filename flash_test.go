// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorIndex(t *testing.T) {
	target := GetTargetConfig("5020")

	index, err := target.SectorIndex(0x00400000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), index)

	index, err = target.SectorIndex(0x00401fff)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), index)

	index, err = target.SectorIndex(0x00402000)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), index)

	index, err = target.SectorIndex(0x004fffff)
	require.NoError(t, err)
	assert.Equal(t, uint32(127), index)

	_, err = target.SectorIndex(0x003fffff)
	require.Error(t, err)
	assert.Equal(t, DapErrorCode(ErrorOutOfBounds), err.(*DapError).DapErrorCode)

	_, err = target.SectorIndex(0x00500000)
	assert.Error(t, err)
}

func TestSectorAddress(t *testing.T) {
	target := GetTargetConfig("5020")

	addr, err := target.SectorAddress(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00400000), addr)

	addr, err = target.SectorAddress(127)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x004fe000), addr)

	_, err = target.SectorAddress(128)
	assert.Error(t, err)
}

func TestErasePlanMarksOverlappedSectors(t *testing.T) {
	target := GetTargetConfig("5020")
	plan := NewErasePlan(target)

	// one byte into sector 2 through one byte into sector 4
	require.NoError(t, plan.AddRange(0x00404001, 0x4000))

	assert.Equal(t, []uint32{2, 3, 4}, plan.Sectors())
	assert.Equal(t, uint32(3), plan.SectorCount())
	assert.False(t, plan.IsMarked(1))
	assert.True(t, plan.IsMarked(2))
	assert.True(t, plan.IsMarked(4))
	assert.False(t, plan.IsMarked(5))
}

func TestErasePlanDeduplicatesOverlap(t *testing.T) {
	target := GetTargetConfig("5020")
	plan := NewErasePlan(target)

	require.NoError(t, plan.AddRange(0x00400000, 8192))
	require.NoError(t, plan.AddRange(0x00400000, 16384))

	assert.Equal(t, []uint32{0, 1}, plan.Sectors())
}

func TestErasePlanRejectsOutOfBounds(t *testing.T) {
	target := GetTargetConfig("5020")
	plan := NewErasePlan(target)

	assert.Error(t, plan.AddRange(0x004ff000, 0x2000))
	assert.Error(t, plan.AddRange(0x00300000, 16))
	assert.NoError(t, plan.AddRange(0x00400000, 0))
	assert.Empty(t, plan.Sectors())
}

func TestProgramChunks(t *testing.T) {
	target := GetTargetConfig("5020")
	image := make([]byte, 20000)

	chunks, err := target.ProgramChunks(0x00400000, image, 8192)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, uint32(0x00400000), chunks[0].Address)
	assert.Len(t, chunks[0].Data, 8192)
	assert.Equal(t, uint32(0x00402000), chunks[1].Address)
	assert.Len(t, chunks[1].Data, 8192)
	assert.Equal(t, uint32(0x00404000), chunks[2].Address)
	assert.Len(t, chunks[2].Data, 20000-2*8192)
}

func TestProgramChunksRejectsUnalignedStart(t *testing.T) {
	target := GetTargetConfig("5020")

	_, err := target.ProgramChunks(0x00400004, make([]byte, 16), 8192)
	require.Error(t, err)
	assert.Equal(t, DapErrorCode(ErrorTargetUnalignedAccess), err.(*DapError).DapErrorCode)
}

func TestProgramChunksRejectsOverflow(t *testing.T) {
	target := GetTargetConfig("5020")

	// image that runs one byte past flash end
	image := make([]byte, target.SectorSize+1)

	_, err := target.ProgramChunks(0x004fe000, image, 8192)
	assert.Error(t, err)
}

func TestProgramChunksEmptyImage(t *testing.T) {
	target := GetTargetConfig("5020")

	chunks, err := target.ProgramChunks(0x00400000, nil, 8192)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
