// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtsam4eRecordLiterals(t *testing.T) {
	target := GetTargetConfig("5020")
	require.NotNil(t, target)

	assert.Equal(t, "5020", target.BoardId)
	assert.Equal(t, PlaceholderSecret, target.Secret)
	assert.Equal(t, uint32(8192), target.SectorSize)
	assert.Equal(t, uint32(128), target.SectorCnt)
	assert.Equal(t, uint32(0x00400000), target.FlashStart)
	assert.Equal(t, uint32(0x00500000), target.FlashEnd)
	assert.Equal(t, uint32(0x20000000), target.RamStart)
	assert.Equal(t, uint32(0x20020000), target.RamEnd)
	assert.Equal(t, uint32(1048576), target.DiscSize)
}

func TestRegisteredRecordsAreConsistent(t *testing.T) {
	for _, boardId := range SupportedBoardIds() {
		target := GetTargetConfig(boardId)
		require.NotNil(t, target)

		assert.NoError(t, target.Validate())
		assert.Equal(t, boardId, target.BoardId)

		assert.True(t, isPowerOfTwo(target.SectorSize), "board %s sector size", boardId)
		assert.Equal(t, target.DiscSize, target.FlashEnd-target.FlashStart, "board %s flash span", boardId)
		assert.Equal(t, target.DiscSize, target.SectorCnt*target.SectorSize, "board %s sector product", boardId)
		assert.Greater(t, target.RamEnd, target.RamStart, "board %s ram bounds", boardId)
	}
}

func TestSecretIsStillAPlaceholder(t *testing.T) {
	for _, boardId := range SupportedBoardIds() {
		assert.Equal(t, PlaceholderSecret, GetTargetConfig(boardId).Secret)
	}
}

func TestUnknownBoardYieldsNil(t *testing.T) {
	assert.Nil(t, GetTargetConfig("0000"))
	assert.Nil(t, GetTargetConfig(""))
}

func TestLookupReturnsACopy(t *testing.T) {
	first := GetTargetConfig("5020")
	first.SectorSize = 1

	second := GetTargetConfig("5020")
	assert.Equal(t, uint32(8192), second.SectorSize)
}

func TestValidateRejectsInconsistentRecords(t *testing.T) {
	base := *GetTargetConfig("5020")

	broken := base
	broken.SectorCnt = 64
	assert.Error(t, broken.Validate())

	broken = base
	broken.SectorSize = 8191
	assert.Error(t, broken.Validate())

	broken = base
	broken.FlashEnd = broken.FlashStart
	assert.Error(t, broken.Validate())

	broken = base
	broken.RamEnd = broken.RamStart
	assert.Error(t, broken.Validate())

	broken = base
	broken.DiscSize = 2 * 1024 * 1024
	assert.Error(t, broken.Validate())

	broken = base
	broken.BoardId = ""
	assert.Error(t, broken.Validate())
}

func TestSupportedBoardIdsSorted(t *testing.T) {
	ids := SupportedBoardIds()
	require.NotEmpty(t, ids)

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}

	assert.Contains(t, ids, "5020")
}
