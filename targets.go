// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the CMSIS-DAP / DAPLink
// interface firmware sources, for detailed information see

// https://arm-software.github.io/CMSIS_5/DAP/html/index.html

package godaplink

import (
	"fmt"
	"sort"
)

// PlaceholderSecret marks target records whose authentication slot is not
// provisioned. It must never be treated as a real secret.
const PlaceholderSecret = "xxxxxxxx"

// TargetConfig describes the memory geometry and identity of one supported
// target MCU. Records are authored per board, registered below and never
// mutated at runtime.
type TargetConfig struct {
	BoardId string // short id reported to host tooling, unique per board
	Secret  string // reserved authentication slot, see PlaceholderSecret

	SectorSize uint32 // erase granularity of flash in bytes
	SectorCnt  uint32 // number of equally sized sectors

	FlashStart uint32 // first programmable flash address
	FlashEnd   uint32 // first address past programmable flash

	RamStart uint32 // usable RAM for staging buffers
	RamEnd   uint32

	DiscSize uint32 // flash capacity exposed as virtual disc
}

// SectorCnt is kept as an authored literal instead of being derived from the
// other fields. Records with non-uniform sector layouts cannot express the
// count as (FlashEnd - FlashStart) / SectorSize, so every record carries its
// own number and Validate checks the uniform-sector case.
var supportedTargets = map[string]TargetConfig{
	// ATSAM4E home gateway board
	"5020": {
		BoardId:    "5020",
		Secret:     PlaceholderSecret,
		SectorSize: 8192,
		SectorCnt:  128,
		FlashStart: 0x00400000,
		FlashEnd:   0x00500000,
		RamStart:   0x20000000,
		RamEnd:     0x20020000,
		DiscSize:   1024 * 1024,
	},
	// FRDM-K64F
	"0240": {
		BoardId:    "0240",
		Secret:     PlaceholderSecret,
		SectorSize: 4096,
		SectorCnt:  256,
		FlashStart: 0x00000000,
		FlashEnd:   0x00100000,
		RamStart:   0x1fff0000,
		RamEnd:     0x20030000,
		DiscSize:   1024 * 1024,
	},
	// nRF51822 mKIT
	"9900": {
		BoardId:    "9900",
		Secret:     PlaceholderSecret,
		SectorSize: 1024,
		SectorCnt:  256,
		FlashStart: 0x00000000,
		FlashEnd:   0x00040000,
		RamStart:   0x20000000,
		RamEnd:     0x20004000,
		DiscSize:   256 * 1024,
	},
}

// GetTargetConfig looks up the record registered for a board id and returns
// nil for unknown boards.
func GetTargetConfig(boardId string) *TargetConfig {
	if val, ok := supportedTargets[boardId]; ok {
		return &val
	} else {
		return nil
	}
}

// SupportedBoardIds returns the registered board ids in stable order.
func SupportedBoardIds() []string {
	ids := make([]string, 0, len(supportedTargets))

	for id := range supportedTargets {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// FlashSize returns the programmable flash span in bytes.
func (t *TargetConfig) FlashSize() uint32 {
	return t.FlashEnd - t.FlashStart
}

// RamSize returns the usable RAM span in bytes.
func (t *TargetConfig) RamSize() uint32 {
	return t.RamEnd - t.RamStart
}

// Validate checks the internal consistency of a record. An inconsistent
// record is an authoring mistake, so registration fails loudly instead of
// surfacing a latent geometry bug in the flash planner later.
func (t *TargetConfig) Validate() error {
	if t.BoardId == "" {
		return fmt.Errorf("target record carries no board id")
	}

	if t.SectorSize == 0 || !isPowerOfTwo(t.SectorSize) {
		return fmt.Errorf("board %s: sector size %d is not a power of two", t.BoardId, t.SectorSize)
	}

	if t.FlashEnd <= t.FlashStart {
		return fmt.Errorf("board %s: flash end 0x%08x not past flash start 0x%08x",
			t.BoardId, t.FlashEnd, t.FlashStart)
	}

	if t.RamEnd <= t.RamStart {
		return fmt.Errorf("board %s: ram end 0x%08x not past ram start 0x%08x",
			t.BoardId, t.RamEnd, t.RamStart)
	}

	if t.FlashSize() != t.DiscSize {
		return fmt.Errorf("board %s: flash span %d does not match disc size %d",
			t.BoardId, t.FlashSize(), t.DiscSize)
	}

	if t.SectorCnt*t.SectorSize != t.DiscSize {
		return fmt.Errorf("board %s: %d sectors of %d bytes do not cover disc size %d",
			t.BoardId, t.SectorCnt, t.SectorSize, t.DiscSize)
	}

	return nil
}

func init() {
	for id, target := range supportedTargets {
		if err := target.Validate(); err != nil {
			panic(fmt.Sprintf("invalid target record %s: %v", id, err))
		}
	}
}
