// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"fmt"
)

// stagingStackReserve keeps the top of target RAM free for the flash
// algorithm's stack.
const stagingStackReserve = 0x800

// StagingLayout carves the target RAM described by a record into the
// buffers a programming session needs. Two page buffers allow filling one
// over the wire while the other is being flashed.
type StagingLayout struct {
	target *TargetConfig

	BufferSize uint32
	Buffers    [2]uint32
	StackTop   uint32

	allocPtr uint32
}

// NewStagingLayout plans the staging buffers for a target. The buffer size
// is clamped to the sector size so a full buffer always programs whole
// sectors.
func NewStagingLayout(target *TargetConfig) (*StagingLayout, error) {
	usable := target.RamSize()

	if usable <= stagingStackReserve {
		return nil, NewDapError(fmt.Sprintf("board %s: %d bytes of RAM cannot hold the staging stack",
			target.BoardId, usable), ErrorFail)
	}

	layout := &StagingLayout{
		target:   target,
		StackTop: target.RamEnd,
		allocPtr: target.RamStart,
	}

	bufferSize := (usable - stagingStackReserve) / 2

	// round down to sector granularity
	bufferSize -= bufferSize % target.SectorSize

	if bufferSize == 0 {
		return nil, NewDapError(fmt.Sprintf("board %s: RAM too small for one %d byte sector per buffer",
			target.BoardId, target.SectorSize), ErrorFail)
	}

	layout.BufferSize = bufferSize

	for i := range layout.Buffers {
		addr, err := layout.alloc(bufferSize)

		if err != nil {
			return nil, err
		}

		layout.Buffers[i] = addr
	}

	logger.Debugf("staging layout for board %s: 2x%d bytes at 0x%08x/0x%08x, stack top 0x%08x",
		target.BoardId, layout.BufferSize, layout.Buffers[0], layout.Buffers[1], layout.StackTop)

	return layout, nil
}

func (l *StagingLayout) alloc(size uint32) (uint32, error) {
	limit := l.target.RamEnd - stagingStackReserve

	if l.allocPtr+size > limit {
		return 0, NewDapError(fmt.Sprintf("staging RAM exhausted: %d bytes requested, %d free",
			size, limit-l.allocPtr), ErrorFail)
	}

	addr := l.allocPtr
	l.allocPtr += size

	return addr, nil
}

// Contains reports whether an address range lies within the RAM the layout
// manages.
func (l *StagingLayout) Contains(addr uint32, length uint32) bool {
	if length == 0 {
		return addr >= l.target.RamStart && addr < l.target.RamEnd
	}

	return addr >= l.target.RamStart && uint64(addr)+uint64(length) <= uint64(l.target.RamEnd)
}
