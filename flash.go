// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"fmt"

	"github.com/boljen/go-bitmap"
)

// SectorIndex maps a flash address to its sector number. Addresses outside
// the programmable flash yield an ErrorOutOfBounds error.
func (t *TargetConfig) SectorIndex(addr uint32) (uint32, error) {
	if addr < t.FlashStart || addr >= t.FlashEnd {
		return 0, NewDapError(fmt.Sprintf("address 0x%08x outside flash [0x%08x, 0x%08x)",
			addr, t.FlashStart, t.FlashEnd), ErrorOutOfBounds)
	}

	return (addr - t.FlashStart) / t.SectorSize, nil
}

// SectorAddress returns the base address of a sector.
func (t *TargetConfig) SectorAddress(index uint32) (uint32, error) {
	if index >= t.SectorCnt {
		return 0, NewDapError(fmt.Sprintf("sector %d past sector count %d", index, t.SectorCnt),
			ErrorOutOfBounds)
	}

	return t.FlashStart + index*t.SectorSize, nil
}

// ErasePlan records which sectors an operation touches. Sectors are marked
// at most once, so overlapping ranges do not schedule double erases.
type ErasePlan struct {
	target  *TargetConfig
	sectors bitmap.Bitmap
}

func NewErasePlan(target *TargetConfig) *ErasePlan {
	return &ErasePlan{
		target:  target,
		sectors: bitmap.New(int(target.SectorCnt)),
	}
}

// AddRange marks every sector overlapped by [start, start+length).
func (p *ErasePlan) AddRange(start uint32, length uint32) error {
	if length == 0 {
		return nil
	}

	first, err := p.target.SectorIndex(start)

	if err != nil {
		return err
	}

	last, err := p.target.SectorIndex(start + length - 1)

	if err != nil {
		return err
	}

	for sector := first; sector <= last; sector++ {
		p.sectors.Set(int(sector), true)
	}

	return nil
}

func (p *ErasePlan) IsMarked(index uint32) bool {
	if index >= p.target.SectorCnt {
		return false
	}

	return p.sectors.Get(int(index))
}

// SectorCount returns the number of sectors scheduled for erase.
func (p *ErasePlan) SectorCount() uint32 {
	var count uint32 = 0

	for i := 0; i < int(p.target.SectorCnt); i++ {
		if p.sectors.Get(i) {
			count++
		}
	}

	return count
}

// Sectors returns the marked sector indices in ascending order.
func (p *ErasePlan) Sectors() []uint32 {
	sectors := make([]uint32, 0)

	for i := 0; i < int(p.target.SectorCnt); i++ {
		if p.sectors.Get(i) {
			sectors = append(sectors, uint32(i))
		}
	}

	return sectors
}

// ProgramChunk is one staging-buffer sized piece of an image write.
type ProgramChunk struct {
	Address uint32
	Data    []byte
}

// ProgramChunks splits an image write into chunks no larger than the staging
// buffer. The write must start on a sector boundary; the flash controller
// cannot program across a partially erased sector.
func (t *TargetConfig) ProgramChunks(addr uint32, data []byte, chunkSize uint32) ([]ProgramChunk, error) {
	if chunkSize == 0 {
		return nil, NewDapError("chunk size must not be zero", ErrorFail)
	}

	if ((addr - t.FlashStart) % t.SectorSize) != 0 {
		return nil, NewDapError(fmt.Sprintf("program start 0x%08x not on a sector boundary", addr),
			ErrorTargetUnalignedAccess)
	}

	if len(data) == 0 {
		return []ProgramChunk{}, nil
	}

	if addr < t.FlashStart || uint64(addr)+uint64(len(data)) > uint64(t.FlashEnd) {
		return nil, NewDapError(fmt.Sprintf("image of %d bytes at 0x%08x exceeds flash [0x%08x, 0x%08x)",
			len(data), addr, t.FlashStart, t.FlashEnd), ErrorOutOfBounds)
	}

	chunks := make([]ProgramChunk, 0, (uint32(len(data))+chunkSize-1)/chunkSize)

	for offset := uint32(0); offset < uint32(len(data)); offset += chunkSize {
		end := offset + chunkSize

		if end > uint32(len(data)) {
			end = uint32(len(data))
		}

		chunks = append(chunks, ProgramChunk{
			Address: addr + offset,
			Data:    data[offset:end],
		})
	}

	return chunks, nil
}
