// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"bytes"
	"fmt"
)

// MemoryAccessor is the slice of probe functionality a flash session needs.
// DapProbe satisfies it.
type MemoryAccessor interface {
	ReadMem32(addr uint32, buffer []byte) error
	WriteMem32(addr uint32, buffer []byte) error
}

// FlashAlgorithm abstracts the target resident routine that erases sectors
// and moves staged data into flash. Implementations wrap whatever the
// target family provides, from a downloaded algo blob to an IAP call.
type FlashAlgorithm interface {
	EraseSector(address uint32) error
	ProgramBuffer(bufferAddress uint32, flashAddress uint32, length uint32) error
}

// FlashSession programs images into target flash: it plans erases from the
// record geometry, stages data in target RAM and drives the flash
// algorithm sector by sector.
type FlashSession struct {
	mem    MemoryAccessor
	algo   FlashAlgorithm
	target *TargetConfig

	staging *StagingLayout
}

func NewFlashSession(mem MemoryAccessor, algo FlashAlgorithm, target *TargetConfig) (*FlashSession, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	staging, err := NewStagingLayout(target)

	if err != nil {
		return nil, err
	}

	return &FlashSession{
		mem:     mem,
		algo:    algo,
		target:  target,
		staging: staging,
	}, nil
}

func (s *FlashSession) Staging() *StagingLayout {
	return s.staging
}

// EraseRange erases every sector overlapped by [start, start+length).
func (s *FlashSession) EraseRange(start uint32, length uint32) error {
	plan := NewErasePlan(s.target)

	if err := plan.AddRange(start, length); err != nil {
		return err
	}

	return s.eraseSectors(plan)
}

func (s *FlashSession) eraseSectors(plan *ErasePlan) error {
	sectors := plan.Sectors()

	logger.Infof("erasing %d sectors on board %s", len(sectors), s.target.BoardId)

	for _, sector := range sectors {
		addr, err := s.target.SectorAddress(sector)

		if err != nil {
			return err
		}

		logger.Debugf("erase sector %d at 0x%08x", sector, addr)

		if err := s.algo.EraseSector(addr); err != nil {
			return fmt.Errorf("erase of sector %d at 0x%08x failed: %w", sector, addr, err)
		}
	}

	return nil
}

/**
  Programs an image at addr: erases the touched sectors, then alternates
  between the two staging buffers so the next chunk uploads while the
  current one is being flashed by the algorithm.
*/
func (s *FlashSession) ProgramImage(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	plan := NewErasePlan(s.target)

	if err := plan.AddRange(addr, uint32(len(data))); err != nil {
		return err
	}

	chunks, err := s.target.ProgramChunks(addr, data, s.staging.BufferSize)

	if err != nil {
		return err
	}

	if err := s.eraseSectors(plan); err != nil {
		return err
	}

	logger.Infof("programming %d bytes at 0x%08x in %d chunks", len(data), addr, len(chunks))

	for i, chunk := range chunks {
		buffer := s.staging.Buffers[i%len(s.staging.Buffers)]
		staged := padToWords(chunk.Data)

		if err := s.mem.WriteMem32(buffer, staged); err != nil {
			return fmt.Errorf("staging chunk %d to 0x%08x failed: %w", i, buffer, err)
		}

		if err := s.algo.ProgramBuffer(buffer, chunk.Address, uint32(len(staged))); err != nil {
			return fmt.Errorf("programming chunk %d at 0x%08x failed: %w", i, chunk.Address, err)
		}
	}

	return nil
}

// VerifyImage reads the programmed range back and compares it against the
// image. Padding bytes past the image length are not compared.
func (s *FlashSession) VerifyImage(addr uint32, data []byte) (bool, error) {
	if len(data) == 0 {
		return true, nil
	}

	if addr < s.target.FlashStart || uint64(addr)+uint64(len(data)) > uint64(s.target.FlashEnd) {
		return false, NewDapError(fmt.Sprintf("verify range at 0x%08x exceeds flash", addr),
			ErrorOutOfBounds)
	}

	readBack := make([]byte, len(padToWords(data)))

	if err := s.mem.ReadMem32(addr, readBack); err != nil {
		return false, err
	}

	return bytes.Equal(readBack[:len(data)], data), nil
}

// padToWords pads data with erased-flash bytes up to a word multiple, since
// the probe memory path only moves whole words.
func padToWords(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}

	padded := make([]byte, (len(data)+3) & ^3)

	copy(padded, data)

	for i := len(data); i < len(padded); i++ {
		padded[i] = 0xff
	}

	return padded
}
