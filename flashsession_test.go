// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTargetMemory emulates the word based probe memory path over a sparse
// address space. Unwritten flash reads back erased.
type fakeTargetMemory struct {
	data map[uint32]byte
}

func newFakeTargetMemory() *fakeTargetMemory {
	return &fakeTargetMemory{data: make(map[uint32]byte)}
}

func (m *fakeTargetMemory) ReadMem32(addr uint32, buffer []byte) error {
	if (len(buffer)%4) > 0 || (addr%4) > 0 {
		return NewDapError("invalid data alignment", ErrorTargetUnalignedAccess)
	}

	for i := range buffer {
		if b, ok := m.data[addr+uint32(i)]; ok {
			buffer[i] = b
		} else {
			buffer[i] = 0xff
		}
	}

	return nil
}

func (m *fakeTargetMemory) WriteMem32(addr uint32, buffer []byte) error {
	if (len(buffer)%4) > 0 || (addr%4) > 0 {
		return NewDapError("invalid data alignment", ErrorTargetUnalignedAccess)
	}

	for i, b := range buffer {
		m.data[addr+uint32(i)] = b
	}

	return nil
}

// fakeFlashAlgo moves staged bytes into the fake flash and records every
// erase it is asked for.
type fakeFlashAlgo struct {
	mem    *fakeTargetMemory
	target *TargetConfig

	erased []uint32
}

func (a *fakeFlashAlgo) EraseSector(address uint32) error {
	a.erased = append(a.erased, address)

	for i := uint32(0); i < a.target.SectorSize; i++ {
		delete(a.mem.data, address+i)
	}

	return nil
}

func (a *fakeFlashAlgo) ProgramBuffer(bufferAddress uint32, flashAddress uint32, length uint32) error {
	for i := uint32(0); i < length; i++ {
		a.mem.data[flashAddress+i] = a.mem.data[bufferAddress+i]
	}

	return nil
}

func newTestSession(t *testing.T) (*FlashSession, *fakeTargetMemory, *fakeFlashAlgo) {
	target := GetTargetConfig("5020")
	mem := newFakeTargetMemory()
	algo := &fakeFlashAlgo{mem: mem, target: target}

	session, err := NewFlashSession(mem, algo, target)
	require.NoError(t, err)

	return session, mem, algo
}

func TestProgramImageRoundTrip(t *testing.T) {
	session, _, algo := newTestSession(t)

	image := make([]byte, 20000)
	for i := range image {
		image[i] = byte(i * 7)
	}

	require.NoError(t, session.ProgramImage(0x00400000, image))

	// 20000 bytes overlap the first three sectors
	assert.Equal(t, []uint32{0x00400000, 0x00402000, 0x00404000}, algo.erased)

	ok, err := session.VerifyImage(0x00400000, image)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProgramImageDetectsCorruption(t *testing.T) {
	session, mem, _ := newTestSession(t)

	image := make([]byte, 8192)
	for i := range image {
		image[i] = 0x5a
	}

	require.NoError(t, session.ProgramImage(0x00402000, image))

	mem.data[0x00402100] = 0x00

	ok, err := session.VerifyImage(0x00402000, image)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgramImageRejectsUnalignedStart(t *testing.T) {
	session, _, algo := newTestSession(t)

	err := session.ProgramImage(0x00400100, make([]byte, 16))
	require.Error(t, err)
	assert.Empty(t, algo.erased)
}

func TestProgramImageRejectsOutOfBounds(t *testing.T) {
	session, _, algo := newTestSession(t)

	err := session.ProgramImage(0x004fe000, make([]byte, 2*8192+1))
	require.Error(t, err)
	assert.Empty(t, algo.erased)
}

func TestEraseRange(t *testing.T) {
	session, mem, _ := newTestSession(t)

	mem.data[0x00404010] = 0x42

	require.NoError(t, session.EraseRange(0x00404000, 8192))

	buffer := make([]byte, 4)
	require.NoError(t, mem.ReadMem32(0x00404010, buffer))
	assert.Equal(t, byte(0xff), buffer[0])
}

func TestVerifyImageBounds(t *testing.T) {
	session, _, _ := newTestSession(t)

	_, err := session.VerifyImage(0x00300000, make([]byte, 4))
	assert.Error(t, err)

	ok, err := session.VerifyImage(0x00400000, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
