// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	assert.False(t, isPowerOfTwo(0))
	assert.True(t, isPowerOfTwo(1))
	assert.True(t, isPowerOfTwo(2))
	assert.False(t, isPowerOfTwo(3))
	assert.True(t, isPowerOfTwo(1024))
	assert.True(t, isPowerOfTwo(8192))
	assert.False(t, isPowerOfTwo(8191))
	assert.True(t, isPowerOfTwo(0x80000000))
}

func TestLittleEndianConversions(t *testing.T) {
	buffer := []byte{0x78, 0x56, 0x34, 0x12}

	assert.Equal(t, uint16(0x5678), leToHostUint16(buffer))
	assert.Equal(t, uint32(0x12345678), leToHostUint32(buffer))

	out := make([]byte, 4)
	hostToLeUint32(out, 0xdeadbeef)
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, out)

	hostToLeUint16(out, 0xcafe)
	assert.Equal(t, []byte{0xfe, 0xca}, out[:2])
}

func TestCString(t *testing.T) {
	assert.Equal(t, "5020", cString([]byte{'5', '0', '2', '0', 0, 'x'}))
	assert.Equal(t, "abc", cString([]byte("abc")))
	assert.Equal(t, "", cString([]byte{0}))
	assert.Equal(t, "", cString(nil))
}

func TestIdExists(t *testing.T) {
	ids := []gousb.ID{mbedDapVid, atmelEdbgVid}

	assert.True(t, idExists(ids, mbedDapVid))
	assert.False(t, idExists(ids, 0x0483))
	assert.False(t, idExists(nil, mbedDapVid))
}

func TestBufferEndianAccessors(t *testing.T) {
	buf := NewBuffer(16)

	buf.WriteUint32LE(0x11223344)
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, buf.Bytes())
	assert.Equal(t, uint32(0x11223344), buf.ReadUint32LE())
	assert.Equal(t, uint32(0x44332211), buf.ReadUint32BE())
	assert.Equal(t, uint16(0x3344), buf.ReadUint16LE())
	assert.Equal(t, uint16(0x4433), buf.ReadUint16BE())

	buf.Reset()
	buf.WriteUint16LE(0xbeef)
	assert.Equal(t, []byte{0xef, 0xbe}, buf.Bytes())
}
