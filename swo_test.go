// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func swoResponse(reported uint16, payload []byte) []byte {
	data := []byte{cmdDapSwoData, 0, 0, 0}

	hostToLeUint16(data[2:], reported)

	return append(data, payload...)
}

func TestSwoDataCount(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	// honest count, roomy buffer
	assert.Equal(t, uint32(8), swoDataCount(swoResponse(8, payload), 64))

	// caller buffer smaller than the payload
	assert.Equal(t, uint32(4), swoDataCount(swoResponse(8, payload), 4))

	// probe reports more bytes than it actually sent
	assert.Equal(t, uint32(8), swoDataCount(swoResponse(500, payload), 64))
	assert.Equal(t, uint32(0), swoDataCount(swoResponse(500, nil), 64))

	assert.Equal(t, uint32(0), swoDataCount(swoResponse(0, payload), 64))
}
