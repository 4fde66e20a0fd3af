// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferResponseCheck(t *testing.T) {
	assert.NoError(t, transferResponseCheck(transferAckOk))

	err := transferResponseCheck(transferAckWait)
	require.Error(t, err)
	assert.Equal(t, DapErrorCode(ErrorWait), err.(*DapError).DapErrorCode)

	err = transferResponseCheck(transferAckFault)
	require.Error(t, err)
	assert.Equal(t, DapErrorCode(ErrorFail), err.(*DapError).DapErrorCode)

	// protocol error wins over the acknowledge bits
	err = transferResponseCheck(transferAckOk | transferProtocolError)
	require.Error(t, err)
	assert.Equal(t, DapErrorCode(ErrorFail), err.(*DapError).DapErrorCode)

	err = transferResponseCheck(transferAckOk | transferMismatchError)
	require.Error(t, err)

	err = transferResponseCheck(0)
	assert.Error(t, err)
}

func TestDapErrorMessage(t *testing.T) {
	err := NewDapError("something went sideways", ErrorFail)

	assert.Equal(t, "something went sideways", err.Error())
	assert.Equal(t, DapErrorCode(ErrorFail), err.(*DapError).DapErrorCode)
}
