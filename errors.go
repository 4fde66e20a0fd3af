// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"fmt"
)

type DapErrorCode int

const (
	ErrorOK                    DapErrorCode = 0
	ErrorWait                               = -1
	ErrorFail                               = -2
	ErrorTargetUnalignedAccess              = -3
	ErrorCommandNotFound                    = -4
	ErrorOutOfBounds                        = -5
)

type DapError struct {
	errorString string
	DapErrorCode
}

func (e *DapError) Error() string {
	return e.errorString
}

func NewDapError(msg string, code DapErrorCode) error {
	return &DapError{msg, code}
}

/**
  Converts the status byte of a CMSIS-DAP command response to a godaplink
  library error. Commands echo their id in the first response byte; the
  general status (DAP_OK/DAP_ERROR) follows in the second.
*/
func (h *DapProbe) dapErrorCheck(ctx *transferCtx) error {
	data := ctx.DataBytes()

	if len(data) < 2 {
		return NewDapError("short CMSIS-DAP response", ErrorFail)
	}

	if data[0] != ctx.commandId {
		return NewDapError(fmt.Sprintf("response id 0x%02x does not match command 0x%02x",
			data[0], ctx.commandId), ErrorFail)
	}

	switch data[1] {
	case dapStatusOk:
		return nil

	case dapStatusError:
		return NewDapError(fmt.Sprintf("command 0x%02x rejected by probe", ctx.commandId), ErrorFail)

	default:
		return NewDapError(fmt.Sprintf("unknown/unexpected DAP status byte 0x%02x", data[1]), ErrorFail)
	}
}

/**
  Classifies the transfer response byte of DAP_TRANSFER / DAP_TRANSFER_BLOCK.
  The low three bits carry the SWD acknowledge, bit 3 a protocol error and
  bit 4 a value mismatch of a matching read.
*/
func transferResponseCheck(response byte) error {
	if (response & transferProtocolError) != 0 {
		return NewDapError("SWD protocol error (no acknowledge from target)", ErrorFail)
	}

	if (response & transferMismatchError) != 0 {
		return NewDapError("value mismatch on matching read", ErrorFail)
	}

	switch response & transferAckMask {
	case transferAckOk:
		return nil

	case transferAckWait:
		return NewDapError("wait response from target", ErrorWait)

	case transferAckFault:
		return NewDapError("fault response from target", ErrorFail)

	default:
		return NewDapError(fmt.Sprintf("unknown/unexpected transfer acknowledge 0x%x",
			response&transferAckMask), ErrorFail)
	}
}
