// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the CMSIS-DAP / DAPLink
// interface firmware sources, for detailed information see

// https://arm-software.github.io/CMSIS_5/DAP/html/index.html

package godaplink

import (
	"fmt"
	"time"
)

// transferCtx collects the command packet for one CMSIS-DAP round trip and
// the raw response that came back.
type transferCtx struct {
	commandId byte

	cmdBuf  *Buffer
	dataBuf *Buffer
}

func (ctx *transferCtx) DataBytes() []byte {
	return ctx.dataBuf.Bytes()
}

func (h *DapProbe) initTransfer(commandId byte) *transferCtx {
	ctx := &transferCtx{
		commandId: commandId,
		cmdBuf:    NewBuffer(cmdBufferSize),
		dataBuf:   NewBuffer(dataBufferSize),
	}

	ctx.cmdBuf.WriteByte(commandId)

	return ctx
}

/**
  Sends the command packet and reads back one response packet. CMSIS-DAP
  frames every exchange in fixed size packets, short commands are zero
  padded up to the packet size reported by the probe.
*/
func (h *DapProbe) usbTransferNoErrCheck(ctx *transferCtx, size uint32) error {
	if ctx.cmdBuf.Len() > int(h.packetSize) {
		return NewDapError(fmt.Sprintf("command 0x%02x of %d bytes exceeds packet size %d",
			ctx.commandId, ctx.cmdBuf.Len(), h.packetSize), ErrorFail)
	}

	packet := make([]byte, h.packetSize)
	copy(packet, ctx.cmdBuf.Bytes())

	_, err := usbWrite(h.txEndpoint, packet)

	if err != nil {
		return err
	}

	response := make([]byte, h.packetSize)

	bytesRead, err := usbRead(h.rxEndpoint, response)

	if err != nil {
		return err
	}

	if uint32(bytesRead) < size {
		return NewDapError(fmt.Sprintf("short response for command 0x%02x: got %d of %d bytes",
			ctx.commandId, bytesRead, size), ErrorFail)
	}

	ctx.dataBuf.Write(response[:bytesRead])

	return nil
}

func (h *DapProbe) usbTransferErrCheck(ctx *transferCtx, size uint32) error {
	err := h.usbTransferNoErrCheck(ctx, size)

	if err != nil {
		return err
	}

	return h.dapErrorCheck(ctx)
}

/**
  Issues a transfer style command, retrying with exponential backoff while
  the target answers with a wait acknowledge.
*/
func (h *DapProbe) dapCmdAllowRetry(build func() *transferCtx, size uint32,
	check func(*transferCtx) error) (*transferCtx, error) {

	var retries int = 0

	for {
		ctx := build()

		err := h.usbTransferNoErrCheck(ctx, size)

		if err != nil {
			return nil, err
		}

		err = check(ctx)

		if err != nil {
			dapErr, ok := err.(*DapError)

			if ok && dapErr.DapErrorCode == ErrorWait && retries < maximumWaitRetries {
				delayUs := time.Duration(1<<retries) * 1000

				retries++
				logger.Debugf("cmdAllowRetry wait acknowledge, retry %d, delaying %d microseconds", retries, delayUs)
				time.Sleep(delayUs * 1000)

				continue
			}

			return nil, err
		}

		return ctx, nil
	}
}
