// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"errors"
	"fmt"
)

/**
  Selects and activates the debug port on the probe. On success the probe
  answers with the port it actually configured, which may differ from the
  request when autodetection was asked for.
*/
func (h *DapProbe) Connect(port DapPort) error {
	ctx := h.initTransfer(cmdDapConnect)

	switch port {
	case DapPortAutodetect, DapPortSwd, DapPortJtag:
		ctx.cmdBuf.WriteByte(byte(port))

	default:
		return errors.New("unknown CMSIS-DAP port")
	}

	err := h.usbTransferNoErrCheck(ctx, 2)

	if err != nil {
		return err
	}

	data := ctx.DataBytes()

	if data[0] != cmdDapConnect {
		return NewDapError("connect command not answered", ErrorCommandNotFound)
	}

	selected := DapPort(data[1])

	if selected == 0 {
		return NewDapError("probe failed to initialize the debug port", ErrorFail)
	}

	if port != DapPortAutodetect && selected != port {
		return NewDapError(fmt.Sprintf("probe selected port %d instead of requested %d",
			selected, port), ErrorFail)
	}

	h.port = selected
	h.connected = true

	logger.Debugf("connected with port %d", selected)

	// sane defaults until the caller tunes them
	return h.TransferConfigure(0, 64, 0)
}

func (h *DapProbe) Disconnect() error {
	ctx := h.initTransfer(cmdDapDisconnect)

	err := h.usbTransferErrCheck(ctx, 2)

	if err != nil {
		return err
	}

	h.connected = false

	return nil
}

// TransferConfigure sets idle cycles plus the wait/match retry counts the
// probe applies on its own before reporting a wait acknowledge to us.
func (h *DapProbe) TransferConfigure(idleCycles byte, waitRetry uint16, matchRetry uint16) error {
	ctx := h.initTransfer(cmdDapTransferConfigure)

	ctx.cmdBuf.WriteByte(idleCycles)
	ctx.cmdBuf.WriteUint16LE(waitRetry)
	ctx.cmdBuf.WriteUint16LE(matchRetry)

	return h.usbTransferErrCheck(ctx, 2)
}

// ResetTarget triggers the device specific reset sequence of the probe
// firmware.
func (h *DapProbe) ResetTarget() error {
	ctx := h.initTransfer(cmdDapResetTarget)

	return h.usbTransferErrCheck(ctx, 3)
}

/**
  Drives the SWJ pins. output and selection are pin masks, waitUs bounds how
  long the probe waits for the pins to settle. Returns the pin state read
  back after the wait.
*/
func (h *DapProbe) SwjPins(output byte, selection byte, waitUs uint32) (byte, error) {
	ctx := h.initTransfer(cmdDapSwjPins)

	ctx.cmdBuf.WriteByte(output)
	ctx.cmdBuf.WriteByte(selection)
	ctx.cmdBuf.WriteUint32LE(waitUs)

	err := h.usbTransferNoErrCheck(ctx, 2)

	if err != nil {
		return 0, err
	}

	data := ctx.DataBytes()

	if data[0] != cmdDapSwjPins {
		return 0, NewDapError("swj pins command not answered", ErrorCommandNotFound)
	}

	return data[1], nil
}

// AssertReset pulls the nRESET line low or releases it.
func (h *DapProbe) AssertReset(assert bool) error {
	var output byte = 0

	if !assert {
		output = pinNReset
	}

	_, err := h.SwjPins(output, pinNReset, 0)

	return err
}
