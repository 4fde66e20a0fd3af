// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"errors"
)

type SwoTransportType byte

const (
	SwoTransportNone    SwoTransportType = 0 // no trace data delivery
	SwoTransportCommand                  = 1 // data is polled with the SWO data command
	SwoTransportEndpoint                 = 2 // data streams on a dedicated usb endpoint
)

type SwoModeType byte

const (
	SwoModeOff        SwoModeType = 0
	SwoModeUart                   = 1 // asynchronous output with NRZ coding
	SwoModeManchester             = 2 // asynchronous output with Manchester coding
)

const (
	swoControlStop  = 0
	swoControlStart = 1
)

type swoState struct {
	enabled  bool
	baudrate uint32
}

func (h *DapProbe) swoSupported(mode SwoModeType) bool {
	switch mode {
	case SwoModeUart:
		return h.info.capabilities.Get(capabilitySwoUart)
	case SwoModeManchester:
		return h.info.capabilities.Get(capabilitySwoManchester)
	default:
		return false
	}
}

/**
  Configures SWO trace capture on the probe. The probe answers the baudrate
  command with the rate it actually configured, which is kept for pacing the
  poll loop.
*/
func (h *DapProbe) EnableSwo(mode SwoModeType, baudrate uint32) error {
	if !h.swoSupported(mode) {
		return errors.New("requested SWO mode not supported by this probe")
	}

	ctx := h.initTransfer(cmdDapSwoTransport)
	ctx.cmdBuf.WriteByte(byte(SwoTransportCommand))

	if err := h.usbTransferErrCheck(ctx, 2); err != nil {
		return errors.New("could not select SWO transport")
	}

	ctx = h.initTransfer(cmdDapSwoMode)
	ctx.cmdBuf.WriteByte(byte(mode))

	if err := h.usbTransferErrCheck(ctx, 2); err != nil {
		return errors.New("could not select SWO mode")
	}

	ctx = h.initTransfer(cmdDapSwoBaudrate)
	ctx.cmdBuf.WriteUint32LE(baudrate)

	if err := h.usbTransferNoErrCheck(ctx, 5); err != nil {
		return err
	}

	actual := leToHostUint32(ctx.DataBytes()[1:])

	if actual == 0 {
		return errors.New("probe rejected the SWO baudrate")
	}

	ctx = h.initTransfer(cmdDapSwoControl)
	ctx.cmdBuf.WriteByte(swoControlStart)

	if err := h.usbTransferErrCheck(ctx, 2); err != nil {
		return errors.New("could not start SWO capture")
	}

	h.swo.enabled = true
	h.swo.baudrate = actual

	logger.Debugf("enabled SWO recording at %d baud", actual)

	return nil
}

func (h *DapProbe) DisableSwo() error {
	logger.Debug("disabling SWO functionality")

	ctx := h.initTransfer(cmdDapSwoControl)
	ctx.cmdBuf.WriteByte(swoControlStop)

	err := h.usbTransferErrCheck(ctx, 2)

	if err == nil {
		h.swo.enabled = false
		return nil
	} else {
		return errors.New("could not disable SWO capture")
	}
}

/**
  Polls buffered trace bytes from the probe. size is updated to the number
  of bytes actually placed in the buffer.
*/
func (h *DapProbe) PollSwo(buffer []byte, size *uint32) error {
	if !h.swo.enabled {
		*size = 0
		return nil
	}

	request := *size

	if max := h.packetSize - 4; request > max {
		request = max
	}

	ctx := h.initTransfer(cmdDapSwoData)
	ctx.cmdBuf.WriteUint16LE(uint16(request))

	err := h.usbTransferNoErrCheck(ctx, 4)

	if err != nil {
		return err
	}

	data := ctx.DataBytes()

	if data[0] != cmdDapSwoData {
		return NewDapError("SWO data command not answered", ErrorCommandNotFound)
	}

	count := swoDataCount(data, uint32(len(buffer)))

	copy(buffer[:count], data[4:4+count])
	*size = count

	return nil
}

// swoDataCount bounds the trace byte count a probe reports against the
// payload that actually arrived and the caller's buffer. Firmware has been
// seen reporting more bytes than it sends.
func swoDataCount(data []byte, bufferLen uint32) uint32 {
	count := uint32(leToHostUint16(data[2:]))

	if available := uint32(len(data)) - 4; count > available {
		count = available
	}

	if count > bufferLen {
		count = bufferLen
	}

	return count
}
