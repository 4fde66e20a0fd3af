// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

// SetSwjClock programs the SWD/JTAG clock frequency in Hz. Probes clamp the
// value to the nearest rate they can generate, so no readback is done here.
func (h *DapProbe) SetSwjClock(clockHz uint32) error {
	ctx := h.initTransfer(cmdDapSwjClock)

	ctx.cmdBuf.WriteUint32LE(clockHz)

	err := h.usbTransferErrCheck(ctx, 2)

	if err != nil {
		return err
	}

	logger.Debugf("swj clock set to %d Hz", clockHz)

	return nil
}

// SwdConfigure sets the SWD turnaround period and data phase behaviour.
func (h *DapProbe) SwdConfigure(config byte) error {
	ctx := h.initTransfer(cmdDapSwdConfigure)

	ctx.cmdBuf.WriteByte(config)

	return h.usbTransferErrCheck(ctx, 2)
}
