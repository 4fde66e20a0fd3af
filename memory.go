// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the CMSIS-DAP / DAPLink
// interface firmware sources, for detailed information see

// https://arm-software.github.io/CMSIS_5/DAP/html/index.html

package godaplink

import (
	"fmt"
)

// MEM-AP TAR auto increment is only guaranteed inside a 1 KiB block, larger
// transfers have to re-seed TAR at every boundary.
const tarAutoIncrementBlock = 0x400

func (h *DapProbe) maxBlockSize(addr uint32) uint32 {
	return tarAutoIncrementBlock - (addr & (tarAutoIncrementBlock - 1))
}

// maxTransferWords is the word count fitting one DAP_TRANSFER_BLOCK packet.
// The response carries a 5 byte header in front of the data.
func (h *DapProbe) maxTransferWords() uint32 {
	return (h.packetSize - 5) / 4
}

/**
  Writes a single debug or access port register through DAP_TRANSFER.
*/
func (h *DapProbe) portWrite(request byte, value uint32) error {
	build := func() *transferCtx {
		ctx := h.initTransfer(cmdDapTransfer)

		ctx.cmdBuf.WriteByte(0) // dap index, always 0 on SWD
		ctx.cmdBuf.WriteByte(1) // one transfer
		ctx.cmdBuf.WriteByte(request)
		ctx.cmdBuf.WriteUint32LE(value)

		return ctx
	}

	check := func(ctx *transferCtx) error {
		data := ctx.DataBytes()

		if data[0] != cmdDapTransfer {
			return NewDapError("transfer command not answered", ErrorCommandNotFound)
		}

		return transferResponseCheck(data[2])
	}

	_, err := h.dapCmdAllowRetry(build, 3, check)

	return err
}

func (h *DapProbe) memSetup(addr uint32) error {
	err := h.portWrite(transferRequestApNotDp|apRegCsw, cswWordTransfer)

	if err != nil {
		return err
	}

	return h.portWrite(transferRequestApNotDp|apRegTar, addr)
}

/**
  Reads a word aligned block of target memory. Memory is transferred through
  the MEM-AP data read/write register with TAR auto increment, chunked to
  the probe packet size and the auto increment window.
*/
func (h *DapProbe) ReadMem32(addr uint32, buffer []byte) error {
	/* data must be a multiple of 4 and word aligned */
	if (len(buffer)%4) > 0 || (addr%4) > 0 {
		return NewDapError("invalid data alignment", ErrorTargetUnalignedAccess)
	}

	var bufferPos uint32 = 0
	count := uint32(len(buffer))

	for count > 0 {
		bytesRemaining := h.maxBlockSize(addr)

		if maxBytes := h.maxTransferWords() * 4; bytesRemaining > maxBytes {
			bytesRemaining = maxBytes
		}

		if count < bytesRemaining {
			bytesRemaining = count
		}

		err := h.memSetup(addr)

		if err != nil {
			return err
		}

		words := bytesRemaining / 4

		build := func() *transferCtx {
			ctx := h.initTransfer(cmdDapTransferBlock)

			ctx.cmdBuf.WriteByte(0)
			ctx.cmdBuf.WriteUint16LE(uint16(words))
			ctx.cmdBuf.WriteByte(transferRequestApNotDp | transferRequestRead | apRegDrw)

			return ctx
		}

		check := func(ctx *transferCtx) error {
			data := ctx.DataBytes()

			if data[0] != cmdDapTransferBlock {
				return NewDapError("transfer block command not answered", ErrorCommandNotFound)
			}

			executed := uint32(leToHostUint16(data[1:]))

			if err := transferResponseCheck(data[3]); err != nil {
				return err
			}

			if executed != words {
				return NewDapError(fmt.Sprintf("probe executed %d of %d word reads", executed, words),
					ErrorFail)
			}

			return nil
		}

		ctx, err := h.dapCmdAllowRetry(build, 4+words*4, check)

		if err != nil {
			return err
		}

		copy(buffer[bufferPos:bufferPos+bytesRemaining], ctx.DataBytes()[4:4+bytesRemaining])

		bufferPos += bytesRemaining
		addr += bytesRemaining
		count -= bytesRemaining
	}

	return nil
}

/**
  Writes a word aligned block of target memory, see ReadMem32 for the
  chunking rules.
*/
func (h *DapProbe) WriteMem32(addr uint32, buffer []byte) error {
	/* data must be a multiple of 4 and word aligned */
	if (len(buffer)%4) > 0 || (addr%4) > 0 {
		return NewDapError("invalid data alignment", ErrorTargetUnalignedAccess)
	}

	var bufferPos uint32 = 0
	count := uint32(len(buffer))

	for count > 0 {
		bytesRemaining := h.maxBlockSize(addr)

		// the command packet needs 5 header bytes in front of the data
		if maxBytes := ((h.packetSize - 5) / 4) * 4; bytesRemaining > maxBytes {
			bytesRemaining = maxBytes
		}

		if count < bytesRemaining {
			bytesRemaining = count
		}

		err := h.memSetup(addr)

		if err != nil {
			return err
		}

		words := bytesRemaining / 4
		chunkStart := bufferPos

		build := func() *transferCtx {
			ctx := h.initTransfer(cmdDapTransferBlock)

			ctx.cmdBuf.WriteByte(0)
			ctx.cmdBuf.WriteUint16LE(uint16(words))
			ctx.cmdBuf.WriteByte(transferRequestApNotDp | apRegDrw)
			ctx.cmdBuf.Write(buffer[chunkStart : chunkStart+bytesRemaining])

			return ctx
		}

		check := func(ctx *transferCtx) error {
			data := ctx.DataBytes()

			if data[0] != cmdDapTransferBlock {
				return NewDapError("transfer block command not answered", ErrorCommandNotFound)
			}

			executed := uint32(leToHostUint16(data[1:]))

			if err := transferResponseCheck(data[3]); err != nil {
				return err
			}

			if executed != words {
				return NewDapError(fmt.Sprintf("probe executed %d of %d word writes", executed, words),
					ErrorFail)
			}

			return nil
		}

		_, err = h.dapCmdAllowRetry(build, 4, check)

		if err != nil {
			return err
		}

		bufferPos += bytesRemaining
		addr += bytesRemaining
		count -= bytesRemaining
	}

	return nil
}
