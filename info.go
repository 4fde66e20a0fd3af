// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"fmt"

	"github.com/boljen/go-bitmap"
)

func (h *DapProbe) dapInfo(id byte) ([]byte, error) {
	ctx := h.initTransfer(cmdDapInfo)

	ctx.cmdBuf.WriteByte(id)

	err := h.usbTransferNoErrCheck(ctx, 2)

	if err != nil {
		return nil, err
	}

	data := ctx.DataBytes()

	if data[0] != cmdDapInfo {
		return nil, NewDapError("info command not answered", ErrorCommandNotFound)
	}

	length := int(data[1])

	if len(data) < 2+length {
		return nil, NewDapError(fmt.Sprintf("info response for id 0x%02x truncated", id), ErrorFail)
	}

	return data[2 : 2+length], nil
}

func (h *DapProbe) dapInfoString(id byte) (string, error) {
	value, err := h.dapInfo(id)

	if err != nil {
		return "", err
	}

	return cString(value), nil
}

/**
  Queries the probe information block: firmware version, vendor and product
  strings, capability word and the packet geometry every later transfer is
  framed with. Packet size is read before anything else since it bounds the
  usb packets themselves.
*/
func (h *DapProbe) usbParseInfo() error {
	sizeValue, err := h.dapInfo(infoPacketSize)

	if err != nil {
		return err
	}

	switch len(sizeValue) {
	case 2:
		h.info.packetSize = uint32(leToHostUint16(sizeValue))
	default:
		return NewDapError("packet size info has unexpected width", ErrorFail)
	}

	if h.info.packetSize == 0 {
		return NewDapError("probe reported zero packet size", ErrorFail)
	}

	h.packetSize = h.info.packetSize

	countValue, err := h.dapInfo(infoPacketCount)

	if err != nil {
		return err
	}

	if len(countValue) >= 1 {
		h.info.packetCount = uint32(countValue[0])
	} else {
		h.info.packetCount = defaultPacketCount
	}

	h.info.firmwareVersion, err = h.dapInfoString(infoFirmwareVersion)

	if err != nil {
		return err
	}

	// vendor and product strings are optional info ids
	h.info.vendorName, _ = h.dapInfoString(infoVendorId)
	h.info.productName, _ = h.dapInfoString(infoProductId)

	capsValue, err := h.dapInfo(infoCapabilities)

	if err != nil {
		return err
	}

	var capsWord uint32 = 0

	switch len(capsValue) {
	case 1:
		capsWord = uint32(capsValue[0])
	case 2:
		capsWord = uint32(leToHostUint16(capsValue))
	case 4:
		capsWord = leToHostUint32(capsValue)
	default:
		return NewDapError("capability info has unexpected width", ErrorFail)
	}

	flags := bitmap.New(capabilityFlagCount)

	for i := 0; i < capabilityFlagCount; i++ {
		if (capsWord & (1 << uint(i))) != 0 {
			flags.Set(i, true)
		}
	}

	h.info.capabilities = flags

	serialNo, _ := h.usbDevice.SerialNumber()

	logger.Debugf("parsed CMSIS-DAP info [fw %s, caps 0x%02x, packet %d/%d] for [%s]",
		h.info.firmwareVersion, capsWord, h.info.packetSize, h.info.packetCount, serialNo)

	return nil
}
