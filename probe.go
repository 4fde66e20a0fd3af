// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the CMSIS-DAP / DAPLink
// interface firmware sources, for detailed information see

// https://arm-software.github.io/CMSIS_5/DAP/html/index.html

package godaplink

import (
	"errors"
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/google/gousb"
)

const AllSupportedVIds = 0xFFFF
const AllSupportedPIds = 0xFFFF

var dapSupportedVids = []gousb.ID{mbedDapVid, atmelEdbgVid}
var dapSupportedPids = []gousb.ID{mbedDapPid, atmelEdbgPid}

type dapProbeInfo struct {
	firmwareVersion string
	vendorName      string
	productName     string

	capabilities bitmap.Bitmap

	packetSize  uint32
	packetCount uint32
}

// DapProbe is an opened CMSIS-DAP debug probe on the usb bus.
type DapProbe struct {
	usbDevice    *gousb.Device
	usbConfig    *gousb.Config
	usbInterface *gousb.Interface

	rxEndpoint *gousb.InEndpoint
	txEndpoint *gousb.OutEndpoint

	info dapProbeInfo

	packetSize uint32

	swo swoState

	port      DapPort
	connected bool

	vid gousb.ID
	pid gousb.ID
}

type DapProbeConfig struct {
	vid          gousb.ID
	pid          gousb.ID
	port         DapPort
	serial       string
	initialSpeed uint32
}

func NewDapProbeConfig(vid gousb.ID, pid gousb.ID, port DapPort,
	serial string, initialSpeed uint32) *DapProbeConfig {

	config := &DapProbeConfig{
		vid:          vid,
		pid:          pid,
		port:         port,
		serial:       serial,
		initialSpeed: initialSpeed,
	}

	return config
}

// NewDapProbe scans the usb bus for a CMSIS-DAP probe matching the config,
// claims its bulk interface and queries the probe information block.
func NewDapProbe(config *DapProbeConfig) (*DapProbe, error) {
	var err error
	var devices []*gousb.Device

	handle := &DapProbe{}
	handle.port = config.port
	handle.packetSize = defaultPacketSize

	if config.vid == AllSupportedVIds && config.pid == AllSupportedPIds {
		devices, err = usbFindDevices(dapSupportedVids, dapSupportedPids)

	} else if config.vid == AllSupportedVIds && config.pid != AllSupportedPIds {
		devices, err = usbFindDevices(dapSupportedVids, []gousb.ID{config.pid})

	} else if config.vid != AllSupportedVIds && config.pid == AllSupportedPIds {
		devices, err = usbFindDevices([]gousb.ID{config.vid}, dapSupportedPids)

	} else {
		devices, err = usbFindDevices([]gousb.ID{config.vid}, []gousb.ID{config.pid})
	}

	if err != nil {
		return nil, err
	}

	if len(devices) > 0 {

		if config.serial == "" && len(devices) > 1 {
			return nil, errors.New("could not identify exact probe by given parameters. (Perhaps a serial no is missing?)")
		} else if len(devices) == 1 {
			handle.usbDevice = devices[0]
		} else {
			for _, dev := range devices {
				devSerialNo, _ := dev.SerialNumber()

				logger.Debugf("compare serial no %s with number %s", devSerialNo, config.serial)

				if devSerialNo == config.serial {
					handle.usbDevice = dev

					logger.Infof("found CMSIS-DAP probe with serial number %s", devSerialNo)
				}
			}
		}
	} else {
		return nil, errors.New("could not find any CMSIS-DAP probe connected to computer")
	}

	if handle.usbDevice == nil {
		return nil, errors.New("could not find CMSIS-DAP probe by given parameters")
	}

	handle.vid = handle.usbDevice.Desc.Vendor
	handle.pid = handle.usbDevice.Desc.Product

	err = handle.claimBulkInterface()

	if err != nil {
		return nil, err
	}

	err = handle.usbParseInfo()

	if err != nil {
		return nil, err
	}

	if config.port == DapPortSwd && !handle.info.capabilities.Get(capabilitySwd) {
		return nil, errors.New("SWD transport not supported by probe")
	}

	if config.port == DapPortJtag && !handle.info.capabilities.Get(capabilityJtag) {
		return nil, errors.New("JTAG transport not supported by probe")
	}

	err = handle.Connect(config.port)

	if err != nil {
		return nil, err
	}

	if config.initialSpeed > 0 {
		err = handle.SetSwjClock(config.initialSpeed)

		if err != nil {
			return nil, err
		}
	}

	return handle, nil
}

/**
  Locates the CMSIS-DAP v2 bulk interface. Per the protocol spec the
  interface name carries "CMSIS-DAP" and exposes one bulk out and one bulk
  in endpoint; we go by the endpoint shape since interface strings are not
  reachable through every libusb backend.
*/
func (h *DapProbe) claimBulkInterface() error {
	var err error

	h.usbConfig, err = h.usbDevice.Config(1)
	if err != nil {
		logger.Debug(err)
		return errors.New("could not request configuration #1 for CMSIS-DAP probe")
	}

	for _, ifDesc := range h.usbConfig.Desc.Interfaces {
		alt := ifDesc.AltSettings[0]

		var inNum, outNum int = -1, -1

		for _, epDesc := range alt.Endpoints {
			if epDesc.TransferType != gousb.TransferTypeBulk {
				continue
			}

			if epDesc.Direction == gousb.EndpointDirectionIn {
				inNum = epDesc.Number
			} else {
				outNum = epDesc.Number
			}
		}

		if inNum < 0 || outNum < 0 {
			continue
		}

		iface, err := h.usbConfig.Interface(ifDesc.Number, 0)
		if err != nil {
			logger.Debug(err)
			continue
		}

		rx, err := iface.InEndpoint(inNum)
		if err != nil {
			iface.Close()
			continue
		}

		tx, err := iface.OutEndpoint(outNum)
		if err != nil {
			iface.Close()
			continue
		}

		h.usbInterface = iface
		h.rxEndpoint = rx
		h.txEndpoint = tx

		logger.Debugf("claimed interface %d with bulk endpoints in:%d out:%d",
			ifDesc.Number, inNum, outNum)

		return nil
	}

	return errors.New("could not claim a bulk interface pair on the CMSIS-DAP probe")
}

func (h *DapProbe) Close() {
	if h.usbDevice != nil {
		logger.Debugf("close CMSIS-DAP probe [%04x:%04x]", uint16(h.vid), uint16(h.pid))

		if h.connected {
			if err := h.Disconnect(); err != nil {
				logger.Warn("error while disconnecting probe: ", err)
			}
		}

		h.usbInterface.Close()
		h.usbConfig.Close()
		h.usbDevice.Close()
	}
}

func (h *DapProbe) FirmwareVersion() string {
	return h.info.firmwareVersion
}

func (h *DapProbe) PacketSize() uint32 {
	return h.info.packetSize
}

func (h *DapProbe) HasCapability(flag int) bool {
	return h.info.capabilities.Get(flag)
}

/**
  Reads the board id the probe firmware reports for its attached target.
  DAPLink style probes answer the first vendor command with their unique id
  string whose leading four characters are the board id, the same value host
  tooling matches on when the probe enumerates as a mass storage device.
*/
func (h *DapProbe) BoardId() (string, error) {
	ctx := h.initTransfer(cmdDapVendorUniqueId)

	err := h.usbTransferNoErrCheck(ctx, 2)

	if err != nil {
		return "", err
	}

	data := ctx.DataBytes()

	if data[0] != cmdDapVendorUniqueId {
		return "", NewDapError("vendor unique id command not answered", ErrorCommandNotFound)
	}

	strLen := int(data[1])

	if strLen == 0 || len(data) < 2+strLen {
		return "", NewDapError("probe reported no unique id", ErrorFail)
	}

	uniqueId := cString(data[2 : 2+strLen])

	if len(uniqueId) < 4 {
		return "", NewDapError(fmt.Sprintf("unique id %q too short for a board id", uniqueId), ErrorFail)
	}

	return uniqueId[:4], nil
}

// TargetConfigForProbe resolves the registered target record for the board
// the probe reports.
func (h *DapProbe) TargetConfigForProbe() (*TargetConfig, error) {
	boardId, err := h.BoardId()

	if err != nil {
		return nil, err
	}

	target := GetTargetConfig(boardId)

	if target == nil {
		return nil, NewDapError(fmt.Sprintf("board id %s is not a supported target", boardId), ErrorFail)
	}

	return target, nil
}

// HostStatus drives the connected/running led on the probe.
func (h *DapProbe) HostStatus(statusType byte, enabled bool) error {
	ctx := h.initTransfer(cmdDapHostStatus)

	ctx.cmdBuf.WriteByte(statusType)

	if enabled {
		ctx.cmdBuf.WriteByte(1)
	} else {
		ctx.cmdBuf.WriteByte(0)
	}

	return h.usbTransferErrCheck(ctx, 2)
}
