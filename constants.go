// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the CMSIS-DAP / DAPLink
// interface firmware sources, for detailed information see

// https://arm-software.github.io/CMSIS_5/DAP/html/index.html

package godaplink

type DapPort uint8 // debug port types a CMSIS-DAP probe can drive

const (
	DapPortAutodetect DapPort = 0
	DapPortSwd                = 1
	DapPortJtag               = 2
)

// general command bytes
const (
	cmdDapInfo              = 0x00
	cmdDapHostStatus        = 0x01
	cmdDapConnect           = 0x02
	cmdDapDisconnect        = 0x03
	cmdDapTransferConfigure = 0x04
	cmdDapTransfer          = 0x05
	cmdDapTransferBlock     = 0x06
	cmdDapTransferAbort     = 0x07
	cmdDapWriteAbort        = 0x08
	cmdDapDelay             = 0x09
	cmdDapResetTarget       = 0x0a
)

// SWJ/SWD commands
const (
	cmdDapSwjPins      = 0x10
	cmdDapSwjClock     = 0x11
	cmdDapSwjSequence  = 0x12
	cmdDapSwdConfigure = 0x13
)

// SWO trace commands
const (
	cmdDapSwoTransport = 0x17
	cmdDapSwoMode      = 0x18
	cmdDapSwoBaudrate  = 0x19
	cmdDapSwoControl   = 0x1a
	cmdDapSwoStatus    = 0x1b
	cmdDapSwoData      = 0x1c
)

// DAPLink vendor command returning the unique probe id whose leading
// four characters are the board id
const (
	cmdDapVendorUniqueId = 0x80
)

// DAP_INFO id bytes
const (
	infoVendorId           = 0x01
	infoProductId          = 0x02
	infoSerialNumber       = 0x03
	infoFirmwareVersion    = 0x04
	infoTargetDeviceVendor = 0x05
	infoTargetDeviceName   = 0x06
	infoCapabilities       = 0xf0
	infoSwoBufferSize      = 0xfd
	infoPacketCount        = 0xfe
	infoPacketSize         = 0xff
)

// capability flag indices as reported through DAP_INFO
const (
	capabilitySwd             = 0
	capabilityJtag            = 1
	capabilitySwoUart         = 2
	capabilitySwoManchester   = 3
	capabilityAtomicCmds      = 4
	capabilitySwdSequence     = 5
	capabilityTestDomainTimer = 6
)

const capabilityFlagCount = 8

// general command status bytes
const (
	dapStatusOk    = 0x00
	dapStatusError = 0xff
)

// transfer request bits
const (
	transferRequestApNotDp = 0x01
	transferRequestRead    = 0x02
	transferRequestA2      = 0x04
	transferRequestA3      = 0x08
)

// transfer response classification
const (
	transferAckMask       = 0x07
	transferAckOk         = 0x01
	transferAckWait       = 0x02
	transferAckFault      = 0x04
	transferProtocolError = 0x08
	transferMismatchError = 0x10
)

// SWJ pin masks for DAP_SWJ_PINS
const (
	pinSwClkTck = 0x01
	pinSwdIoTms = 0x02
	pinTdi      = 0x04
	pinTdo      = 0x08
	pinNTrst    = 0x20
	pinNReset   = 0x80
)

// MEM-AP register addresses encoded as transfer request A3:A2 bits
const (
	apRegCsw = 0x00
	apRegTar = transferRequestA2
	apRegDrw = transferRequestA2 | transferRequestA3
)

// MEM-AP CSW value for word transfers with address auto increment
const (
	cswSize32    = 0x00000002
	cswAddrInc   = 0x00000010
	cswDbgStat   = 0x00000040
	cswReserved  = 0x01000000
	cswHProt     = 0x02000000
	cswMasterDbg = 0x20000000

	cswWordTransfer = cswReserved | cswMasterDbg | cswHProt | cswDbgStat | cswAddrInc | cswSize32
)

// buffer geometry; packet size is re-read from the probe during open
const (
	defaultPacketSize  = 64
	defaultPacketCount = 1

	cmdBufferSize  = 512
	dataBufferSize = 4096
)

const maximumWaitRetries = 8

// usb endpoint directions
const (
	usbEndpointIn  = 0x80
	usbEndpointOut = 0x00
)

const (
	mbedDapVid   = 0x0d28
	mbedDapPid   = 0x0204
	atmelEdbgVid = 0x03eb
	atmelEdbgPid = 0x2111
)
