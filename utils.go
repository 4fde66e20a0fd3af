// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import "github.com/google/gousb"

func idExists(slice []gousb.ID, item gousb.ID) bool {
	for _, element := range slice {
		if element == item {
			return true
		}
	}

	return false
}

func leToHostUint16(buffer []byte) uint16 {
	return uint16(buffer[0]) | (uint16(buffer[1]) << 8)
}

func leToHostUint32(buffer []byte) uint32 {
	return uint32(buffer[0]) | uint32(buffer[1])<<8 | uint32(buffer[2])<<16 | uint32(buffer[3])<<24
}

func hostToLeUint16(buffer []byte, value uint16) {
	buffer[1] = byte(value >> 8)
	buffer[0] = byte(value >> 0)
}

func hostToLeUint32(buffer []byte, value uint32) {
	buffer[3] = byte(value >> 24)
	buffer[2] = byte(value >> 16)
	buffer[1] = byte(value >> 8)
	buffer[0] = byte(value >> 0)
}

func isPowerOfTwo(value uint32) bool {
	return value != 0 && (value&(value-1)) == 0
}

// cString cuts a probe response string at the first NUL byte. CMSIS-DAP
// info strings include their terminator in the reported length.
func cString(buffer []byte) string {
	for i, b := range buffer {
		if b == 0 {
			return string(buffer[:i])
		}
	}

	return string(buffer)
}
