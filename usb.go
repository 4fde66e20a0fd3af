// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"errors"

	"github.com/google/gousb"
)

var usbCtx *gousb.Context = nil

func InitializeUSB() error {
	if usbCtx == nil {
		usbCtx = gousb.NewContext()
		usbCtx.Debug(2)

		if usbCtx != nil {
			logger.Debug("initialized libusb...")
			return nil
		} else {
			return errors.New("could not initialize libusb")
		}
	} else {
		logger.Warn("usb already initialized")
		return nil
	}
}

func CloseUSB() {
	if usbCtx != nil {
		usbCtx.Close()
		usbCtx = nil
	} else {
		logger.Warn("could not close uninitialized usb context")
	}
}

func usbFindDevices(vids []gousb.ID, pids []gousb.ID) ([]*gousb.Device, error) {
	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if idExists(vids, desc.Vendor) && idExists(pids, desc.Product) {
			logger.Infof("found usb device [%04x:%04x] on bus %03d:%03d",
				uint16(desc.Vendor), uint16(desc.Product), desc.Bus, desc.Address)

			return true
		} else {
			return false
		}
	})

	if err == nil {
		logger.Infof("found %d matching devices based on vendor and product id list", len(devices))
		return devices, nil
	} else {
		logger.Error("got error during usb device scan ", err)
		return nil, err
	}
}

func usbWrite(endpoint *gousb.OutEndpoint, buffer []byte) (int, error) {
	bytesWritten, err := endpoint.Write(buffer)

	if err != nil {
		return -1, err
	} else {
		logger.Tracef("wrote %d bytes to endpoint", bytesWritten)
		return bytesWritten, nil
	}
}

func usbRead(endpoint *gousb.InEndpoint, buffer []byte) (int, error) {
	bytesRead, err := endpoint.Read(buffer)

	if err != nil {
		return -1, err
	} else {
		logger.Tracef("read %d bytes from in endpoint", bytesRead)
		return bytesRead, nil
	}
}
