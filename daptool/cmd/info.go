// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/bbnote/godaplink"
	"github.com/spf13/cobra"
)

var (
	infoSerial string
	infoSpeed  uint32
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query a connected CMSIS-DAP probe",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godaplink.InitializeUSB(); err != nil {
			return err
		}
		defer godaplink.CloseUSB()

		config := godaplink.NewDapProbeConfig(godaplink.AllSupportedVIds, godaplink.AllSupportedPIds,
			godaplink.DapPortSwd, infoSerial, infoSpeed)

		probe, err := godaplink.NewDapProbe(config)

		if err != nil {
			return err
		}
		defer probe.Close()

		fmt.Printf("firmware version: %s\n", probe.FirmwareVersion())
		fmt.Printf("packet size:      %d bytes\n", probe.PacketSize())

		boardId, err := probe.BoardId()

		if err != nil {
			return fmt.Errorf("probe did not report a board id: %w", err)
		}

		fmt.Printf("board id:         %s\n", boardId)

		target := godaplink.GetTargetConfig(boardId)

		if target == nil {
			fmt.Println("no target record registered for this board")
			return nil
		}

		fmt.Printf("target flash:     0x%08x-0x%08x (%d sectors of %d bytes)\n",
			target.FlashStart, target.FlashEnd, target.SectorCnt, target.SectorSize)
		fmt.Printf("target ram:       0x%08x-0x%08x\n", target.RamStart, target.RamEnd)

		return nil
	},
}

func init() {
	infoCmd.Flags().StringVar(&infoSerial, "serial", "", "serial number of the probe to open")
	infoCmd.Flags().Uint32Var(&infoSpeed, "speed", 1000000, "initial SWJ clock in Hz")
	rootCmd.AddCommand(infoCmd)
}
