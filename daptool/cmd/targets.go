// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/bbnote/godaplink"
	"github.com/spf13/cobra"
)

var showMap bool

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the registered target records",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, boardId := range godaplink.SupportedBoardIds() {
			target := godaplink.GetTargetConfig(boardId)

			fmt.Printf("board %s: flash 0x%08x-0x%08x (%d sectors of %d bytes), ram 0x%08x-0x%08x, disc %d bytes\n",
				target.BoardId, target.FlashStart, target.FlashEnd,
				target.SectorCnt, target.SectorSize,
				target.RamStart, target.RamEnd, target.DiscSize)

			if showMap {
				fmt.Print(target.MemoryMap().GdbXml())
			}
		}

		return nil
	},
}

func init() {
	targetsCmd.Flags().BoolVar(&showMap, "memory-map", false, "print the GDB memory map of every record")
	rootCmd.AddCommand(targetsCmd)
}
