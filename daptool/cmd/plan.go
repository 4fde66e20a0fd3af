// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/bbnote/godaplink"
	"github.com/spf13/cobra"
)

var planBoardId string

var planCmd = &cobra.Command{
	Use:   "plan <start-address> <length>",
	Short: "Print the erase plan for a flash range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := godaplink.GetTargetConfig(planBoardId)

		if target == nil {
			return fmt.Errorf("board id %s is not a supported target", planBoardId)
		}

		start, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid start address %q: %w", args[0], err)
		}

		length, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid length %q: %w", args[1], err)
		}

		plan := godaplink.NewErasePlan(target)

		if err := plan.AddRange(uint32(start), uint32(length)); err != nil {
			return err
		}

		fmt.Printf("erase plan for board %s, range 0x%08x+0x%x:\n", target.BoardId, start, length)

		for _, sector := range plan.Sectors() {
			addr, _ := target.SectorAddress(sector)

			fmt.Printf("  sector %3d at 0x%08x (%d bytes)\n", sector, addr, target.SectorSize)
		}

		fmt.Printf("%d sectors, %d bytes total\n", plan.SectorCount(), plan.SectorCount()*target.SectorSize)

		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planBoardId, "board", "5020", "board id of the target record")
	rootCmd.AddCommand(planCmd)
}
