// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/bbnote/godaplink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "daptool",
	Short: "CMSIS-DAP probe and target geometry tool",
	Long: `Tooling around CMSIS-DAP debug probes and their target records.

Examples:
  daptool targets                       # list registered target records
  daptool plan --board 5020 0x400000 4096   # erase plan for a flash range
  daptool info                          # query a connected probe`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		logger.SetFormatter(&prefixed.TextFormatter{
			FullTimestamp: true,
		})

		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		godaplink.SetLogger(logger)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
