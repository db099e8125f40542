package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize local habit data with the cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		report := svc.SyncAll(cmd.Context(), svc.DefaultManifest())

		for _, line := range report.Lines {
			fmt.Println(line)
		}

		c := report.Counts
		fmt.Printf("%s %d up to date, %d uploaded, %d downloaded, %d failed\n",
			cyan("sync:"), c.Unchanged, c.Uploaded, c.Downloaded, c.Failed)

		if c.Failed > 0 {
			return errors.New("sync completed with failures")
		}
		return nil
	},
}
