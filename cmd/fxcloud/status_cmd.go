package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itachi2230/fxHabit/internal/cloudapi"
	"github.com/itachi2230/fxHabit/internal/netcheck"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := svc.Status(cmd.Context())
		switch st {
		case netcheck.Ready:
			fmt.Println("status:", green(st))
		case netcheck.OnlineNoSession:
			fmt.Println("status:", cyan(st))
		default:
			fmt.Println("status:", red(st))
		}

		access, _ := svc.Tokens()
		if access != "" {
			if exp, err := cloudapi.TokenExpiry(access); err == nil {
				remaining := time.Until(exp).Round(time.Minute)
				if remaining > 0 {
					fmt.Println("access token expires in", remaining)
				} else {
					fmt.Println("access token expired, will refresh on next call")
				}
			}
		}

		if p := svc.CachedProfile(); p != nil && p.LastSync != nil {
			fmt.Println("last sync:", p.LastSync.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
