package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itachi2230/fxHabit/internal/cloud"
	"github.com/itachi2230/fxHabit/internal/config"
	"github.com/itachi2230/fxHabit/internal/logging"
	"github.com/itachi2230/fxHabit/internal/version"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var (
	svc       *cloud.Service
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "fxcloud",
	Short:         "FxHabit cloud sync client",
	Version:       version.Detailed(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().Bool("debug", false, "verbose logging")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, syncCmd, statusCmd, whoamiCmd)
}

func setup(cmd *cobra.Command) error {
	viper.SetEnvPrefix("FXCLOUD")
	viper.AutomaticEnv()
	viper.BindPFlag("config", cmd.Flags().Lookup("config"))
	viper.BindPFlag("debug", cmd.Flags().Lookup("debug"))

	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}

	logCloser, err = logging.Setup(filepath.Join(cfg.Dir(), "fxcloud.log"), viper.GetBool("debug"))
	if err != nil {
		return err
	}

	svc = cloud.New(cfg)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}
