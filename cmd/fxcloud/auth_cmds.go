package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/itachi2230/fxHabit/internal/cloudapi"
)

var loginCmd = &cobra.Command{
	Use:   "login <email-or-phone>",
	Short: "Sign in and store the session locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}

		out := svc.Login(cmd.Context(), args[0], password)
		if !out.OK() {
			return errors.New(out.Message())
		}

		fmt.Println(green("signed in as"), cyan(args[0]))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &cloudapi.RegisterParams{}
		params.Email, _ = cmd.Flags().GetString("email")
		params.Phone, _ = cmd.Flags().GetString("phone")
		params.FullName, _ = cmd.Flags().GetString("fullname")
		params.Bio, _ = cmd.Flags().GetString("bio")
		params.ImagePath, _ = cmd.Flags().GetString("image")

		password, err := readPassword(cmd, "Choose a password: ")
		if err != nil {
			return err
		}
		params.Password = password

		out := svc.Register(cmd.Context(), params)
		if !out.OK() {
			return errors.New(out.Message())
		}

		fmt.Println(green("account created, signed in as"), cyan(params.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc.Logout()
		fmt.Println(green("signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the cached profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			if _, err := svc.RefreshProfile(cmd.Context()); err != nil {
				return err
			}
		}

		p := svc.CachedProfile()
		if p == nil {
			return errors.New("no cached profile, sign in first")
		}

		fmt.Println(cyan(p.FullName), "<"+p.Email+">")
		if p.Bio != "" {
			fmt.Println(p.Bio)
		}
		if p.LastSync != nil {
			fmt.Println("last sync:", p.LastSync.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("fullname", "", "full name")
	registerCmd.Flags().String("bio", "", "short bio")
	registerCmd.Flags().String("image", "", "path to a profile picture (png or jpeg)")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("fullname")

	loginCmd.Flags().String("password", "", "password (prompted when omitted)")

	whoamiCmd.Flags().Bool("refresh", false, "fetch the profile from the server first")
}

// readPassword takes the password from the --password flag or, on an
// interactive terminal, prompts without echo.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password cannot be empty")
	}
	return string(raw), nil
}
