package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		user, token, err := authService().Login(ctx, args[0], password)
		if err != nil {
			return err
		}

		cfg.Token = token
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		ctx, stop := signalContext()
		defer stop()

		user, err := authService().Register(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Account %s created. Run 'ragify login %s' to sign in.\n", user.Username, user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		authService().Logout()
		cfg.Token = ""
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		user, err := authService().CurrentUser(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", user.Username, user.Role)
		return nil
	},
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
