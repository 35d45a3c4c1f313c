package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/HustleV0/VirtinSaz-sub001/internal/credentials"
)

func newLoginCommand() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:           "login",
		Short:         "Store an API token for authenticated access",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLogin,
	}
	loginCmd.Flags().String("token", "", "Access token (prompted securely when omitted)")
	loginCmd.Flags().String("refresh-token", "", "Optional refresh token to store alongside")
	loginCmd.Flags().Bool("show", false, "Display whether credentials are configured")
	return loginCmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Remove stored credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutputFormatter(cmd)

			deps, err := openClientDeps()
			if err != nil {
				return out.Error("Failed to open client storage", err)
			}
			defer deps.Close()

			if err := deps.creds.ClearAll(cmd.Context()); err != nil {
				return out.Error("Failed to clear credentials", err)
			}
			return out.Success("Credentials cleared", nil)
		},
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	show, _ := cmd.Flags().GetBool("show")
	if show {
		token, err := deps.creds.Token(cmd.Context())
		if err != nil {
			return out.Error("Failed to read credentials", err)
		}
		return out.Print(map[string]any{
			"token_configured": token != "",
			"storage_path":     deps.storage.Path(),
		})
	}

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		fmt.Print("Access token: ")
		entered, err := terminal.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return out.Error("Failed to read token", err)
		}
		token = strings.TrimSpace(string(entered))
	}
	if token == "" {
		return out.Error("Access token is required", nil)
	}

	refreshToken, _ := cmd.Flags().GetString("refresh-token")

	if err := deps.creds.Save(cmd.Context(), token, refreshToken, ""); err != nil {
		return out.Error("Failed to store credentials", err)
	}

	return out.Success("Credentials saved", map[string]any{
		"storage_path": deps.storage.Path(),
	})
}

// ensureLoggedIn returns an error message suitable for commands that need a
// token before talking to the API.
func ensureLoggedIn(cmd *cobra.Command, deps *clientDeps, out *OutputFormatter) error {
	token, err := deps.creds.Token(cmd.Context())
	if err != nil {
		return out.Error("Failed to read credentials", err)
	}
	if token == "" {
		return out.Error(fmt.Sprintf("Not logged in (no %s stored). Run `vitrin login` first.",
			credentials.KeyAccessToken), nil)
	}
	return nil
}
