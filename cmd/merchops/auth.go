package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/merchant-ops/internal/cli"
	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This opens a browser consent page, receives the callback on a local port
and stores the token for 'merchops export --format sheets'. An existing
token with a refresh token is reused.`,
		Args: cobra.NoArgs,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "Local address for the OAuth2 callback")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if v, _ := cmd.Flags().GetString("client-id"); v != "" {
		clientID = v
	}
	if v, _ := cmd.Flags().GetString("client-secret"); v != "" {
		clientSecret = v
	}

	env := sheets.Config{ClientID: clientID, ClientSecret: clientSecret}
	env.LoadFromEnv()
	if env.ClientID == "" || env.ClientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret or use --client-id and --client-secret",
			fmt.Errorf("%w: sheets oauth client", common.ErrMissingConfig))
	}

	callback, _ := cmd.Flags().GetString("callback")
	tokenFile := config.SheetsTokenFile()
	slog.Info("starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
		ClientID:     env.ClientID,
		ClientSecret: env.ClientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("authentication succeeded but Google returned no refresh token; revoke access and try again")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("Authentication successful"))
	fmt.Fprintln(out, cli.FormatInfo("Token stored in "+tokenFile))
	fmt.Fprintln(out, cli.FormatInfo("Run 'merchops export --format sheets' to write a report"))
	return nil
}
