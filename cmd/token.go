package cmd

import (
	"fmt"

	"github.com/aviadshiber/adsapi/internal/config"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(newTokenCmd())
}

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API access tokens",
	}

	tokenCmd.AddCommand(newTokenRefreshCmd())
	return tokenCmd
}

func newTokenRefreshCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Long: `Exchange the configured refresh token for a new access token and print it.

Access tokens are valid for about an hour. With --save the new token is written
to the config file so later commands reuse it.`,
		Example: `  # Print a fresh access token
  ads token refresh

  # Refresh and store it
  ads token refresh --save

  # Full token endpoint response
  ads token refresh --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("refresh_token") == "" {
				return fmt.Errorf("refresh token is not configured; run: ads config set refresh_token <value>")
			}

			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			// Without a configured access token newClient has already exchanged the
			// refresh token, so only the access token is known.
			tr := &client.TokenResponse{AccessToken: c.AccessToken()}
			if viper.GetString("access_token") != "" {
				tr, err = c.RefreshToken(cmd.Context())
				if err != nil {
					return fmt.Errorf("refreshing access token: %w", err)
				}
			}

			s := getIO()
			if save {
				cfg, err := config.New()
				if err != nil {
					return err
				}
				if err := cfg.Set(config.KeyAccessToken, tr.AccessToken); err != nil {
					return fmt.Errorf("saving access token: %w", err)
				}
				s.Warnf("Access token saved to %s", cfg.FilePath())
			}

			handled, err := handleJSONOutput(cmd, tokenData(tr))
			if handled || err != nil {
				return err
			}

			_, err = fmt.Fprintln(s.Out, tr.AccessToken)
			return err
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the new access token in the config file")

	return cmd
}

// tokenData converts a token response into the generic form jq and templates expect.
func tokenData(tr *client.TokenResponse) any {
	data := map[string]any{"access_token": tr.AccessToken}
	if tr.RefreshToken != "" {
		data["refresh_token"] = tr.RefreshToken
	}
	if tr.TokenType != "" {
		data["token_type"] = tr.TokenType
	}
	if tr.ExpiresIn != 0 {
		data["expires_in"] = tr.ExpiresIn
	}
	return data
}
