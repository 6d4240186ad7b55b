package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileColumns = []string{"profileId", "countryCode", "currencyCode", "timezone", "dailyBudget"}

func init() {
	rootCmd.AddCommand(newProfilesCmd())
}

func newProfilesCmd() *cobra.Command {
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and manage advertising profiles",
		Long: `List, inspect, and update advertising profiles, and register new ones.

A profile ID scopes every other API call; pass it with --profile-id or store it
with: ads config set profile_id <id>`,
	}

	profilesCmd.AddCommand(newProfilesListCmd())
	profilesCmd.AddCommand(newProfilesGetCmd())
	profilesCmd.AddCommand(newProfilesUpdateCmd())
	profilesCmd.AddCommand(newProfilesRegisterCmd())
	profilesCmd.AddCommand(newProfilesRegisterStatusCmd())
	return profilesCmd
}

func newProfilesListCmd() *cobra.Command {
	var csvOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles the credentials can access",
		Example: `  # All profiles
  ads profiles list

  # Profile IDs for the UK marketplace
  ads profiles list --json --jq '.[] | select(.countryCode == "UK") | .profileId'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Profiles.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing profiles: %w", err)
			}
			return renderResponse(cmd, resp, profileColumns)
		},
	}

	cmd.Flags().BoolVar(&csvOut, "csv", false, "Output CSV instead of a table")

	return cmd
}

func newProfilesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <profileId>",
		Short: "Get a profile by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Profiles.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting profile %s: %w", args[0], err)
			}
			return renderResponse(cmd, resp, profileColumns)
		},
	}
}

func newProfilesUpdateCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update profile daily budgets from a JSON array",
		Example: `  ads profiles update --data '[{"profileId":1234567890,"dailyBudget":100}]'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}

			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Profiles.Update(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("updating profiles: %w", err)
			}
			return renderResponse(cmd, resp, []string{"profileId", "code", "details"})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON payload, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newProfilesRegisterCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Register a new profile (sandbox)",
		Example: `  ads profiles register --sandbox --data '{"countryCode":"US"}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}

			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Profiles.Register(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("registering profile: %w", err)
			}
			return renderResponse(cmd, resp, nil)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON payload, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newProfilesRegisterStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register-status <profileId>",
		Short: "Show the registration status of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Profiles.RegisterStatus(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting registration status for %s: %w", args[0], err)
			}
			return renderResponse(cmd, resp, nil)
		},
	}
}
