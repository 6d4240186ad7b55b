package cmd

import (
	"fmt"

	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSuggestionsCmd())
}

func newSuggestionsCmd() *cobra.Command {
	suggestionsCmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Get keyword suggestions",
		Long:  "Get suggested keywords for an ad group or for one or more ASINs.",
	}

	suggestionsCmd.AddCommand(newSuggestionsAdGroupCmd())
	suggestionsCmd.AddCommand(newSuggestionsASINCmd())
	suggestionsCmd.AddCommand(newSuggestionsBulkCmd())
	return suggestionsCmd
}

func newSuggestionsAdGroupCmd() *cobra.Command {
	var (
		extended bool
		filters  []string
	)

	cmd := &cobra.Command{
		Use:   "adgroup <adGroupId>",
		Short: "Keyword suggestions for an ad group",
		Example: `  ads suggestions adgroup 1234 --filter maxNumSuggestions=20 --filter adStateFilter=enabled
  ads suggestions adgroup 1234 --extended --filter suggestBids=yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			var resp *client.Response
			if extended {
				resp, err = c.GetAdGroupKeywordSuggestionsExtended(cmd.Context(), args[0], f)
			} else {
				resp, err = c.GetAdGroupKeywordSuggestions(cmd.Context(), args[0], f)
			}
			if err != nil {
				return fmt.Errorf("getting keyword suggestions for ad group %s: %w", args[0], err)
			}
			return renderSuggestions(cmd, resp)
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", false, "Include match types, state and suggested bids")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Query filter key=value (repeatable)")

	return cmd
}

func newSuggestionsASINCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:     "asin <asin>",
		Short:   "Keyword suggestions for a single ASIN",
		Example: `  ads suggestions asin B00EXAMPLE --filter maxNumSuggestions=10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.GetASINKeywordSuggestions(cmd.Context(), args[0], f)
			if err != nil {
				return fmt.Errorf("getting keyword suggestions for ASIN %s: %w", args[0], err)
			}
			return renderSuggestions(cmd, resp)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Query filter key=value (repeatable)")

	return cmd
}

func newSuggestionsBulkCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "bulk",
		Short:   "Keyword suggestions for a list of ASINs",
		Example: `  ads suggestions bulk --data '{"asins":["B00EXAMPLE","B00EXAMPL2"],"maxNumSuggestions":10}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.BulkGetASINKeywordSuggestions(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("getting bulk keyword suggestions: %w", err)
			}
			return renderSuggestions(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON payload, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// renderSuggestions tables the suggestedKeywords array of an ad group response
// when present; ASIN responses are already flat arrays.
func renderSuggestions(cmd *cobra.Command, resp *client.Response) error {
	kws := resp.Get("suggestedKeywords")
	if jsonOutputRequested(cmd) || !kws.IsArray() {
		return renderResponse(cmd, resp, nil)
	}
	return renderResponse(cmd, &client.Response{StatusCode: resp.StatusCode, Body: []byte(kws.Raw)}, nil)
}
