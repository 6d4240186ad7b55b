package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
)

var bidColumns = []string{"adGroupId", "keywordId", "suggestedBid"}

func init() {
	rootCmd.AddCommand(newBidsCmd())
}

func newBidsCmd() *cobra.Command {
	bidsCmd := &cobra.Command{
		Use:   "bids",
		Short: "Get bid recommendations",
		Long:  "Get suggested bids for ad groups and keywords, singly or in bulk.",
	}

	bidsCmd.AddCommand(newBidsAdGroupCmd())
	bidsCmd.AddCommand(newBidsKeywordCmd())
	bidsCmd.AddCommand(newBidsBulkCmd())
	return bidsCmd
}

func newBidsAdGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adgroup <adGroupId>",
		Short: "Suggested bid for an ad group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.GetAdGroupBidRecommendations(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting bid recommendation for ad group %s: %w", args[0], err)
			}
			return renderResponse(cmd, resp, bidColumns)
		},
	}
}

func newBidsKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keyword <keywordId>",
		Short: "Suggested bid for a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.GetKeywordBidRecommendations(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting bid recommendation for keyword %s: %w", args[0], err)
			}
			return renderResponse(cmd, resp, bidColumns)
		},
	}
}

func newBidsBulkCmd() *cobra.Command {
	var (
		adGroupID string
		data      string
	)

	cmd := &cobra.Command{
		Use:     "bulk",
		Short:   "Suggested bids for keywords that may not exist yet",
		Example: `  ads bids bulk --adgroup 1234 --data '[{"keyword":"running shoes","matchType":"exact"}]'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}
			var keywords []client.KeywordQuery
			if err := json.Unmarshal(payload, &keywords); err != nil {
				return fmt.Errorf("`--data` must be an array of {keyword, matchType} objects: %w", err)
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.BulkGetKeywordBidRecommendations(cmd.Context(), adGroupID, keywords)
			if err != nil {
				return fmt.Errorf("getting bulk bid recommendations: %w", err)
			}
			return renderBulkBids(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&adGroupID, "adgroup", "", "Ad group ID (required)")
	cmd.Flags().StringVar(&data, "data", "", "JSON array of keywords, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("adgroup")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// renderBulkBids flattens the recommendations array of a bulk response into rows.
func renderBulkBids(cmd *cobra.Command, resp *client.Response) error {
	recs := resp.Get("recommendations")
	if jsonOutputRequested(cmd) || !recs.IsArray() {
		return renderResponse(cmd, resp, nil)
	}
	return renderResponse(cmd, &client.Response{StatusCode: resp.StatusCode, Body: []byte(recs.Raw)},
		[]string{"keyword", "matchType", "code", "suggestedBid"})
}
