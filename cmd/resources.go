package cmd

import (
	"context"
	"fmt"

	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
)

// resourceKind describes one Sponsored Products entity family served by a
// client.ResourceService.
type resourceKind struct {
	use     string
	noun    string
	apiPath string
	idField string
	columns []string
	service func(*client.Client) *client.ResourceService
	// remove is set for entities that are deleted outright instead of archived.
	remove func(*client.Client, context.Context, string) (*client.Response, error)
}

var resourceKinds = []resourceKind{
	{
		use:     "campaigns",
		noun:    "campaign",
		apiPath: "campaigns",
		idField: "campaignId",
		columns: []string{"campaignId", "name", "campaignType", "targetingType", "state", "dailyBudget", "startDate"},
		service: func(c *client.Client) *client.ResourceService { return c.Campaigns },
	},
	{
		use:     "adgroups",
		noun:    "ad group",
		apiPath: "adGroups",
		idField: "adGroupId",
		columns: []string{"adGroupId", "campaignId", "name", "defaultBid", "state"},
		service: func(c *client.Client) *client.ResourceService { return c.AdGroups },
	},
	{
		use:     "keywords",
		noun:    "biddable keyword",
		apiPath: "keywords",
		idField: "keywordId",
		columns: []string{"keywordId", "adGroupId", "campaignId", "keywordText", "matchType", "state", "bid"},
		service: func(c *client.Client) *client.ResourceService { return c.Keywords },
	},
	{
		use:     "negative-keywords",
		noun:    "negative keyword",
		apiPath: "negativeKeywords",
		idField: "keywordId",
		columns: []string{"keywordId", "adGroupId", "campaignId", "keywordText", "matchType", "state"},
		service: func(c *client.Client) *client.ResourceService { return c.NegativeKeywords },
	},
	{
		use:     "campaign-negative-keywords",
		noun:    "campaign negative keyword",
		apiPath: "campaignNegativeKeywords",
		idField: "keywordId",
		columns: []string{"keywordId", "campaignId", "keywordText", "matchType", "state"},
		service: func(c *client.Client) *client.ResourceService { return c.CampaignNegativeKeywords.ResourceService },
		remove: func(c *client.Client, ctx context.Context, id string) (*client.Response, error) {
			return c.CampaignNegativeKeywords.Remove(ctx, id)
		},
	},
	{
		use:     "product-ads",
		noun:    "product ad",
		apiPath: "productAds",
		idField: "adId",
		columns: []string{"adId", "adGroupId", "campaignId", "sku", "asin", "state"},
		service: func(c *client.Client) *client.ResourceService { return c.ProductAds },
	},
}

func init() {
	for _, k := range resourceKinds {
		rootCmd.AddCommand(newResourceCmd(k))
	}
}

func newResourceCmd(k resourceKind) *cobra.Command {
	resCmd := &cobra.Command{
		Use:   k.use,
		Short: fmt.Sprintf("Manage %ss", k.noun),
		Long: fmt.Sprintf(`List, inspect, create, update, and %s %ss.

All calls are scoped to the advertising profile given by --profile-id.`, deleteVerb(k), k.noun),
	}

	resCmd.AddCommand(newResourceListCmd(k))
	resCmd.AddCommand(newResourceGetCmd(k))
	resCmd.AddCommand(newResourceWriteCmd(k, "create"))
	resCmd.AddCommand(newResourceWriteCmd(k, "update"))
	resCmd.AddCommand(newResourceDeleteCmd(k))
	return resCmd
}

func deleteVerb(k resourceKind) string {
	if k.remove != nil {
		return "remove"
	}
	return "archive"
}

func extendedColumns(columns []string) []string {
	out := append([]string(nil), columns...)
	return append(out, "servingStatus", "creationDate", "lastUpdatedDate")
}

func newResourceListCmd(k resourceKind) *cobra.Command {
	var (
		extended bool
		filters  []string
		csvOut   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", k.noun),
		Example: fmt.Sprintf(`  # List %[1]ss
  ads %[2]s list

  # Only enabled ones, with serving status
  ads %[2]s list --extended --filter stateFilter=enabled

  # Page through results
  ads %[2]s list --filter startIndex=100 --filter count=100

  # IDs only
  ads %[2]s list --json --jq '.[].%[3]s'`, k.noun, k.use, k.idField),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			svc := k.service(c)
			columns := k.columns
			var resp *client.Response
			if extended {
				resp, err = svc.ListExtended(cmd.Context(), f)
				columns = extendedColumns(columns)
			} else {
				resp, err = svc.List(cmd.Context(), f)
			}
			if err != nil {
				return fmt.Errorf("listing %ss: %w", k.noun, err)
			}
			return renderResponse(cmd, resp, columns)
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", false, "Include serving status and timestamps")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Query filter key=value (repeatable), e.g. stateFilter=enabled")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Output CSV instead of a table")

	return cmd
}

func newResourceGetCmd(k resourceKind) *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("get <%s>", k.idField),
		Short: fmt.Sprintf("Get a %s by ID", k.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			svc := k.service(c)
			columns := k.columns
			var resp *client.Response
			if extended {
				resp, err = svc.GetExtended(cmd.Context(), args[0])
				columns = extendedColumns(columns)
			} else {
				resp, err = svc.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("getting %s %s: %w", k.noun, args[0], err)
			}
			return renderResponse(cmd, resp, columns)
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", false, "Include serving status and timestamps")

	return cmd
}

// newResourceWriteCmd builds create (POST) and update (PUT). Both take a JSON
// array of objects and return one result per element.
func newResourceWriteCmd(k resourceKind, verb string) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   verb,
		Short: fmt.Sprintf("%s %ss from a JSON array", capitalize(verb), k.noun),
		Example: fmt.Sprintf(`  ads %[1]s %[2]s --data @%[3]s.json
  cat %[3]s.json | ads %[1]s %[2]s --data -`, k.use, verb, k.apiPath),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			svc := k.service(c)
			var resp *client.Response
			if verb == "create" {
				resp, err = svc.Create(cmd.Context(), payload)
			} else {
				resp, err = svc.Update(cmd.Context(), payload)
			}
			if err != nil {
				return fmt.Errorf("%s %ss: %w", gerund(verb), k.noun, err)
			}
			return renderResponse(cmd, resp, []string{k.idField, "code", "description"})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON payload, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newResourceDeleteCmd(k resourceKind) *cobra.Command {
	verb := deleteVerb(k)

	return &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", verb, k.idField),
		Short: fmt.Sprintf("%s a %s", capitalize(verb), k.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			var resp *client.Response
			if k.remove != nil {
				resp, err = k.remove(c, cmd.Context(), args[0])
			} else {
				resp, err = k.service(c).Archive(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("%s %s %s: %w", gerund(verb), k.noun, args[0], err)
			}
			return renderResponse(cmd, resp, []string{k.idField, "code"})
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// gerund turns the verbs used here (create, update, archive, remove) into their -ing form.
func gerund(verb string) string {
	if len(verb) > 0 && verb[len(verb)-1] == 'e' {
		return verb[:len(verb)-1] + "ing"
	}
	return verb + "ing"
}
