package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aviadshiber/adsapi/internal/output"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
)

// jobKind describes an asynchronous export: reports and snapshots share the
// request, status, then download flow.
type jobKind struct {
	use     string
	noun    string
	idField string
	example string
	request func(*client.Client, context.Context, string, any) (*client.Response, error)
	status  func(*client.Client, context.Context, string) (*client.Response, error)
	fetch   func(*client.Client, context.Context, string) (*client.Response, error)
}

var jobKinds = []jobKind{
	{
		use:     "reports",
		noun:    "report",
		idField: "reportId",
		example: `{"reportDate":"20240115","metrics":"impressions,clicks,cost"}`,
		request: (*client.Client).RequestReport,
		status:  (*client.Client).GetReportStatus,
		fetch:   (*client.Client).GetReport,
	},
	{
		use:     "snapshots",
		noun:    "snapshot",
		idField: "snapshotId",
		example: `{"stateFilter":"enabled,paused"}`,
		request: (*client.Client).RequestSnapshot,
		status:  (*client.Client).GetSnapshotStatus,
		fetch:   (*client.Client).GetSnapshot,
	},
}

func init() {
	for _, k := range jobKinds {
		rootCmd.AddCommand(newJobCmd(k))
	}
}

func newJobCmd(k jobKind) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   k.use,
		Short: fmt.Sprintf("Request and download %ss", k.noun),
		Long: fmt.Sprintf(`Request a %[1]s for a record type, check its status, and download it.

A %[1]s is generated asynchronously: request it, then run "ads %[2]s get <id>"
until it is ready. Downloads are printed as JSON Lines.`, k.noun, k.use),
	}

	jobCmd.AddCommand(newJobRequestCmd(k))
	jobCmd.AddCommand(newJobStatusCmd(k))
	jobCmd.AddCommand(newJobGetCmd(k))
	if k.use == "reports" {
		jobCmd.AddCommand(newDownloadCmd())
	}
	return jobCmd
}

func newJobRequestCmd(k jobKind) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "request <recordType>",
		Short:   fmt.Sprintf("Request a %s", k.noun),
		Example: fmt.Sprintf(`  ads %s request keywords --data '%s'`, k.use, k.example),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(data)
			if err != nil {
				return err
			}

			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := k.request(c, cmd.Context(), args[0], payload)
			if err != nil {
				return fmt.Errorf("requesting %s %s: %w", args[0], k.noun, err)
			}
			return renderResponse(cmd, resp, []string{k.idField, "recordType", "status", "statusDetails"})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON payload, @file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newJobStatusCmd(k jobKind) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("status <%s>", k.idField),
		Short: fmt.Sprintf("Show the status of a %s", k.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := k.status(c, cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting %s status: %w", k.noun, err)
			}
			return renderResponse(cmd, resp, []string{k.idField, "status", "statusDetails", "location", "fileSize"})
		},
	}
}

func newJobGetCmd(k jobKind) *cobra.Command {
	var (
		outFile string
		gunzip  bool
	)

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("get <%s>", k.idField),
		Short: fmt.Sprintf("Download a finished %s", k.noun),
		Example: fmt.Sprintf(`  # Print records as JSON Lines
  ads %[1]s get amzn1.clicksAPI.v1.p1.5C3B0F0E.0c2b

  # Save the raw download
  ads %[1]s get amzn1.clicksAPI.v1.p1.5C3B0F0E.0c2b --output %[2]s.json`, k.use, k.noun),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			var resp *client.Response
			if gunzip {
				resp, err = fetchGunzipped(cmd.Context(), c, k, args[0])
			} else {
				resp, err = k.fetch(c, cmd.Context(), args[0])
			}
			if errors.Is(err, client.ErrLocationNotReady) {
				return fmt.Errorf("%s %s is not ready yet (status %s); try again later",
					k.noun, args[0], resp.Get("status").String())
			}
			if err != nil {
				return fmt.Errorf("downloading %s %s: %w", k.noun, args[0], err)
			}
			return writeDownload(cmd, resp, outFile)
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the raw download to a file instead of stdout")
	cmd.Flags().BoolVar(&gunzip, "gunzip", false, "Download without the bearer token and decompress gzip content")

	return cmd
}

// fetchGunzipped is the status-then-download flow with decompression enabled.
func fetchGunzipped(ctx context.Context, c *client.Client, k jobKind, id string) (*client.Response, error) {
	status, err := k.status(c, ctx, id)
	if err != nil {
		return nil, err
	}
	location := status.Get("location").String()
	if location == "" {
		return status, client.ErrLocationNotReady
	}
	return c.Download(ctx, location, true)
}

func newDownloadCmd() *cobra.Command {
	var (
		outFile string
		gunzip  bool
	)

	cmd := &cobra.Command{
		Use:     "download <location>",
		Short:   "Download a report or snapshot from its location URL",
		Example: `  ads reports download https://advertising-api.amazon.com/v1/reports/amzn1.clicksAPI.v1.p1/download --gunzip`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newScopedClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.Download(cmd.Context(), args[0], gunzip)
			if err != nil {
				return fmt.Errorf("downloading %s: %w", args[0], err)
			}
			return writeDownload(cmd, resp, outFile)
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the raw download to a file instead of stdout")
	cmd.Flags().BoolVar(&gunzip, "gunzip", false, "Download without the bearer token and decompress gzip content")

	return cmd
}

// writeDownload saves the body to outFile, or prints JSON records as JSON Lines.
// Bodies that are not JSON are written unchanged.
func writeDownload(cmd *cobra.Command, resp *client.Response, outFile string) error {
	s := getIO()

	if outFile != "" {
		if err := os.WriteFile(outFile, resp.Body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outFile, err)
		}
		s.Warnf("Wrote %d bytes to %s", len(resp.Body), outFile)
		return nil
	}

	data, err := output.ParseJSON(resp.Body)
	if err != nil {
		_, err = s.Out.Write(resp.Body)
		return err
	}

	handled, err := handleJSONOutput(cmd, data)
	if handled || err != nil {
		return err
	}
	return output.PrintJSONL(s.Out, data)
}
