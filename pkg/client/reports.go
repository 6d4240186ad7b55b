package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// RequestSnapshot starts a snapshot job for recordType (e.g. "campaigns").
// The reply carries the snapshotId to pass to GetSnapshot.
func (c *Client) RequestSnapshot(ctx context.Context, recordType string, payload any) (*Response, error) {
	return c.do(ctx, request{
		method:        http.MethodPost,
		path:          "{recordType}/snapshot",
		rawPathParams: map[string]string{"recordType": recordType},
		body:          payload,
	})
}

// GetSnapshotStatus fetches the job status without downloading.
func (c *Client) GetSnapshotStatus(ctx context.Context, snapshotID string) (*Response, error) {
	return c.jobStatus(ctx, "snapshots/{id}", snapshotID)
}

// GetSnapshot fetches the snapshot status and downloads it from the returned
// location. Until the job is done it returns the status response and
// ErrLocationNotReady.
func (c *Client) GetSnapshot(ctx context.Context, snapshotID string) (*Response, error) {
	return c.fetchJob(ctx, "snapshots/{id}", snapshotID)
}

// RequestReport starts a report job for recordType (e.g. "keywords").
// The payload usually holds reportDate and metrics.
func (c *Client) RequestReport(ctx context.Context, recordType string, payload any) (*Response, error) {
	return c.do(ctx, request{
		method:        http.MethodPost,
		path:          "{recordType}/report",
		rawPathParams: map[string]string{"recordType": recordType},
		body:          payload,
	})
}

// GetReportStatus fetches the job status without downloading.
func (c *Client) GetReportStatus(ctx context.Context, reportID string) (*Response, error) {
	return c.jobStatus(ctx, "reports/{id}", reportID)
}

// GetReport fetches the report status and downloads it from the returned location.
// Until the job is done it returns the status response and ErrLocationNotReady.
func (c *Client) GetReport(ctx context.Context, reportID string) (*Response, error) {
	return c.fetchJob(ctx, "reports/{id}", reportID)
}

func (c *Client) jobStatus(ctx context.Context, path, id string) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       path,
		pathParams: map[string]string{"id": id},
	})
}

// fetchJob is a single status fetch followed by a single download. There is no
// polling.
func (c *Client) fetchJob(ctx context.Context, path, id string) (*Response, error) {
	status, err := c.jobStatus(ctx, path, id)
	if err != nil {
		return nil, err
	}

	location := status.Get("location").String()
	if location == "" {
		return status, fmt.Errorf("job %s (status %q): %w", id, status.Get("status").String(), ErrLocationNotReady)
	}

	return c.Download(ctx, location, false)
}

// Download fetches location, which may be absolute or relative to the base URL.
// The profile scope header is sent when set. With gunzip the Authorization header
// is left off, since signed download URLs carry their own credentials, and a
// gzip-compressed body is decompressed.
func (c *Client) Download(ctx context.Context, location string, gunzip bool) (*Response, error) {
	resp, err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "{location}",
		rawPathParams: map[string]string{"location": location},
		noAuth:        gunzip,
	})
	if err != nil {
		return nil, err
	}

	if gunzip && bytes.HasPrefix(resp.Body, gzipMagic) {
		body, err := gunzipBytes(resp.Body)
		if err != nil {
			return nil, &TransportError{Method: http.MethodGet, URL: location, Err: err}
		}
		resp.Body = body
	}
	return resp, nil
}

func gunzipBytes(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing download: %w", err)
	}
	return out, nil
}
