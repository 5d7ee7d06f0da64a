package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/philipparndt/stlvol/pkg/snapshot"
)

// SnapshotClient uploads rendered frames
type SnapshotClient struct {
	url    string
	client *http.Client
	logger *log.Logger
}

// NewSnapshotClient creates a client for url. An empty url keeps every
// snapshot local.
func NewSnapshotClient(url string, timeout time.Duration, logger *log.Logger) *SnapshotClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SnapshotClient{url: url, client: newHTTPClient(timeout), logger: logger}
}

type snapshotRequest struct {
	Image string `json:"image"`
}

type snapshotResponse struct {
	URL string `json:"url"`
}

// Upload posts a data URL and returns the hosted URL
func (c *SnapshotClient) Upload(ctx context.Context, dataURL string) (string, error) {
	if c.url == "" {
		return "", ErrDisabled
	}
	var resp snapshotResponse
	if err := postJSON(ctx, c.client, c.url, snapshotRequest{Image: dataURL}, &resp); err != nil {
		return "", fmt.Errorf("snapshot upload: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("snapshot upload: empty url in response")
	}
	return resp.URL, nil
}

// Publish encodes img and uploads it. On any failure the local data URL
// is returned instead; there is no retry.
func (c *SnapshotClient) Publish(ctx context.Context, img image.Image) (string, error) {
	dataURL, err := snapshot.DataURL(img)
	if err != nil {
		return "", err
	}
	url, err := c.Upload(ctx, dataURL)
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			c.logger.Printf("%v; keeping local snapshot", err)
		}
		return dataURL, nil
	}
	return url, nil
}
