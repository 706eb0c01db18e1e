// Package netx holds small HTTP transfer helpers that sit outside the API
// client, such as fetching attachment files from their download URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxDownloadSize caps the body accepted by Download.
const MaxDownloadSize = 64 << 20

// Download GETs url with the given bearer token (if any) and returns the body.
// Any status other than 200 is an error.
func Download(ctx context.Context, c *http.Client, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDownloadSize {
		return nil, fmt.Errorf("download exceeds %d bytes", MaxDownloadSize)
	}
	return data, nil
}
