// Package fetch downloads monthly TLC trip files from the public CDN.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"taxicli/internal/config"
	apperrors "taxicli/internal/errors"
)

// Client downloads monthly trip files, rate-limited so bulk backfills
// stay polite to the CDN.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a downloader from fetch configuration
func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

// DownloadMonth fetches one monthly file ("2006-01" form) into destDir
// and returns the downloaded path. An already-present file is kept and
// returned unless overwrite is set.
func (c *Client) DownloadMonth(ctx context.Context, month, destDir string, overwrite bool) (string, error) {
	fileName := config.TripFilePrefix + month + config.TripFileExt
	destPath := filepath.Join(destDir, fileName)

	if !overwrite {
		if _, err := os.Stat(destPath); err == nil {
			c.logger.InfoContext(ctx, "trip file already present, skipping",
				slog.String("month", month),
				slog.String("path", destPath))
			return destPath, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	url := c.baseURL + "/" + fileName
	c.logger.InfoContext(ctx, "downloading trip file",
		slog.String("month", month),
		slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewNetworkError(fmt.Sprintf("failed to fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("trip file for %s", month))
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewNetworkError(
			fmt.Sprintf("unexpected status %d fetching %s", resp.StatusCode, url), nil)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create %s", destDir), err)
	}

	// Download to a temp name first so a cut connection never leaves a
	// half-written monthly file behind.
	tmpPath := destPath + ".partial"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create %s", tmpPath), err)
	}

	written, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewNetworkError(fmt.Sprintf("failed to download %s", url), err)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to close %s", tmpPath), closeErr)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", destPath), err)
	}

	c.logger.InfoContext(ctx, "downloaded trip file",
		slog.String("path", destPath),
		slog.Int64("bytes", written))

	return destPath, nil
}

// DownloadMonths fetches a list of months sequentially, honoring the
// shared rate limit, and returns the downloaded paths in month order.
func (c *Client) DownloadMonths(ctx context.Context, months []string, destDir string, overwrite bool) ([]string, error) {
	paths := make([]string, 0, len(months))
	for _, month := range months {
		path, err := c.DownloadMonth(ctx, month, destDir, overwrite)
		if err != nil {
			return paths, fmt.Errorf("download %s: %w", month, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
