package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Download streams the content of a file item to the given writer and
// returns the number of bytes written.
//
// Items that came from ListChildren carry a pre-authenticated download URL;
// content is streamed directly from it, bypassing the Graph API and its
// bearer token. Items without one (rare; some search resources omit it)
// fall back to the /content endpoint, which redirects to the same
// pre-authenticated storage URL.
func (c *Client) Download(ctx context.Context, item Item, w io.Writer) (int64, error) {
	c.logger.Info("downloading item",
		slog.String("drive_id", item.DriveID),
		slog.String("item_id", item.ID),
		slog.String("name", item.Name),
	)

	var (
		resp *http.Response
		err  error
	)

	if item.DownloadURL != "" {
		resp, err = c.downloadPreAuth(ctx, item.DownloadURL)
	} else {
		resp, err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/drives/%s/items/%s/content", item.DriveID, item.ID), nil)
	}

	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, copyErr := io.Copy(w, resp.Body)
	if copyErr != nil {
		c.logger.Error("streaming download content failed",
			slog.String("item_id", item.ID),
			slog.String("error", copyErr.Error()),
			slog.Int64("bytes_before_error", n),
		)

		return n, fmt.Errorf("graph: streaming download content: %w", copyErr)
	}

	c.logger.Debug("download complete",
		slog.String("item_id", item.ID),
		slog.Int64("bytes_written", n),
	)

	return n, nil
}

// downloadPreAuth fetches a pre-authenticated URL. No Authorization header —
// the URL embeds its own auth token, which is also why it is never logged.
// Retried through the same backoff schedule as API requests.
func (c *Client) downloadPreAuth(ctx context.Context, downloadURL string) (*http.Response, error) {
	var attempt int
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("graph: creating download request: %w", err)
		}

		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("graph: download canceled: %w", ctx.Err())
			}

			if attempt < maxRetries {
				if sleepErr := c.sleepFunc(ctx, c.calcBackoff(attempt)); sleepErr != nil {
					return nil, fmt.Errorf("graph: download canceled: %w", sleepErr)
				}

				attempt++

				continue
			}

			return nil, fmt.Errorf("graph: download failed after %d retries: %w", maxRetries, err)
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return resp, nil
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			body = []byte("(failed to read response body)")
		}

		if isRetryable(resp.StatusCode) && attempt < maxRetries {
			c.logger.Warn("retrying download after HTTP error",
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
			)

			if err := c.sleepFunc(ctx, c.retryBackoff(resp, attempt)); err != nil {
				return nil, fmt.Errorf("graph: download canceled: %w", err)
			}

			attempt++

			continue
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Err:        classifyStatus(resp.StatusCode),
		}
	}
}
