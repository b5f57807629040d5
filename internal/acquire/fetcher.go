// Package acquire fetches trending lists from the supported platforms
// and persists them as daily snapshots.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

// Fetcher retrieves one platform's current trending list.
type Fetcher interface {
	// Name is the stable platform id used in snapshot keys and the
	// archive.
	Name() string

	// Fetch returns the current list in rank order. Implementations
	// skip entries they cannot parse instead of failing the batch.
	Fetch(ctx context.Context) ([]domain.Item, error)
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/86.0.4240.183 Safari/537.36"

const (
	fetchRetries = 2
	fetchBackoff = 200 * time.Millisecond
)

// client wraps the shared http client with the headers the platforms
// expect from a browser.
type client struct {
	http *http.Client
}

func newClient(timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}}
}

// get fetches one URL, retrying network errors and server-side
// failures with exponential backoff. Client errors fail immediately.
func (c *client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	backoff := retry.WithMaxRetries(fetchRetries, retry.NewExponential(fetchBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "zh-CN,zh-Hans;q=0.9")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("get %s: %w", url, err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				return retry.RetryableError(err)
			}

			return err
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read %s: %w", url, err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}
