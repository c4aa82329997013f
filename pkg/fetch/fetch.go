// Package fetch loads analysis inputs from HTTP(S) URLs or local files.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/httputil"
	"github.com/screenlint/screenlint/pkg/observability"
)

const defaultTimeout = 30 * time.Second

// Client resolves input sources to their raw bytes.
type Client struct {
	http   *http.Client
	logger func(string, ...any)
}

// New builds a client. A nil httpClient gets a 30 second timeout and
// a nil logger discards messages.
func New(httpClient *http.Client, logger func(string, ...any)) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Client{http: httpClient, logger: logger}
}

// IsURL reports whether source names a remote resource rather than a
// local file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ImageName derives a base name for marked-image files from an image
// source, dropping directories, query strings and the extension.
func ImageName(source string) string {
	path := source
	if IsURL(source) {
		if u, err := url.Parse(source); err == nil {
			path = u.Path
		}
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Fetch returns the bytes behind source, an HTTP(S) URL or a local
// file path. Server errors are retried with backoff.
func (c *Client) Fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty source")
	}
	if IsURL(source) {
		return c.fetchURL(ctx, source)
	}
	return c.readFile(source)
}

func (c *Client) fetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse url %q", rawURL)
	}
	hooks := observability.HTTP()

	var body []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %q", rawURL)
		}
		hooks.OnRequest(ctx, http.MethodGet, parsed.Host, parsed.Path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			hooks.OnError(ctx, http.MethodGet, parsed.Host, parsed.Path, err)
			code := errors.ErrCodeNetwork
			if os.IsTimeout(err) {
				code = errors.ErrCodeTimeout
			}
			return &httputil.RetryableError{Err: errors.Wrap(code, err, "fetch %q", rawURL)}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, http.MethodGet, parsed.Host, parsed.Path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			c.logger("retrying %q after status %d", rawURL, resp.StatusCode)
			return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %q: status %d", rawURL, resp.StatusCode)}
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeNetwork, "fetch %q: status %d", rawURL, resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read response from %q", rawURL)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %q not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read file %q", path)
	}
	return data, nil
}
