// Package fetch downloads release files. Download mechanisms are modeled as
// capabilities: callers probe an ordered list of Fetchers and bind to the
// first one available on the host.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/syncforge/forgeup/pkg/httpclient"
)

// Fetcher downloads a single URL to a local path.
type Fetcher interface {
	// Name identifies the mechanism in logs and errors.
	Name() string

	// Available reports whether this mechanism can run on the host.
	Available() bool

	// Fetch downloads url to destPath, overwriting any existing file.
	Fetch(ctx context.Context, url, destPath string) error
}

// Select returns the first available fetcher from the given list.
func Select(fetchers ...Fetcher) (Fetcher, error) {
	for _, f := range fetchers {
		if f.Available() {
			log.Debugf("using %s to download files", f.Name())
			return f, nil
		}
	}
	return nil, fmt.Errorf("no download mechanism available")
}

// Default returns the fetchers to probe, in preference order: the built-in
// HTTP client, then the curl command.
func Default() []Fetcher {
	return []Fetcher{
		&HTTPFetcher{Client: httpclient.New()},
		&ExecFetcher{Command: "curl", Args: []string{"-fsSL", "-o"}},
	}
}

// HTTPFetcher downloads over the built-in HTTP client.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Name() string { return "http" }

// Available always reports true; the HTTP client needs nothing from the host.
func (f *HTTPFetcher) Available() bool { return true }

// Fetch downloads url to destPath. Transient failures (network errors and
// 5xx responses) are retried; the file is written via a temporary name and
// renamed into place on success.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	maxRetries := 3
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}

		resp, err := f.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 500 {
				continue
			}
			// Client error, don't retry
			return lastErr
		}

		if _, err := tmpFile.Seek(0, 0); err != nil {
			resp.Body.Close()
			return errors.Wrap(err, "failed to seek to beginning of file")
		}
		if err := tmpFile.Truncate(0); err != nil {
			resp.Body.Close()
			return errors.Wrap(err, "failed to truncate file")
		}

		_, err = io.Copy(tmpFile, resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if err := tmpFile.Close(); err != nil {
			return errors.Wrap(err, "failed to close temporary file")
		}
		if err := os.Rename(tmpPath, destPath); err != nil {
			return errors.Wrap(err, "failed to move downloaded file")
		}
		return nil
	}

	return errors.Wrapf(lastErr, "download failed after %d attempts", maxRetries)
}

// ExecFetcher shells out to an external download command such as curl.
type ExecFetcher struct {
	// Command is the program name looked up on PATH.
	Command string

	// Args are passed before the destination path and URL.
	Args []string
}

func (f *ExecFetcher) Name() string { return f.Command }

// Available reports whether the command exists on PATH.
func (f *ExecFetcher) Available() bool {
	_, err := exec.LookPath(f.Command)
	return err == nil
}

// Fetch runs the command with the destination path and URL appended.
func (f *ExecFetcher) Fetch(ctx context.Context, url, destPath string) error {
	args := append(append([]string{}, f.Args...), destPath, url)
	cmd := exec.CommandContext(ctx, f.Command, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed to download %s", f.Command, url)
	}
	return nil
}
