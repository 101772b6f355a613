package httpclient

import (
	"net/http"
	"os"
	"strings"
)

// New creates an HTTP client for release downloads. Requests to GitHub hosts
// carry the token from the GITHUB_TOKEN environment variable when set, which
// raises rate limits and allows private release assets.
func New() *http.Client {
	return &http.Client{
		Transport: &tokenTransport{
			Base: http.DefaultTransport,
		},
	}
}

// tokenTransport is a RoundTripper that injects GitHub authentication
type tokenTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface
func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req2 := req.Clone(req.Context())

	if isGitHubURL(req2.URL.Host) {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			req2.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.Base.RoundTrip(req2)
}

func isGitHubURL(host string) bool {
	return host == "github.com" || strings.HasSuffix(host, ".github.com") ||
		strings.HasSuffix(host, ".githubusercontent.com")
}
