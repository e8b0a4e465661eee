package release

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/oshokin/update-manifest-publisher/internal/config"
	"github.com/oshokin/update-manifest-publisher/internal/version"
)

// Asset is one file attached to a hosted release.
type Asset struct {
	// ID is the hosting platform's identifier of the asset.
	ID int64 `json:"id"`
	// Name is the asset filename after the platform's sanitization.
	Name string `json:"name"`
	// BrowserDownloadURL is the public download URL of the asset.
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Repository defines the release-hosting operations the publisher needs.
type Repository interface {
	ListAssets(ctx context.Context, releaseID int64) ([]Asset, error)
	DownloadAsset(ctx context.Context, assetID int64) ([]byte, error)
	DeleteAsset(ctx context.Context, assetID int64) error
	UploadAsset(ctx context.Context, releaseID int64, name string, contents []byte) (*Asset, error)
}

// Client talks to the GitHub Releases REST API for a single repository.
type Client struct {
	// httpClient performs all requests; its timeout comes from configuration.
	httpClient *http.Client
	// token is the API token supplied by the environment.
	token string
	// owner and repo identify the repository hosting the releases.
	owner string
	repo  string
	// apiBaseURL and uploadsBaseURL allow pointing at test servers or
	// GitHub Enterprise installations.
	apiBaseURL     string
	uploadsBaseURL string
	// userAgent identifies the publisher to the hosting platform.
	userAgent string
}

// errUnexpectedStatus is wrapped with the actual status and response body.
var errUnexpectedStatus = errors.New("unexpected http status")

// listAssetsPageSize keeps asset listing to a single request; releases of a
// desktop application do not carry more files than this.
const listAssetsPageSize = 100

// NewClient creates a GitHub client from validated settings and an API token.
func NewClient(cfg *config.Config, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		token:          token,
		owner:          cfg.RepositoryOwner,
		repo:           cfg.RepositoryName,
		apiBaseURL:     cfg.APIBaseURL,
		uploadsBaseURL: cfg.UploadsBaseURL,
		userAgent:      "manifest-publisher/" + version.Short(),
	}
}

// ListAssets returns the assets currently attached to the release.
func (c *Client) ListAssets(ctx context.Context, releaseID int64) ([]Asset, error) {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets?per_page=%d",
		c.apiBaseURL, c.owner, c.repo, releaseID, listAssetsPageSize)

	req, err := c.newRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	var assets []Asset
	if err = c.doJSON(req, http.StatusOK, &assets); err != nil {
		return nil, fmt.Errorf("list release assets: %w", err)
	}

	return assets, nil
}

// DownloadAsset fetches the raw contents of an asset. The octet-stream
// accept header makes the API return the bytes even for draft releases,
// whose browser URLs are not publicly resolvable yet.
func (c *Client) DownloadAsset(ctx context.Context, assetID int64) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/releases/assets/%d",
		c.apiBaseURL, c.owner, c.repo, assetID)

	req, err := c.newRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download asset: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset contents: %w", err)
	}

	return contents, nil
}

// DeleteAsset removes an asset from the release.
func (c *Client) DeleteAsset(ctx context.Context, assetID int64) error {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/releases/assets/%d",
		c.apiBaseURL, c.owner, c.repo, assetID)

	req, err := c.newRequest(ctx, http.MethodDelete, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}

	return nil
}

// UploadAsset attaches a new asset to the release under the provided name.
func (c *Client) UploadAsset(ctx context.Context, releaseID int64, name string, contents []byte) (*Asset, error) {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets?name=%s",
		c.uploadsBaseURL, c.owner, c.repo, releaseID, url.QueryEscape(name))

	req, err := c.newRequest(ctx, http.MethodPost, requestURL, bytes.NewReader(contents))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(contents))

	var asset Asset
	if err = c.doJSON(req, http.StatusCreated, &asset); err != nil {
		return nil, fmt.Errorf("upload asset %s: %w", name, err)
	}

	return &asset, nil
}

// newRequest builds a request with the authentication and identity headers
// common to all GitHub API calls.
func (c *Client) newRequest(ctx context.Context, method, requestURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

// doJSON executes the request, checks the expected status and decodes the
// JSON response into out.
func (c *Client) doJSON(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != wantStatus {
		return statusError(resp)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// statusError renders an unexpected response into an inspectable error.
func statusError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %d (unreadable response body)", errUnexpectedStatus, resp.StatusCode)
	}

	return fmt.Errorf("%w: %d: %s", errUnexpectedStatus, resp.StatusCode, string(body))
}
