// Package imagehost wraps the signed upload/destroy endpoints of the external
// image-hosting API.
package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

const defaultBaseURL = "https://api.cloudinary.com"

// ErrMissingCredentials indicates the client was constructed without a
// complete credential set. No network call is ever attempted in that state.
var ErrMissingCredentials = errors.New("image host credentials not configured")

// RemoteError carries the image host's own error payload verbatim.
type RemoteError struct {
	StatusCode int
	Details    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("image host returned status %d: %s", e.StatusCode, e.Details)
}

// Config options for the image host client
type Config struct {
	CloudName string
	APIKey    string
	APISecret string

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string

	// HTTPClient overrides the transport. Defaults to a client with a
	// 30-second timeout.
	HTTPClient *http.Client
}

// Client talks to the image host's upload and destroy endpoints.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

// New creates an image host client. Fails fast when credentials are missing.
func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    client,
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload posts a signed upload of a data-URL-encoded file. The remote error
// payload is surfaced verbatim on non-success status.
func (c *Client) Upload(ctx context.Context, file string, folder string) (*record.HostedImage, error) {
	form := url.Values{}
	form.Set("file", file)
	form.Set("api_key", c.apiKey)
	form.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	if folder != "" {
		form.Set("folder", folder)
	}

	body, err := c.post(ctx, fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName), form)
	if err != nil {
		return nil, err
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	return &record.HostedImage{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Delete posts a signed destroy request. A remote result of "not found" is
// treated as success, making delete idempotent.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", c.apiKey)
	form.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))

	body, err := c.post(ctx, fmt.Sprintf("%s/v1_1/%s/image/destroy", c.baseURL, c.cloudName), form)
	if err != nil {
		return err
	}

	var result destroyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode destroy response: %w", err)
	}

	if result.Result != "ok" && result.Result != "not found" {
		return &RemoteError{StatusCode: http.StatusOK, Details: result.Result}
	}

	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image host response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Details: remoteDetails(body)}
	}

	return body, nil
}

// remoteDetails pulls the host's error message out of its JSON envelope,
// falling back to the raw body.
func remoteDetails(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(body)
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// ExtractPublicID derives the image host's public ID from a hosted-image URL.
// Example: https://res.cloudinary.com/demo/image/upload/v123/folder/pic.jpg
// yields "folder/pic".
func ExtractPublicID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse hosted image url: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	uploadIndex := -1
	for i, part := range parts {
		if part == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 || uploadIndex == len(parts)-1 {
		return "", fmt.Errorf("no public id in url %q", rawURL)
	}

	rest := parts[uploadIndex+1:]
	if versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", fmt.Errorf("no public id in url %q", rawURL)
	}

	last := rest[len(rest)-1]
	if dot := strings.Index(last, "."); dot != -1 {
		rest[len(rest)-1] = last[:dot]
	}

	return strings.Join(rest, "/"), nil
}

// BuildURL constructs the public delivery URL for a public ID. Inverse of
// ExtractPublicID.
func BuildURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/v1/%s.jpg", cloudName, publicID)
}
