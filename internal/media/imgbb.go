// Package media uploads menu images to an external image host. The server
// never stores image bytes itself; it forwards the upload and keeps only
// the returned URL on the menu item.
package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const uploadEndpoint = "https://api.imgbb.com/1/upload"

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("media uploads disabled: no API key configured")

// Uploader sends image bytes to the media host and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Client talks to the imgbb upload API.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload posts the image as a base64 form field and returns the hosted
// URL. The host owns retention and resizing; failures surface as opaque
// internal errors to the admin uploading the image.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrDisabled
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	endpoint := uploadEndpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media host request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media host returned %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("media host response: %w", err)
	}
	if !out.Success || out.Data.URL == "" {
		return "", fmt.Errorf("media host rejected upload (status %d)", out.Status)
	}
	return out.Data.URL, nil
}
