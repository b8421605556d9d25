// Package deepai talks to the DeepAI colorizer endpoint.
package deepai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"example/image-colorizer/internal/model"

	"github.com/go-resty/resty/v2"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultEndpoint = "https://api.deepai.org/api/colorizer"

	apiKeyHeader = "api-key"
	imageField   = "image"
)

var ErrNoOutputURL = errors.Base("response has no output_url")

// StatusError is returned when the endpoint answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("couldn't colorize photo: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		http:     resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// ColorizeFile uploads the local file at path and returns the result URL.
func (c *Client) ColorizeFile(ctx context.Context, path string) (string, error) {
	resp, err := c.request(ctx).SetFile(imageField, path).Post(c.endpoint)
	if err != nil {
		return "", errors.Errorf("uploading %s: %w", path, err)
	}
	return parseResponse(resp)
}

// ColorizeURL asks the endpoint to fetch the source image itself.
func (c *Client) ColorizeURL(ctx context.Context, url string) (string, error) {
	resp, err := c.request(ctx).
		SetFormData(map[string]string{imageField: url}).
		Post(c.endpoint)
	if err != nil {
		return "", errors.Errorf("submitting %s: %w", url, err)
	}
	return parseResponse(resp)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.apiKey)
}

func parseResponse(resp *resty.Response) (string, error) {
	if resp.StatusCode() != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var out model.ColorizeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Errorf("decoding colorize response: %w", err)
	}
	if out.OutputURL == "" {
		return "", errors.WithStack(ErrNoOutputURL)
	}
	return out.OutputURL, nil
}
