// Package download fetches colorized results to local files.
package download

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gitlab.com/tozd/go/errors"
)

const partSuffix = ".part"

type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("image couldn't be retrieved from %s: status %d", e.URL, e.StatusCode)
}

type Downloader struct {
	http *resty.Client
}

// New bounds connecting and waiting for response headers by timeout.
// Reading the body is not bounded, so large results on slow links still finish.
func New(timeout time.Duration) *Downloader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	return &Downloader{http: resty.New().SetTransport(transport)}
}

// Download streams url into dest, replacing whatever is there.
// dest only appears once the whole body has been written.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	if strings.HasPrefix(url, "data:") {
		data, err := DecodeDataURL(url)
		if err != nil {
			return err
		}
		return writeFile(dest, bytes.NewReader(data))
	}

	resp, err := d.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return errors.Errorf("downloading %s: %w", url, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode(), URL: url}
	}

	return writeFile(dest, body)
}

func writeFile(dest string, r io.Reader) error {
	part := dest + partSuffix

	f, err := os.Create(part)
	if err != nil {
		return errors.Errorf("creating %s: %w", part, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(part)
		return errors.Errorf("writing %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(part)
		return errors.Errorf("closing %s: %w", part, err)
	}

	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return errors.Errorf("renaming %s: %w", part, err)
	}
	return nil
}

// EncodeDataURL builds a base64 data URL for inline image results.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the payload of a base64 data URL.
func DecodeDataURL(url string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.Errorf("unsupported data url encoding %q", meta)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Errorf("decoding data url: %w", err)
	}
	return data, nil
}
