package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestDownload(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 'c', 'o', 'l', 'o', 'r'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/out.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := New(5 * time.Second)

	t.Run("writes_body", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "photo.jpg")

		require.NoError(t, d.Download(context.Background(), srv.URL+"/out.png", dest))

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.NoFileExists(t, dest+partSuffix)
	})

	t.Run("overwrites_existing", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "photo.jpg")
		require.NoError(t, os.WriteFile(dest, []byte("stale content that is longer"), 0o644))

		require.NoError(t, d.Download(context.Background(), srv.URL+"/out.png", dest))

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("not_found", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "photo.jpg")

		err := d.Download(context.Background(), srv.URL+"/missing.png", dest)
		require.Error(t, err)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.NoFileExists(t, dest)
		assert.NoFileExists(t, dest+partSuffix)
	})

	t.Run("missing_directory", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "gone", "photo.jpg")

		err := d.Download(context.Background(), srv.URL+"/out.png", dest)
		require.Error(t, err)
		assert.NoFileExists(t, dest)
	})
}

func TestDownloadDataURL(t *testing.T) {
	d := New(time.Second)
	dest := filepath.Join(t.TempDir(), "inline.jpg")

	url := EncodeDataURL("image/png", []byte("inline bytes"))
	require.NoError(t, d.Download(context.Background(), url, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline bytes"), got)
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    []byte
		wantErr bool
	}{
		{name: "valid", url: "data:image/png;base64,aGVsbG8=", want: []byte("hello")},
		{name: "no_comma", url: "data:image/png;base64", wantErr: true},
		{name: "not_base64", url: "data:text/plain,hello", wantErr: true},
		{name: "bad_payload", url: "data:image/png;base64,!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDownloadSlowBodyOutlivesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !assert.True(t, ok) {
			return
		}
		for i := 0; i < 4; i++ {
			_, _ = w.Write([]byte("chunk"))
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "slow.jpg")
	require.NoError(t, New(150*time.Millisecond).Download(context.Background(), srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "chunkchunkchunkchunk", string(got))
}

func TestDownloadHeaderTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(release)

	dest := filepath.Join(t.TempDir(), "stuck.jpg")
	err := New(100*time.Millisecond).Download(context.Background(), srv.URL, dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}
