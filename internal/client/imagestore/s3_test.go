package imagestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   []byte
}

func newFakeS3(t *testing.T, status int) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: b})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "images/abc.jpg", ObjectKey("abc", "/tmp/Fern.JPG"))
	require.Equal(t, "images/abc", ObjectKey("abc", "/tmp/noext"))
}

func TestNewS3Uploader_RequiresEndpointAndBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), Options{Bucket: "b"})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewS3Uploader(context.Background(), Options{Endpoint: "http://x"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestUpload_PutsObjectPathStyle(t *testing.T) {
	srv, reqs := newFakeS3(t, http.StatusOK)

	u, err := NewS3Uploader(context.Background(), Options{
		Endpoint:  srv.URL,
		Bucket:    "plants",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	img := writeImage(t, "fern.png", []byte("png-bytes"))
	url, err := u.Upload(context.Background(), "act-1", img)
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/plants/images/act-1.png", url)

	got := reqs()
	require.Len(t, got, 1)
	require.Equal(t, http.MethodPut, got[0].method)
	require.Equal(t, "/plants/images/act-1.png", got[0].path)
	require.Equal(t, []byte("png-bytes"), got[0].body)
}

func TestUpload_ServerErrorIsReturned(t *testing.T) {
	srv, _ := newFakeS3(t, http.StatusForbidden)

	u, err := NewS3Uploader(context.Background(), Options{Endpoint: srv.URL, Bucket: "plants", PublicURL: "http://cdn/"})
	require.NoError(t, err)

	img := writeImage(t, "a.jpg", []byte("x"))
	_, err = u.Upload(context.Background(), "k", img)
	require.Error(t, err)
	require.Contains(t, err.Error(), "put object images/k.jpg")
}

func TestUpload_MissingFile(t *testing.T) {
	u := &S3Uploader{bucket: "b", publicURL: "http://x"}
	_, err := u.Upload(context.Background(), "k", filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "open image")
}
