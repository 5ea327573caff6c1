package db

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestCheckMissing(t *testing.T) {
	_, err := Check(t.TempDir())
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("want ErrNotInstalled, got %v", err)
	}
}

func TestExtractFlattensAndFilters(t *testing.T) {
	dir := t.TempDir()
	data := tarball(t, map[string]string{
		"db/" + SketchName:   "sketch",
		"db/" + MetadataName: "meta",
		"db/README":          "ignored",
	})
	n, err := Extract(bytes.NewReader(data), dir)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	p, err := Check(dir)
	require.NoError(t, err)
	b, err := os.ReadFile(p.Sketch())
	require.NoError(t, err)
	assert.Equal(t, "sketch", string(b))
	_, err = os.Stat(filepath.Join(dir, "README"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownload(t *testing.T) {
	data := tarball(t, map[string]string{SketchName: "s", MetadataName: "m"})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "plsdb")
	d := Downloader{Client: srv.Client()}
	require.NoError(t, d.Download(context.Background(), dir, srv.URL, false))
	_, err := Check(dir)
	require.NoError(t, err)

	// installed: no second fetch unless forced
	require.NoError(t, d.Download(context.Background(), dir, srv.URL, false))
	assert.Equal(t, int32(1), hits.Load())
	require.NoError(t, d.Download(context.Background(), dir, srv.URL, true))
	assert.Equal(t, int32(2), hits.Load())
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	err := Downloader{}.Download(context.Background(), t.TempDir(), srv.URL, false)
	require.Error(t, err)
}
