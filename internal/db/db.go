// Package db checks for and installs the PLSDB mash database.
package db

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	SketchName   = "plsdb_2023_11_03_v2.msh"
	MetadataName = "plsdb_2023_11_03_v2.tsv"
	DefaultURL   = "https://zenodo.org/record/10158040/files/201123_plassembler_v1.5.0_databases.tar.gz"
)

var ErrNotInstalled = errors.New("PLSDB database is not installed")

// Paths of the database files inside a database directory.
type Paths struct{ Dir string }

func (p Paths) Sketch() string   { return filepath.Join(p.Dir, SketchName) }
func (p Paths) Metadata() string { return filepath.Join(p.Dir, MetadataName) }

// Check reports ErrNotInstalled unless both database files exist in dir.
func Check(dir string) (Paths, error) {
	p := Paths{Dir: dir}
	for _, f := range []string{p.Sketch(), p.Metadata()} {
		fi, err := os.Stat(f)
		if err != nil || fi.IsDir() {
			return p, fmt.Errorf("%w: %s missing; run 'plassembler download -d %s'", ErrNotInstalled, filepath.Base(f), dir)
		}
	}
	return p, nil
}

// Downloader fetches and unpacks the database tarball.
type Downloader struct {
	Client *http.Client
	Logger *zap.Logger
}

// Download installs the database into dir. An installed database is left
// alone unless force is set.
func (d Downloader) Download(ctx context.Context, dir, url string, force bool) error {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := Check(dir); err == nil && !force {
		log.Info("PLSDB database already installed", zap.String("dir", dir))
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultURL
	}

	log.Info("Downloading PLSDB database", zap.String("url", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download database: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download database: %s", resp.Status)
	}

	n, err := Extract(resp.Body, dir)
	if err != nil {
		return err
	}
	log.Info("Extracted PLSDB database", zap.String("size", humanize.Bytes(uint64(n))))
	_, err = Check(dir)
	return err
}

// Extract unpacks the .msh and .tsv members of a gzipped tarball into dir,
// flattening any directory prefix. It returns the number of bytes written.
func Extract(r io.Reader, dir string) (int64, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("database archive: %w", err)
	}
	defer zr.Close()
	tr := tar.NewReader(zr)
	var total int64
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("database archive: %w", err)
		}
		if h.Typeflag != tar.TypeReg {
			continue
		}
		name := filepath.Base(h.Name)
		if strings.HasPrefix(name, ".") || !(strings.HasSuffix(name, ".msh") || strings.HasSuffix(name, ".tsv")) {
			continue
		}
		n, err := writeMember(filepath.Join(dir, name), tr)
		total += n
		if err != nil {
			return total, err
		}
	}
}

func writeMember(path string, r io.Reader) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return io.Copy(f, r)
}
