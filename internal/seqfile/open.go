// internal/seqfile/open.go
package seqfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// IsGzip detects gzip by magic number (1F 8B), falling back to the .gz suffix
// for empty or unreadable headers.
func IsGzip(path string) (bool, error) {
	fh, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer fh.Close()
	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if n == 2 {
		return sig[0] == 0x1f && sig[1] == 0x8b, nil
	}
	return strings.HasSuffix(path, ".gz"), nil
}

// Open returns a reader over path, transparently decompressing gzip.
// "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	gz, err := IsGzip(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !gz {
		return fh, nil
	}
	gr, err := gzip.NewReader(bufio.NewReaderSize(fh, 1<<20))
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
}

var errEmpty = errors.New("file is empty")

// firstByte returns the first non-whitespace byte of the (decompressed) file.
func firstByte(path string) (byte, error) {
	rc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	br := bufio.NewReader(rc)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, errEmpty
		}
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, nil
	}
}
