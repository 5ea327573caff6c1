package seqfile

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"
)

// CopyFASTQ writes an uncompressed copy of in (plain or gzipped) to out.
func CopyFASTQ(in, out string) (err error) {
	rc, err := Open(in)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rc.Close()) }()
	return writeFile(out, func(w io.Writer) error {
		_, err := io.Copy(w, rc)
		return err
	})
}

// CopyGzipped writes a gzipped copy of in to out, compressing plain input and
// copying gzipped input byte for byte.
func CopyGzipped(in, out string) (err error) {
	gz, err := IsGzip(in)
	if err != nil {
		return err
	}
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, src.Close()) }()
	return writeFile(out, func(w io.Writer) error {
		if gz {
			_, err := io.Copy(w, src)
			return err
		}
		zw := gzip.NewWriter(w)
		if _, err := io.Copy(zw, src); err != nil {
			return err
		}
		return zw.Close()
	})
}

// Concat writes the contents of srcs, in order, to dst. Missing sources are an error.
func Concat(dst string, srcs ...string) error {
	return writeFile(dst, func(w io.Writer) error {
		for _, s := range srcs {
			f, err := os.Open(s)
			if err != nil {
				return err
			}
			_, err = io.Copy(w, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Touch creates path as an empty file, truncating any existing content.
func Touch(path string) error {
	return writeFile(path, func(io.Writer) error { return nil })
}

func writeFile(path string, fill func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	bw := bufio.NewWriterSize(f, 1<<20)
	if err := fill(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteWith creates path and hands a buffered writer to fill.
func WriteWith(path string, fill func(io.Writer) error) error {
	return writeFile(path, fill)
}
