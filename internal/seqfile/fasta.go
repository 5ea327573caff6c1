package seqfile

import (
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/multierr"
)

// Record is one FASTA entry. Desc is the header text after the first space.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

func (r Record) Len() int { return len(r.Seq) }

// ReadFASTA loads every record in path (plain or gzipped).
func ReadFASTA(path string) (recs []Record, err error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, rc.Close()) }()
	return ParseFASTA(rc)
}

// ParseFASTA reads all records from r.
func ParseFASTA(r io.Reader) ([]Record, error) {
	fr := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))
	sc := seqio.NewScanner(fr)
	var recs []Record
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		recs = append(recs, Record{
			ID:   s.ID,
			Desc: s.Desc,
			Seq:  append([]byte(nil), alphabet.LettersToBytes(s.Seq)...),
		})
	}
	return recs, sc.Error()
}

// WriteFASTA writes recs to path with 60-column sequence lines.
func WriteFASTA(path string, recs []Record) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeFASTA(w, recs)
	})
}

// EncodeFASTA writes recs to w.
func EncodeFASTA(w io.Writer, recs []Record) error {
	fw := fasta.NewWriter(w, 60)
	for _, r := range recs {
		s := linear.NewSeq(r.ID, alphabet.BytesToLetters(r.Seq), alphabet.DNAredundant)
		s.Desc = r.Desc
		if _, err := fw.Write(s); err != nil {
			return err
		}
	}
	return nil
}
