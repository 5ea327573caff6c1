package seqfile

import (
	"fmt"
	"os"
)

// ValidateFASTQ checks that path exists and looks like FASTQ. It reports
// whether the file is gzipped.
func ValidateFASTQ(path string) (bool, error) {
	if err := exists(path); err != nil {
		return false, err
	}
	gz, err := IsGzip(path)
	if err != nil {
		return false, err
	}
	b, err := firstByte(path)
	if err != nil {
		return gz, fmt.Errorf("%s: %w", path, err)
	}
	if b != '@' {
		return gz, fmt.Errorf("%s is not a FASTQ file", path)
	}
	return gz, nil
}

// ValidateFASTA checks that path exists and looks like FASTA.
func ValidateFASTA(path string) error {
	if err := exists(path); err != nil {
		return err
	}
	b, err := firstByte(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if b != '>' {
		return fmt.Errorf("%s is not a FASTA file", path)
	}
	return nil
}

func exists(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file %s does not exist", path)
		}
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("input %s is a directory", path)
	}
	return nil
}

// Flye read-type flags for PacBio inputs.
var pacbioModels = map[string]string{
	"pacbio-raw":  "--pacbio-raw",
	"pacbio-corr": "--pacbio-corr",
	"pacbio-hifi": "--pacbio-hifi",
}

// ValidatePacbioModel returns the Flye flag for model. The empty string means
// Nanopore input and is always valid.
func ValidatePacbioModel(model string) (string, error) {
	if model == "" {
		return "", nil
	}
	flag, ok := pacbioModels[model]
	if !ok {
		return "", fmt.Errorf("invalid --pacbio_model %q: must be one of pacbio-raw, pacbio-corr or pacbio-hifi", model)
	}
	return flag, nil
}
