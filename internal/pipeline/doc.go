// Package pipeline drives the three assembly modes (run, long, assembled)
// from filtered reads to the final plasmid FASTA and summary.
//
// External binaries are reached only through tool.Runner, so every mode can
// be exercised with a scripted runner.
package pipeline
