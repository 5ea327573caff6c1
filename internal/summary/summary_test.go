package summary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plassembler/internal/depth"
	"plassembler/internal/mash"
	"plassembler/internal/seqfile"
)

func rows() []depth.Row {
	return []depth.Row{
		{Contig: "1", Length: 5000, Circular: true, CopyShort: 2.5, CopyLong: 1.75, HasShort: true, HasLong: true},
		{Contig: "chromosome_1", Length: 100000, Circular: true, CopyShort: 1, CopyLong: 1, HasShort: true, HasLong: true},
		{Contig: "2", Length: 3000, CopyShort: 0.4, CopyLong: 0.2, HasShort: true, HasLong: true},
		{Contig: "3", Length: 2000, CopyShort: 0.3, CopyLong: 1.2, HasShort: true, HasLong: true},
	}
}

func TestCombineOrdersAndJoins(t *testing.T) {
	top := map[string]mash.Hit{"1": {Contig: "1", Accession: "NZ_A.1", Distance: 0.01}}
	md := mash.Metadata{
		Header: []string{"NUCCORE_ACC", "NUCCORE_Description"},
		Rows:   map[string][]string{"NZ_A.1": {"NZ_A.1", "plasmid pA"}},
	}
	tab := Combine(rows(), top, md)
	require.Len(t, tab.Rows, 4)
	assert.Equal(t, "chromosome_1", tab.Rows[0].Contig)
	assert.Equal(t, "1", tab.Rows[1].Contig)
	assert.True(t, tab.Rows[1].PLSDBHit)
	assert.Equal(t, []string{"NZ_A.1", "plasmid pA"}, tab.Rows[1].Meta)
	assert.False(t, tab.Rows[2].PLSDBHit)
	assert.Nil(t, tab.Rows[2].Meta)
	assert.Len(t, tab.Plasmids(), 3)
	assert.True(t, tab.HasShort())
}

func TestIncompatibility(t *testing.T) {
	tab := Combine(rows(), map[string]mash.Hit{"1": {Contig: "1"}}, mash.Metadata{})
	sus := Incompatibility(tab)
	require.Len(t, sus, 1)
	assert.Equal(t, "2", sus[0].Contig)
}

func TestIncompatibilityLongOnly(t *testing.T) {
	rs := []depth.Row{
		{Contig: "chromosome_1", CopyLong: 1, HasLong: true},
		// short copy number is ignored when short reads were not used
		{Contig: "1", CopyLong: 0.5, CopyShort: 3, HasLong: true},
	}
	sus := Incompatibility(Combine(rs, nil, mash.Metadata{}))
	require.Len(t, sus, 1)
}

func TestHeader(t *testing.T) {
	r := Row{Row: depth.Row{Contig: "1", Length: 42, Circular: true, CopyShort: 2.345, CopyLong: 1, HasShort: true, HasLong: true}}
	assert.Equal(t, "len=42 plasmid_copy_number_short=2.35x plasmid_copy_number_long=1.00x circular=true", Header(r, false))
	assert.Equal(t, "len=42 plasmid_copy_number_long=1.00x circular=true", Header(r, true))
}

func TestFinaliseContigs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "assembly.fasta")
	require.NoError(t, os.WriteFile(src, []byte(">1 length=4 depth=1.2x circular=true\nACGT\n>9 keep me\nGG\n"), 0o644))
	tab := Combine([]depth.Row{{Contig: "1", Length: 4, Circular: true, CopyLong: 3, HasLong: true}}, nil, mash.Metadata{})

	out := filepath.Join(dir, "out.fasta")
	require.NoError(t, FinaliseContigs(src, out, tab, true))
	recs, err := seqfile.ReadFASTA(out)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "len=4 plasmid_copy_number_long=3.00x circular=true", recs[0].Desc)
	assert.Equal(t, "keep me", recs[1].Desc)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
}
