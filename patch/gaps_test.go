package patch_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/asmpatch/encoding/bed"
	"github.com/grailbio/asmpatch/encoding/fasta"
	"github.com/grailbio/asmpatch/patch"
	"github.com/grailbio/testutil/assert"
)

func TestGapsFromFasta(t *testing.T) {
	f, err := fasta.Read(strings.NewReader(
		">chr1\nACGTNNNNNACGTnnACGT\n>chr2\nNNNNACGTACGTACGTNNNN\n>chr3\nACGTACGT\n"))
	assert.NoError(t, err)

	gaps, err := patch.GapsFromFasta(f, 4)
	assert.NoError(t, err)
	want := []bed.Entry{
		{Chrom: "chr1", Start: 4, End: 9, Name: "gap000001"},
		{Chrom: "chr2", Start: 0, End: 4, Name: "gap000002"},
		{Chrom: "chr2", Start: 16, End: 20, Name: "gap000003"},
	}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("GapsFromFasta: got %v, want %v", gaps, want)
	}

	// A lower threshold picks up the lowercase two-base run too.
	gaps, err = patch.GapsFromFasta(f, 2)
	assert.NoError(t, err)
	want = []bed.Entry{
		{Chrom: "chr1", Start: 4, End: 9, Name: "gap000001"},
		{Chrom: "chr1", Start: 13, End: 15, Name: "gap000002"},
		{Chrom: "chr2", Start: 0, End: 4, Name: "gap000003"},
		{Chrom: "chr2", Start: 16, End: 20, Name: "gap000004"},
	}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("GapsFromFasta: got %v, want %v", gaps, want)
	}
}
