package fasta_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/grailbio/asmpatch/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

func TestReadSizes(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "scaffolds.fasta")
	assert.NoError(t, ioutil.WriteFile(path, []byte(fastaData), 0644))

	sizes, err := fasta.ReadSizes(path)
	assert.NoError(t, err)
	if got := sizes.SeqNames(); !reflect.DeepEqual(got, []string{"seq1", "seq2"}) {
		t.Errorf("SeqNames: got %v", got)
	}
	n, err := sizes.Len("seq1")
	assert.NoError(t, err)
	assert.EQ(t, n, 12)
	n, err = sizes.Len("seq2")
	assert.NoError(t, err)
	assert.EQ(t, n, 8)
	if _, err := sizes.Len("seq9"); err == nil {
		t.Errorf("Len(seq9): expected error")
	}
	want := map[string]int{"seq1": 12, "seq2": 8}
	if got := sizes.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Mapping: got %v, want %v", got, want)
	}

	// The scan leaves a .fai behind for later runs.
	if _, err := os.Stat(path + ".fai"); err != nil {
		t.Errorf("expected index at %s.fai: %v", path, err)
	}
}

func TestReadSizesPrefersIndex(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "scaffolds.fasta")
	assert.NoError(t, ioutil.WriteFile(path, []byte(fastaData), 0644))
	// A pre-existing index wins over a fresh scan.
	assert.NoError(t, ioutil.WriteFile(path+".fai", []byte("seq1\t999\t6\t5\t6\n"), 0644))

	sizes, err := fasta.ReadSizes(path)
	assert.NoError(t, err)
	n, err := sizes.Len("seq1")
	assert.NoError(t, err)
	assert.EQ(t, n, 999)
	if _, err := sizes.Len("seq2"); err == nil {
		t.Errorf("Len(seq2): expected error, index has no seq2")
	}
}

func TestReadSizesGzip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	_, err := gz.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	path := filepath.Join(tempDir, "scaffolds.fasta.gz")
	assert.NoError(t, ioutil.WriteFile(path, gzBuf.Bytes(), 0644))

	sizes, err := fasta.ReadSizes(path)
	assert.NoError(t, err)
	n, err := sizes.Len("seq2")
	assert.NoError(t, err)
	assert.EQ(t, n, 8)

	// Offsets would refer to the decompressed stream, so no .fai is left.
	if _, err := os.Stat(path + ".fai"); err == nil {
		t.Errorf("unexpected index next to compressed input")
	}
}
