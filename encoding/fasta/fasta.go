// Package fasta contains code for reading FASTA files and their "samtools
// faidx" style indexes.  Briefly, FASTA files consist of a number of named
// sequences whose bases may be interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appearing after a space is ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const scanBufSize = 1024 * 1024 * 64

// Fasta holds a set of named sequences read fully into memory.
type Fasta struct {
	seqs     map[string]string
	seqNames []string
}

// Read parses all FASTA data from the given reader.
func Read(r io.Reader) (*Fasta, error) {
	f := &Fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, scanBufSize)
	var seqName string
	var seq strings.Builder
	seen := false
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if seen {
				f.seqs[seqName] = seq.String()
				f.seqNames = append(f.seqNames, seqName)
				seq.Reset()
			}
			seqName = strings.Split(line[1:], " ")[0]
			seen = true
		} else {
			if !seen {
				return nil, errors.New("malformed FASTA file: sequence data before any header")
			}
			seq.WriteString(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if !seen {
		return nil, errors.New("empty FASTA file")
	}
	f.seqs[seqName] = seq.String()
	f.seqNames = append(f.seqNames, seqName)
	return f, nil
}

// ReadFromPath parses the FASTA file at the given path, transparently
// decompressing gzipped input.
func ReadFromPath(path string) (*Fasta, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open %s", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil {
			log.Error.Printf("close %s: %v", path, cerr)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decompress %s", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	return Read(r)
}

// Get returns a substring of the named sequence at the given coordinates,
// which are treated as a 0-based half-open interval [start, end).
func (f *Fasta) Get(seqName string, start, end int) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if end < start {
		return "", errors.Errorf("start must not exceed end: %d - %d", start, end)
	}
	if start < 0 || end > len(s) {
		return "", errors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len returns the length of the named sequence.
func (f *Fasta) Len(seqName string) (int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return len(s), nil
}

// SeqNames returns the names of all sequences, in the order of appearance in
// the FASTA file.
func (f *Fasta) SeqNames() []string {
	return f.seqNames
}
