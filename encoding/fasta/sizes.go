package fasta

import (
	"bytes"
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Sizes holds the length of every sequence in a FASTA file, in file order,
// without holding the sequences themselves.
type Sizes struct {
	lens     map[string]int
	seqNames []string
}

// ReadSizes returns the sequence sizes for the FASTA file at the given path.
// If a sibling index (path + ".fai") exists it is used directly; otherwise
// the FASTA is scanned, and for plain local files the resulting index is
// written back next to it so later runs can skip the scan.
func ReadSizes(path string) (*Sizes, error) {
	ctx := vcontext.Background()
	faiPath := path + ".fai"
	if in, err := file.Open(ctx, faiPath); err == nil {
		recs, err := readIndex(in.Reader(ctx))
		if cerr := in.Close(ctx); cerr != nil {
			log.Error.Printf("close %s: %v", faiPath, cerr)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read index %s", faiPath)
		}
		return newSizes(recs), nil
	}

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
	compressed := fileio.DetermineType(path) == fileio.Gzip
	if compressed {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decompress %s", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	var idx bytes.Buffer
	if err := GenerateIndex(&idx, r); err != nil {
		return nil, errors.Wrapf(err, "couldn't index %s", path)
	}
	recs, err := readIndex(bytes.NewReader(idx.Bytes()))
	if err != nil {
		return nil, err
	}
	// Byte offsets in the index refer to the decompressed stream, so only
	// plain files get a written-back .fai.
	if !compressed {
		if err := writeIndexFile(ctx, faiPath, idx.Bytes()); err != nil {
			log.Printf("write %s: %v", faiPath, err)
		}
	}
	return newSizes(recs), nil
}

func writeIndexFile(ctx context.Context, path string, data []byte) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	if _, err := out.Writer(ctx).Write(data); err != nil {
		_ = out.Close(ctx)
		return err
	}
	return out.Close(ctx)
}

func newSizes(recs []faiRecord) *Sizes {
	s := &Sizes{lens: make(map[string]int, len(recs))}
	for _, rec := range recs {
		if _, ok := s.lens[rec.name]; ok {
			continue
		}
		s.lens[rec.name] = int(rec.length)
		s.seqNames = append(s.seqNames, rec.name)
	}
	return s
}

// Len returns the length of the named sequence.
func (s *Sizes) Len(seqName string) (int, error) {
	n, ok := s.lens[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return n, nil
}

// SeqNames returns the names of all sequences, in the order of appearance in
// the FASTA file.
func (s *Sizes) SeqNames() []string {
	return s.seqNames
}

// Mapping returns the name to length mapping for all sequences.
func (s *Sizes) Mapping() map[string]int {
	return s.lens
}
