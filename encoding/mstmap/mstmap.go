// Package mstmap reads genotype tables in MSTmap input format.  The file
// starts with a free-form preamble that ends at the header line beginning
// with "locus_name"; every following row names a marker and its genotype
// call for each individual:
//
//	locus_name	ind1	ind2	ind3
//	Scaffold_100.4012	A	B	-
//	Scaffold_100.9488	A	B	A
//
// Marker names encode the source scaffold and position, joined by the last
// '.' in the name.
package mstmap

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Marker is one genotyped position.  Pos keeps the textual form from the
// marker name so it can be re-emitted verbatim.
type Marker struct {
	ID        string
	Scaffold  string
	Pos       string
	Genotypes []string
}

const headerPrefix = "locus_name"

// Read loads all markers from an MSTmap stream, in input order.  Rows before
// the "locus_name" header are skipped.  All rows must carry the same number
// of genotype columns.
func Read(reader io.Reader) (markers []Marker, err error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, 16*1024*1024)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		if strings.HasPrefix(scanner.Text(), headerPrefix) {
			break
		}
	}
	nGeno := -1
	for scanner.Scan() {
		lineIdx++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		id := fields[0]
		dot := strings.LastIndexByte(id, '.')
		if dot < 0 {
			err = fmt.Errorf("mstmap.Read: marker %q on line %d lacks a scaffold.position name", id, lineIdx)
			return
		}
		if nGeno < 0 {
			nGeno = len(fields) - 1
		} else if len(fields)-1 != nGeno {
			err = fmt.Errorf("mstmap.Read: marker %q on line %d has %d genotypes, want %d",
				id, lineIdx, len(fields)-1, nGeno)
			return
		}
		markers = append(markers, Marker{
			ID:        id,
			Scaffold:  id[:dot],
			Pos:       id[dot+1:],
			Genotypes: fields[1:],
		})
	}
	err = scanner.Err()
	return
}

// ReadFromPath is a wrapper for Read that takes a path instead of an
// io.Reader.  Gzipped files are decompressed transparently.
func ReadFromPath(path string) (markers []Marker, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	if markers, err = Read(reader); err != nil {
		return
	}
	log.Printf("%s: %d marker(s) loaded", path, len(markers))
	return
}
