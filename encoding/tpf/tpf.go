// Package tpf contains code for reading and writing tiling path files (TPF).
// A TPF names the ordered components making up an assembled object, one per
// line: "<component id>\t<object>\t<orientation>".  Gap lines carry a gap
// type in place of the component id and "na" in place of the orientation:
//
//	telomere	chr1	na
//	AC229737.8	chr1	+
package tpf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Gap types follow the AGP v2.0 component definitions.
var gapTypes = map[string]bool{
	"fragment":        true,
	"clone":           true,
	"contig":          true,
	"centromere":      true,
	"short_arm":       true,
	"heterochromatin": true,
	"telomere":        true,
	"repeat":          true,
}

// Line is one row of a tiling path: either a placed component or a gap.
type Line struct {
	ComponentID string
	Object      string
	Orientation string
}

// IsGap reports whether the line is a gap line.
func (l *Line) IsGap() bool {
	return gapTypes[l.ComponentID]
}

// IsCloneGap reports whether the line is a gap other than a fragment gap.
func (l *Line) IsCloneGap() bool {
	return l.IsGap() && l.ComponentID != "fragment"
}

// GapType returns the gap type for gap lines and "" otherwise.
func (l *Line) GapType() string {
	if l.IsGap() {
		return l.ComponentID
	}
	return ""
}

// File is a parsed tiling path, preserving line order.
type File struct {
	Lines []Line
}

// NorthSouth returns the lines adjacent to index i.  The north (previous) or
// south (next) pointer is nil where line i sits at the boundary of the file,
// meaning the component is at the end of its object.
func (f *File) NorthSouth(i int) (north, south *Line) {
	if i > 0 {
		north = &f.Lines[i-1]
	}
	if i+1 < len(f.Lines) {
		south = &f.Lines[i+1]
	}
	return north, south
}

// Read loads a tiling path from a stream, in input order.  Blank lines and
// lines starting with '#' are skipped.
func Read(reader io.Reader) (f *File, err error) {
	f = &File{}
	scanner := bufio.NewScanner(reader)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0][0] == '#' {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("tpf.Read: line %d has fewer than 2 fields", lineIdx)
		}
		line := Line{ComponentID: fields[0], Object: fields[1]}
		if len(fields) > 2 {
			line.Orientation = fields[2]
		}
		f.Lines = append(f.Lines, line)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFromPath is a wrapper for Read that takes a path instead of an
// io.Reader.  Gzipped files are decompressed transparently.
func ReadFromPath(path string) (f *File, err error) {
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
	if f, err = Read(reader); err != nil {
		return
	}
	log.Printf("%s: %d TPF line(s) loaded", path, len(f.Lines))
	return
}

// Writer writes tiling path lines.  Lines are buffered; call Flush when
// done.
type Writer struct {
	w *tsv.Writer
}

// NewWriter returns a Writer that emits TPF lines to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{w: tsv.NewWriter(out)}
}

// Append writes one line.  An empty orientation is written as "na".
func (w *Writer) Append(l Line) error {
	w.w.WriteString(l.ComponentID)
	w.w.WriteString(l.Object)
	if l.Orientation == "" {
		w.w.WriteString("na")
	} else {
		w.w.WriteString(l.Orientation)
	}
	return w.w.EndLine()
}

// Flush flushes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
